package user_dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// GuestRequest signs in anonymously; the username is claimed like any other.
type GuestRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
}

type UpdateDisplayNameRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=50"`
}

type UpdateThemeRequest struct {
	Theme string `json:"theme" validate:"required,themeval"`
}

func ThemeValidator(fl validator.FieldLevel) bool {
	return entity.ValidTheme(fl.Field().String())
}
