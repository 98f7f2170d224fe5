package room_dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

type CreateRoomRequest struct {
	Name string `json:"name" validate:"required,min=1,max=20"`
}

type JoinRoomRequest struct {
	Code string `json:"code" validate:"required,roomcode"`
}

var codeRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func RoomCodeValidator(fl validator.FieldLevel) bool {
	return codeRegex.MatchString(fl.Field().String())
}
