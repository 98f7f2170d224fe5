package user_service

import (
	"context"

	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/user_dto"
)

type UserServiceContract interface {
	Register(ctx context.Context, req user_dto.RegisterRequest) (*user_dto.AuthResponse, *app_error.AppError)
	Login(ctx context.Context, req user_dto.LoginRequest) (*user_dto.AuthResponse, *app_error.AppError)
	Guest(ctx context.Context, req user_dto.GuestRequest) (*user_dto.AuthResponse, *app_error.AppError)
	Session(ctx context.Context, uid, username string, isGuest bool) (*user_dto.IdentityResponse, *app_error.AppError)
	UpdateDisplayName(ctx context.Context, uid string, req user_dto.UpdateDisplayNameRequest) *app_error.AppError
	UpdateTheme(ctx context.Context, uid string, req user_dto.UpdateThemeRequest) *app_error.AppError
}
