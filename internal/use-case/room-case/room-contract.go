package room_service

import (
	"context"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/room_dto"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
)

type RoomServiceContract interface {
	Create(ctx context.Context, req room_dto.CreateRoomRequest, uid string) (*room_dto.RoomResponse, *app_error.AppError)
	Join(ctx context.Context, req room_dto.JoinRoomRequest, uid string) (*room_dto.RoomResponse, *app_error.AppError)
	List(ctx context.Context, uid string) (*room_dto.ListRoomsResponse, *app_error.AppError)
	Get(ctx context.Context, code, uid string) (*room_dto.RoomResponse, *app_error.AppError)
}
