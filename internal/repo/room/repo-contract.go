package room_repo

import (
	"context"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
)

type RoomRepoContract interface {
	CodeExists(ctx context.Context, code string) (bool, *app_error.AppError)
	CreateRoom(ctx context.Context, room entity.Room) *app_error.AppError
	JoinRoom(ctx context.Context, code, uid string) (*entity.Room, *app_error.AppError)
	FindRoomByCode(ctx context.Context, code string) (*entity.Room, *app_error.AppError)
	ListByMember(ctx context.Context, uid string, limit int) ([]*entity.Room, *app_error.AppError)
	MemberIDs(ctx context.Context, code string) ([]string, *app_error.AppError)
	IsMember(ctx context.Context, code, uid string) (bool, *app_error.AppError)
}
