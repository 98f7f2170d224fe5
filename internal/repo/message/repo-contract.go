package message_repo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
)

type MessageRepoContract interface {
	InsertMessage(ctx context.Context, msg *entity.Message) (bson.ObjectID, *app_error.AppError)
	Latest(ctx context.Context, roomCode string, limit int) ([]*entity.Message, *app_error.AppError)
	Before(ctx context.Context, roomCode string, beforeID string, limit int) ([]*entity.Message, *app_error.AppError)
}
