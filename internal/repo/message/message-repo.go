package message_repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/state"
)

type MessageRepo struct {
	AppState *state.AppState
}

func NewMessageRepo(appState *state.AppState) MessageRepoContract {
	return &MessageRepo{
		AppState: appState,
	}
}

func (r *MessageRepo) collection() *mongo.Collection {
	return r.AppState.MessageDB().Collection("messages")
}

// InsertMessage appends to the room's log. The payload shape is enforced
// here, at the store boundary, not trusted from callers.
func (r *MessageRepo) InsertMessage(ctx context.Context, msg *entity.Message) (bson.ObjectID, *app_error.AppError) {
	if !msg.CheckPayload() {
		return bson.NilObjectID, app_error.Validation("message must carry exactly one of text or file url", "message")
	}

	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	if _, err := r.collection().InsertOne(ctx, msg); err != nil {
		return bson.NilObjectID, app_error.Internal(fmt.Sprintf("failed to create message: %v", err), "mongo")
	}
	return msg.ID, nil
}

// Latest returns the newest messages in ascending display order.
func (r *MessageRepo) Latest(ctx context.Context, roomCode string, limit int) ([]*entity.Message, *app_error.AppError) {
	return r.find(ctx, bson.M{"roomCode": roomCode}, limit)
}

// Before pages backwards from a cursor, for loading older history.
func (r *MessageRepo) Before(ctx context.Context, roomCode string, beforeID string, limit int) ([]*entity.Message, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(beforeID)
	if err != nil {
		return nil, app_error.Validation(fmt.Sprintf("error when trying to parse before_id: %v", err), "before-id")
	}

	filter := bson.M{
		"roomCode": roomCode,
		"_id":      bson.M{"$lt": objID},
	}
	return r.find(ctx, filter, limit)
}

func (r *MessageRepo) find(ctx context.Context, filter bson.M, limit int) ([]*entity.Message, *app_error.AppError) {
	// sort by _id desc to get the newest window, reversed below for display
	cur, err := r.collection().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, app_error.Internal(fmt.Sprintf("failed to fetch messages: %v", err), "mongo")
	}

	defer cur.Close(ctx)

	var messages []*entity.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, app_error.Internal(fmt.Sprintf("failed to decode messages: %v", err), "mongo")
	}

	// reverse messages to be in ascending order (oldest to newest)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
