package chat_service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/queue"
	message_repo "github.com/Matches1st/Cord-Disc-Chat/internal/repo/message"
	room_repo "github.com/Matches1st/Cord-Disc-Chat/internal/repo/room"
	"github.com/Matches1st/Cord-Disc-Chat/internal/storage"
	"github.com/Matches1st/Cord-Disc-Chat/state"
)

// FeedWindow is how many messages a fresh subscription sees.
const FeedWindow = 40

type ChatService struct {
	AppState    *state.AppState
	MessageRepo message_repo.MessageRepoContract
	RoomRepo    room_repo.RoomRepoContract
	Store       *storage.Store
	Producer    queue.Producer
}

func NewChatService(appState *state.AppState, store *storage.Store) ChatServiceContract {
	return &ChatService{
		AppState:    appState,
		MessageRepo: message_repo.NewMessageRepo(appState),
		RoomRepo:    room_repo.NewRoomRepo(appState),
		Store:       store,
		Producer:    queue.NewProducer(appState.Redis),
	}
}

// Send validates, appends the durable message and hands the broadcast to
// the queue. The sender's own optimistic copy lives client-side; the
// event delivered back is the durable one it reconciles against.
func (c *ChatService) Send(ctx context.Context, req chat_dto.SendMessageRequest, roomCode, uid, username string) (*chat_dto.MessageResponse, *app_error.AppError) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, app_error.Validation("message text is empty", "text")
	}

	if err := c.requireMember(ctx, roomCode, uid); err != nil {
		return nil, err
	}

	msg := &entity.Message{
		RoomCode:  roomCode,
		UID:       uid,
		Username:  username,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if _, err := c.MessageRepo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	resp := chat_dto.FromMessage(msg)
	c.enqueueBroadcast(resp)
	return &resp, nil
}

// SendFile streams the upload into object storage first; only a fully
// stored object produces a message record. A failed upload surfaces as
// UploadError and appends nothing (the orphaned object, if any, is
// accepted).
func (c *ChatService) SendFile(ctx context.Context, roomCode, uid, username, filename string, size int64, src io.Reader, onProgress storage.ProgressFunc) (*chat_dto.SendFileResponse, *app_error.AppError) {
	if err := c.requireMember(ctx, roomCode, uid); err != nil {
		return nil, err
	}

	_, url, err := c.Store.Upload(ctx, filename, size, src, onProgress)
	if err != nil {
		return nil, err
	}

	msg := &entity.Message{
		RoomCode:  roomCode,
		UID:       uid,
		Username:  username,
		FileURL:   url,
		CreatedAt: time.Now(),
	}

	if _, err := c.MessageRepo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	resp := chat_dto.FromMessage(msg)
	c.enqueueBroadcast(resp)
	return &chat_dto.SendFileResponse{Message: resp, FileURL: url}, nil
}

// History pages the room's log: the newest window by default, or older
// messages behind the before_id cursor.
func (c *ChatService) History(ctx context.Context, req chat_dto.HistoryRequest, roomCode, uid string) (*chat_dto.HistoryResponse, *app_error.AppError) {
	if err := c.requireMember(ctx, roomCode, uid); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = FeedWindow
	}

	var messages []*entity.Message
	var err *app_error.AppError
	if req.BeforeID != nil {
		messages, err = c.MessageRepo.Before(ctx, roomCode, *req.BeforeID, limit)
	} else {
		messages, err = c.MessageRepo.Latest(ctx, roomCode, limit)
	}
	if err != nil {
		return nil, err
	}

	var nextCursor *string
	if len(messages) > 0 {
		oldest := messages[0].ID.Hex()
		nextCursor = &oldest
	}

	return &chat_dto.HistoryResponse{
		Messages:   chat_dto.FromMessages(messages),
		NextCursor: nextCursor,
		HasMore:    len(messages) == limit,
	}, nil
}

// Snapshot is the initial delivery for a fresh subscription.
func (c *ChatService) Snapshot(ctx context.Context, roomCode string) ([]chat_dto.MessageResponse, *app_error.AppError) {
	messages, err := c.MessageRepo.Latest(ctx, roomCode, FeedWindow)
	if err != nil {
		return nil, err
	}
	return chat_dto.FromMessages(messages), nil
}

func (c *ChatService) requireMember(ctx context.Context, roomCode, uid string) *app_error.AppError {
	isMember, err := c.RoomRepo.IsMember(ctx, roomCode, uid)
	if err != nil {
		return err
	}
	if !isMember {
		return app_error.NotFound("room not found", "room-code")
	}
	return nil
}

func (c *ChatService) enqueueBroadcast(msg chat_dto.MessageResponse) {
	job := queue.Job{
		ID:        uuid.New().String(),
		Type:      queue.JobBroadcastMessage,
		Payload:   queue.MustMarshal(msg),
		Priority:  1,
		Retry:     0,
		MaxRetry:  5,
		CreatedAt: time.Now().Unix(),
		ExpireAt:  time.Now().Add(5 * time.Minute).Unix(),
	}

	if err := c.Producer.Enqueue(c.AppState.Ctx, job); err != nil {
		log.Error().Err(err).Str("room", msg.RoomCode).Msg("failed to enqueue broadcast job")
	}
}
