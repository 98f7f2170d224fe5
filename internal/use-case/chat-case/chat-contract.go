package chat_service

import (
	"context"
	"io"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/storage"
)

type ChatServiceContract interface {
	Send(ctx context.Context, req chat_dto.SendMessageRequest, roomCode, uid, username string) (*chat_dto.MessageResponse, *app_error.AppError)
	SendFile(ctx context.Context, roomCode, uid, username, filename string, size int64, src io.Reader, onProgress storage.ProgressFunc) (*chat_dto.SendFileResponse, *app_error.AppError)
	History(ctx context.Context, req chat_dto.HistoryRequest, roomCode, uid string) (*chat_dto.HistoryResponse, *app_error.AppError)
	Snapshot(ctx context.Context, roomCode string) ([]chat_dto.MessageResponse, *app_error.AppError)
}
