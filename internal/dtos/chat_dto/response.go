package chat_dto

import (
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
)

type MessageResponse struct {
	ID        string    `json:"id"`
	RoomCode  string    `json:"room_code"`
	UID       string    `json:"uid"`
	Username  string    `json:"username"`
	Text      string    `json:"text,omitempty"`
	FileURL   string    `json:"file_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Messages   []MessageResponse `json:"messages"`
	NextCursor *string           `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

type SendFileResponse struct {
	Message MessageResponse `json:"message"`
	FileURL string          `json:"file_url"`
}

func FromMessage(msg *entity.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID.Hex(),
		RoomCode:  msg.RoomCode,
		UID:       msg.UID,
		Username:  msg.Username,
		Text:      msg.Text,
		FileURL:   msg.FileURL,
		CreatedAt: msg.CreatedAt,
	}
}

func FromMessages(msgs []*entity.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FromMessage(m))
	}
	return out
}
