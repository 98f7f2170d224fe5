package worker_handler

import (
	"encoding/json"
	"fmt"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
)

// HandleBroadcastMessage fans one durable message out to every live
// subscriber of its room, as an append event.
func (wh *WorkerHandler) HandleBroadcastMessage(raw json.RawMessage) error {
	var msg chat_dto.MessageResponse

	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("invalid broadcast payload: %w", err)
	}

	wh.Ws.BroadcastToRoom(msg.RoomCode, chat_dto.Event{
		Type:     chat_dto.EventMessage,
		RoomCode: msg.RoomCode,
		Message:  &msg,
	})

	return nil
}
