package worker_handler

import (
	"fmt"

	"github.com/Matches1st/Cord-Disc-Chat/internal/queue"
	"github.com/Matches1st/Cord-Disc-Chat/internal/websocket"
)

type WorkerHandler struct {
	Ws *websocket.Hub
}

func NewWorkerHandler(ws *websocket.Hub) *WorkerHandler {
	return &WorkerHandler{Ws: ws}
}

func (wh *WorkerHandler) Handle(job queue.Job) error {
	switch job.Type {
	case queue.JobBroadcastMessage:
		return wh.HandleBroadcastMessage(job.Payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}
