package websocket

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the web client's deploy origin is fixed
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SnapshotFunc produces the initial event for a fresh room subscription.
type SnapshotFunc func(ctx context.Context, roomCode string) (chat_dto.Event, error)

// MembershipFunc reports whether the uid may subscribe to the room.
type MembershipFunc func(ctx context.Context, roomCode, uid string) (bool, error)

// Handler upgrades an authenticated request into a live room
// subscription: snapshot first, then append events until the connection
// drops.
type Handler struct {
	Hub        *Hub
	Auth       AuthenticatorFunc
	Snapshot   SnapshotFunc
	Membership MembershipFunc
}

func NewHandler(hub *Hub, auth AuthenticatorFunc, snapshot SnapshotFunc, membership MembershipFunc) *Handler {
	return &Handler{
		Hub:        hub,
		Auth:       auth,
		Snapshot:   snapshot,
		Membership: membership,
	}
}

func (h *Handler) ServeRoom(w http.ResponseWriter, r *http.Request, roomCode string) {
	claims, err := h.Auth(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ok, err := h.Membership(r.Context(), roomCode, claims.Sub)
	if err != nil {
		http.Error(w, "failed to check membership", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	// snapshot is fetched before the upgrade so a failed read costs an
	// HTTP error, not a dead socket
	snapshot, err := h.Snapshot(r.Context(), roomCode)
	if err != nil {
		http.Error(w, "failed to load snapshot", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws: upgrade failed")
		return
	}

	client := &Client{
		UID:      claims.Sub,
		Username: claims.Username,
		RoomCode: roomCode,
		Conn:     conn,
		Send:     make(chan []byte, 256),
	}

	h.Hub.Register(roomCode, client)
	h.Hub.SendEvent(client, snapshot)
}
