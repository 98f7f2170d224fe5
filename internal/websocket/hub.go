package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
)

// Hub tracks live room subscriptions. Delivery order within one room is
// the order BroadcastToRoom is called in; each client's send channel
// preserves it.
type Hub struct {
	rooms map[string]map[*Client]struct{}
	mu    sync.RWMutex

	stats   HubStats
	statsMu sync.RWMutex
}

type HubStats struct {
	TotalRooms       int       `json:"total_rooms"`
	TotalClients     int       `json:"total_clients"`
	TotalConnections int64     `json:"total_connections"`
	EventsSent       int64     `json:"events_sent"`
	LastReset        time.Time `json:"last_reset"`
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		stats: HubStats{
			LastReset: time.Now(),
		},
	}
}

// Register adds a client to a room subscription and starts its pumps.
func (h *Hub) Register(roomCode string, client *Client) {
	h.mu.Lock()
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[*Client]struct{})
	}
	h.rooms[roomCode][client] = struct{}{}
	roomSize := len(h.rooms[roomCode])
	h.mu.Unlock()

	h.updateStats(func(stats *HubStats) {
		stats.TotalConnections++
	})

	client.Start(h)

	log.Info().Str("roomCode", roomCode).Str("uid", client.UID).Int("roomSize", roomSize).Msg("ws: client registered to room")
}

// Unregister tears a client out of its room. Empty rooms are dropped.
func (h *Hub) Unregister(roomCode string, client *Client) {
	h.mu.Lock()
	if clients, ok := h.rooms[roomCode]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, roomCode)
		}
	}
	h.mu.Unlock()

	log.Info().Str("roomCode", roomCode).Str("uid", client.UID).Msg("ws: client unregistered from room")
}

// BroadcastToRoom delivers an event to every live subscriber of a room.
func (h *Hub) BroadcastToRoom(roomCode string, event chat_dto.Event) {
	event.RoomCode = roomCode

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("roomCode", roomCode).Msg("ws: failed to marshal event")
		return
	}

	// snapshot of clients, sends happen outside the lock
	h.mu.RLock()
	var targets []*Client
	if clients, ok := h.rooms[roomCode]; ok {
		targets = make([]*Client, 0, len(clients))
		for client := range clients {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- data:
			h.updateStats(func(stats *HubStats) {
				stats.EventsSent++
			})
		default:
			// slow consumer, drop the connection rather than block the room
			log.Warn().Str("roomCode", roomCode).Str("uid", client.UID).Msg("ws: send buffer full, dropping client")
			client.CloseSlow()
		}
	}
}

// SendEvent delivers one event to a single client.
func (h *Hub) SendEvent(client *Client, event chat_dto.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("ws: failed to marshal event")
		return
	}
	select {
	case client.Send <- data:
		h.updateStats(func(stats *HubStats) {
			stats.EventsSent++
		})
	default:
		client.CloseSlow()
	}
}

func (h *Hub) RoomSize(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	totalRooms := len(h.rooms)
	totalClients := 0
	for _, clients := range h.rooms {
		totalClients += len(clients)
	}
	h.mu.RUnlock()

	h.statsMu.RLock()
	stats := h.stats
	h.statsMu.RUnlock()

	stats.TotalRooms = totalRooms
	stats.TotalClients = totalClients
	return stats
}

func (h *Hub) updateStats(fn func(stats *HubStats)) {
	h.statsMu.Lock()
	fn(&h.stats)
	h.statsMu.Unlock()
}
