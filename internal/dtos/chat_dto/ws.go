package chat_dto

// Event types delivered over a room subscription. A subscriber always
// receives one snapshot first, then append events in delivery order.
const (
	EventSnapshot = "snapshot"
	EventMessage  = "message"
)

type Event struct {
	Type     string            `json:"type"`
	RoomCode string            `json:"room_code"`
	Messages []MessageResponse `json:"messages,omitempty"` // snapshot only
	Message  *MessageResponse  `json:"message,omitempty"`  // append only
}
