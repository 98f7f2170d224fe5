package entity

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Message is append-only: never edited, never deleted. Exactly one of
// Text/FileURL is set; Username is denormalized at write time so readers
// never have to resolve the sender.
type Message struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomCode  string        `bson:"roomCode" json:"room_code"`
	UID       string        `bson:"uid" json:"uid"`
	Username  string        `bson:"username" json:"username"`
	Text      string        `bson:"text,omitempty" json:"text,omitempty"`
	FileURL   string        `bson:"fileUrl,omitempty" json:"file_url,omitempty"`
	CreatedAt time.Time     `bson:"createdAt" json:"created_at"`
}

// CheckPayload rejects malformed documents before they reach the store:
// a message carries trimmed text or a file URL, never both, never neither.
func (m *Message) CheckPayload() bool {
	text := strings.TrimSpace(m.Text)
	if text != m.Text {
		return false
	}
	return (text != "") != (m.FileURL != "")
}
