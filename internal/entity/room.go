package entity

import (
	"time"
)

// Room is a chat channel addressed by its 6-char uppercase code.
// The owner is always a member.
type Room struct {
	Code      string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	OwnerUID  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// Membership is one row per (room, member). The composite unique index is
// what makes a concurrent double-join lose: the second insert conflicts.
type Membership struct {
	ID       int64     `gorm:"primaryKey"`
	RoomCode string    `gorm:"not null;uniqueIndex:idx_room_member"`
	UID      string    `gorm:"not null;uniqueIndex:idx_room_member"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}
