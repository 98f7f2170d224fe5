package entity

import (
	"time"
)

// Identity is the profile record behind every authenticated or anonymous
// session. Username is unique and immutable after creation; JoinedRooms is
// kept in lockstep with Membership rows inside the room transactions.
type Identity struct {
	UID          string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	DisplayName  string `gorm:"not null"`
	PhotoURL     *string
	Theme        string   `gorm:"not null"`
	JoinedRooms  []string `gorm:"serializer:json"`
	IsGuest      bool     `gorm:"not null"`
	PasswordHash string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type IdentityFilter struct {
	UID      *string
	Username *string
}

const (
	DefaultTheme       = "white"
	DefaultDisplayName = "User"
)

// Themes is the fixed palette the theme editor accepts.
var Themes = []string{
	"white", "dark", "navy", "red", "green",
	"purple", "orange", "pink", "teal", "black",
}

func ValidTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

func (i *Identity) HasJoined(code string) bool {
	for _, c := range i.JoinedRooms {
		if c == code {
			return true
		}
	}
	return false
}
