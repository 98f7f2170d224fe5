package user_dto

import (
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
)

type IdentityResponse struct {
	UID         string    `json:"uid"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	PhotoURL    *string   `json:"photo_url"`
	Theme       string    `json:"theme"`
	JoinedRooms []string  `json:"joined_rooms"`
	IsGuest     bool      `json:"is_guest"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token    string           `json:"token"`
	Identity IdentityResponse `json:"identity"`
}

func FromIdentity(id *entity.Identity) IdentityResponse {
	joined := id.JoinedRooms
	if joined == nil {
		joined = []string{}
	}
	return IdentityResponse{
		UID:         id.UID,
		Username:    id.Username,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		Theme:       id.Theme,
		JoinedRooms: joined,
		IsGuest:     id.IsGuest,
		CreatedAt:   id.CreatedAt,
	}
}
