package room_dto

import (
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
)

type RoomResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	OwnerUID  string    `json:"owner_uid"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

type ListRoomsResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

func FromRoom(room *entity.Room, memberIDs []string) RoomResponse {
	if memberIDs == nil {
		memberIDs = []string{}
	}
	return RoomResponse{
		Code:      room.Code,
		Name:      room.Name,
		OwnerUID:  room.OwnerUID,
		MemberIDs: memberIDs,
		CreatedAt: room.CreatedAt,
	}
}
