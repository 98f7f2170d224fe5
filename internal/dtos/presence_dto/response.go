package presence_dto

import (
	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
)

// RosterEntry is a MembershipRecord with its liveness, derived at read
// time from the staleness threshold.
type RosterEntry struct {
	entity.MembershipRecord
	Online bool `json:"online"`
}

type RosterResponse struct {
	Members []RosterEntry `json:"members"`
}
