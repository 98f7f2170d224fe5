package entity

import (
	"time"
)

// OnlineThreshold is how recent a heartbeat must be for a member to
// classify as online at read time.
const OnlineThreshold = 30 * time.Second

// MembershipRecord is the presence document, one per room per member,
// merge-upserted on every heartbeat. Stale records are never cleaned up,
// only rendered offline.
type MembershipRecord struct {
	UID      string  `json:"uid"`
	Username string  `json:"username"`
	PhotoURL *string `json:"photo_url"`
	LastSeen int64   `json:"last_seen"` // unix millis, writer's clock
}

// OnlineAt derives liveness from heartbeat recency against the reader's
// clock. There is no push signal behind this.
func (r MembershipRecord) OnlineAt(now time.Time) bool {
	return now.UnixMilli()-r.LastSeen < OnlineThreshold.Milliseconds()
}
