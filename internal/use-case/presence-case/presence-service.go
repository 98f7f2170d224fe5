package presence_service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/presence_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
)

// HeartbeatInterval is how often an open room refreshes its member's
// presence record.
const HeartbeatInterval = 10 * time.Second

type PresenceServiceContract interface {
	Heartbeat(ctx context.Context, roomCode string, record entity.MembershipRecord) *app_error.AppError
	Roster(ctx context.Context, roomCode string) (*presence_dto.RosterResponse, *app_error.AppError)
}

type PresenceService struct {
	Redis *redis.Client
	// clock is swappable for tests
	Now func() time.Time
}

func NewPresenceService(rdb *redis.Client) PresenceServiceContract {
	return &PresenceService{
		Redis: rdb,
		Now:   time.Now,
	}
}

func presenceKey(roomCode string) string {
	return fmt.Sprintf("presence:%s", roomCode)
}

// Heartbeat merge-upserts the member's record: only this member's field
// in the room hash is replaced, everyone else's is untouched. Records are
// never deleted; staleness alone decides liveness.
func (p *PresenceService) Heartbeat(ctx context.Context, roomCode string, record entity.MembershipRecord) *app_error.AppError {
	if record.LastSeen == 0 {
		record.LastSeen = p.Now().UnixMilli()
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return app_error.Internal("failed to marshal presence record", "json")
	}

	if err := p.Redis.HSet(ctx, presenceKey(roomCode), record.UID, payload).Err(); err != nil {
		return app_error.Internal("failed to write presence record", "redis")
	}
	return nil
}

// Roster reads every record for the room, newest heartbeat first, and
// classifies each against the staleness threshold at read time.
func (p *PresenceService) Roster(ctx context.Context, roomCode string) (*presence_dto.RosterResponse, *app_error.AppError) {
	raw, err := p.Redis.HGetAll(ctx, presenceKey(roomCode)).Result()
	if err != nil {
		return nil, app_error.Internal("failed to read presence records", "redis")
	}

	now := p.Now()
	members := make([]presence_dto.RosterEntry, 0, len(raw))
	for _, val := range raw {
		var record entity.MembershipRecord
		if err := json.Unmarshal([]byte(val), &record); err != nil {
			continue // skip malformed records, they only render as absent
		}
		members = append(members, presence_dto.RosterEntry{
			MembershipRecord: record,
			Online:           record.OnlineAt(now),
		})
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].LastSeen > members[j].LastSeen
	})

	return &presence_dto.RosterResponse{Members: members}, nil
}
