package session

import (
	"testing"
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/user_dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFor(uid string) Snapshot {
	return Snapshot{
		Token:    "token-" + uid,
		Identity: &user_dto.IdentityResponse{UID: uid, Username: uid},
	}
}

func TestStore_StartsSignedOut(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Current().SignedIn())
}

func TestStore_PublishAndCurrent(t *testing.T) {
	s := NewStore()
	s.Publish(snapshotFor("u1"))

	current := s.Current()
	require.True(t, current.SignedIn())
	assert.Equal(t, "u1", current.Identity.UID)
	assert.Equal(t, "token-u1", current.Token)
}

func TestStore_ClearSignsOut(t *testing.T) {
	s := NewStore()
	s.Publish(snapshotFor("u1"))
	s.Clear()

	current := s.Current()
	assert.False(t, current.SignedIn())
	assert.Empty(t, current.Token)
}

func TestStore_WatchReceivesPublishes(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Watch()
	defer cancel()

	s.Publish(snapshotFor("u1"))

	select {
	case snap := <-ch:
		require.True(t, snap.SignedIn())
		assert.Equal(t, "u1", snap.Identity.UID)
	case <-time.After(time.Second):
		t.Fatal("watcher never notified")
	}
}

func TestStore_SlowWatcherKeepsNewest(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Watch()
	defer cancel()

	s.Publish(snapshotFor("u1"))
	s.Publish(snapshotFor("u2"))

	select {
	case snap := <-ch:
		assert.Equal(t, "u2", snap.Identity.UID)
	case <-time.After(time.Second):
		t.Fatal("watcher never notified")
	}
}

func TestStore_CancelStopsDelivery(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Watch()
	cancel()

	s.Publish(snapshotFor("u1"))

	select {
	case <-ch:
		t.Fatal("cancelled watcher still notified")
	default:
	}
}
