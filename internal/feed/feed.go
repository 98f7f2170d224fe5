package feed

import (
	"sync"
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	"github.com/google/uuid"
)

// Window matches the server's snapshot size: a fresh subscription starts
// from the latest Window messages and pages further back on demand.
const Window = 40

// pendingMatchWindow bounds how far apart a pending entry and its
// confirmed counterpart may sit on the clock and still reconcile. Clocks
// differ between client and server, so exact timestamps never match.
const pendingMatchWindow = 10 * time.Second

// Entry is one row of the feed. Pending entries were sent optimistically
// and have a local id until the server's copy arrives.
type Entry struct {
	chat_dto.MessageResponse
	LocalID string
	Pending bool
}

// Feed is the client-side view of one room's message log: a confirmed
// tail plus optimistic pending entries, ordered oldest first. Safe for
// concurrent use by the subscription reader and the UI.
type Feed struct {
	mu         sync.RWMutex
	roomCode   string
	entries    []Entry
	nextCursor *string
	hasMore    bool
	seen       map[string]struct{} // confirmed server ids
}

func New(roomCode string) *Feed {
	return &Feed{
		roomCode: roomCode,
		seen:     make(map[string]struct{}),
	}
}

func (f *Feed) RoomCode() string {
	return f.roomCode
}

// Entries returns a copy of the current rows, oldest first.
func (f *Feed) Entries() []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Cursor returns the pagination cursor for the next older page, or nil
// when the full history is loaded.
func (f *Feed) Cursor() (*string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.nextCursor, f.hasMore
}

// AppendPending inserts an optimistic entry for a message the caller just
// sent, before the server confirms it. Returns the local id used to track
// reconciliation.
func (f *Feed) AppendPending(uid, username, text string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	localID := uuid.New().String()
	f.entries = append(f.entries, Entry{
		MessageResponse: chat_dto.MessageResponse{
			RoomCode:  f.roomCode,
			UID:       uid,
			Username:  username,
			Text:      text,
			CreatedAt: time.Now(),
		},
		LocalID: localID,
		Pending: true,
	})
	return localID
}

// Resolve confirms a pending entry by local id once the send call returns
// the server's copy. The entry keeps its position but takes the server's
// id and timestamp.
func (f *Feed) Resolve(localID string, msg chat_dto.MessageResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.seen[msg.ID]; dup {
		// append event won the race; drop the pending row
		f.dropPending(localID)
		return
	}
	f.seen[msg.ID] = struct{}{}
	for i := range f.entries {
		if f.entries[i].Pending && f.entries[i].LocalID == localID {
			f.entries[i] = Entry{MessageResponse: msg}
			return
		}
	}
	f.insertConfirmed(msg)
}

// Drop removes a pending entry whose send failed.
func (f *Feed) Drop(localID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropPending(localID)
}

// ApplySnapshot resets the confirmed tail from a subscription snapshot.
// Pending entries survive unless the snapshot already contains their
// confirmed counterpart.
func (f *Feed) ApplySnapshot(msgs []chat_dto.MessageResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var pending []Entry
	for _, e := range f.entries {
		if e.Pending {
			pending = append(pending, e)
		}
	}

	f.entries = f.entries[:0]
	f.seen = make(map[string]struct{})
	for _, m := range msgs {
		f.seen[m.ID] = struct{}{}
		f.entries = append(f.entries, Entry{MessageResponse: m})
	}

	for _, p := range pending {
		if f.matchConfirmed(p) == -1 {
			f.entries = append(f.entries, p)
		}
	}

	// a snapshot restarts pagination from the tail
	f.nextCursor = nil
	f.hasMore = len(msgs) >= Window
	if len(msgs) > 0 {
		id := msgs[0].ID
		f.nextCursor = &id
	}
}

// ApplyAppend folds one live append event into the feed. If the message
// confirms a pending entry, that entry is replaced in place; otherwise it
// is appended in order.
func (f *Feed) ApplyAppend(msg chat_dto.MessageResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.seen[msg.ID]; dup {
		return
	}
	f.seen[msg.ID] = struct{}{}

	for i := range f.entries {
		if !f.entries[i].Pending {
			continue
		}
		if f.entries[i].UID == msg.UID && f.entries[i].Text == msg.Text && withinMatchWindow(f.entries[i].CreatedAt, msg.CreatedAt) {
			f.entries[i] = Entry{MessageResponse: msg}
			return
		}
	}
	f.insertConfirmed(msg)
}

// MergeOlder prepends a page fetched through the history endpoint and
// advances the cursor.
func (f *Feed) MergeOlder(page chat_dto.HistoryResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var fresh []Entry
	for _, m := range page.Messages {
		if _, dup := f.seen[m.ID]; dup {
			continue
		}
		f.seen[m.ID] = struct{}{}
		fresh = append(fresh, Entry{MessageResponse: m})
	}
	f.entries = append(fresh, f.entries...)
	f.nextCursor = page.NextCursor
	f.hasMore = page.HasMore
}

// dropPending removes the pending entry with the given local id. Caller
// holds the lock.
func (f *Feed) dropPending(localID string) {
	for i := range f.entries {
		if f.entries[i].Pending && f.entries[i].LocalID == localID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return
		}
	}
}

// matchConfirmed finds a confirmed entry reconciling the pending one, by
// sender, content, and timestamp proximity. Caller holds the lock.
func (f *Feed) matchConfirmed(p Entry) int {
	for i := range f.entries {
		e := f.entries[i]
		if e.Pending {
			continue
		}
		if e.UID == p.UID && e.Text == p.Text && withinMatchWindow(p.CreatedAt, e.CreatedAt) {
			return i
		}
	}
	return -1
}

// insertConfirmed places a confirmed message before the trailing run of
// pending entries, keeping confirmed rows in arrival order. Resolve
// confirms entries in place, so pendings are not always a suffix; only
// the trailing run yields. Caller holds the lock.
func (f *Feed) insertConfirmed(msg chat_dto.MessageResponse) {
	idx := len(f.entries)
	for idx > 0 && f.entries[idx-1].Pending {
		idx--
	}
	entry := Entry{MessageResponse: msg}
	f.entries = append(f.entries, Entry{})
	copy(f.entries[idx+1:], f.entries[idx:])
	f.entries[idx] = entry
}

func withinMatchWindow(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= pendingMatchWindow
}
