package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmed(id, uid, text string, at time.Time) chat_dto.MessageResponse {
	return chat_dto.MessageResponse{
		ID:        id,
		RoomCode:  "ABC123",
		UID:       uid,
		Username:  uid,
		Text:      text,
		CreatedAt: at,
	}
}

func texts(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Text)
	}
	return out
}

func TestAppendPending_ShowsImmediately(t *testing.T) {
	f := New("ABC123")

	localID := f.AppendPending("u1", "alice", "hello")
	require.NotEmpty(t, localID)

	entries := f.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Pending)
	assert.Equal(t, "hello", entries[0].Text)
	assert.Empty(t, entries[0].ID)
}

func TestResolve_ConfirmsInPlace(t *testing.T) {
	f := New("ABC123")
	localID := f.AppendPending("u1", "alice", "hello")

	f.Resolve(localID, confirmed("m1", "u1", "hello", time.Now()))

	entries := f.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Pending)
	assert.Equal(t, "m1", entries[0].ID)
}

func TestApplyAppend_ReconcilesPending(t *testing.T) {
	f := New("ABC123")
	f.AppendPending("u1", "alice", "hello")

	// the broadcast can arrive before the send call returns
	f.ApplyAppend(confirmed("m1", "u1", "hello", time.Now()))

	entries := f.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Pending)
	assert.Equal(t, "m1", entries[0].ID)
}

func TestResolveAfterAppend_NoDuplicate(t *testing.T) {
	f := New("ABC123")
	localID := f.AppendPending("u1", "alice", "hello")

	msg := confirmed("m1", "u1", "hello", time.Now())
	f.ApplyAppend(msg)
	f.Resolve(localID, msg)

	entries := f.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "m1", entries[0].ID)
}

func TestApplyAppend_OtherSenderStaysSeparate(t *testing.T) {
	f := New("ABC123")
	f.AppendPending("u1", "alice", "hello")

	// same text from a different sender must not swallow the pending row
	f.ApplyAppend(confirmed("m1", "u2", "hello", time.Now()))

	entries := f.Entries()
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Pending)
	assert.True(t, entries[1].Pending)
}

func TestApplyAppend_OutsideMatchWindowStaysSeparate(t *testing.T) {
	f := New("ABC123")
	f.AppendPending("u1", "alice", "hello")

	f.ApplyAppend(confirmed("m1", "u1", "hello", time.Now().Add(-time.Minute)))

	assert.Len(t, f.Entries(), 2)
}

func TestDrop_RemovesFailedSend(t *testing.T) {
	f := New("ABC123")
	localID := f.AppendPending("u1", "alice", "hello")

	f.Drop(localID)

	assert.Empty(t, f.Entries())
}

func TestApplySnapshot_KeepsUnconfirmedPending(t *testing.T) {
	f := New("ABC123")
	f.AppendPending("u1", "alice", "in flight")

	f.ApplySnapshot([]chat_dto.MessageResponse{
		confirmed("m1", "u2", "earlier", time.Now().Add(-time.Minute)),
	})

	entries := f.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "earlier", entries[0].Text)
	assert.True(t, entries[1].Pending)
	assert.Equal(t, "in flight", entries[1].Text)
}

func TestApplySnapshot_DropsConfirmedPending(t *testing.T) {
	f := New("ABC123")
	f.AppendPending("u1", "alice", "hello")

	// reconnect: the snapshot already contains the message we sent
	f.ApplySnapshot([]chat_dto.MessageResponse{
		confirmed("m1", "u1", "hello", time.Now()),
	})

	entries := f.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Pending)
}

func TestApplyAppend_ConfirmedLandsBeforePending(t *testing.T) {
	f := New("ABC123")
	f.ApplyAppend(confirmed("m1", "u2", "first", time.Now()))
	f.AppendPending("u1", "alice", "mine")
	f.ApplyAppend(confirmed("m2", "u2", "second", time.Now()))

	assert.Equal(t, []string{"first", "second", "mine"}, texts(f.Entries()))
}

func TestApplyAppend_AfterOutOfOrderResolve(t *testing.T) {
	f := New("ABC123")
	first := f.AppendPending("u1", "alice", "first")
	second := f.AppendPending("u1", "alice", "second")

	// the second send's response can return before the first's
	f.Resolve(second, confirmed("m2", "u1", "second", time.Now()))

	f.ApplyAppend(confirmed("m3", "u2", "theirs", time.Now()))
	assert.Equal(t, []string{"first", "second", "theirs"}, texts(f.Entries()))

	f.Resolve(first, confirmed("m1", "u1", "first", time.Now()))
	entries := f.Entries()
	assert.Equal(t, []string{"first", "second", "theirs"}, texts(entries))
	assert.Equal(t, "m1", entries[0].ID)
	assert.Equal(t, "m2", entries[1].ID)
	assert.Equal(t, "m3", entries[2].ID)
}

func TestMergeOlder_PrependsAndAdvancesCursor(t *testing.T) {
	f := New("ABC123")
	f.ApplySnapshot([]chat_dto.MessageResponse{
		confirmed("m3", "u1", "third", time.Now()),
		confirmed("m4", "u1", "fourth", time.Now()),
	})

	next := "m1"
	f.MergeOlder(chat_dto.HistoryResponse{
		Messages: []chat_dto.MessageResponse{
			confirmed("m1", "u1", "first", time.Now().Add(-time.Hour)),
			confirmed("m2", "u1", "second", time.Now().Add(-time.Hour)),
		},
		NextCursor: &next,
		HasMore:    true,
	})

	assert.Equal(t, []string{"first", "second", "third", "fourth"}, texts(f.Entries()))

	cursor, hasMore := f.Cursor()
	require.NotNil(t, cursor)
	assert.Equal(t, "m1", *cursor)
	assert.True(t, hasMore)
}

func TestMergeOlder_SkipsAlreadySeen(t *testing.T) {
	f := New("ABC123")
	f.ApplySnapshot([]chat_dto.MessageResponse{
		confirmed("m2", "u1", "second", time.Now()),
	})

	f.MergeOlder(chat_dto.HistoryResponse{
		Messages: []chat_dto.MessageResponse{
			confirmed("m1", "u1", "first", time.Now().Add(-time.Hour)),
			confirmed("m2", "u1", "second", time.Now()),
		},
	})

	assert.Equal(t, []string{"first", "second"}, texts(f.Entries()))
}

func TestApplySnapshot_FullWindowSignalsMore(t *testing.T) {
	f := New("ABC123")

	msgs := make([]chat_dto.MessageResponse, Window)
	for i := range msgs {
		msgs[i] = confirmed(fmt.Sprintf("m%02d", i), "u1", fmt.Sprintf("msg %d", i), time.Now())
	}
	f.ApplySnapshot(msgs)

	cursor, hasMore := f.Cursor()
	require.NotNil(t, cursor)
	assert.Equal(t, "m00", *cursor)
	assert.True(t, hasMore)

	f.ApplySnapshot(msgs[:3])
	_, hasMore = f.Cursor()
	assert.False(t, hasMore)
}

func TestApplyAppend_DuplicateEventIgnored(t *testing.T) {
	f := New("ABC123")
	msg := confirmed("m1", "u1", "hello", time.Now())

	f.ApplyAppend(msg)
	f.ApplyAppend(msg)

	assert.Len(t, f.Entries(), 1)
}
