package chat_service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/queue"
	room_repo "github.com/Matches1st/Cord-Disc-Chat/internal/repo/room"
	"github.com/Matches1st/Cord-Disc-Chat/state"
)

// fakeMessageRepo keeps messages in memory; the real one is Mongo-backed.
type fakeMessageRepo struct {
	inserted []*entity.Message
	latest   []*entity.Message
	before   []*entity.Message
	beforeID string
}

func (f *fakeMessageRepo) InsertMessage(ctx context.Context, msg *entity.Message) (bson.ObjectID, *app_error.AppError) {
	if !msg.CheckPayload() {
		return bson.ObjectID{}, app_error.Validation("invalid message payload", "message")
	}
	msg.ID = bson.NewObjectID()
	f.inserted = append(f.inserted, msg)
	return msg.ID, nil
}

func (f *fakeMessageRepo) Latest(ctx context.Context, roomCode string, limit int) ([]*entity.Message, *app_error.AppError) {
	if len(f.latest) > limit {
		return f.latest[len(f.latest)-limit:], nil
	}
	return f.latest, nil
}

func (f *fakeMessageRepo) Before(ctx context.Context, roomCode, beforeID string, limit int) ([]*entity.Message, *app_error.AppError) {
	f.beforeID = beforeID
	return f.before, nil
}

type recordingProducer struct {
	jobs []queue.Job
}

func (p *recordingProducer) Enqueue(ctx context.Context, job queue.Job) error {
	p.jobs = append(p.jobs, job)
	return nil
}

func newTestService(t *testing.T) (*ChatService, *fakeMessageRepo, *recordingProducer) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&entity.Identity{}, &entity.Room{}, &entity.Membership{}))

	st := &state.AppState{Ctx: context.Background(), DB: db}
	msgs := &fakeMessageRepo{}
	prod := &recordingProducer{}
	svc := &ChatService{
		AppState:    st,
		MessageRepo: msgs,
		RoomRepo:    room_repo.NewRoomRepo(st),
		Producer:    prod,
	}
	return svc, msgs, prod
}

// seedRoom creates the room with uid as owner, making uid a member.
func seedRoom(t *testing.T, svc *ChatService, code, uid string) {
	require.NoError(t, svc.AppState.DB.Create(&entity.Identity{
		UID:         uid,
		Username:    uid,
		DisplayName: uid,
		Theme:       entity.DefaultTheme,
	}).Error)
	require.Nil(t, svc.RoomRepo.CreateRoom(context.Background(), entity.Room{
		Code:      code,
		Name:      "general",
		OwnerUID:  uid,
		CreatedAt: time.Now(),
	}))
}

func stored(id bson.ObjectID, text string, at time.Time) *entity.Message {
	return &entity.Message{
		ID:        id,
		RoomCode:  "ABC123",
		UID:       "u1",
		Username:  "alice",
		Text:      text,
		CreatedAt: at,
	}
}

func TestSend_TrimsAndBroadcasts(t *testing.T) {
	svc, msgs, prod := newTestService(t)
	seedRoom(t, svc, "ABC123", "u1")

	resp, appErr := svc.Send(context.Background(), chat_dto.SendMessageRequest{Text: "  hello  "}, "ABC123", "u1", "alice")
	require.Nil(t, appErr)
	assert.Equal(t, "hello", resp.Text)
	assert.NotEmpty(t, resp.ID)

	require.Len(t, msgs.inserted, 1)
	assert.Equal(t, "hello", msgs.inserted[0].Text)

	require.Len(t, prod.jobs, 1)
	assert.Equal(t, queue.JobBroadcastMessage, prod.jobs[0].Type)
	var payload chat_dto.MessageResponse
	require.NoError(t, json.Unmarshal(prod.jobs[0].Payload, &payload))
	assert.Equal(t, "hello", payload.Text)
	assert.Equal(t, "ABC123", payload.RoomCode)
}

func TestSend_WhitespaceOnlyRejected(t *testing.T) {
	svc, msgs, prod := newTestService(t)
	seedRoom(t, svc, "ABC123", "u1")

	_, appErr := svc.Send(context.Background(), chat_dto.SendMessageRequest{Text: "  \t\n  "}, "ABC123", "u1", "alice")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	// nothing durable, nothing broadcast
	assert.Empty(t, msgs.inserted)
	assert.Empty(t, prod.jobs)
}

func TestSend_NonMemberSeesMissingRoom(t *testing.T) {
	svc, msgs, _ := newTestService(t)
	seedRoom(t, svc, "ABC123", "u1")

	_, appErr := svc.Send(context.Background(), chat_dto.SendMessageRequest{Text: "hello"}, "ABC123", "outsider", "eve")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Empty(t, msgs.inserted)
}

func TestSendFile_NonMemberSeesMissingRoom(t *testing.T) {
	svc, _, _ := newTestService(t)
	seedRoom(t, svc, "ABC123", "u1")

	_, appErr := svc.SendFile(context.Background(), "ABC123", "outsider", "eve", "cat.png", 4, nil, nil)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestHistory_DefaultWindow(t *testing.T) {
	svc, msgs, _ := newTestService(t)
	seedRoom(t, svc, "ABC123", "u1")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < FeedWindow; i++ {
		msgs.latest = append(msgs.latest, stored(bson.NewObjectID(), fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*time.Second)))
	}

	resp, appErr := svc.History(context.Background(), chat_dto.HistoryRequest{}, "ABC123", "u1")
	require.Nil(t, appErr)
	require.Len(t, resp.Messages, FeedWindow)
	assert.True(t, resp.HasMore)
	require.NotNil(t, resp.NextCursor)
	assert.Equal(t, msgs.latest[0].ID.Hex(), *resp.NextCursor)
}

func TestHistory_ShortPageEndsPagination(t *testing.T) {
	svc, msgs, _ := newTestService(t)
	seedRoom(t, svc, "ABC123", "u1")

	msgs.latest = []*entity.Message{stored(bson.NewObjectID(), "only one", time.Now())}

	resp, appErr := svc.History(context.Background(), chat_dto.HistoryRequest{}, "ABC123", "u1")
	require.Nil(t, appErr)
	require.Len(t, resp.Messages, 1)
	assert.False(t, resp.HasMore)
}

func TestHistory_BeforeCursorPagesOlder(t *testing.T) {
	svc, msgs, _ := newTestService(t)
	seedRoom(t, svc, "ABC123", "u1")

	older := stored(bson.NewObjectID(), "older", time.Now().Add(-time.Hour))
	msgs.before = []*entity.Message{older}

	cursor := bson.NewObjectID().Hex()
	resp, appErr := svc.History(context.Background(), chat_dto.HistoryRequest{BeforeID: &cursor}, "ABC123", "u1")
	require.Nil(t, appErr)
	assert.Equal(t, cursor, msgs.beforeID)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "older", resp.Messages[0].Text)
	require.NotNil(t, resp.NextCursor)
	assert.Equal(t, older.ID.Hex(), *resp.NextCursor)
}

func TestHistory_NonMemberSeesMissingRoom(t *testing.T) {
	svc, _, _ := newTestService(t)
	seedRoom(t, svc, "ABC123", "u1")

	_, appErr := svc.History(context.Background(), chat_dto.HistoryRequest{}, "ABC123", "outsider")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestSnapshot_ReturnsLatestWindow(t *testing.T) {
	svc, msgs, _ := newTestService(t)

	msgs.latest = []*entity.Message{
		stored(bson.NewObjectID(), "first", time.Now().Add(-time.Minute)),
		stored(bson.NewObjectID(), "second", time.Now()),
	}

	snapshot, appErr := svc.Snapshot(context.Background(), "ABC123")
	require.Nil(t, appErr)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "first", snapshot[0].Text)
	assert.Equal(t, "second", snapshot[1].Text)
}
