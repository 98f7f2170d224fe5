package room_repo

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestState(t *testing.T) *state.AppState {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// in-memory sqlite lives and dies with a single connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.Identity{}, &entity.Room{}, &entity.Membership{}))
	return &state.AppState{DB: db}
}

func seedIdentity(t *testing.T, st *state.AppState, uid, username string) {
	require.NoError(t, st.DB.Create(&entity.Identity{
		UID:         uid,
		Username:    username,
		DisplayName: username,
		Theme:       entity.DefaultTheme,
	}).Error)
}

func TestCreateRoom_OwnerBecomesMember(t *testing.T) {
	st := newTestState(t)
	repo := NewRoomRepo(st)
	ctx := context.Background()

	seedIdentity(t, st, "owner-1", "alice")

	appErr := repo.CreateRoom(ctx, entity.Room{
		Code:      "ABC123",
		Name:      "general",
		OwnerUID:  "owner-1",
		CreatedAt: time.Now(),
	})
	require.Nil(t, appErr)

	isMember, appErr := repo.IsMember(ctx, "ABC123", "owner-1")
	require.Nil(t, appErr)
	assert.True(t, isMember)

	var identity entity.Identity
	require.NoError(t, st.DB.Where("uid = ?", "owner-1").First(&identity).Error)
	assert.Contains(t, identity.JoinedRooms, "ABC123")
}

func TestCreateRoom_DuplicateCodeConflicts(t *testing.T) {
	st := newTestState(t)
	repo := NewRoomRepo(st)
	ctx := context.Background()

	seedIdentity(t, st, "owner-1", "alice")
	seedIdentity(t, st, "owner-2", "bob")

	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "ABC123", Name: "first", OwnerUID: "owner-1", CreatedAt: time.Now()}))

	appErr := repo.CreateRoom(ctx, entity.Room{Code: "ABC123", Name: "second", OwnerUID: "owner-2", CreatedAt: time.Now()})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)

	// the losing transaction must not leave a membership behind
	isMember, err := repo.IsMember(ctx, "ABC123", "owner-2")
	require.Nil(t, err)
	assert.False(t, isMember)

	var identity entity.Identity
	require.NoError(t, st.DB.Where("uid = ?", "owner-2").First(&identity).Error)
	assert.NotContains(t, identity.JoinedRooms, "ABC123")
}

func TestJoinRoom_Success(t *testing.T) {
	st := newTestState(t)
	repo := NewRoomRepo(st)
	ctx := context.Background()

	seedIdentity(t, st, "owner-1", "alice")
	seedIdentity(t, st, "joiner-1", "bob")
	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "ABC123", Name: "general", OwnerUID: "owner-1", CreatedAt: time.Now()}))

	room, appErr := repo.JoinRoom(ctx, "ABC123", "joiner-1")
	require.Nil(t, appErr)
	assert.Equal(t, "general", room.Name)

	isMember, appErr := repo.IsMember(ctx, "ABC123", "joiner-1")
	require.Nil(t, appErr)
	assert.True(t, isMember)

	var identity entity.Identity
	require.NoError(t, st.DB.Where("uid = ?", "joiner-1").First(&identity).Error)
	assert.Contains(t, identity.JoinedRooms, "ABC123")

	ids, appErr := repo.MemberIDs(ctx, "ABC123")
	require.Nil(t, appErr)
	assert.Equal(t, []string{"owner-1", "joiner-1"}, ids)
}

func TestJoinRoom_UnknownCode(t *testing.T) {
	st := newTestState(t)
	repo := NewRoomRepo(st)

	seedIdentity(t, st, "joiner-1", "bob")

	_, appErr := repo.JoinRoom(context.Background(), "ZZZZZZ", "joiner-1")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestJoinRoom_RepeatJoinConflicts(t *testing.T) {
	st := newTestState(t)
	repo := NewRoomRepo(st)
	ctx := context.Background()

	seedIdentity(t, st, "owner-1", "alice")
	seedIdentity(t, st, "joiner-1", "bob")
	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "ABC123", Name: "general", OwnerUID: "owner-1", CreatedAt: time.Now()}))

	_, appErr := repo.JoinRoom(ctx, "ABC123", "joiner-1")
	require.Nil(t, appErr)

	_, appErr = repo.JoinRoom(ctx, "ABC123", "joiner-1")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)

	// joined_rooms must not pick up a duplicate either
	var identity entity.Identity
	require.NoError(t, st.DB.Where("uid = ?", "joiner-1").First(&identity).Error)
	count := 0
	for _, code := range identity.JoinedRooms {
		if code == "ABC123" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestJoinRoom_InterleavedAppendNotLost(t *testing.T) {
	st := newTestState(t)
	repo := NewRoomRepo(st)
	ctx := context.Background()

	seedIdentity(t, st, "owner-1", "alice")
	seedIdentity(t, st, "joiner-1", "bob")
	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "AAAAAA", Name: "first", OwnerUID: "owner-1", CreatedAt: time.Now()}))
	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "BBBBBB", Name: "second", OwnerUID: "owner-1", CreatedAt: time.Now()}))
	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "CCCCCC", Name: "third", OwnerUID: "owner-1", CreatedAt: time.Now()}))

	_, appErr := repo.JoinRoom(ctx, "AAAAAA", "joiner-1")
	require.Nil(t, appErr)

	// land a rival append between the read and the guarded update, the way
	// a concurrent join into another room commits first
	fired := false
	joinedRoomsSwapHook = func(tx *gorm.DB) {
		if fired {
			return
		}
		fired = true
		var identity entity.Identity
		require.NoError(t, tx.Where("uid = ?", "joiner-1").First(&identity).Error)
		require.NoError(t, tx.Create(&entity.Membership{RoomCode: "BBBBBB", UID: "joiner-1"}).Error)
		require.NoError(t, tx.Model(&entity.Identity{}).
			Where("uid = ?", "joiner-1").
			Update("joined_rooms", append(identity.JoinedRooms, "BBBBBB")).Error)
	}
	t.Cleanup(func() { joinedRoomsSwapHook = nil })

	_, appErr = repo.JoinRoom(ctx, "CCCCCC", "joiner-1")
	require.Nil(t, appErr)
	assert.True(t, fired)

	var identity entity.Identity
	require.NoError(t, st.DB.Where("uid = ?", "joiner-1").First(&identity).Error)
	assert.Contains(t, identity.JoinedRooms, "AAAAAA")
	assert.Contains(t, identity.JoinedRooms, "BBBBBB")
	assert.Contains(t, identity.JoinedRooms, "CCCCCC")
}

func TestJoinRoom_MembershipIndexConflicts(t *testing.T) {
	st := newTestState(t)
	repo := NewRoomRepo(st)
	ctx := context.Background()

	seedIdentity(t, st, "owner-1", "alice")
	seedIdentity(t, st, "joiner-1", "bob")
	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "ABC123", Name: "general", OwnerUID: "owner-1", CreatedAt: time.Now()}))

	// a membership row the joined-rooms list does not know about yet, the
	// state the loser of two simultaneous joins observes
	require.NoError(t, st.DB.Create(&entity.Membership{RoomCode: "ABC123", UID: "joiner-1"}).Error)

	_, appErr := repo.JoinRoom(ctx, "ABC123", "joiner-1")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
}

func TestListByMember_NewestFirst(t *testing.T) {
	st := newTestState(t)
	repo := NewRoomRepo(st)
	ctx := context.Background()

	seedIdentity(t, st, "owner-1", "alice")

	base := time.Now().Add(-time.Hour)
	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "AAAAAA", Name: "older", OwnerUID: "owner-1", CreatedAt: base}))
	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "BBBBBB", Name: "newer", OwnerUID: "owner-1", CreatedAt: base.Add(time.Minute)}))

	rooms, appErr := repo.ListByMember(ctx, "owner-1", 50)
	require.Nil(t, appErr)
	require.Len(t, rooms, 2)
	assert.Equal(t, "BBBBBB", rooms[0].Code)
	assert.Equal(t, "AAAAAA", rooms[1].Code)
}

func TestCodeExists(t *testing.T) {
	st := newTestState(t)
	repo := NewRoomRepo(st)
	ctx := context.Background()

	seedIdentity(t, st, "owner-1", "alice")

	exists, appErr := repo.CodeExists(ctx, "ABC123")
	require.Nil(t, appErr)
	assert.False(t, exists)

	require.Nil(t, repo.CreateRoom(ctx, entity.Room{Code: "ABC123", Name: "general", OwnerUID: "owner-1", CreatedAt: time.Now()}))

	exists, appErr = repo.CodeExists(ctx, "ABC123")
	require.Nil(t, appErr)
	assert.True(t, exists)
}
