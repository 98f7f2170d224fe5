package user_service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"strings"
	"testing"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/user_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	"github.com/Matches1st/Cord-Disc-Chat/internal/utils"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
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
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&entity.Identity{}, &entity.Room{}, &entity.Membership{}))

	mockRedis := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	t.Cleanup(func() { client.Close() })

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return &state.AppState{
		DB:    db,
		Redis: client,
		JwtSecret: &state.JwtSecret{
			Private: key,
			Public:  &key.PublicKey,
		},
	}
}

func TestRegister_IssuesVerifiableToken(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)
	ctx := context.Background()

	resp, appErr := svc.Register(ctx, user_dto.RegisterRequest{Username: "alice", Password: "secret123"})
	require.Nil(t, appErr)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.Identity.Username)
	assert.Equal(t, entity.DefaultTheme, resp.Identity.Theme)
	assert.False(t, resp.Identity.IsGuest)

	claims, err := utils.ParseAndVerifySign(resp.Token, st.JwtSecret.Public)
	require.NoError(t, err)
	assert.Equal(t, resp.Identity.UID, claims.Sub)
	assert.Equal(t, "alice", claims.Username)
	assert.False(t, claims.IsGuest)
}

func TestRegister_UsernameTaken(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)
	ctx := context.Background()

	_, appErr := svc.Register(ctx, user_dto.RegisterRequest{Username: "alice", Password: "secret123"})
	require.Nil(t, appErr)

	_, appErr = svc.Register(ctx, user_dto.RegisterRequest{Username: "alice", Password: "other456"})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Contains(t, appErr.Message, "username taken")
}

func TestLogin_RoundTrip(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)
	ctx := context.Background()

	_, appErr := svc.Register(ctx, user_dto.RegisterRequest{Username: "alice", Password: "secret123"})
	require.Nil(t, appErr)

	resp, appErr := svc.Login(ctx, user_dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.Nil(t, appErr)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_RejectionsLookAlike(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)
	ctx := context.Background()

	_, appErr := svc.Register(ctx, user_dto.RegisterRequest{Username: "alice", Password: "secret123"})
	require.Nil(t, appErr)

	_, wrongPass := svc.Login(ctx, user_dto.LoginRequest{Username: "alice", Password: "wrong"})
	require.NotNil(t, wrongPass)

	_, noUser := svc.Login(ctx, user_dto.LoginRequest{Username: "nobody", Password: "secret123"})
	require.NotNil(t, noUser)

	// whether the username exists must not be observable
	assert.Equal(t, wrongPass.Code, noUser.Code)
	assert.Equal(t, wrongPass.Message, noUser.Message)
}

func TestGuest_CannotLogIn(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)
	ctx := context.Background()

	resp, appErr := svc.Guest(ctx, user_dto.GuestRequest{Username: "visitor"})
	require.Nil(t, appErr)
	assert.True(t, resp.Identity.IsGuest)

	_, loginErr := svc.Login(ctx, user_dto.LoginRequest{Username: "visitor", Password: ""})
	require.NotNil(t, loginErr)
	assert.Equal(t, http.StatusUnauthorized, loginErr.Code)
}

func TestSession_SynthesizesMissingIdentity(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)
	ctx := context.Background()

	resp, appErr := svc.Session(ctx, "external-uid", "", false)
	require.Nil(t, appErr)
	assert.Equal(t, "external-uid", resp.UID)
	assert.True(t, resp.IsGuest)
	assert.True(t, strings.HasPrefix(resp.Username, "guest_"), "got %q", resp.Username)
	assert.Equal(t, entity.DefaultDisplayName, resp.DisplayName)

	// resolving again must return the same identity, not a second one
	again, appErr := svc.Session(ctx, "external-uid", "", false)
	require.Nil(t, appErr)
	assert.Equal(t, resp.Username, again.Username)
}

func TestSession_IdempotentForExisting(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)
	ctx := context.Background()

	registered, appErr := svc.Register(ctx, user_dto.RegisterRequest{Username: "alice", Password: "secret123"})
	require.Nil(t, appErr)

	resolved, appErr := svc.Session(ctx, registered.Identity.UID, "alice", false)
	require.Nil(t, appErr)
	assert.Equal(t, registered.Identity.UID, resolved.UID)
	assert.Equal(t, "alice", resolved.Username)

	var count int64
	require.NoError(t, st.DB.Model(&entity.Identity{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateTheme(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)
	ctx := context.Background()

	resp, appErr := svc.Register(ctx, user_dto.RegisterRequest{Username: "alice", Password: "secret123"})
	require.Nil(t, appErr)

	require.Nil(t, svc.UpdateTheme(ctx, resp.Identity.UID, user_dto.UpdateThemeRequest{Theme: "navy"}))

	resolved, appErr := svc.Session(ctx, resp.Identity.UID, "alice", false)
	require.Nil(t, appErr)
	assert.Equal(t, "navy", resolved.Theme)

	invalid := svc.UpdateTheme(ctx, resp.Identity.UID, user_dto.UpdateThemeRequest{Theme: "plaid"})
	require.NotNil(t, invalid)
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}

func TestUpdateDisplayName_UnknownUID(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)

	appErr := svc.UpdateDisplayName(context.Background(), "missing", user_dto.UpdateDisplayNameRequest{DisplayName: "Ghost"})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}
