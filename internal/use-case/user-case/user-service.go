package user_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/rs/zerolog/log"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/user_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	identity_repo "github.com/Matches1st/Cord-Disc-Chat/internal/repo/identity"
	"github.com/Matches1st/Cord-Disc-Chat/internal/utils"
	"github.com/Matches1st/Cord-Disc-Chat/state"
)

const profileCacheTTL = 60 * time.Second

// guest handles look like guest_x7k2p
var guestHandle func() string

func init() {
	gen, err := nanoid.CustomASCII("0123456789abcdefghijklmnopqrstuvwxyz", 5)
	if err != nil {
		panic(err)
	}
	guestHandle = gen
}

type UserService struct {
	AppState     *state.AppState
	IdentityRepo identity_repo.IdentityRepoContract
}

func NewUserService(appState *state.AppState) UserServiceContract {
	return &UserService{
		AppState:     appState,
		IdentityRepo: identity_repo.NewIdentityRepo(appState),
	}
}

func (u *UserService) Register(ctx context.Context, req user_dto.RegisterRequest) (*user_dto.AuthResponse, *app_error.AppError) {
	if err := u.checkUsernameFree(ctx, req.Username); err != nil {
		return nil, err
	}

	hashed, hashErr := utils.GenerateHash(req.Password)
	if hashErr != nil {
		return nil, app_error.Internal(hashErr.Error(), "password")
	}

	identity := entity.Identity{
		UID:          uuid.New().String(),
		Username:     req.Username,
		DisplayName:  entity.DefaultDisplayName,
		Theme:        entity.DefaultTheme,
		JoinedRooms:  []string{},
		IsGuest:      false,
		PasswordHash: hashed,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := u.IdentityRepo.SaveIdentity(ctx, identity); err != nil {
		return nil, err
	}

	return u.issueAuth(&identity)
}

func (u *UserService) Login(ctx context.Context, req user_dto.LoginRequest) (*user_dto.AuthResponse, *app_error.AppError) {
	identity, err := u.IdentityRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		// never leak whether the username exists
		return nil, app_error.Auth("credentials")
	}

	if identity.IsGuest || identity.PasswordHash == "" {
		return nil, app_error.Auth("credentials")
	}

	ok, verifyErr := utils.VerifyHash(identity.PasswordHash, req.Password)
	if verifyErr != nil || !ok {
		return nil, app_error.Auth("credentials")
	}

	return u.issueAuth(identity)
}

// Guest claims a username for an anonymous session. The profile record is
// a full identity, only flagged as guest.
func (u *UserService) Guest(ctx context.Context, req user_dto.GuestRequest) (*user_dto.AuthResponse, *app_error.AppError) {
	if err := u.checkUsernameFree(ctx, req.Username); err != nil {
		return nil, err
	}

	identity := entity.Identity{
		UID:         uuid.New().String(),
		Username:    req.Username,
		DisplayName: entity.DefaultDisplayName,
		Theme:       entity.DefaultTheme,
		JoinedRooms: []string{},
		IsGuest:     true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := u.IdentityRepo.SaveIdentity(ctx, identity); err != nil {
		return nil, err
	}

	return u.issueAuth(&identity)
}

// Session is the auth gate: the verified claims map to a profile record
// that is guaranteed to exist afterwards. A missing record is synthesized
// with defaults; a concurrent synthesis for the same uid is harmless since
// the payload is derived from the claims alone.
func (u *UserService) Session(ctx context.Context, uid, username string, isGuest bool) (*user_dto.IdentityResponse, *app_error.AppError) {
	cacheKey := fmt.Sprintf("profile:%s", uid)
	if cached, err := utils.GetCacheData[user_dto.IdentityResponse](ctx, u.AppState.Redis, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	if username == "" {
		username = "guest_" + guestHandle()
		isGuest = true
	}

	identity, err := u.IdentityRepo.EnsureIdentity(ctx, entity.Identity{
		UID:         uid,
		Username:    username,
		DisplayName: entity.DefaultDisplayName,
		Theme:       entity.DefaultTheme,
		JoinedRooms: []string{},
		IsGuest:     isGuest,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		return nil, err
	}

	resp := user_dto.FromIdentity(identity)
	if cacheErr := utils.SetCacheData(ctx, u.AppState.Redis, cacheKey, &resp, profileCacheTTL); cacheErr != nil {
		log.Warn().Err(cacheErr).Str("uid", uid).Msg("failed to cache profile")
	}
	return &resp, nil
}

func (u *UserService) UpdateDisplayName(ctx context.Context, uid string, req user_dto.UpdateDisplayNameRequest) *app_error.AppError {
	if err := u.IdentityRepo.UpdateDisplayName(ctx, uid, req.DisplayName); err != nil {
		return err
	}
	u.dropProfileCache(ctx, uid)
	return nil
}

func (u *UserService) UpdateTheme(ctx context.Context, uid string, req user_dto.UpdateThemeRequest) *app_error.AppError {
	if !entity.ValidTheme(req.Theme) {
		return app_error.Validation("unknown theme", "theme")
	}
	if err := u.IdentityRepo.UpdateTheme(ctx, uid, req.Theme); err != nil {
		return err
	}
	u.dropProfileCache(ctx, uid)
	return nil
}

func (u *UserService) checkUsernameFree(ctx context.Context, username string) *app_error.AppError {
	count, err := u.IdentityRepo.CountIdentity(ctx, entity.IdentityFilter{Username: &username})
	if err != nil {
		return err
	}
	if count > 0 {
		return app_error.Validation("username taken", "username")
	}
	return nil
}

func (u *UserService) issueAuth(identity *entity.Identity) (*user_dto.AuthResponse, *app_error.AppError) {
	token, err := utils.SignAccessToken(identity.UID, identity.Username, identity.IsGuest, u.AppState.JwtSecret.Private)
	if err != nil {
		log.Error().Err(err).Str("uid", identity.UID).Msg("failed to sign access token")
		return nil, app_error.Internal("failed to prepare access token", "token")
	}

	return &user_dto.AuthResponse{
		Token:    token,
		Identity: user_dto.FromIdentity(identity),
	}, nil
}

func (u *UserService) dropProfileCache(ctx context.Context, uid string) {
	if err := utils.DeleteCacheData(ctx, u.AppState.Redis, fmt.Sprintf("profile:%s", uid)); err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("failed to drop profile cache")
	}
}
