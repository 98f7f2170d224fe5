package room_repo

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/state"
)

type RoomRepo struct {
	AppState *state.AppState
}

func NewRoomRepo(appState *state.AppState) RoomRepoContract {
	return &RoomRepo{
		AppState: appState,
	}
}

func (r *RoomRepo) CodeExists(ctx context.Context, code string) (bool, *app_error.AppError) {
	var count int64
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Room{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, app_error.Internal("failed to check room code", "db-error")
	}
	return count > 0, nil
}

// CreateRoom commits the room, the owner's membership row and the
// joined-rooms append in a single transaction. Either all three land or
// none do; the membership biconditional never holds a partial state
// outside the transaction window.
func (r *RoomRepo) CreateRoom(ctx context.Context, room entity.Room) *app_error.AppError {
	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}

		member := entity.Membership{
			RoomCode: room.Code,
			UID:      room.OwnerUID,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		return appendJoinedRoom(tx, room.OwnerUID, room.Code)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// generated code already taken, caller retries with a fresh one
			return app_error.Conflict("room code already exists", "room-code")
		}
		var appErr *app_error.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		log.Error().Err(err).Str("code", room.Code).Msg("failed to create room")
		return app_error.Internal("failed to create room", "db-error")
	}
	return nil
}

// JoinRoom is the read-then-conditional-write: load the room, reject a
// repeat join, add the membership row and append the code, all in one
// transaction. The unique (room_code, uid) index makes the loser of two
// concurrent joins surface as AlreadyMember instead of a double add.
func (r *RoomRepo) JoinRoom(ctx context.Context, code, uid string) (*entity.Room, *app_error.AppError) {
	var room entity.Room

	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code = ?", code).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return app_error.NotFound("room not found", "room-code")
			}
			return err
		}

		var identity entity.Identity
		if err := tx.Where("uid = ?", uid).First(&identity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return app_error.NotFound("cannot find identity", "uid")
			}
			return err
		}
		if identity.HasJoined(code) {
			return app_error.Conflict("already a member of this room", "room-code")
		}

		member := entity.Membership{RoomCode: code, UID: uid}
		if err := tx.Create(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return app_error.Conflict("already a member of this room", "room-code")
			}
			return err
		}

		return appendJoinedRoom(tx, uid, code)
	})

	if err != nil {
		var appErr *app_error.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		log.Error().Err(err).Str("code", code).Str("uid", uid).Msg("failed to join room")
		return nil, app_error.Internal("failed to join room", "db-error")
	}
	return &room, nil
}

const maxAppendAttempts = 5

// joinedRoomsSwapHook, when set, runs between the identity read and the
// guarded update inside appendJoinedRoom. Tests use it to interleave a
// rival writer.
var joinedRoomsSwapHook func(tx *gorm.DB)

// appendJoinedRoom adds the code to the identity's joined-rooms list. The
// update only lands if the row is unchanged since the read; without the
// guard, two transactions appending different rooms for the same uid both
// read the same list and the later commit drops the earlier append (the
// unique membership index only covers the same-room case). The loser of
// the swap re-reads and retries.
func appendJoinedRoom(tx *gorm.DB, uid, code string) error {
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		var identity entity.Identity
		if err := tx.Where("uid = ?", uid).First(&identity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return app_error.NotFound("cannot find identity", "uid")
			}
			return err
		}
		if identity.HasJoined(code) {
			return nil
		}

		if joinedRoomsSwapHook != nil {
			joinedRoomsSwapHook(tx)
		}

		res := tx.Model(&entity.Identity{}).
			Where("uid = ? AND updated_at = ?", uid, identity.UpdatedAt).
			Update("joined_rooms", append(identity.JoinedRooms, code))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}
	return app_error.Internal("failed to record joined room", "uid")
}

func (r *RoomRepo) FindRoomByCode(ctx context.Context, code string) (*entity.Room, *app_error.AppError) {
	var room entity.Room
	if err := r.AppState.DB.WithContext(ctx).Where("code = ?", code).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("room not found", "room-code")
		}
		log.Error().Err(err).Msgf("failed to fetch room: %v", err)
		return nil, app_error.Internal("failed to fetch room", "db-error")
	}
	return &room, nil
}

func (r *RoomRepo) ListByMember(ctx context.Context, uid string, limit int) ([]*entity.Room, *app_error.AppError) {
	var rooms []*entity.Room

	query := `
		SELECT r.* FROM rooms r
		JOIN memberships m ON m.room_code = r.code
		WHERE m.uid = ?
		ORDER BY r.created_at DESC
		LIMIT ?
	`
	if err := r.AppState.DB.WithContext(ctx).Raw(query, uid, limit).Scan(&rooms).Error; err != nil {
		return nil, app_error.Internal("failed to list rooms", "db-error")
	}
	return rooms, nil
}

func (r *RoomRepo) MemberIDs(ctx context.Context, code string) ([]string, *app_error.AppError) {
	var ids []string
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Membership{}).
		Where("room_code = ?", code).
		Order("joined_at asc").
		Pluck("uid", &ids).Error
	if err != nil {
		return nil, app_error.Internal("failed to fetch room members", "db-error")
	}
	return ids, nil
}

func (r *RoomRepo) IsMember(ctx context.Context, code, uid string) (bool, *app_error.AppError) {
	var count int64
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Membership{}).
		Where("room_code = ? AND uid = ?", code, uid).
		Count(&count).Error
	if err != nil {
		return false, app_error.Internal("failed to check membership", "db-error")
	}
	return count > 0, nil
}
