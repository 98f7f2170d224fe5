package identity_repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/state"
)

type IdentityRepo struct {
	AppState *state.AppState
}

func NewIdentityRepo(appState *state.AppState) IdentityRepoContract {
	return &IdentityRepo{
		AppState: appState,
	}
}

func (r *IdentityRepo) CountIdentity(ctx context.Context, filter entity.IdentityFilter) (int64, *app_error.AppError) {
	var count int64

	query := r.AppState.DB.WithContext(ctx).Model(&entity.Identity{})

	if filter.UID != nil {
		query = query.Where("uid = ?", filter.UID)
	}

	if filter.Username != nil {
		query = query.Where("username = ?", filter.Username)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, app_error.Internal("unexpected server error", "db-count")
	}
	return count, nil
}

func (r *IdentityRepo) SaveIdentity(ctx context.Context, model entity.Identity) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return app_error.Conflict("identity already exists", "identity")
		}
		return app_error.Internal("unexpected error occur when trying to create identity", "db-create")
	}

	return nil
}

// EnsureIdentity is the reconciliation point for identity absence: it
// creates the profile if it is missing and loads whichever record wins.
// A concurrent create for the same uid is fine, the payload is derived
// from the uid alone.
func (r *IdentityRepo) EnsureIdentity(ctx context.Context, model entity.Identity) (*entity.Identity, *app_error.AppError) {
	err := r.AppState.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uid"}}, DoNothing: true}).
		Create(&model).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, app_error.Internal("unexpected error occur when ensuring identity", "db-create")
	}

	return r.FindByUID(ctx, model.UID)
}

func (r *IdentityRepo) FindByUID(ctx context.Context, uid string) (*entity.Identity, *app_error.AppError) {
	var identity entity.Identity

	if err := r.AppState.DB.WithContext(ctx).Where("uid = ?", uid).First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("cannot find identity", "uid")
		}
		return nil, app_error.Internal("unexpected error occur when fetch identity", "db-error")
	}

	return &identity, nil
}

func (r *IdentityRepo) FindByUsername(ctx context.Context, username string) (*entity.Identity, *app_error.AppError) {
	var identity entity.Identity

	if err := r.AppState.DB.WithContext(ctx).Where("username = ?", username).First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("cannot find identity", "username")
		}
		return nil, app_error.Internal("unexpected error occur when fetch identity", "db-error")
	}

	return &identity, nil
}

func (r *IdentityRepo) UpdateDisplayName(ctx context.Context, uid, displayName string) *app_error.AppError {
	return r.updateField(ctx, uid, "display_name", displayName)
}

func (r *IdentityRepo) UpdateTheme(ctx context.Context, uid, theme string) *app_error.AppError {
	return r.updateField(ctx, uid, "theme", theme)
}

// single-field overwrite, nothing else in the record is touched
func (r *IdentityRepo) updateField(ctx context.Context, uid, column string, value string) *app_error.AppError {
	res := r.AppState.DB.WithContext(ctx).Model(&entity.Identity{}).
		Where("uid = ?", uid).
		Update(column, value)
	if res.Error != nil {
		return app_error.Internal("unexpected error occur when updating identity", "db-update")
	}
	if res.RowsAffected == 0 {
		return app_error.NotFound("cannot find identity", "uid")
	}
	return nil
}
