package identity_repo

import (
	"context"

	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
)

type IdentityRepoContract interface {
	CountIdentity(ctx context.Context, filter entity.IdentityFilter) (int64, *app_error.AppError)
	SaveIdentity(ctx context.Context, model entity.Identity) *app_error.AppError
	EnsureIdentity(ctx context.Context, model entity.Identity) (*entity.Identity, *app_error.AppError)
	FindByUID(ctx context.Context, uid string) (*entity.Identity, *app_error.AppError)
	FindByUsername(ctx context.Context, username string) (*entity.Identity, *app_error.AppError)
	UpdateDisplayName(ctx context.Context, uid, displayName string) *app_error.AppError
	UpdateTheme(ctx context.Context, uid, theme string) *app_error.AppError
}
