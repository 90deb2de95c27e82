package users

import (
	"context"

	"github.com/avoroncov/itemvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUID(ctx context.Context, uid string) (*models.User, error)
}
