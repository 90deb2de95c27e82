package items

import (
	"context"

	"github.com/avoroncov/itemvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	List(ctx context.Context, ownerID int64, params ListParams) ([]*models.Item, int64, error)
	Update(ctx context.Context, id int64, ownerID int64, patch Patch) (int64, error)
	Delete(ctx context.Context, id int64, ownerID int64) (int64, error)
}

// Patch is a partial update: nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Status      *models.ItemStatus
	Visibility  *models.ItemVisibility
}

// Empty reports whether the patch carries no fields at all.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Visibility == nil
}
