package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avoroncov/itemvault/internal/common"
	"github.com/avoroncov/itemvault/internal/dbx"
	"github.com/avoroncov/itemvault/internal/server/models"
	"github.com/avoroncov/itemvault/internal/server/repositories/items"
	"github.com/avoroncov/itemvault/internal/server/repositories/repomanager"
)

// ListResult is one page of an owner's items plus the pagination metadata
// echoed back to the client.
type ListResult struct {
	Items        []*models.Item
	Count        int
	TotalCount   int64
	Page         int
	PerPageCount int
}

// ItemService provides owner-scoped item operations. Every method takes the
// authenticated owner's internal id explicitly; client-supplied owner ids
// are never trusted.
type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewItemService constructs an ItemService using repositories.
func NewItemService(db *sql.DB, m repomanager.RepositoryManager) *ItemService {
	return &ItemService{db: db, repomanager: m}
}

// List returns the requested page of the owner's items. Pagination inputs
// are clamped (limit ≤ 0 becomes the default page size, page ≤ 0 becomes 1)
// and the effective values are echoed in the result.
func (s *ItemService) List(ctx context.Context, ownerID int64, params items.ListParams) (*ListResult, error) {
	p := params.Normalized()

	repo := s.repomanager.Items(s.db)
	list, total, err := repo.List(ctx, ownerID, p)
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}
	if list == nil {
		list = []*models.Item{}
	}

	return &ListResult{
		Items:        list,
		Count:        len(list),
		TotalCount:   total,
		Page:         p.Page,
		PerPageCount: p.Limit,
	}, nil
}

// Get returns the item with the given id when it belongs to ownerID.
// A missing row yields common.ErrorNotFound; an existing row owned by
// someone else yields common.ErrorForbidden. The two are deliberately
// distinguishable, unlike account resolution.
func (s *ItemService) Get(ctx context.Context, id int64, ownerID int64) (*models.Item, error) {
	repo := s.repomanager.Items(s.db)

	item, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UserID != ownerID {
		return nil, common.ErrorForbidden
	}
	return item, nil
}

// Create inserts a new item owned by ownerID and returns its id.
func (s *ItemService) Create(ctx context.Context, ownerID int64, title, description string,
	status models.ItemStatus, visibility models.ItemVisibility) (int64, error) {

	repo := s.repomanager.Items(s.db)
	item := &models.Item{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Status:      status,
		Visibility:  visibility,
	}
	created, err := repo.Create(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("error creating item: %w", err)
	}
	return created.ID, nil
}

// Update applies the non-nil patch fields to the owner's item. The
// classifying lookup and the owner-conditional UPDATE run in one
// transaction; if the conditional statement then matches no row the item
// vanished concurrently and NotFound is returned.
func (s *ItemService) Update(ctx context.Context, id int64, ownerID int64, patch items.Patch) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Items(tx)

		if err := s.checkOwnership(ctx, repo, id, ownerID); err != nil {
			return err
		}
		if patch.Empty() {
			return nil
		}

		n, err := repo.Update(ctx, id, ownerID, patch)
		if err != nil {
			return fmt.Errorf("error updating item: %w", err)
		}
		if n == 0 {
			return common.ErrorNotFound
		}
		return nil
	})
}

// Delete hard-deletes the owner's item, with the same classification and
// atomicity rules as Update.
func (s *ItemService) Delete(ctx context.Context, id int64, ownerID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Items(tx)

		if err := s.checkOwnership(ctx, repo, id, ownerID); err != nil {
			return err
		}

		n, err := repo.Delete(ctx, id, ownerID)
		if err != nil {
			return fmt.Errorf("error deleting item: %w", err)
		}
		if n == 0 {
			return common.ErrorNotFound
		}
		return nil
	})
}

// checkOwnership classifies a mutation target: missing row → NotFound,
// row owned by someone else → Forbidden.
func (s *ItemService) checkOwnership(ctx context.Context, repo items.Repository, id int64, ownerID int64) error {
	item, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return err
	}
	if item.UserID != ownerID {
		return common.ErrorForbidden
	}
	return nil
}
