package models

import "time"

// ItemStatus is the publication state of an item.
type ItemStatus string

const (
	ItemStatusDraft    ItemStatus = "draft"
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
	ItemStatusArchived ItemStatus = "archived"
)

// ValidItemStatus reports whether s is one of the known statuses.
func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemStatusDraft, ItemStatusActive, ItemStatusInactive, ItemStatusArchived:
		return true
	}
	return false
}

// ItemVisibility controls whether an item is marked public or private.
// Either way the item is only reachable through the API by its owner.
type ItemVisibility string

const (
	ItemVisibilityPublic  ItemVisibility = "public"
	ItemVisibilityPrivate ItemVisibility = "private"
)

// ValidItemVisibility reports whether v is one of the known visibilities.
func ValidItemVisibility(v ItemVisibility) bool {
	return v == ItemVisibilityPublic || v == ItemVisibilityPrivate
}

// Item is a user-owned record. UserID is the owner's internal id and is
// immutable after creation; timestamps are assigned by the database.
type Item struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"-"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      ItemStatus     `json:"status"`
	Visibility  ItemVisibility `json:"visibility"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
