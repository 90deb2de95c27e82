package models

import "time"

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User is the persisted account record. ID is internal only and never
// leaves the process; UID is the stable identifier exposed externally and
// embedded in tokens.
type User struct {
	ID        int64
	UID       string
	Username  string
	PinHash   string
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
