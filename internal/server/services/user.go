// Package services contains server-side business logic. This file implements
// UserService: signup, login (username/PIN), and resolving a verified token
// claim to a live account.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avoroncov/itemvault/internal/common"
	"github.com/avoroncov/itemvault/internal/server/auth"
	"github.com/avoroncov/itemvault/internal/server/config"
	"github.com/avoroncov/itemvault/internal/server/models"
	"github.com/avoroncov/itemvault/internal/server/repositories/repomanager"
)

// UserService provides account-related operations:
// - Signup: create users with a hashed PIN
// - Login: verify credentials and mint an access token
// - ResolveAccount: map a token's claimed UID to a live Active user
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Signup creates a new Active user with the given username and PIN.
// A taken username yields common.ErrDuplicateUsername, whether caught by
// the pre-check or by the unique constraint on insert.
func (s *UserService) Signup(ctx context.Context, username, pin string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByUsername(ctx, username)
	if err == nil {
		return nil, common.ErrDuplicateUsername
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing pin: %w", err)
	}

	user := &models.User{
		UID:      uuid.NewString(),
		Username: username,
		PinHash:  string(hash),
		Status:   models.UserStatusActive,
	}
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the username/PIN pair and returns a fresh access token.
// Unknown username and wrong PIN both yield common.ErrInvalidCredentials
// so callers cannot probe which usernames exist. An inactive account with
// correct credentials yields common.ErrAccountInactive.
func (s *UserService) Login(ctx context.Context, username, pin string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(pin)) != nil {
		return "", common.ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return "", common.ErrAccountInactive
	}

	token, err := auth.GenerateToken(user.UID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// ResolveAccount maps the UID claimed by a verified token to a live user
// record. Missing user, UID mismatch, and inactive status all collapse to
// common.ErrorUnauthorized so account existence is never leaked through
// this path.
func (s *UserService) ResolveAccount(ctx context.Context, claimedUID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUID(ctx, claimedUID)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	// Defensive re-check against any lookup ambiguity.
	if user.UID != claimedUID {
		return nil, common.ErrorUnauthorized
	}

	if user.Status != models.UserStatusActive {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}
