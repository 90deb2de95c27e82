package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avoroncov/itemvault/internal/common"
	"github.com/avoroncov/itemvault/internal/dbx"
	"github.com/avoroncov/itemvault/internal/server/auth"
	"github.com/avoroncov/itemvault/internal/server/config"
	"github.com/avoroncov/itemvault/internal/server/models"
	itemsrepo "github.com/avoroncov/itemvault/internal/server/repositories/items"
	usersrepo "github.com/avoroncov/itemvault/internal/server/repositories/users"
)

// --- fakes ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byUsernameOut *models.User
	byUsernameErr error

	byUIDOut *models.User
	byUIDErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.byUsernameErr != nil {
		return nil, f.byUsernameErr
	}
	return f.byUsernameOut, nil
}

func (f *fakeUsersRepo) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	if f.byUIDErr != nil {
		return nil, f.byUIDErr
	}
	return f.byUIDOut, nil
}

type fakeRepoManager struct {
	users usersrepo.Repository
	items itemsrepo.Repository
}

func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return f.users }

func (f *fakeRepoManager) Items(db dbx.DBTX) itemsrepo.Repository { return f.items }

func newUserService(repo *fakeUsersRepo) *UserService {
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(nil, &fakeRepoManager{users: repo}, cfg)
}

func pinHash(t *testing.T, pin string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	return string(h)
}

// --- Signup ---

func TestSignup_Success(t *testing.T) {
	repo := &fakeUsersRepo{byUsernameErr: common.ErrorNotFound}
	svc := newUserService(repo)

	u, err := svc.Signup(context.Background(), "alice", "1234")
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("unexpected username: %q", u.Username)
	}
	if u.UID == "" {
		t.Fatal("expected a generated UID")
	}
	if u.Status != models.UserStatusActive {
		t.Fatalf("expected active status, got %q", u.Status)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PinHash), []byte("1234")) != nil {
		t.Fatal("stored hash does not match the pin")
	}
}

func TestSignup_DuplicateUsername_Precheck(t *testing.T) {
	repo := &fakeUsersRepo{byUsernameOut: &models.User{Username: "alice"}}
	svc := newUserService(repo)

	_, err := svc.Signup(context.Background(), "alice", "1234")
	if !errors.Is(err, common.ErrDuplicateUsername) {
		t.Fatalf("expected common.ErrDuplicateUsername, got %v", err)
	}
}

func TestSignup_DuplicateUsername_InsertRace(t *testing.T) {
	// Pre-check sees no user, but the insert hits the unique constraint.
	repo := &fakeUsersRepo{
		byUsernameErr: common.ErrorNotFound,
		createErr:     common.ErrDuplicateUsername,
	}
	svc := newUserService(repo)

	_, err := svc.Signup(context.Background(), "alice", "1234")
	if !errors.Is(err, common.ErrDuplicateUsername) {
		t.Fatalf("expected common.ErrDuplicateUsername, got %v", err)
	}
}

func TestSignup_LookupFailure(t *testing.T) {
	repo := &fakeUsersRepo{byUsernameErr: errors.New("db down")}
	svc := newUserService(repo)

	_, err := svc.Signup(context.Background(), "alice", "1234")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected common.ErrorInternal, got %v", err)
	}
}

// --- Login ---

func TestLogin_Success_TokenRoundTrips(t *testing.T) {
	repo := &fakeUsersRepo{byUsernameOut: &models.User{
		UID:      "uid-1",
		Username: "alice",
		PinHash:  pinHash(t, "1234"),
		Status:   models.UserStatusActive,
	}}
	svc := newUserService(repo)

	token, err := svc.Login(context.Background(), "alice", "1234")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	uid, err := auth.GetUserUIDFromToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("token verification error: %v", err)
	}
	if uid != "uid-1" {
		t.Fatalf("uid mismatch: got %q", uid)
	}
}

func TestLogin_UnknownUserAndWrongPin_SameError(t *testing.T) {
	unknown := &fakeUsersRepo{byUsernameErr: common.ErrorNotFound}
	_, errUnknown := newUserService(unknown).Login(context.Background(), "ghost", "1234")

	wrongPin := &fakeUsersRepo{byUsernameOut: &models.User{
		UID: "uid-1", Username: "alice", PinHash: pinHash(t, "1234"),
		Status: models.UserStatusActive,
	}}
	_, errWrongPin := newUserService(wrongPin).Login(context.Background(), "alice", "9999")

	if !errors.Is(errUnknown, common.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected common.ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPin, common.ErrInvalidCredentials) {
		t.Fatalf("wrong pin: expected common.ErrInvalidCredentials, got %v", errWrongPin)
	}
	if errUnknown.Error() != errWrongPin.Error() {
		t.Fatalf("login errors must be indistinguishable: %q vs %q", errUnknown, errWrongPin)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	repo := &fakeUsersRepo{byUsernameOut: &models.User{
		UID: "uid-1", Username: "alice", PinHash: pinHash(t, "1234"),
		Status: models.UserStatusInactive,
	}}
	svc := newUserService(repo)

	_, err := svc.Login(context.Background(), "alice", "1234")
	if !errors.Is(err, common.ErrAccountInactive) {
		t.Fatalf("expected common.ErrAccountInactive, got %v", err)
	}
}

func TestLogin_LookupFailure(t *testing.T) {
	repo := &fakeUsersRepo{byUsernameErr: errors.New("db down")}
	svc := newUserService(repo)

	_, err := svc.Login(context.Background(), "alice", "1234")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected common.ErrorInternal, got %v", err)
	}
}

// --- ResolveAccount ---

func TestResolveAccount_Success(t *testing.T) {
	repo := &fakeUsersRepo{byUIDOut: &models.User{
		ID: 7, UID: "uid-7", Username: "bob", Status: models.UserStatusActive,
	}}
	svc := newUserService(repo)

	u, err := svc.ResolveAccount(context.Background(), "uid-7")
	if err != nil {
		t.Fatalf("ResolveAccount error: %v", err)
	}
	if u.ID != 7 {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestResolveAccount_CollapsesToUnauthorized(t *testing.T) {
	tests := []struct {
		name string
		repo *fakeUsersRepo
	}{
		{"missing user", &fakeUsersRepo{byUIDErr: common.ErrorNotFound}},
		{"lookup failure", &fakeUsersRepo{byUIDErr: errors.New("db down")}},
		{"uid mismatch", &fakeUsersRepo{byUIDOut: &models.User{
			UID: "other-uid", Status: models.UserStatusActive,
		}}},
		{"inactive account", &fakeUsersRepo{byUIDOut: &models.User{
			UID: "uid-7", Status: models.UserStatusInactive,
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newUserService(tt.repo)
			_, err := svc.ResolveAccount(context.Background(), "uid-7")
			if !errors.Is(err, common.ErrorUnauthorized) {
				t.Fatalf("expected common.ErrorUnauthorized, got %v", err)
			}
		})
	}
}
