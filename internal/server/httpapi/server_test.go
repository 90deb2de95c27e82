package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/avoroncov/itemvault/internal/common"
	"github.com/avoroncov/itemvault/internal/logging"
	"github.com/avoroncov/itemvault/internal/server/models"
	"github.com/avoroncov/itemvault/internal/server/repositories/items"
	"github.com/avoroncov/itemvault/internal/server/services"
)

const testSecret = "test-secret"

// fakeUserService is a hand-rolled userService for handler tests.
type fakeUserService struct {
	signupOut *models.User
	signupErr error

	loginOut string
	loginErr error

	resolveOut *models.User
	resolveErr error

	gotUsername string
	gotPin      string
	gotUID      string
}

func (f *fakeUserService) Signup(ctx context.Context, username, pin string) (*models.User, error) {
	f.gotUsername, f.gotPin = username, pin
	return f.signupOut, f.signupErr
}

func (f *fakeUserService) Login(ctx context.Context, username, pin string) (string, error) {
	f.gotUsername, f.gotPin = username, pin
	return f.loginOut, f.loginErr
}

func (f *fakeUserService) ResolveAccount(ctx context.Context, claimedUID string) (*models.User, error) {
	f.gotUID = claimedUID
	return f.resolveOut, f.resolveErr
}

// fakeItemService is a hand-rolled itemService for handler tests.
type fakeItemService struct {
	listOut *services.ListResult
	listErr error

	getOut *models.Item
	getErr error

	createOut int64
	createErr error

	updateErr error
	deleteErr error

	gotOwnerID    int64
	gotID         int64
	gotParams     items.ListParams
	gotPatch      items.Patch
	gotTitle      string
	gotDesc       string
	gotStatus     models.ItemStatus
	gotVisibility models.ItemVisibility
}

func (f *fakeItemService) List(ctx context.Context, ownerID int64, params items.ListParams) (*services.ListResult, error) {
	f.gotOwnerID, f.gotParams = ownerID, params
	return f.listOut, f.listErr
}

func (f *fakeItemService) Get(ctx context.Context, id int64, ownerID int64) (*models.Item, error) {
	f.gotID, f.gotOwnerID = id, ownerID
	return f.getOut, f.getErr
}

func (f *fakeItemService) Create(ctx context.Context, ownerID int64, title, description string,
	status models.ItemStatus, visibility models.ItemVisibility) (int64, error) {
	f.gotOwnerID, f.gotTitle, f.gotDesc, f.gotStatus, f.gotVisibility = ownerID, title, description, status, visibility
	return f.createOut, f.createErr
}

func (f *fakeItemService) Update(ctx context.Context, id int64, ownerID int64, patch items.Patch) error {
	f.gotID, f.gotOwnerID, f.gotPatch = id, ownerID, patch
	return f.updateErr
}

func (f *fakeItemService) Delete(ctx context.Context, id int64, ownerID int64) error {
	f.gotID, f.gotOwnerID = id, ownerID
	return f.deleteErr
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestServer(us *fakeUserService, is *fakeItemService) *httptest.Server {
	s := &Server{
		address:        ":0",
		logger:         discardLogger(),
		users:          us,
		items:          is,
		jwtSecret:      []byte(testSecret),
		requestTimeout: time.Second,
		corsOrigins:    "http://localhost:3000",
	}
	return httptest.NewServer(s.routes())
}

func activeUser() *models.User {
	return &models.User{ID: 7, UID: "uid-7", Username: "alice", Status: models.UserStatusActive}
}

func ownedItem() *models.Item {
	return &models.Item{
		ID:         42,
		UserID:     7,
		Title:      "first",
		Status:     models.ItemStatusDraft,
		Visibility: models.ItemVisibilityPrivate,
	}
}

// authedUserService returns a fake that resolves every token to the
// given user.
func authedUserService(u *models.User) *fakeUserService {
	return &fakeUserService{resolveOut: u}
}

func doRequest(ts *httptest.Server, method, path, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set(common.AuthHeaderName, token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.Client().Do(req)
}
