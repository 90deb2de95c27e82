// Package httpapi exposes the service over HTTP/JSON: a chi router with
// the auth middleware chain, request handlers, and error-to-status mapping.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/avoroncov/itemvault/internal/logging"
	"github.com/avoroncov/itemvault/internal/server/config"
	"github.com/avoroncov/itemvault/internal/server/models"
	"github.com/avoroncov/itemvault/internal/server/repositories/items"
	"github.com/avoroncov/itemvault/internal/server/services"
)

// userService is the slice of services.UserService the handlers need.
type userService interface {
	Signup(ctx context.Context, username, pin string) (*models.User, error)
	Login(ctx context.Context, username, pin string) (string, error)
	ResolveAccount(ctx context.Context, claimedUID string) (*models.User, error)
}

// itemService is the slice of services.ItemService the handlers need.
type itemService interface {
	List(ctx context.Context, ownerID int64, params items.ListParams) (*services.ListResult, error)
	Get(ctx context.Context, id int64, ownerID int64) (*models.Item, error)
	Create(ctx context.Context, ownerID int64, title, description string,
		status models.ItemStatus, visibility models.ItemVisibility) (int64, error)
	Update(ctx context.Context, id int64, ownerID int64, patch items.Patch) error
	Delete(ctx context.Context, id int64, ownerID int64) error
}

type Server struct {
	address        string
	logger         logging.Logger
	users          userService
	items          itemService
	jwtSecret      []byte
	requestTimeout time.Duration
	corsOrigins    string
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, is *services.ItemService) *Server {
	return &Server{
		address:        cfg.EndpointAddrHTTP,
		logger:         l.With("module", "httpapi"),
		users:          us,
		items:          is,
		jwtSecret:      []byte(cfg.SecretKey),
		requestTimeout: cfg.RequestTimeout,
		corsOrigins:    cfg.CORSAllowedOrigins,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
