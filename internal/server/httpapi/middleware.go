package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/avoroncov/itemvault/internal/common"
	"github.com/avoroncov/itemvault/internal/server/auth"
	"github.com/avoroncov/itemvault/internal/server/models"
)

type ctxKey string

const (
	claimedUIDKey ctxKey = "claimedUID"
	userKey       ctxKey = "user"
)

// CurrentUser returns the authenticated user attached by checkUser.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// checkJwt verifies the bearer token on the Authorization header and stores
// the claimed UID in the request context. A missing header, a missing
// Bearer prefix, a bad signature, or a malformed token all fail as invalid;
// an expired token fails distinctly so clients can re-authenticate.
func (s *Server) checkJwt(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			errorJSON(w, common.ErrInvalidToken)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))

		uid, err := auth.GetUserUIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.logger.Warn(r.Context(), "token verification failed", "error", err.Error())
			errorJSON(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimedUIDKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// checkUser resolves the claimed UID to a live Active account and attaches
// the user record to the request context. It is the sole source of the
// owner id used by the item handlers; owner ids in request bodies are
// never consulted. Runs after checkJwt on every owner-scoped route.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := r.Context().Value(claimedUIDKey).(string)
		if !ok || uid == "" {
			errorJSON(w, common.ErrorUnauthorized)
			return
		}

		user, err := s.users.ResolveAccount(r.Context(), uid)
		if err != nil {
			errorJSON(w, common.ErrorUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recoverPanics converts an unexpected panic into a logged 500 with a safe
// generic message.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error(r.Context(), "panic in handler", "panic", rec, "path", r.URL.Path)
				errorJSON(w, common.ErrorInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}

// limitRequestDuration bounds every request with the configured deadline so
// a stuck database call cannot hold a handler forever.
func (s *Server) limitRequestDuration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.requestTimeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
