package httpapi

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/avoroncov/itemvault/internal/common"
)

var (
	usernameRe = regexp.MustCompile(`^\w{3,30}$`)
	pinRe      = regexp.MustCompile(`^\d{4,10}$`)
)

type credentialsRequest struct {
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

// decodeCredentials parses and validates a signup/login body. Validation
// failures are written to w and reported via ok=false.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Request body must be valid JSON.")
		return req, false
	}
	if !usernameRe.MatchString(req.Username) {
		badRequest(w, "Username must be 3-30 characters and contain only letters, numbers and underscores.")
		return req, false
	}
	if !pinRe.MatchString(req.Pin) {
		badRequest(w, "Pin must be 4-10 digits.")
		return req, false
	}
	return req, true
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := s.users.Signup(r.Context(), req.Username, req.Pin)
	if err != nil {
		errorJSON(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       user.ID,
		"username": user.Username,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Pin)
	if err != nil {
		errorJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token": common.BearerPrefix + " " + token,
	})
}
