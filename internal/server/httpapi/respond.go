package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avoroncov/itemvault/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// badRequest writes a 400 with the given validation message.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": message})
}

// statusForError maps a domain error to an HTTP status and a client-safe
// message. NotFound and Forbidden stay distinguishable for item lookups;
// everything unexpected collapses to a generic 500.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid username or pin."
	case errors.Is(err, common.ErrAccountInactive):
		return http.StatusBadRequest, "User account is not active."
	case errors.Is(err, common.ErrDuplicateUsername):
		return http.StatusBadRequest, "Username must be unique, please try a different username."
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Expired token, unauthorized."
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token, unauthorized."
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Unauthorized."
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "You do not have access to this item."
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Item not found."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

func errorJSON(w http.ResponseWriter, err error) {
	status, message := statusForError(err)
	writeJSON(w, status, map[string]string{"message": message})
}
