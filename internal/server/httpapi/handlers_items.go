package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avoroncov/itemvault/internal/common"
	"github.com/avoroncov/itemvault/internal/server/models"
	"github.com/avoroncov/itemvault/internal/server/repositories/items"
)

const (
	maxTitleLen       = 120
	maxDescriptionLen = 500
)

type itemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Visibility  *string `json:"visibility"`
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("Title is required.")
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("Title must be at most %d characters.", maxTitleLen)
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("Description must be at most %d characters.", maxDescriptionLen)
	}
	return nil
}

// parseStatus lowercases and validates a client-supplied status value.
func parseStatus(raw string) (models.ItemStatus, error) {
	st := models.ItemStatus(strings.ToLower(raw))
	if !models.ValidItemStatus(st) {
		return "", fmt.Errorf("Status must be one of: draft, active, inactive, archived.")
	}
	return st, nil
}

// parseVisibility lowercases and validates a client-supplied visibility value.
func parseVisibility(raw string) (models.ItemVisibility, error) {
	v := models.ItemVisibility(strings.ToLower(raw))
	if !models.ValidItemVisibility(v) {
		return "", fmt.Errorf("Visibility must be one of: public, private.")
	}
	return v, nil
}

// itemID extracts the {id} path parameter as an integer.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "Item ID must be a number.")
		return 0, false
	}
	return id, true
}

// listParams builds the repository list parameters from the query string.
// page and limit fall back to their defaults when absent or non-numeric;
// status and visibility are validated eagerly so typos fail loudly instead
// of silently matching nothing.
func (s *Server) listParams(w http.ResponseWriter, r *http.Request) (items.ListParams, bool) {
	q := r.URL.Query()

	params := items.ListParams{
		Sort:   q.Get("sort"),
		Filter: map[string]string{},
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = v
	}

	// A `where` query parameter may carry a JSON object of filters;
	// explicit parameters below override it. Unknown keys are dropped
	// by the repository.
	if raw := q.Get("where"); raw != "" {
		var where map[string]string
		if err := json.Unmarshal([]byte(raw), &where); err != nil {
			badRequest(w, "Where filter must be a JSON object of strings.")
			return params, false
		}
		for k, v := range where {
			params.Filter[k] = v
		}
	}

	if raw := q.Get("status"); raw != "" {
		st, err := parseStatus(raw)
		if err != nil {
			badRequest(w, err.Error())
			return params, false
		}
		params.Filter["status"] = string(st)
	}
	if raw := q.Get("visibility"); raw != "" {
		v, err := parseVisibility(raw)
		if err != nil {
			badRequest(w, err.Error())
			return params, false
		}
		params.Filter["visibility"] = string(v)
	}
	if raw := q.Get("title"); raw != "" {
		params.Filter["title"] = raw
	}

	return params, true
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		errorJSON(w, common.ErrorUnauthorized)
		return
	}

	params, ok := s.listParams(w, r)
	if !ok {
		return
	}

	res, err := s.items.List(r.Context(), user.ID, params)
	if err != nil {
		errorJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":        res.Count,
		"totalCount":   res.TotalCount,
		"page":         res.Page,
		"perPageCount": res.PerPageCount,
		"items":        res.Items,
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		errorJSON(w, common.ErrorUnauthorized)
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := s.items.Get(r.Context(), id, user.ID)
	if err != nil {
		errorJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		errorJSON(w, common.ErrorUnauthorized)
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Request body must be valid JSON.")
		return
	}

	var title, description string
	if req.Title != nil {
		title = *req.Title
	}
	if err := validateTitle(title); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := validateDescription(description); err != nil {
		badRequest(w, err.Error())
		return
	}

	status := models.ItemStatusDraft
	if req.Status != nil {
		st, err := parseStatus(*req.Status)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		status = st
	}
	visibility := models.ItemVisibilityPrivate
	if req.Visibility != nil {
		v, err := parseVisibility(*req.Visibility)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		visibility = v
	}

	id, err := s.items.Create(r.Context(), user.ID, title, description, status, visibility)
	if err != nil {
		errorJSON(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		errorJSON(w, common.ErrorUnauthorized)
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Request body must be valid JSON.")
		return
	}

	var patch items.Patch
	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			badRequest(w, err.Error())
			return
		}
		patch.Title = req.Title
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			badRequest(w, err.Error())
			return
		}
		patch.Description = req.Description
	}
	if req.Status != nil {
		st, err := parseStatus(*req.Status)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		patch.Status = &st
	}
	if req.Visibility != nil {
		v, err := parseVisibility(*req.Visibility)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		patch.Visibility = &v
	}

	if err := s.items.Update(r.Context(), id, user.ID, patch); err != nil {
		errorJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully updated item."})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		errorJSON(w, common.ErrorUnauthorized)
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := s.items.Delete(r.Context(), id, user.ID); err != nil {
		errorJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted item."})
}
