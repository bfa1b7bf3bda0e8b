// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/registry"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Error details returned to clients.
const (
	detailActivityNotFound = "Activity not found"
	detailAlreadySignedUp  = "Student already signed up for this activity"
	detailNotRegistered    = "Student not registered for this activity"
	detailEmailRequired    = "email query parameter is required"
	detailInternal         = "Internal server error"
)

// ActivityHandler holds all HTTP handlers for the activities API.
type ActivityHandler struct {
	svc *service.ActivityService
	log *zap.Logger
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService, log *zap.Logger) *ActivityHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityHandler{svc: svc, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

// activityName returns the decoded {name} path parameter. chi matches on
// RawPath when the request carried escapes that Path cannot represent
// (e.g. %2F), and then the parameter is still escaped.
func activityName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

// writeRegistryError maps registry sentinel errors to status codes.
func (h *ActivityHandler) writeRegistryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, registry.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, detailActivityNotFound)
	case errors.Is(err, registry.ErrAlreadySignedUp):
		writeError(w, http.StatusBadRequest, detailAlreadySignedUp)
	case errors.Is(err, registry.ErrNotRegistered):
		writeError(w, http.StatusBadRequest, detailNotRegistered)
	default:
		h.log.Error("unexpected error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, detailInternal)
	}
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Root handles GET /
// Redirects browsers to the static front end.
func Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

// ListActivities handles GET /activities
// Returns a JSON object mapping activity name to activity.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListActivities(r.Context()))
}

// Signup handles POST /activities/{name}/signup?email=...
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name, email, ok := h.rosterParams(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Signup(r.Context(), name, email)
	if err != nil {
		h.writeRegistryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Unregister handles DELETE /activities/{name}/unregister?email=...
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name, email, ok := h.rosterParams(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Unregister(r.Context(), name, email)
	if err != nil {
		h.writeRegistryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// rosterParams extracts the activity name and email shared by signup and
// unregister. The email is used verbatim; only its absence is rejected.
func (h *ActivityHandler) rosterParams(w http.ResponseWriter, r *http.Request) (name, email string, ok bool) {
	name, err := activityName(r)
	if err != nil {
		writeError(w, http.StatusNotFound, detailActivityNotFound)
		return "", "", false
	}

	q := r.URL.Query()
	if !q.Has("email") {
		writeError(w, http.StatusUnprocessableEntity, detailEmailRequired)
		return "", "", false
	}
	return name, q.Get("email"), true
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}
