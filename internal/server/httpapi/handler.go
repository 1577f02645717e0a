// Package httpapi exposes the node's registry, nodes and transfers over a
// token-authenticated REST API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/logging"
	"github.com/dmitrijs2005/dpnode/internal/server/serializers"
	"github.com/dmitrijs2005/dpnode/internal/server/services"
)

// maxBodyBytes caps request payloads.
const maxBodyBytes = 1 << 20

// Handler provides HTTP endpoints for the node services.
type Handler struct {
	identity  *services.IdentityService
	registry  *services.RegistryService
	nodes     *services.NodeService
	transfers *services.TransferService
	logger    logging.Logger
}

// HandlerConfig wires the services behind the API.
type HandlerConfig struct {
	Identity  *services.IdentityService
	Registry  *services.RegistryService
	Nodes     *services.NodeService
	Transfers *services.TransferService
	// Logger defaults to a no-op logger.
	Logger logging.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Handler{
		identity:  cfg.Identity,
		registry:  cfg.Registry,
		nodes:     cfg.Nodes,
		transfers: cfg.Transfers,
		logger:    logger.With("module", "http_api"),
	}
}

// Routes returns an http.Handler with all API routes registered. Every path
// is also served with a trailing slash.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	handle := func(method, path string, fn http.HandlerFunc) {
		mux.HandleFunc(method+" "+path, fn)
		mux.HandleFunc(method+" "+path+"/{$}", fn)
	}

	// Registry
	handle("GET", "/registry", h.authenticated(h.ListRegistry))
	handle("POST", "/registry", h.authenticated(h.CreateRegistryEntry))
	handle("GET", "/registry/{dpn_object_id}", h.authenticated(h.GetRegistryEntry))

	// Nodes
	handle("GET", "/node", h.authenticated(h.ListNodes))
	handle("POST", "/node", h.authenticated(h.CreateNode))
	handle("GET", "/node/{namespace}", h.authenticated(h.GetNode))
	handle("PUT", "/node/{namespace}", h.authenticated(h.UpdateNode))
	handle("PATCH", "/node/{namespace}", h.authenticated(h.UpdateNode))

	// Transfers
	handle("GET", "/transfer", h.authenticated(h.ListTransfers))
	handle("GET", "/transfer/{event_id}", h.authenticated(h.GetTransfer))
	handle("PUT", "/transfer/{event_id}", h.authenticated(h.UpdateTransfer))
	handle("PATCH", "/transfer/{event_id}", h.authenticated(h.UpdateTransfer))

	// Health check
	mux.HandleFunc("GET /health", h.Health)

	return h.logRequests(mux)
}

// ErrorResponse is the response body for errors.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    string              `json:"code,omitempty"`
	Details string              `json:"details,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// Health reports liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	return serializers.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(context.Background(), "Failed to encode JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// writeServiceError maps service and repository errors onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid input.",
			Code:   "invalid",
			Fields: verr.Fields,
		})
	case errors.Is(err, common.ErrorUnauthorized):
		w.Header().Set("WWW-Authenticate", common.TokenKeywords[0])
		h.writeError(w, http.StatusUnauthorized, "not_authenticated", "Authentication credentials were not provided.", "")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		w.Header().Set("WWW-Authenticate", common.TokenKeywords[0])
		h.writeError(w, http.StatusUnauthorized, "authentication_failed", "Invalid token.", err.Error())
	case errors.Is(err, common.ErrNoProfile):
		h.writeError(w, http.StatusForbidden, "no_profile", "User is not bound to a node.", "")
	case errors.Is(err, common.ErrorForbidden):
		h.writeError(w, http.StatusForbidden, "permission_denied", "You do not have permission to perform this action.", "")
	case errors.Is(err, common.ErrInvalidPage):
		h.writeError(w, http.StatusNotFound, "not_found", "Invalid page", "")
	case errors.Is(err, common.ErrorNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", "Not found.", "")
	default:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error.", "")
	}
}
