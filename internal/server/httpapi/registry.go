package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/dpnode/internal/server/serializers"
)

// ListRegistry returns published registry entries.
// GET /registry
func (h *Handler) ListRegistry(w http.ResponseWriter, r *http.Request) {
	res, err := h.registry.List(r.Context(), IdentityFromContext(r.Context()), r.URL.Query())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newPage(r, res, serializers.FromRegistryEntry))
}

// CreateRegistryEntry registers a new object.
// POST /registry
func (h *Handler) CreateRegistryEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.AuthorizeCreate(IdentityFromContext(r.Context())); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var in serializers.RegistryEntryInput
	if err := h.decode(w, r, &in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	e, err := h.registry.Create(r.Context(), IdentityFromContext(r.Context()), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, serializers.FromRegistryEntry(e))
}

// GetRegistryEntry returns one entry.
// GET /registry/{dpn_object_id}
func (h *Handler) GetRegistryEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.registry.Get(r.Context(), IdentityFromContext(r.Context()), r.PathValue("dpn_object_id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, serializers.FromRegistryEntry(e))
}
