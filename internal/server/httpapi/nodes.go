package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/dpnode/internal/server/serializers"
)

// ListNodes returns every node.
// GET /node
func (h *Handler) ListNodes(w http.ResponseWriter, r *http.Request) {
	res, err := h.nodes.List(r.Context(), IdentityFromContext(r.Context()), r.URL.Query())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newPage(r, res, serializers.FromNode))
}

// CreateNode adds a node to the network.
// POST /node
func (h *Handler) CreateNode(w http.ResponseWriter, r *http.Request) {
	if err := h.nodes.AuthorizeCreate(IdentityFromContext(r.Context())); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var in serializers.NodeInput
	if err := h.decode(w, r, &in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	n, err := h.nodes.Create(r.Context(), IdentityFromContext(r.Context()), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, serializers.FromNode(n))
}

// GET /node/{namespace}
func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) {
	n, err := h.nodes.Get(r.Context(), IdentityFromContext(r.Context()), r.PathValue("namespace"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, serializers.FromNode(n))
}

// UpdateNode serves both PUT and PATCH; PATCH is partial.
// PUT|PATCH /node/{namespace}
func (h *Handler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	if err := h.nodes.AuthorizeUpdate(r.Context(), IdentityFromContext(r.Context()), r.PathValue("namespace")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var in serializers.NodeInput
	if err := h.decode(w, r, &in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	n, err := h.nodes.Update(r.Context(), IdentityFromContext(r.Context()), r.PathValue("namespace"), in, r.Method == http.MethodPatch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, serializers.FromNode(n))
}
