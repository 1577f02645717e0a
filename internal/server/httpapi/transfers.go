package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/dpnode/internal/server/serializers"
)

// ListTransfers returns the transfers of the caller's node.
// GET /transfer
func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	res, err := h.transfers.List(r.Context(), IdentityFromContext(r.Context()), r.URL.Query())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newPage(r, res, serializers.FromTransfer))
}

// GET /transfer/{event_id}
func (h *Handler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	t, err := h.transfers.Get(r.Context(), IdentityFromContext(r.Context()), r.PathValue("event_id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, serializers.FromTransfer(t))
}

// UpdateTransfer serves both PUT and PATCH; PATCH is partial.
// PUT|PATCH /transfer/{event_id}
func (h *Handler) UpdateTransfer(w http.ResponseWriter, r *http.Request) {
	if err := h.transfers.AuthorizeUpdate(r.Context(), IdentityFromContext(r.Context()), r.PathValue("event_id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var in serializers.TransferInput
	if err := h.decode(w, r, &in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	t, err := h.transfers.Update(r.Context(), IdentityFromContext(r.Context()), r.PathValue("event_id"), in, r.Method == http.MethodPatch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, serializers.FromTransfer(t))
}
