package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/lastik/internal/model"
	"github.com/erazemk/lastik/internal/session"
)

// InventoryHandler handles the inventory index and the shop summary.
type InventoryHandler struct {
	Session *session.Session
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Session.Inventory())
}

type reconcileResponse struct {
	Repaired bool          `json:"repaired"`
	Drift    []model.Drift `json:"drift"`
}

// Reconcile handles POST /api/inventory/reconcile?repair=.
func (h *InventoryHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	repair := false
	if v := r.URL.Query().Get("repair"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid repair value")
			return
		}
		repair = b
	}

	drift, err := h.Session.Reconcile(r.Context(), repair)
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, reconcileResponse{
		Repaired: repair && len(drift) > 0,
		Drift:    nonNil(drift),
	})
}

// Summary handles GET /api/summary.
func (h *InventoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Session.Summary(h.Session.Now()))
}
