package api

import (
	"net/http"

	"github.com/erazemk/lastik/internal/model"
	"github.com/erazemk/lastik/internal/session"
)

// SalesHandler handles the sales ledger.
type SalesHandler struct {
	Session *session.Session
}

// List handles GET /api/sales. Each sale carries its tire.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, nonNil(h.Session.SalesReport()))
}

// Create handles POST /api/sales.
func (h *SalesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.SaleInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TireID == "" {
		jsonError(w, http.StatusBadRequest, "tire_id required")
		return
	}

	sale, err := h.Session.RecordSale(r.Context(), req)
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, sale)
}

// ByTire handles GET /api/tires/{id}/sales.
func (h *SalesHandler) ByTire(w http.ResponseWriter, r *http.Request) {
	history, err := h.Session.SalesByTire(r.PathValue("id"))
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, history)
}

// DeliveriesHandler handles the delivery ledger.
type DeliveriesHandler struct {
	Session *session.Session
}

// List handles GET /api/deliveries.
func (h *DeliveriesHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, nonNil(h.Session.Deliveries()))
}

// Create handles POST /api/deliveries.
func (h *DeliveriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.DeliveryInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TireID == "" {
		jsonError(w, http.StatusBadRequest, "tire_id required")
		return
	}

	d, err := h.Session.RecordDelivery(r.Context(), req)
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, d)
}

// ByTire handles GET /api/tires/{id}/deliveries.
func (h *DeliveriesHandler) ByTire(w http.ResponseWriter, r *http.Request) {
	history, err := h.Session.DeliveriesByTire(r.PathValue("id"))
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, history)
}
