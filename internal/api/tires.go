package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/lastik/internal/model"
	"github.com/erazemk/lastik/internal/session"
)

// TiresHandler handles catalog endpoints.
type TiresHandler struct {
	Session *session.Session
}

var tireSortKeys = map[string]bool{
	"":                true,
	model.SortByBrand: true,
	model.SortByPrice: true,
	model.SortByStock: true,
	model.SortByYear:  true,
}

// List handles GET /api/tires?q=&sort=&desc=.
func (h *TiresHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := model.TireQuery{Search: q.Get("q"), SortBy: q.Get("sort")}
	if !tireSortKeys[query.SortBy] {
		jsonError(w, http.StatusBadRequest, "sort must be brand, price, stock or year")
		return
	}
	if v := q.Get("desc"); v != "" {
		desc, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid desc value")
			return
		}
		query.Desc = desc
	}

	jsonResponse(w, http.StatusOK, nonNil(h.Session.Tires(query)))
}

// Create handles POST /api/tires.
func (h *TiresHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TireInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tire, err := h.Session.AddTire(r.Context(), req)
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, tire)
}

// Get handles GET /api/tires/{id}.
func (h *TiresHandler) Get(w http.ResponseWriter, r *http.Request) {
	tire, err := h.Session.Tire(r.PathValue("id"))
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tire)
}

// Update handles PUT /api/tires/{id}. Stock cannot be edited here.
func (h *TiresHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.TireUpdate
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tire, err := h.Session.UpdateTire(r.Context(), r.PathValue("id"), req)
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tire)
}

// Delete handles DELETE /api/tires/{id}.
func (h *TiresHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.RemoveTire(r.Context(), r.PathValue("id")); err != nil {
		domainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
