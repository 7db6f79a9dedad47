package api

import (
	"net/http"

	"github.com/erazemk/lastik/internal/session"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(s *session.Session) http.Handler {
	mux := http.NewServeMux()

	tires := &TiresHandler{Session: s}
	sales := &SalesHandler{Session: s}
	deliveries := &DeliveriesHandler{Session: s}
	inventory := &InventoryHandler{Session: s}
	hotel := &HotelHandler{Session: s}
	photos := &PhotosHandler{Session: s}

	// Catalog.
	mux.HandleFunc("GET /api/tires", tires.List)
	mux.HandleFunc("POST /api/tires", tires.Create)
	mux.HandleFunc("GET /api/tires/{id}", tires.Get)
	mux.HandleFunc("PUT /api/tires/{id}", tires.Update)
	mux.HandleFunc("DELETE /api/tires/{id}", tires.Delete)
	mux.HandleFunc("GET /api/tires/{id}/sales", sales.ByTire)
	mux.HandleFunc("GET /api/tires/{id}/deliveries", deliveries.ByTire)
	mux.HandleFunc("GET /api/tires/{id}/photo", photos.Get(session.PhotoTire))
	mux.HandleFunc("PUT /api/tires/{id}/photo", photos.Upload(session.PhotoTire))

	// Ledgers.
	mux.HandleFunc("GET /api/sales", sales.List)
	mux.HandleFunc("POST /api/sales", sales.Create)
	mux.HandleFunc("GET /api/deliveries", deliveries.List)
	mux.HandleFunc("POST /api/deliveries", deliveries.Create)

	// Inventory index.
	mux.HandleFunc("GET /api/inventory", inventory.List)
	mux.HandleFunc("POST /api/inventory/reconcile", inventory.Reconcile)
	mux.HandleFunc("GET /api/summary", inventory.Summary)

	// Tire hotel.
	mux.HandleFunc("GET /api/hotel", hotel.List)
	mux.HandleFunc("POST /api/hotel", hotel.CheckIn)
	mux.HandleFunc("GET /api/hotel/expired", hotel.Expired)
	mux.HandleFunc("GET /api/hotel/{id}", hotel.Get)
	mux.HandleFunc("PUT /api/hotel/{id}", hotel.Update)
	mux.HandleFunc("DELETE /api/hotel/{id}", hotel.Delete)
	mux.HandleFunc("POST /api/hotel/{id}/checkout", hotel.CheckOut)
	mux.HandleFunc("GET /api/hotel/{id}/photo", photos.Get(session.PhotoHotel))
	mux.HandleFunc("PUT /api/hotel/{id}/photo", photos.Upload(session.PhotoHotel))

	return recoverMiddleware(mux)
}
