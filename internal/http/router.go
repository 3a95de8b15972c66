package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

// APIPrefix is the path prefix of every room endpoint.
const APIPrefix = "/api/v1"

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Rooms       *RoomHandler
	Health      HealthChecker
	Metrics     http.Handler
	MetricsPath string
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", healthHandler(cfg.Health)).Methods(http.MethodGet)

	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, cfg.Metrics).Methods(http.MethodGet)
	}

	if cfg.Rooms != nil {
		api := r.PathPrefix(APIPrefix).Subrouter()
		api.HandleFunc("/occupancy", cfg.Rooms.Occupancy).Methods(http.MethodGet)
		api.HandleFunc("/rooms", cfg.Rooms.List).Methods(http.MethodGet)
		api.HandleFunc("/rooms/{number}", cfg.Rooms.Get).Methods(http.MethodGet)
		api.HandleFunc("/rooms/{number}/bookings", cfg.Rooms.AddBooking).Methods(http.MethodPost)
		api.HandleFunc("/rooms/{number}/bookings", cfg.Rooms.UpdateBooking).Methods(http.MethodPut)
		api.HandleFunc("/rooms/{number}/checkin", cfg.Rooms.CheckIn).Methods(http.MethodPost)
		api.HandleFunc("/rooms/{number}/checkout", cfg.Rooms.Checkout).Methods(http.MethodPost)
		api.HandleFunc("/rooms/{number}/reassign", cfg.Rooms.Reassign).Methods(http.MethodPost)
		api.HandleFunc("/rooms/{number}/expenses", cfg.Rooms.AddExpense).Methods(http.MethodPost)
		api.HandleFunc("/rooms/{number}/tags", cfg.Rooms.SetTags).Methods(http.MethodPut)
	}

	var handler http.Handler = r
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

func healthHandler(checker HealthChecker) http.HandlerFunc {
	responder := newResponder(nil)
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Ping(r.Context()); err != nil {
				responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}
		responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

type healthResponse struct {
	Status string `json:"status"`
}
