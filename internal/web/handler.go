// Package web serves the platform's HTML pages and JSON endpoints.
//
// The public surface (donation form, tracking page, confirmation API) needs no
// login. Everything that mutates regions, partners, or routes sits behind the
// operator session.
package web

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/notify"
	"github.com/foodrescuehub/foodrescue/internal/platform/settings"
	"github.com/foodrescuehub/foodrescue/internal/storage"
	"github.com/foodrescuehub/foodrescue/internal/web/static"
	"github.com/foodrescuehub/foodrescue/internal/web/templates"
)

// Handler routes all HTTP traffic for the platform.
type Handler struct {
	store    storage.Store
	workflow *notify.Workflow
	settings settings.Settings
	logger   *log.Logger
	now      func() time.Time
	mux      *http.ServeMux
}

// NewHandler wires every route over the given store and workflow.
func NewHandler(store storage.Store, workflow *notify.Workflow, cfg settings.Settings, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{
		store:    store,
		workflow: workflow,
		settings: cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static.FS)))

	// Public surface.
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET /regions/{id}", h.regionDetail)
	mux.HandleFunc("GET /stores/{id}/donate", h.donateForm)
	mux.HandleFunc("POST /stores/{id}/donate", h.createDonation)
	mux.HandleFunc("GET /donations/{id}", h.donationDetail)
	mux.HandleFunc("POST /api/stops/{id}/confirm", h.confirmStop)

	// Operator login.
	mux.HandleFunc("GET /admin/login", h.loginForm)
	mux.HandleFunc("POST /admin/login", h.login)
	mux.HandleFunc("POST /admin/logout", h.logout)

	// Operator surface.
	operator := func(fn http.HandlerFunc) http.Handler { return h.requireAuth(fn) }
	mux.Handle("GET /regions/new", operator(h.newRegionForm))
	mux.Handle("POST /regions/new", operator(h.createRegion))
	mux.Handle("GET /regions/{id}/food-banks/new", operator(h.newFoodBankForm))
	mux.Handle("POST /regions/{id}/food-banks/new", operator(h.createFoodBank))
	mux.Handle("GET /regions/{id}/stores/new", operator(h.newGroceryStoreForm))
	mux.Handle("POST /regions/{id}/stores/new", operator(h.createGroceryStore))
	mux.Handle("GET /regions/{id}/routes", operator(h.routeBoard))
	mux.Handle("GET /regions/{id}/routes/new", operator(h.newRouteForm))
	mux.Handle("POST /regions/{id}/routes/new", operator(h.createRoute))
	mux.Handle("POST /regions/{id}/routes/optimize", operator(h.optimizeRoutes))
	mux.Handle("GET /routes/{id}", operator(h.routeDetail))
	mux.Handle("GET /routes/{id}/confirmations", operator(h.routeConfirmations))
	mux.Handle("GET /regions/{id}/intake", operator(h.intakePage))
	mux.Handle("POST /regions/{id}/intake", operator(h.processIntake))
	mux.Handle("GET /regions/{id}/analytics", operator(h.regionAnalytics))

	h.mux = mux
	return h
}

// ServeHTTP dispatches to the route table.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// render writes one page template, logging render failures.
func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Render(w, name, data); err != nil {
		h.logger.Printf("render %s: %v", name, err)
	}
}

// renderWithStatus writes a non-200 page, used for failed form submissions.
func (h *Handler) renderWithStatus(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Render(w, name, data); err != nil {
		h.logger.Printf("render %s: %v", name, err)
	}
}

// storeError maps a storage failure to a 404 or 500 response.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, what string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	h.logger.Printf("%s: %v", what, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
