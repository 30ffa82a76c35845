package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/config"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

// Services groups what the router dispatches to.
type Services struct {
	Links      ports.LinkService
	Categories ports.CategoryService
	Admin      ports.AdminService
	Prober     ports.Prober
	Modes      ModeReporter
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := NewHTTPHandler(svc.Links, logger)
	ch := NewCategoryHandler(svc.Categories, logger)
	eh := NewEnvironmentHandler(svc.Prober, svc.Modes)
	ah := NewAdminHandler(svc.Admin, logger)
	authHandler := NewAuthHandler(cfg, svc.Admin, logger)
	mw := NewMiddleware(cfg, logger)

	admin := func(fn http.HandlerFunc) http.Handler { return mw.RequireAdmin(fn) }

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{Success: true, Message: "ok", Mode: svc.Modes.Mode()})
	})
	mux.HandleFunc("GET /api/links", h.List)
	mux.HandleFunc("GET /api/links/{id}", h.Get)
	mux.HandleFunc("GET /api/categories", ch.ListCategories)
	mux.HandleFunc("GET /api/categories/{slug}", ch.GetCategory)
	mux.HandleFunc("GET /api/environment", eh.Report)
	mux.HandleFunc("POST /api/admin/setup", ah.Setup)

	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)

	// Admin Routes
	mux.Handle("POST /api/links", admin(h.Create))
	mux.Handle("PUT /api/links/{id}", admin(h.Update))
	mux.Handle("DELETE /api/links/{id}", admin(h.Delete))
	mux.Handle("GET /api/stats", admin(ch.Stats))

	return mw.RequestLogger(mux)
}
