package internal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"supplier-inventory-api/internal/config"
	"supplier-inventory-api/internal/handlers"
	"supplier-inventory-api/internal/inventory"
	"supplier-inventory-api/internal/notify"
	"supplier-inventory-api/internal/store"
	"supplier-inventory-api/pkg/importer"
)

type Server struct {
	Store     *store.Store
	Inventory *inventory.Service
	Notifier  *notify.Service
	Imports   *handlers.ImportsHandler
	Router    *chi.Mux
	Metrics   *Metrics
	Logger    *zap.Logger
}

// NewServer wires the services on top of st and mounts every route.
// mailer delivers supplier notifications.
func NewServer(cfg *config.Config, st *store.Store, mailer notify.Mailer, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mapping, err := importer.LoadMapping(cfg.ImportMapping)
	if err != nil {
		return nil, fmt.Errorf("load import mapping: %w", err)
	}

	inv := inventory.NewService(st, logger)
	s := &Server{
		Store:     st,
		Inventory: inv,
		Notifier:  notify.NewService(inv, mailer, cfg.Mail, logger),
		Imports:   handlers.NewImportsHandler(inv, mapping, cfg.ImportMaxBytes, logger),
		Router:    chi.NewRouter(),
		Metrics:   NewMetrics(),
		Logger:    logger,
	}

	// chi requires middleware before any route
	s.Router.Use(Tracing)
	s.Router.Use(RequestID)
	s.Router.Use(RequestLogger(logger.Named("http")))
	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
	}
	// inside metrics so recovered panics are counted as 500s
	s.Router.Use(middleware.Recoverer)

	if cfg.EnableMetrics {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "Supplier inventory API",
		})
	})
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/dbping", s.dbPing)

	s.mountRoutes(s.Router)
	return s, nil
}

func (s *Server) dbPing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		s.Logger.Warn("database ping failed", zap.Error(err))
		http.Error(w, "db: unavailable", http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("db: ok")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) mountRoutes(r chi.Router) {
	r.Post("/supplier", s.createSupplier)
	r.Get("/supplier", s.listSuppliers)
	r.Get("/supplier/{id}", s.getSupplier)
	r.Put("/supplier/{id}", s.updateSupplier)
	r.Delete("/supplier/{id}", s.deleteSupplier)

	r.Post("/product/{supplier_id}", s.createProduct)
	r.Get("/product", s.listProducts)
	r.Get("/product/{id}", s.getProduct)
	r.Put("/product/{id}", s.updateProduct)
	r.Delete("/product/{id}", s.deleteProduct)

	r.Post("/email/{product_id}", s.notifySupplier)

	r.Post("/imports/excel", s.Imports.UploadExcel)
}

// Close releases the store.
func (s *Server) Close() error {
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}
