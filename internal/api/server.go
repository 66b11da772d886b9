package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"medialog/internal/api/handlers"
	"medialog/internal/api/middleware"
	"medialog/internal/config"
	"medialog/internal/controllers"
	"medialog/internal/models"
	"medialog/internal/services/auth"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	db *models.Database,
	authSvc *auth.Service,
	listCtrl *controllers.ListController,
	trendingCtrl *controllers.TrendingController,
	searchCtrl *controllers.SearchController,
	logger *logrus.Logger,
) *Server {
	router := NewRouter(db, authSvc, listCtrl, trendingCtrl, searchCtrl, logger)

	return &Server{
		server: &http.Server{
			Addr:         ":" + cfg.ServerPort,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter configures all HTTP routes and middleware
func NewRouter(
	db *models.Database,
	authSvc *auth.Service,
	listCtrl *controllers.ListController,
	trendingCtrl *controllers.TrendingController,
	searchCtrl *controllers.SearchController,
	logger *logrus.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return middleware.Logging(next, logger)
	})
	router.Use(middleware.Metrics)

	// Operational endpoints
	healthHandler := handlers.NewHealthHandler(logger)
	router.Handle("/health", healthHandler).Methods(http.MethodGet)

	statusHandler := handlers.NewStatusHandler(db, logger)
	router.Handle("/status", statusHandler).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()

	// Auth
	authHandler := handlers.NewAuthHandler(authSvc, logger)
	apiRouter.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	apiRouter.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Catalogue search and local trending. Trending registers first so
	// /search/trending/{type} isn't swallowed by /search/{type}/{id}.
	trendingHandler := handlers.NewTrendingHandler(trendingCtrl, logger)
	apiRouter.HandleFunc("/search/trending/{type}", trendingHandler.Trending).Methods(http.MethodGet)

	searchHandler := handlers.NewSearchHandler(searchCtrl, logger)
	apiRouter.HandleFunc("/search/{type}", searchHandler.Search).Methods(http.MethodGet)
	apiRouter.HandleFunc("/search/{type}/{id}", searchHandler.Details).Methods(http.MethodGet)

	// Per-user lists, behind token auth
	listsHandler := handlers.NewListsHandler(listCtrl, logger)
	listRouter := apiRouter.PathPrefix("/list").Subrouter()
	listRouter.Use(func(next http.Handler) http.Handler {
		return middleware.Auth(next, authSvc.VerifyToken)
	})
	listRouter.HandleFunc("", listsHandler.Get).Methods(http.MethodGet)
	listRouter.HandleFunc("", listsHandler.Add).Methods(http.MethodPost)
	listRouter.HandleFunc("/{type}/{id}", listsHandler.Update).Methods(http.MethodPut)
	listRouter.HandleFunc("/{type}/{id}", listsHandler.Remove).Methods(http.MethodDelete)

	return router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
