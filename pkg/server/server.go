// Package server exposes stop search and departures over a local HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"bvgview/pkg/config"
	"bvgview/pkg/transit"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// TransitAPI is the upstream lookup the handlers proxy to
type TransitAPI interface {
	SearchStops(ctx context.Context, query string) ([]transit.Stop, error)
	FetchDepartures(ctx context.Context, stopID string) ([]transit.Departure, error)
}

// Server wires the handlers, caches and middleware together
type Server struct {
	api    TransitAPI
	cfg    config.ServerConfig
	caches *caches
	router *mux.Router
}

func New(api TransitAPI, cfg config.ServerConfig) *Server {
	s := &Server{
		api:    api,
		cfg:    cfg,
		caches: newCaches(cfg),
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With", "Origin"},
		ExposedHeaders: []string{"Content-Length", "Content-Type", requestIDHeader},
		MaxAge:         86400,
	})

	// Apply middlewares in correct order
	s.router.Use(RequestIDMiddleware)
	s.router.Use(corsHandler.Handler)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(LoggingMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stops", s.handleStops).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/departures", s.handleDepartures).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Handler:           s.router,
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		WriteTimeout:      30 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %d...", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err, ok := <-serverErrors:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Println("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	log.Println("Server shutdown completed successfully")
	return nil
}
