// Package web exposes the inventory as a JSON HTTP API.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"trovo/internal/backup"
	"trovo/internal/domain"
	"trovo/internal/service"
)

type Server struct {
	inventory *service.Inventory
	backups   *backup.Manager
	router    chi.Router
	logger    *slog.Logger
}

func NewServer(inventory *service.Inventory, backups *backup.Manager, logger *slog.Logger) *Server {
	s := &Server{
		inventory: inventory,
		backups:   backups,
		router:    chi.NewRouter(),
		logger:    logger,
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router

	r.Get("/rooms", s.handleListRooms)
	r.Post("/rooms", s.handleCreateRoom)
	r.Get("/rooms/{id}", s.handleGetRoom)
	r.Put("/rooms/{id}", s.handleUpdateRoom)
	r.Delete("/rooms/{id}", s.handleDeleteRoom)
	r.Get("/rooms/{id}/containers", s.handleListRoomContainers)

	r.Post("/containers", s.handleCreateContainer)
	r.Get("/containers/{id}", s.handleGetContainer)
	r.Put("/containers/{id}", s.handleUpdateContainer)
	r.Delete("/containers/{id}", s.handleDeleteContainer)
	r.Get("/containers/{id}/spots", s.handleListContainerSpots)
	r.Post("/containers/{id}/favorite", s.handleContainerFavorite)

	r.Post("/spots", s.handleCreateSpot)
	r.Get("/spots/code/{code}", s.handleLookupSpot)
	r.Get("/spots/{id}", s.handleGetSpot)
	r.Put("/spots/{id}", s.handleUpdateSpot)
	r.Delete("/spots/{id}", s.handleDeleteSpot)
	r.Get("/spots/{id}/breadcrumb", s.handleBreadcrumb)
	r.Get("/spots/{id}/items", s.handleListSpotItems)
	r.Get("/spots/{id}/documents", s.handleListSpotDocuments)
	r.Post("/spots/{id}/favorite", s.handleSpotFavorite)

	r.Post("/items", s.handleCreateItem)
	r.Get("/items/{id}", s.handleGetItem)
	r.Put("/items/{id}", s.handleUpdateItem)
	r.Delete("/items/{id}", s.handleDeleteItem)
	r.Post("/items/{id}/move", s.handleMoveItem)
	r.Post("/items/{id}/lend", s.handleLendItem)

	r.Post("/documents", s.handleCreateDocument)
	r.Get("/documents/expiring", s.handleExpiringDocuments)
	r.Get("/documents/{id}", s.handleGetDocument)
	r.Put("/documents/{id}", s.handleUpdateDocument)
	r.Delete("/documents/{id}", s.handleDeleteDocument)
	r.Post("/documents/{id}/move", s.handleMoveDocument)

	r.Get("/search", s.handleSearch)
	r.Get("/recent", s.handleRecent)
	r.Get("/favorites", s.handleFavorites)

	r.Get("/backup/export", s.handleBackupExport)
	r.Post("/backup/import", s.handleBackupImport)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// respondError maps service errors to HTTP statuses: unknown entities
// are 404, rejected input is 400, a snapshot from a newer release is
// 422, anything else is a 500 that gets logged.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr validation.Error
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidContainerType), errors.As(err, &verr):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrVersionTooNew):
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// parseID extracts the {id} path variable as int64.
func (s *Server) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
