package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trovo/internal/domain"
)

type lookupResponse struct {
	Spot       *domain.Spot `json:"spot"`
	Breadcrumb string       `json:"breadcrumb"`
}

func (s *Server) handleLookupSpot(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	spot, crumb, err := s.inventory.Lookup(r.Context(), code)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, lookupResponse{Spot: spot, Breadcrumb: crumb})
}

type breadcrumbResponse struct {
	SpotID     int64  `json:"spotId"`
	Breadcrumb string `json:"breadcrumb"`
}

func (s *Server) handleBreadcrumb(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	crumb, err := s.inventory.Breadcrumb(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, breadcrumbResponse{SpotID: id, Breadcrumb: crumb})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results, err := s.inventory.Search(r.Context(), query)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if results == nil {
		results = []*domain.SearchResult{}
	}
	s.respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	entries, err := s.inventory.RecentEntries(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*domain.RecentEntry{}
	}
	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.inventory.Favorites(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if favorites == nil {
		favorites = []*domain.Favorite{}
	}
	s.respondJSON(w, http.StatusOK, favorites)
}
