package web

import (
	"net/http"
	"time"

	"trovo/internal/domain"
)

// ========== Items ==========

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if !s.decode(w, r, &item) {
		return
	}
	created, err := s.inventory.CreateItem(r.Context(), &item)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	item, err := s.inventory.GetItem(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var item domain.Item
	if !s.decode(w, r, &item) {
		return
	}
	item.ID = id
	if err := s.inventory.UpdateItem(r.Context(), &item); err != nil {
		s.respondError(w, r, err)
		return
	}
	updated, err := s.inventory.GetItem(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	if err := s.inventory.DeleteItem(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

type moveRequest struct {
	SpotID int64 `json:"spotId"`
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.inventory.MoveItem(r.Context(), id, req.SpotID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

type lendRequest struct {
	IsLent   bool       `json:"isLent"`
	LentTo   string     `json:"lentTo"`
	LentDate *time.Time `json:"lentDate"`
}

// handleLendItem lends the item out when isLent is true and marks it
// returned otherwise.
func (s *Server) handleLendItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var req lendRequest
	if !s.decode(w, r, &req) {
		return
	}

	var err error
	if req.IsLent {
		err = s.inventory.LendItem(r.Context(), id, req.LentTo, req.LentDate)
	} else {
		err = s.inventory.ReturnItem(r.Context(), id)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	item, err := s.inventory.GetItem(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleListSpotItems(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	items, err := s.inventory.ListItemsBySpot(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

// ========== Documents ==========

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	if !s.decode(w, r, &doc) {
		return
	}
	created, err := s.inventory.CreateDocument(r.Context(), &doc)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	doc, err := s.inventory.GetDocument(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var doc domain.Document
	if !s.decode(w, r, &doc) {
		return
	}
	doc.ID = id
	if err := s.inventory.UpdateDocument(r.Context(), &doc); err != nil {
		s.respondError(w, r, err)
		return
	}
	updated, err := s.inventory.GetDocument(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	if err := s.inventory.DeleteDocument(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMoveDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.inventory.MoveDocument(r.Context(), id, req.SpotID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListSpotDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	docs, err := s.inventory.ListDocumentsBySpot(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) handleExpiringDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.inventory.ListExpiringDocuments(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, docs)
}
