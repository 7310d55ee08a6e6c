package web

import (
	"net/http"

	"trovo/internal/domain"
)

// ========== Rooms ==========

type roomRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.inventory.ListRooms(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if !s.decode(w, r, &req) {
		return
	}
	room, err := s.inventory.CreateRoom(r.Context(), req.Name, req.Icon)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, room)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	room, err := s.inventory.GetRoom(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var req roomRequest
	if !s.decode(w, r, &req) {
		return
	}
	room, err := s.inventory.GetRoom(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	room.Name = req.Name
	room.Icon = req.Icon
	if err := s.inventory.UpdateRoom(r.Context(), room); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	if err := s.inventory.DeleteRoom(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListRoomContainers(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	containers, err := s.inventory.ListContainersByRoom(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, containers)
}

// ========== Containers ==========

type containerRequest struct {
	RoomID     int64  `json:"roomId"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Note       string `json:"note"`
	IsFavorite bool   `json:"isFavorite"`
}

func (s *Server) handleCreateContainer(w http.ResponseWriter, r *http.Request) {
	var req containerRequest
	if !s.decode(w, r, &req) {
		return
	}
	container, err := s.inventory.CreateContainer(r.Context(), req.RoomID, req.Name,
		domain.ContainerType(req.Type), req.Note, req.IsFavorite)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, container)
}

func (s *Server) handleGetContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	container, err := s.inventory.GetContainer(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, container)
}

func (s *Server) handleUpdateContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var req containerRequest
	if !s.decode(w, r, &req) {
		return
	}
	container, err := s.inventory.GetContainer(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	container.Name = req.Name
	container.Type = domain.ContainerType(req.Type)
	container.Note = req.Note
	container.IsFavorite = req.IsFavorite
	if err := s.inventory.UpdateContainer(r.Context(), container); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, container)
}

func (s *Server) handleDeleteContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	if err := s.inventory.DeleteContainer(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListContainerSpots(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	spots, err := s.inventory.ListSpotsByContainer(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, spots)
}

type favoriteRequest struct {
	IsFavorite bool `json:"isFavorite"`
}

func (s *Server) handleContainerFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var req favoriteRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.inventory.ToggleContainerFavorite(r.Context(), id, req.IsFavorite); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

// ========== Spots ==========

type spotRequest struct {
	ContainerID int64  `json:"containerId"`
	Label       string `json:"label"`
	Note        string `json:"note"`
	IsFavorite  bool   `json:"isFavorite"`
}

func (s *Server) handleCreateSpot(w http.ResponseWriter, r *http.Request) {
	var req spotRequest
	if !s.decode(w, r, &req) {
		return
	}
	spot, err := s.inventory.CreateSpot(r.Context(), req.ContainerID, req.Label, req.Note, req.IsFavorite)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, spot)
}

func (s *Server) handleGetSpot(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	spot, err := s.inventory.GetSpot(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, spot)
}

func (s *Server) handleUpdateSpot(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var req spotRequest
	if !s.decode(w, r, &req) {
		return
	}
	spot, err := s.inventory.GetSpot(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	spot.Label = req.Label
	spot.Note = req.Note
	spot.IsFavorite = req.IsFavorite
	if err := s.inventory.UpdateSpot(r.Context(), spot); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, spot)
}

func (s *Server) handleDeleteSpot(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	if err := s.inventory.DeleteSpot(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSpotFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	var req favoriteRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.inventory.ToggleSpotFavorite(r.Context(), id, req.IsFavorite); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
