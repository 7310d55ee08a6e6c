package web

import (
	"errors"
	"net/http"

	"trovo/internal/backup"
	"trovo/internal/domain"
)

func (s *Server) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.backups.Export(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trovo-backup.json"`)
	if err := snapshot.Encode(w); err != nil {
		s.logger.Error("failed to write backup", "error", err)
	}
}

func (s *Server) handleBackupImport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := backup.Decode(r.Body)
	if err != nil {
		if errors.Is(err, domain.ErrVersionTooNew) {
			s.respondError(w, r, err)
		} else {
			s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return
	}
	stats, err := s.backups.Import(r.Context(), snapshot)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}
