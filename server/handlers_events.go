package server

import (
	"net/http"

	"github.com/eventhub/eventhub/events"
	apperrors "github.com/eventhub/eventhub/internal/errors"
)

func (s *Server) CreateEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event events.Event
		if err := decodeJSONBody(r, &event); err != nil || event.Name == "" || event.Schedule == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and schedule are required"})
			return
		}
		event.ID = ""

		if err := s.repos.Events.Create(r.Context(), &event); err != nil {
			s.log.Error().Err(err).Msg("create event")
			writeError(w, apperrors.ErrInternal)
			return
		}
		writeJSON(w, http.StatusCreated, event)
	}
}

func (s *Server) ListEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Events.List(r.Context())
		if err != nil {
			s.log.Error().Err(err).Msg("list events")
			writeError(w, apperrors.ErrInternal)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := s.repos.Events.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, event)
	}
}

func (s *Server) UpdateEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := s.repos.Events.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}

		var req events.Event
		if err := decodeJSONBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
			return
		}
		if req.Name != "" {
			event.Name = req.Name
		}
		if req.Schedule != "" {
			event.Schedule = req.Schedule
		}
		if req.Address != "" {
			event.Address = req.Address
		}

		if err := s.repos.Events.Update(r.Context(), event); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, event)
	}
}

func (s *Server) DeleteEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := s.repos.Events.Delete(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deleted)
	}
}
