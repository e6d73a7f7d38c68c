package server

import (
	"net/http"
	"time"

	apperrors "github.com/eventhub/eventhub/internal/errors"
	"github.com/eventhub/eventhub/users"
)

type createUserRequest struct {
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Birthday time.Time `json:"birthday"`
}

type updateUserRequest struct {
	Username *string    `json:"username"`
	Email    *string    `json:"email"`
	Password *string    `json:"password"`
	Birthday *time.Time `json:"birthday"`
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := decodeJSONBody(r, &req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username, email and password are required"})
			return
		}

		user := &users.User{
			Username: req.Username,
			Email:    req.Email,
			Birthday: req.Birthday,
		}
		if err := s.auth.Register(r.Context(), user, req.Password); err != nil {
			if statusForError(err) == http.StatusInternalServerError {
				s.log.Error().Err(err).Msg("register user")
			}
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Users.List(r.Context())
		if err != nil {
			s.log.Error().Err(err).Msg("list users")
			writeError(w, apperrors.ErrInternal)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.repos.Users.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateUserRequest
		if err := decodeJSONBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
			return
		}

		user, err := s.repos.Users.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}

		if req.Username != nil {
			user.Username = *req.Username
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Birthday != nil {
			user.Birthday = *req.Birthday
		}
		if req.Password != nil {
			// The hash is recomputed only here, at modification time.
			if err := users.ValidatePasswordStrength(*req.Password); err != nil {
				writeError(w, err)
				return
			}
			hash, err := users.HashPassword(*req.Password)
			if err != nil {
				s.log.Error().Err(err).Msg("hash password")
				writeError(w, apperrors.ErrInternal)
				return
			}
			user.PasswordHash = hash
		}

		if err := s.repos.Users.Update(r.Context(), user); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := s.repos.Users.DeleteByUsername(r.Context(), r.PathValue("username"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deleted)
	}
}
