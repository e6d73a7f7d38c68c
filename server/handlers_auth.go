package server

import (
	"net/http"

	apperrors "github.com/eventhub/eventhub/internal/errors"
	"github.com/eventhub/eventhub/users"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login. Both token classes
// are minted here; the client stores them and drives the refresh
// protocol from then on.
type LoginResponse struct {
	User         *users.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

// RefreshResponse carries the single permitted outcome of the refresh
// endpoint: a new access token bound to the same subject.
type RefreshResponse struct {
	Token string `json:"token"`
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSONBody(r, &req); err != nil || req.Username == "" || req.Password == "" {
			writeError(w, apperrors.ErrInvalidCredentials)
			return
		}

		user, err := s.auth.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
				writeError(w, apperrors.ErrInvalidCredentials)
				return
			}
			s.log.Error().Err(err).Msg("login failed")
			writeError(w, apperrors.ErrInternal)
			return
		}

		identity := user.Identity()
		accessToken, err := s.codec.IssueAccess(identity)
		if err != nil {
			s.log.Error().Err(err).Msg("issue access token")
			writeError(w, apperrors.ErrInternal)
			return
		}
		refreshToken, err := s.codec.IssueRefresh(identity)
		if err != nil {
			s.log.Error().Err(err).Msg("issue refresh token")
			writeError(w, apperrors.ErrInternal)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			User:         user,
			Token:        accessToken,
			RefreshToken: refreshToken,
		})
	}
}

// RefreshHandler runs behind RequireRefresh; the only side effect is a
// new access token for the already-verified subject. The user record is
// re-read so a token minted after a role change carries the current role,
// and so deleted accounts stop refreshing.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, apperrors.ErrInternal)
			return
		}

		user, err := s.repos.Users.GetByID(r.Context(), identity.ID)
		if err != nil {
			writeError(w, err)
			return
		}

		accessToken, err := s.codec.IssueAccess(user.Identity())
		if err != nil {
			s.log.Error().Err(err).Msg("issue access token on refresh")
			writeError(w, apperrors.ErrInternal)
			return
		}

		writeJSON(w, http.StatusOK, RefreshResponse{Token: accessToken})
	}
}
