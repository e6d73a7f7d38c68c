package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/eventhub/eventhub/internal/errors"
	"github.com/eventhub/eventhub/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyIdentity stores the authenticated identity decoded from a token
const ContextKeyIdentity ContextKey = "identity"

// IdentityFromContext returns the identity attached by one of the auth gates.
func IdentityFromContext(ctx context.Context) (*token.Identity, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(*token.Identity)
	return identity, ok
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireIdentity is the self-or-owner gate. It extracts and verifies the
// bearer access token and attaches the decoded identity to the request
// context. When ownerParam names a path parameter, the token subject must
// match it; admins bypass the ownership check. Missing or invalid tokens
// are authentication failures (401); an ownership mismatch is an
// authorization failure (403).
func (s *Server) RequireIdentity(ownerParam string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, apperrors.ErrMissingCredential)
				return
			}

			identity, err := s.codec.VerifyAccess(raw)
			if err != nil {
				s.log.Debug().Str("path", r.URL.Path).Msg("access token rejected")
				writeError(w, apperrors.ErrInvalidToken)
				return
			}

			if ownerParam != "" {
				if pathID := r.PathValue(ownerParam); pathID != "" && pathID != identity.ID && identity.Role != token.RoleAdmin {
					writeError(w, apperrors.ErrForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAdmin performs the same extraction and verification but inspects
// the role claim instead of ownership.
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, apperrors.ErrMissingCredential)
				return
			}

			identity, err := s.codec.VerifyAccess(raw)
			if err != nil {
				s.log.Debug().Str("path", r.URL.Path).Msg("access token rejected")
				writeError(w, apperrors.ErrInvalidToken)
				return
			}

			if identity.Role != token.RoleAdmin {
				writeError(w, apperrors.ErrAdminRequired)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			next(w, r.WithContext(ctx))
		}
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

// RequireRefresh gates exactly the token-renewal endpoint. The request
// body must carry both the refresh token and the claimed user id; the
// token's subject must match the claimed id, which prevents a valid
// refresh token for user A being replayed under user B's id.
func (s *Server) RequireRefresh() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var req refreshRequest
			if err := decodeJSONBody(r, &req); err != nil || req.RefreshToken == "" || req.UserID == "" {
				writeError(w, apperrors.ErrMissingRefresh)
				return
			}

			identity, err := s.codec.VerifyRefresh(req.RefreshToken)
			if err != nil {
				s.log.Debug().Msg("refresh token rejected")
				writeError(w, apperrors.ErrInvalidRefresh)
				return
			}

			if identity.ID != req.UserID {
				writeError(w, apperrors.ErrIdentityMismatch)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			next(w, r.WithContext(ctx))
		}
	}
}
