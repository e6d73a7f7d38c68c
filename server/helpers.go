package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/eventhub/eventhub/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto HTTP statuses in one place:
// authentication failures are 401 (refreshable by the client),
// authorization failures are 403 (never refreshable). Internal faults
// return a generic message so details do not leak.
func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = apperrors.ErrInternal.Error()
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusForError(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrMissingCredential),
		apperrors.Is(err, apperrors.ErrInvalidToken),
		apperrors.Is(err, apperrors.ErrInvalidRefresh),
		apperrors.Is(err, apperrors.ErrMissingRefresh),
		apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrForbidden),
		apperrors.Is(err, apperrors.ErrAdminRequired),
		apperrors.Is(err, apperrors.ErrIdentityMismatch):
		return http.StatusForbidden
	case apperrors.Is(err, apperrors.ErrUserNotFound),
		apperrors.Is(err, apperrors.ErrEventNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrWeakPassword):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSONBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
