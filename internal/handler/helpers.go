package handler

import (
	"errors"
	"net/http"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Rejections from the collection flow keep the {"response": message} shape the client reads.
func handleError(w http.ResponseWriter, err error) {
	var accessErr *domain.AccessError
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &accessErr):
		httputil.RespondEnvelope(w, accessErr.StatusCode(), accessErr.Message)
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondEnvelope(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
