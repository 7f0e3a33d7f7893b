package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/services"
	"bookmarkd/internal/httputil"
)

// CollectionHandler handles collection HTTP requests
type CollectionHandler struct {
	deletionService services.CollectionDeletionService
	logger          *slog.Logger
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(deletionService services.CollectionDeletionService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{
		deletionService: deletionService,
		logger:          logger,
	}
}

// DeleteCollection deletes the collection when the caller owns it and leaves it otherwise
// DELETE /api/v1/collections/{id}
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == 0 {
		handleError(w, domain.ErrUnauthorized)
		return
	}

	// an unparsable id is passed on as 0 and rejected as an invalid collection
	collectionID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	result, err := h.deletionService.RemoveOrDeleteCollection(r.Context(), &services.RemoveOrDeleteRequest{
		UserID:       userID,
		CollectionID: collectionID,
	})
	if err != nil {
		h.logger.Debug("remove or delete collection failed",
			"request_id", httputil.GetRequestID(r),
			"collection_id", collectionID,
			"error", err,
		)
		handleError(w, err)
		return
	}

	httputil.RespondEnvelope(w, result.Status(), result.Response())
}
