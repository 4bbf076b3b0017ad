package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"focusflow/repository"
	"focusflow/respond"
	"focusflow/validation"
)

// writeStoreError maps an error from validation or a store to a response.
// Unknown errors are logged and reported without detail.
func writeStoreError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respond.Error(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, repository.ErrNotFound):
		respond.Error(w, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrDuplicateUser):
		respond.Error(w, http.StatusConflict, "User already exists")
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
