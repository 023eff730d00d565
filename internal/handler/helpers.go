package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"eventdesk/internal/domain"
	"eventdesk/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		conflictErr    *domain.ConflictError
		upstreamErr    *domain.UpstreamError
		persistenceErr *domain.PersistenceError
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"resourceType": conflictErr.ResourceType,
			"resourceId":   conflictErr.ResourceID,
		})
	case errors.As(err, &upstreamErr):
		logger.Error("upstream failure", "service", upstreamErr.Service, "error", err)
		httputil.RespondErrorWithExtras(w, upstreamErr.StatusCode(), "serviço externo indisponível", map[string]interface{}{
			"retryable": upstreamErr.Retryable,
		})
	case errors.As(err, &persistenceErr):
		logger.Error("persistence failure", "message", persistenceErr.Message, "error", persistenceErr.Err)
		httputil.RespondError(w, http.StatusInternalServerError, persistenceErr.Message)
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HandleCreateConflict handles conflicts during creation by returning the existing resource with 409
// If the error is a ConflictError, it calls fetchFn with the existing resource ID
func HandleCreateConflict[T any](w http.ResponseWriter, logger *slog.Logger, err error, fetchFn func(id string) (*T, error)) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) && conflictErr.ResourceID != "" {
		existing, fetchErr := fetchFn(conflictErr.ResourceID)
		if fetchErr != nil {
			handleError(w, logger, fetchErr)
			return
		}

		httputil.RespondJSON(w, http.StatusConflict, existing)
		return
	}

	handleError(w, logger, err)
}

// PathParam reads a required path wildcard, answering 400 when it is empty
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return v, true
}

// HealthCheck reports liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
