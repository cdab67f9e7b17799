package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"garage-spot-service/internal/platform/apperr"
	"garage-spot-service/internal/platform/obs"
	"garage-spot-service/internal/services"
	"io"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(logger *zap.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(logger, w, r, status, map[string]string{"error": msg})
}

// writeAppError picks the status from the error's code. Server-side failures
// are logged and reported without detail.
func writeAppError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeJSON(logger, w, r, status, map[string]string{
		"error": apperr.UserMessage(err),
		"code":  string(apperr.GetCode(err)),
	})
}

// decodeJSON reads exactly one JSON object into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func decodeJSON(logger *zap.Logger, w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		writeError(logger, w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// classify attaches an apperr code to errors coming out of the services layer.
func classify(err error) error {
	var coded *apperr.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, services.ErrSessionNotFound):
		return apperr.Wrap(apperr.CodeNotFound, err, "session not found")
	case errors.Is(err, services.ErrControllerClosed):
		return apperr.Wrap(apperr.CodeNotFound, err, "session closed")
	case errors.Is(err, services.ErrTruckNotFound):
		return apperr.Wrap(apperr.CodeNotFound, err, "truck not found")
	case errors.Is(err, services.ErrUnknownGarage):
		return apperr.Wrap(apperr.CodeInvalidInput, err, "unknown garage")
	case errors.Is(err, services.ErrNotDragging):
		return apperr.Wrap(apperr.CodeConflict, err, "no drag in progress")
	case errors.Is(err, services.ErrCommitInProgress):
		return apperr.Wrap(apperr.CodeConflict, err, "commit already in progress")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.CodeUnavailable, err, "request cancelled")
	default:
		return apperr.Wrap(apperr.CodeInternal, err, "internal")
	}
}
