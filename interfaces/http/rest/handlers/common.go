package handlers

import (
	"net/http"

	"tabman-backend/pkg/api"
	appErrors "tabman-backend/pkg/errors"

	"go.uber.org/zap"
)

// respondError maps the error taxonomy onto HTTP status codes: validation
// failures to 400, missing entities to 404, storage failures to 500.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case appErrors.IsValidation(err):
		api.WriteError(w, http.StatusBadRequest, err.Error())
	case appErrors.IsNotFound(err):
		api.WriteError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
