package controller

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"telar/internal/dto"
	apperrors "telar/internal/errors"
)

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps the workflow error taxonomy to HTTP statuses: 400
// validation, 402 declined payment, 404 not found, 409 stock/conflict,
// 500 everything else.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	message := "an unexpected error occurred"

	switch {
	case isValidationErr(err):
		status = http.StatusBadRequest
		message = err.Error()
	case isNotFoundErr(err):
		status = http.StatusNotFound
		message = err.Error()
	case isPaymentDeclinedErr(err):
		status = http.StatusPaymentRequired
		message = err.Error()
	case isStockErr(err), isConflictErr(err):
		status = http.StatusConflict
		message = err.Error()
	case isPersistenceErr(err):
		logger.Error("persistence failure", zap.Error(err))
		message = "order could not be persisted"
	default:
		logger.Error("unexpected error", zap.Error(err))
	}

	writeJSON(w, logger, status, dto.ErrorResponse{Success: false, Error: message})
}

func isValidationErr(err error) bool {
	_, ok := apperrors.IsValidationError(err)
	return ok
}

func isNotFoundErr(err error) bool {
	_, ok := apperrors.IsNotFoundError(err)
	return ok
}

func isPaymentDeclinedErr(err error) bool {
	_, ok := apperrors.IsPaymentDeclinedError(err)
	return ok
}

func isStockErr(err error) bool {
	_, ok := apperrors.IsStockInsufficientError(err)
	return ok
}

func isPersistenceErr(err error) bool {
	_, ok := apperrors.IsPersistenceError(err)
	return ok
}

func isConflictErr(err error) bool {
	_, ok := apperrors.IsConflictError(err)
	return ok
}
