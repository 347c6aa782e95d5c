package transport

import (
	"errors"
	"net/http"

	"shop-admin/internal/domain"
	"shop-admin/internal/middleware"

	"go.uber.org/zap"
)

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrReferenceNotFound),
		errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes the error envelope for err. Unexpected errors are logged
// and their text is not sent to the client.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, zap.Error(err))
		middleware.RespondWithError(w, status, "failed to "+action)
		return
	}

	logger.Debug("Request refused", zap.String("action", action), zap.Int("status", status), zap.Error(err))

	message := err.Error()
	if errors.Is(err, domain.ErrInvalidCredentials) {
		message = "invalid username or password"
	}
	middleware.RespondWithError(w, status, message)
}
