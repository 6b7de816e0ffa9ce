package httpadapter

import (
	"net/http"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

// Provider credential and quota failures are the server's problem, not
// the caller's, so they map to gateway-side statuses.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrInvalidAPIKey),
		domain.IsKind(err, domain.ErrQuotaExceeded),
		domain.IsKind(err, domain.ErrProviderUnknown):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
