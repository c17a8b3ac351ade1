package handler

import (
	"errors"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

const (
	msgUpstreamError   = "The WildGuard server reported an error. Please try again later."
	msgUpstreamGarbled = "The WildGuard server sent an unexpected response."
	msgRefreshFailed   = "Refresh failed."
)

// publicMessage is the text shown next to stale data after a failed refresh.
func publicMessage(err error) string {
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Status >= 500 {
			return msgUpstreamError
		}
		return apiErr.Message
	case errors.Is(err, domain.ErrBackendUnavailable):
		return service.MsgBackendUnreachable
	case errors.Is(err, domain.ErrMalformedResponse):
		return msgUpstreamGarbled
	default:
		return msgRefreshFailed
	}
}
