package api

import (
	"errors"
	"net/http"

	"github.com/classora/classora-BE/internal/feed"
	"github.com/gin-gonic/gin"
)

var (
	errFeedUnavailable = errors.New("feed is temporarily unavailable")
)

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// statusForFeedError maps the feed error taxonomy to HTTP status codes. A
// backing-store outage is a gateway problem from the client's point of view;
// everything else is an internal error.
func statusForFeedError(err error) int {
	switch {
	case errors.Is(err, feed.ErrStoreUnavailable),
		errors.Is(err, feed.ErrDomainUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, feed.ErrMutationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
