package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getUserFeed returns the caller's aggregation snapshot. A freshly mounted
// consumer computes its first snapshot synchronously; after that the polling
// loop keeps it warm.
func (server *Server) getUserFeed(ctx *gin.Context) {
	userID, role, err := callerIdentity(ctx)
	if err != nil {
		ctx.JSON(http.StatusForbidden, errorResponse(err))
		return
	}

	consumer, err := server.feedRegistry.Acquire(userID, role)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	if snapshot, ok := consumer.Latest(); ok {
		ctx.JSON(http.StatusOK, snapshot)
		return
	}

	snapshot, err := server.feedService.Snapshot(ctx, userID, role)
	if err != nil {
		ctx.JSON(statusForFeedError(err), errorResponse(err))
		return
	}
	consumer.Prime(snapshot)

	ctx.JSON(http.StatusOK, snapshot)
}

// refreshUserFeed triggers an immediate aggregation pass. Requests arriving
// while a pass is in flight are coalesced into it rather than starting a
// second overlapping pass.
func (server *Server) refreshUserFeed(ctx *gin.Context) {
	userID, role, err := callerIdentity(ctx)
	if err != nil {
		ctx.JSON(http.StatusForbidden, errorResponse(err))
		return
	}

	consumer, err := server.feedRegistry.Acquire(userID, role)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	consumer.Kick()

	snapshot, ok := consumer.Latest()
	if !ok {
		// The pass failed and there is no previous snapshot to fall back on.
		ctx.JSON(http.StatusBadGateway, errorResponse(errFeedUnavailable))
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}
