package api

import (
	"net/http"
	"strconv"

	"github.com/classora/classora-BE/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// listUserNotifications returns the caller's raw notification log, newest
// first.
func (server *Server) listUserNotifications(ctx *gin.Context) {
	userID, _, err := callerIdentity(ctx)
	if err != nil {
		ctx.JSON(http.StatusForbidden, errorResponse(err))
		return
	}

	limit := server.config.FeedQueryLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	notifications, err := server.notifStore.ListByRecipient(ctx, userID, limit)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
	})
}

// getUnreadNotificationCount returns the authoritative unread count, straight
// from the store.
func (server *Server) getUnreadNotificationCount(ctx *gin.Context) {
	userID, _, err := callerIdentity(ctx)
	if err != nil {
		ctx.JSON(http.StatusForbidden, errorResponse(err))
		return
	}

	count, err := server.notifStore.UnreadCount(ctx, userID)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// markNotificationRead marks one notification as read. Clients must re-fetch
// the feed afterwards; no count is adjusted locally.
func (server *Server) markNotificationRead(ctx *gin.Context) {
	userID, _, err := callerIdentity(ctx)
	if err != nil {
		ctx.JSON(http.StatusForbidden, errorResponse(err))
		return
	}

	notificationID := ctx.Param("id")

	if err = server.mutator.MarkRead(ctx, userID, notificationID); err != nil {
		ctx.JSON(statusForFeedError(err), errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "notification marked as read",
	})
}

// markAllNotificationsRead marks every notification of the caller as read.
func (server *Server) markAllNotificationsRead(ctx *gin.Context) {
	userID, _, err := callerIdentity(ctx)
	if err != nil {
		ctx.JSON(http.StatusForbidden, errorResponse(err))
		return
	}

	if err = server.mutator.MarkAllRead(ctx, userID); err != nil {
		ctx.JSON(statusForFeedError(err), errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "all notifications marked as read",
	})
}

// deleteNotification removes one notification. Deleting an already-deleted
// id succeeds, because two consumers may race on the same entry.
func (server *Server) deleteNotification(ctx *gin.Context) {
	userID, _, err := callerIdentity(ctx)
	if err != nil {
		ctx.JSON(http.StatusForbidden, errorResponse(err))
		return
	}

	notificationID := ctx.Param("id")

	if err = server.mutator.Delete(ctx, userID, notificationID); err != nil {
		ctx.JSON(statusForFeedError(err), errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "notification deleted",
	})
}

type createNotificationRequest struct {
	RecipientID  string  `json:"recipient_id" binding:"required"`
	Title        string  `json:"title" binding:"required"`
	Message      string  `json:"message" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	ActorID      *string `json:"actor_id"`
	CourseID     *string `json:"course_id"`
	AssignmentID *string `json:"assignment_id"`
	QuizID       *string `json:"quiz_id"`
	AttemptID    *string `json:"attempt_id"`
}

// createNotification enqueues a notification for delivery to the log. Used
// by the domain-event producers (grading, enrollment, scheduling services).
func (server *Server) createNotification(ctx *gin.Context) {
	var req createNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	payload := &worker.PayloadDeliverNotification{
		RecipientID:  req.RecipientID,
		Title:        req.Title,
		Message:      req.Message,
		Category:     req.Category,
		ActorID:      req.ActorID,
		CourseID:     req.CourseID,
		AssignmentID: req.AssignmentID,
		QuizID:       req.QuizID,
		AttemptID:    req.AttemptID,
	}

	opts := []asynq.Option{
		asynq.MaxRetry(10),
		asynq.Queue(worker.QueueDefault),
	}

	if err := server.taskDistributor.DistributeTaskDeliverNotification(ctx, payload, opts...); err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"message": "notification enqueued",
	})
}
