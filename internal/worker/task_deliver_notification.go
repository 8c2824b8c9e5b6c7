package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/classora/classora-BE/internal/notifstore"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// PayloadDeliverNotification contain all data of the task that we want to store in Redis.
type PayloadDeliverNotification struct {
	RecipientID  string  `json:"recipient_id"`
	Title        string  `json:"title"`
	Message      string  `json:"message"`
	Category     string  `json:"category"`
	ActorID      *string `json:"actor_id,omitempty"`
	CourseID     *string `json:"course_id,omitempty"`
	AssignmentID *string `json:"assignment_id,omitempty"`
	QuizID       *string `json:"quiz_id,omitempty"`
	AttemptID    *string `json:"attempt_id,omitempty"`
}

func (distributor *RedisTaskDistributor) DistributeTaskDeliverNotification(
	ctx context.Context,
	payload *PayloadDeliverNotification,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskDeliverNotification, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().Str("type", task.Type()).Bytes("payload", task.Payload()).Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("task enqueued")

	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskDeliverNotification(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadDeliverNotification
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	// Create a new document in the notification log
	id, err := processor.notifStore.Create(ctx, notifstore.CreateParams{
		RecipientID:  payload.RecipientID,
		Title:        payload.Title,
		Message:      payload.Message,
		Category:     notifstore.ParseCategory(payload.Category),
		ActorID:      payload.ActorID,
		CourseID:     payload.CourseID,
		AssignmentID: payload.AssignmentID,
		QuizID:       payload.QuizID,
		AttemptID:    payload.AttemptID,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to deliver notification")
		return err
	}

	log.Info().Str("type", task.Type()).Str("notificationID", id).
		Str("recipientID", payload.RecipientID).Msg("task processed")

	return nil
}
