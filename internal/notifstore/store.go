package notifstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	firebase "firebase.google.com/go/v4"
	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const notificationsCollection = "notifications"

// Store is the typed client for the Firestore-hosted notification log.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, firebaseApp *firebase.App) (*Store, error) {
	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &Store{
		client: firestoreClient,
	}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// CreateParams are the fields of a new notification document.
type CreateParams struct {
	RecipientID  string
	Title        string
	Message      string
	Category     Category
	ActorID      *string
	CourseID     *string
	AssignmentID *string
	QuizID       *string
	AttemptID    *string
}

// Create writes a new notification document and returns its id.
func (s *Store) Create(ctx context.Context, arg CreateParams) (string, error) {
	id := shortuuid.New()

	notification := Notification{
		RecipientID:  arg.RecipientID,
		Title:        arg.Title,
		Message:      arg.Message,
		Category:     ParseCategory(string(arg.Category)),
		IsRead:       false,
		CreatedAt:    time.Now(),
		ActorID:      arg.ActorID,
		CourseID:     arg.CourseID,
		AssignmentID: arg.AssignmentID,
		QuizID:       arg.QuizID,
		AttemptID:    arg.AttemptID,
	}

	_, err := s.client.Collection(notificationsCollection).Doc(id).Set(ctx, notification)
	if err != nil {
		log.Error().Err(err).Str("recipientID", arg.RecipientID).Msg("failed to create notification")
		return "", fmt.Errorf("failed to create notification: %w", err)
	}

	return id, nil
}

// ListByRecipient returns the recipient's notifications, newest first,
// bounded by limit.
func (s *Store) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error) {
	iter := s.client.Collection(notificationsCollection).
		Where("recipientID", "==", recipientID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var notifications []Notification
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list notifications: %w", err)
		}

		var n Notification
		if err = doc.DataTo(&n); err != nil {
			return nil, fmt.Errorf("failed to decode notification %s: %w", doc.Ref.ID, err)
		}
		n.ID = doc.Ref.ID
		n.Category = ParseCategory(string(n.Category))

		notifications = append(notifications, n)
	}

	return notifications, nil
}

// UnreadCount counts the recipient's unread notifications directly in the
// store. This is the single source of truth for every badge and counter.
func (s *Store) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	query := s.client.Collection(notificationsCollection).
		Where("recipientID", "==", recipientID).
		Where("isRead", "==", false)

	results, err := query.NewAggregationQuery().WithCount("unread").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	value, ok := results["unread"]
	if !ok {
		return 0, fmt.Errorf("aggregation result missing unread count")
	}

	count, ok := value.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected aggregation result type %T", value)
	}

	return count.GetIntegerValue(), nil
}

// MarkRead flips a notification to read. Marking an already-read or deleted
// notification succeeds as a no-op because concurrent consumers may race on
// the same id.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	_, err := s.client.Collection(notificationsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isRead", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("failed to mark notification %s as read: %w", id, err)
	}

	return nil
}

// MarkAllRead flips every unread notification of the recipient to read.
func (s *Store) MarkAllRead(ctx context.Context, recipientID string) error {
	iter := s.client.Collection(notificationsCollection).
		Where("recipientID", "==", recipientID).
		Where("isRead", "==", false).
		Documents(ctx)
	defer iter.Stop()

	writer := s.client.BulkWriter(ctx)

	var jobs []*firestore.BulkWriterJob
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list unread notifications: %w", err)
		}

		job, err := writer.Update(doc.Ref, []firestore.Update{
			{Path: "isRead", Value: true},
		})
		if err != nil {
			return fmt.Errorf("failed to queue update for notification %s: %w", doc.Ref.ID, err)
		}
		jobs = append(jobs, job)
	}

	writer.End()

	// Write errors only surface through the job results. A document deleted
	// by a concurrent consumer is fine; anything else means the store still
	// holds unread documents and the caller must know.
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			if status.Code(err) == codes.NotFound {
				continue
			}
			return fmt.Errorf("failed to mark notification as read: %w", err)
		}
	}

	log.Info().Str("recipientID", recipientID).Int("updated", len(jobs)).Msg("marked all notifications as read")
	return nil
}

// Delete removes a notification document. Deleting an id that no longer
// exists succeeds as a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.Collection(notificationsCollection).Doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("failed to delete notification %s: %w", id, err)
	}

	return nil
}
