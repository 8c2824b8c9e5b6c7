package feed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Mutator executes user mutations against the notification store. It never
// touches any snapshot: a mutation only invalidates the cache, and the next
// aggregation pass reconciles every count from the store. Optimistic local
// adjustments are the caller's cosmetic concern, never authoritative.
type Mutator struct {
	notifications NotificationStore
	svc           *Service
}

func NewMutator(notifications NotificationStore, svc *Service) *Mutator {
	return &Mutator{
		notifications: notifications,
		svc:           svc,
	}
}

// MarkRead marks one notification as read. Idempotent: an already-read or
// already-deleted id succeeds as a no-op.
func (m *Mutator) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := m.notifications.MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("%w: mark read %s: %v", ErrMutationFailed, notificationID, err)
	}

	m.svc.Invalidate(ctx, userID)
	log.Info().Str("userID", userID).Str("notificationID", notificationID).Msg("notification marked as read")
	return nil
}

// MarkAllRead marks every notification of the recipient as read.
func (m *Mutator) MarkAllRead(ctx context.Context, userID string) error {
	if err := m.notifications.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("%w: mark all read for %s: %v", ErrMutationFailed, userID, err)
	}

	m.svc.Invalidate(ctx, userID)
	return nil
}

// Delete removes one notification. Idempotent: deleting a missing id
// succeeds as a no-op.
func (m *Mutator) Delete(ctx context.Context, userID, notificationID string) error {
	if err := m.notifications.Delete(ctx, notificationID); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrMutationFailed, notificationID, err)
	}

	m.svc.Invalidate(ctx, userID)
	log.Info().Str("userID", userID).Str("notificationID", notificationID).Msg("notification deleted")
	return nil
}
