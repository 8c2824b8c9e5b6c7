package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/classora/classora-BE/internal/db"
	"github.com/classora/classora-BE/internal/notifstore"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificationStore is the read/write surface of the persisted notification
// log that the aggregation pipeline depends on. *notifstore.Store satisfies
// it.
type NotificationStore interface {
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notifstore.Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, id string) error
}

// ServiceParams configure a feed service.
type ServiceParams struct {
	WindowSize int
	QueryLimit int
	CacheTTL   time.Duration
	Location   *time.Location
}

// Service runs the aggregation pipeline for one (user, role) at a time:
// store list + domain reads, enrichment, merge, statistics. Each pass
// recomputes the snapshot wholesale from authoritative sources; no partial
// patching, no state shared across users.
type Service struct {
	notifications NotificationStore
	domain        db.Store
	redisClient   *redis.Client
	reader        *Reader
	enricher      *Enricher
	windowSize    int
	queryLimit    int
	cacheTTL      time.Duration
	loc           *time.Location
}

// NewService creates the aggregation service. redisClient may be nil, in
// which case snapshots are recomputed on every read.
func NewService(notifications NotificationStore, domain db.Store, redisClient *redis.Client, params ServiceParams) *Service {
	if params.WindowSize <= 0 {
		params.WindowSize = 100
	}
	if params.QueryLimit <= 0 {
		params.QueryLimit = 50
	}
	if params.Location == nil {
		params.Location = time.Local
	}

	return &Service{
		notifications: notifications,
		domain:        domain,
		redisClient:   redisClient,
		reader:        NewReader(domain, int32(params.QueryLimit)),
		enricher:      NewEnricher(domain),
		windowSize:    params.WindowSize,
		queryLimit:    params.QueryLimit,
		cacheTTL:      params.CacheTTL,
		loc:           params.Location,
	}
}

// Snapshot returns the current aggregation snapshot for the user, serving
// the cached copy when one is still fresh.
func (s *Service) Snapshot(ctx context.Context, userID string, role Role) (Snapshot, error) {
	if cached, ok := s.cachedSnapshot(ctx, userID, role); ok {
		return cached, nil
	}

	return s.Refresh(ctx, userID, role)
}

// Refresh runs a full aggregation pass and replaces the cached snapshot.
func (s *Service) Refresh(ctx context.Context, userID string, role Role) (Snapshot, error) {
	scope, err := s.resolveScope(ctx, userID, role)
	if err != nil {
		return Snapshot{}, err
	}

	notifications, err := s.notifications.ListByRecipient(ctx, userID, s.queryLimit)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: listing notifications: %v", ErrStoreUnavailable, err)
	}

	unreadCount, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: counting unread notifications: %v", ErrStoreUnavailable, err)
	}

	domainEvents, err := s.reader.Events(ctx, scope)
	if err != nil {
		return Snapshot{}, err
	}

	enriched := s.enricher.Enrich(ctx, notifications)

	merged := Merge(enriched, domainEvents)
	snapshot := BuildSnapshot(merged, notifications, unreadCount, s.windowSize, time.Now(), s.loc)

	s.cacheSnapshot(ctx, userID, role, snapshot)

	return snapshot, nil
}

// Invalidate drops any cached snapshot of the user so that the next read
// recomputes from the stores. Called by the mutation coordinator after a
// successful write.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	if s.redisClient == nil {
		return
	}

	keys := []string{
		snapshotCacheKey(userID, RoleStudent),
		snapshotCacheKey(userID, RoleInstructor),
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Str("userID", userID).Msg("failed to invalidate snapshot cache")
	}
}

func (s *Service) resolveScope(ctx context.Context, userID string, role Role) (Scope, error) {
	scope := Scope{UserID: userID, Role: role}

	if role == RoleInstructor {
		courseIDs, err := s.domain.ListCourseIDsByOwner(ctx, userID)
		if err != nil {
			return Scope{}, fmt.Errorf("%w: resolving owned courses: %v", ErrDomainUnavailable, err)
		}
		scope.CourseIDs = courseIDs
	}

	return scope, nil
}

func (s *Service) cachedSnapshot(ctx context.Context, userID string, role Role) (Snapshot, bool) {
	if s.redisClient == nil || s.cacheTTL <= 0 {
		return Snapshot{}, false
	}

	data, err := s.redisClient.Get(ctx, snapshotCacheKey(userID, role)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("userID", userID).Msg("failed to read snapshot cache")
		}
		return Snapshot{}, false
	}

	var snapshot Snapshot
	if err = json.Unmarshal(data, &snapshot); err != nil {
		log.Warn().Err(err).Str("userID", userID).Msg("discarding undecodable cached snapshot")
		return Snapshot{}, false
	}

	return snapshot, true
}

func (s *Service) cacheSnapshot(ctx context.Context, userID string, role Role, snapshot Snapshot) {
	if s.redisClient == nil || s.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Warn().Err(err).Str("userID", userID).Msg("failed to encode snapshot for cache")
		return
	}

	if err = s.redisClient.Set(ctx, snapshotCacheKey(userID, role), data, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("userID", userID).Msg("failed to write snapshot cache")
	}
}

// Cache entries are scoped per (user, role); there is deliberately no global
// current-snapshot state.
func snapshotCacheKey(userID string, role Role) string {
	return "feed:snapshot:" + userID + ":" + string(role)
}
