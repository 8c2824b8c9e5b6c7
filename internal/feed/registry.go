package feed

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const (
	// consumerIdleTTL is how long a consumer survives without being read
	// before its polling loop is shut down.
	consumerIdleTTL = 3 * time.Minute

	evictionInterval = 1 * time.Minute
)

type registryEntry struct {
	consumer *Consumer
	lastSeen time.Time
}

// Registry owns one polling Consumer per mounted (user, role) pair. A
// consumer is mounted on first acquisition and unmounted by the eviction job
// once nothing has read it for a while, so no background work leaks after
// the UI is gone.
type Registry struct {
	svc      *Service
	interval time.Duration

	mu      sync.Mutex
	entries map[string]*registryEntry

	janitor gocron.Scheduler
}

func NewRegistry(svc *Service, interval time.Duration) (*Registry, error) {
	janitor, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	r := &Registry{
		svc:      svc,
		interval: interval,
		entries:  make(map[string]*registryEntry),
		janitor:  janitor,
	}

	_, err = janitor.NewJob(
		gocron.DurationJob(evictionInterval),
		gocron.NewTask(
			func() {
				r.evictIdle()
			},
		),
	)
	if err != nil {
		return nil, err
	}

	janitor.Start()
	return r, nil
}

// Acquire returns the consumer for the (user, role) pair, mounting and
// starting it on first use.
func (r *Registry) Acquire(userID string, role Role) (*Consumer, error) {
	key := consumerKey(userID, role)

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[key]; ok {
		entry.lastSeen = time.Now()
		return entry.consumer, nil
	}

	consumer, err := NewConsumer(r.svc, userID, role, r.interval)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed consumer: %w", err)
	}
	if err = consumer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start feed consumer: %w", err)
	}

	r.entries[key] = &registryEntry{
		consumer: consumer,
		lastSeen: time.Now(),
	}

	log.Info().Str("userID", userID).Str("role", string(role)).Msg("feed consumer mounted")
	return consumer, nil
}

// Shutdown unmounts every consumer and stops the eviction job.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, entry := range r.entries {
		if err := entry.consumer.Stop(); err != nil {
			log.Warn().Err(err).Str("consumer", key).Msg("failed to stop feed consumer")
		}
		delete(r.entries, key)
	}

	return r.janitor.Shutdown()
}

func (r *Registry) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, entry := range r.entries {
		if time.Since(entry.lastSeen) < consumerIdleTTL {
			continue
		}

		if err := entry.consumer.Stop(); err != nil {
			log.Warn().Err(err).Str("consumer", key).Msg("failed to stop idle feed consumer")
		}
		delete(r.entries, key)
		log.Info().Str("consumer", key).Msg("idle feed consumer unmounted")
	}
}

func consumerKey(userID string, role Role) string {
	return userID + ":" + string(role)
}
