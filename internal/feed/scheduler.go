package feed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// passTimeout bounds one aggregation pass so a hung store read cannot pin a
// consumer forever.
const passTimeout = 15 * time.Second

// Consumer is one mounted feed consumer: it polls the pipeline on a fixed
// interval and keeps the latest good snapshot. At most one pass is in flight
// at any time; overlapping ticks are dropped and manual refreshes are
// coalesced instead of starting a second pass.
type Consumer struct {
	svc      *Service
	userID   string
	role     Role
	interval time.Duration

	scheduler gocron.Scheduler
	inFlight  atomic.Bool

	mu     sync.RWMutex
	latest Snapshot
	has    bool
}

func NewConsumer(svc *Service, userID string, role Role, interval time.Duration) (*Consumer, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Consumer{
		svc:       svc,
		userID:    userID,
		role:      role,
		interval:  interval,
		scheduler: scheduler,
	}, nil
}

// Start begins the polling loop. The first pass runs on the first tick; use
// Kick for an immediate one.
func (c *Consumer) Start() error {
	_, err := c.scheduler.NewJob(
		gocron.DurationJob(c.interval),
		gocron.NewTask(
			func() {
				c.runPass()
			},
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)

	if err != nil {
		return err
	}

	c.scheduler.Start()
	return nil
}

// Stop cancels the polling loop. An in-flight pass is allowed to finish; its
// result is simply never read again.
func (c *Consumer) Stop() error {
	return c.scheduler.Shutdown()
}

// Kick requests an immediate refresh. If a pass is already in flight the
// request is dropped; the in-flight pass will publish a snapshot at least as
// fresh as the one this call would have produced.
func (c *Consumer) Kick() {
	c.runPass()
}

// Latest returns the most recent successful snapshot, if any.
func (c *Consumer) Latest() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest, c.has
}

// Prime stores a snapshot computed outside the polling loop (e.g. the
// synchronous first fetch of a freshly mounted consumer).
func (c *Consumer) Prime(snapshot Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Never replace a newer snapshot with an older out-of-band one.
	if c.has && snapshot.GeneratedAt.Before(c.latest.GeneratedAt) {
		return
	}

	c.latest = snapshot
	c.has = true
}

func (c *Consumer) runPass() {
	if !c.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer c.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), passTimeout)
	defer cancel()

	snapshot, err := c.svc.Refresh(ctx, c.userID, c.role)
	if err != nil {
		// Keep the previous snapshot: stale-but-consistent beats empty.
		log.Error().Err(err).Str("userID", c.userID).Str("role", string(c.role)).Msg("feed refresh pass failed")
		return
	}

	c.Prime(snapshot)
}
