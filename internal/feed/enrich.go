package feed

import (
	"context"

	"github.com/classora/classora-BE/internal/db"
	"github.com/classora/classora-BE/internal/notifstore"
	"github.com/classora/classora-BE/internal/util"
	"github.com/rs/zerolog/log"
)

// Enricher turns persisted notifications into activity events, replacing
// stored text with live domain data wherever a link field still resolves.
// Live data wins because the referenced record may have changed (a regraded
// quiz, a renamed assignment) after the notification was written.
type Enricher struct {
	domain db.Store
}

func NewEnricher(domain db.Store) *Enricher {
	return &Enricher{domain: domain}
}

// Enrich maps every notification to exactly one event. A failed lookup falls
// back to the notification's stored title and message; it never drops the
// entry and is never surfaced as an error.
func (e *Enricher) Enrich(ctx context.Context, notifications []notifstore.Notification) []ActivityEvent {
	// Course and quiz titles repeat heavily within one pass, so lookups are
	// cached per call, mirroring the per-request actor cache of the store list
	// endpoint. The cache must not outlive the pass: snapshots are always
	// rebuilt from current data.
	lookups := newLookupCache(e.domain)

	events := make([]ActivityEvent, 0, len(notifications))
	for _, n := range notifications {
		events = append(events, e.enrichOne(ctx, n, lookups))
	}

	return events
}

func (e *Enricher) enrichOne(ctx context.Context, n notifstore.Notification, lookups *lookupCache) ActivityEvent {
	// An attempt link resolves to the full domain record, so the event takes
	// the domain-side identity and merges with the raw quiz-attempt read.
	if n.AttemptID != nil {
		attempt, err := e.domain.GetQuizAttemptActivity(ctx, *n.AttemptID)
		if err == nil {
			return eventFromQuizAttempt(attempt)
		}
		log.Debug().Err(err).Str("notificationID", n.ID).Str("attemptID", *n.AttemptID).Msg("attempt lookup failed, falling back to stored notification text")
		return fallbackEvent(n)
	}

	event := fallbackEvent(n)

	if n.ActorID != nil {
		if actor, ok := lookups.user(ctx, *n.ActorID); ok {
			event.ActorName = actor.FullName
			event.ActorAvatarURL = derefString(actor.AvatarURL)
		}
	}

	switch {
	case n.AssignmentID != nil:
		assignment, err := e.domain.GetAssignment(ctx, *n.AssignmentID)
		if err != nil {
			log.Debug().Err(err).Str("notificationID", n.ID).Str("assignmentID", *n.AssignmentID).Msg("assignment lookup failed, falling back to stored notification text")
			return event
		}
		event.RelatedTitle = assignment.Title
		event.CourseTitle = lookups.courseTitle(ctx, assignment.CourseID)
	case n.QuizID != nil:
		quiz, err := e.domain.GetQuiz(ctx, *n.QuizID)
		if err != nil {
			log.Debug().Err(err).Str("notificationID", n.ID).Str("quizID", *n.QuizID).Msg("quiz lookup failed, falling back to stored notification text")
			return event
		}
		event.RelatedTitle = quiz.Title
		event.CourseTitle = lookups.courseTitle(ctx, quiz.CourseID)
	case n.CourseID != nil:
		event.CourseTitle = lookups.courseTitle(ctx, *n.CourseID)
	}

	return event
}

// fallbackEvent carries the notification's own text verbatim. It keeps the
// notif-* namespace because there is no domain-side identity to reuse.
func fallbackEvent(n notifstore.Notification) ActivityEvent {
	status := StatusNew
	if n.IsRead {
		status = StatusCompleted
	}

	return ActivityEvent{
		ID:        notificationEventID(n.ID),
		Type:      n.Category,
		Title:     n.Title,
		Message:   n.Message,
		Timestamp: n.CreatedAt,
		TimeAgo:   util.FormatRelativeTime(n.CreatedAt),
		Status:    status,
	}
}

type lookupCache struct {
	domain  db.Store
	courses map[string]string
	users   map[string]*db.User
}

func newLookupCache(domain db.Store) *lookupCache {
	return &lookupCache{
		domain:  domain,
		courses: make(map[string]string),
		users:   make(map[string]*db.User),
	}
}

func (c *lookupCache) courseTitle(ctx context.Context, courseID string) string {
	if title, ok := c.courses[courseID]; ok {
		return title
	}

	course, err := c.domain.GetCourse(ctx, courseID)
	if err != nil {
		log.Debug().Err(err).Str("courseID", courseID).Msg("course lookup failed during enrichment")
		c.courses[courseID] = ""
		return ""
	}

	c.courses[courseID] = course.Title
	return course.Title
}

func (c *lookupCache) user(ctx context.Context, userID string) (db.User, bool) {
	if cached, ok := c.users[userID]; ok {
		if cached == nil {
			return db.User{}, false
		}
		return *cached, true
	}

	user, err := c.domain.GetUser(ctx, userID)
	if err != nil {
		log.Debug().Err(err).Str("userID", userID).Msg("actor lookup failed during enrichment")
		c.users[userID] = nil
		return db.User{}, false
	}

	c.users[userID] = &user
	return user, true
}
