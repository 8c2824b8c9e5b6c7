package feed

import (
	"fmt"
	"time"

	"github.com/classora/classora-BE/internal/notifstore"
)

// Role determines the visibility scope of an aggregation pass.
type Role string

const (
	// RoleStudent sees activity addressed to their own id.
	RoleStudent Role = "student"
	// RoleInstructor sees activity across every course they own.
	RoleInstructor Role = "instructor"
)

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleInstructor:
		return RoleInstructor, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Scope bounds what one aggregation pass is allowed to read. CourseIDs is
// only populated for instructors.
type Scope struct {
	UserID    string
	Role      Role
	CourseIDs []string
}

type Status string

const (
	StatusNew       Status = "new"
	StatusCompleted Status = "completed"
	StatusLate      Status = "late"
)

// ActivityEvent is one normalized entry of the merged activity timeline. It
// is rebuilt from scratch on every aggregation pass and never persisted.
type ActivityEvent struct {
	ID             string              `json:"id"`
	ActorName      string              `json:"actor_name,omitempty"`
	ActorAvatarURL string              `json:"actor_avatar_url,omitempty"`
	Type           notifstore.Category `json:"type"`
	Title          string              `json:"title"`
	Message        string              `json:"message,omitempty"`
	CourseTitle    string              `json:"course_title,omitempty"`
	RelatedTitle   string              `json:"related_title,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
	TimeAgo        string              `json:"time_ago"`
	Status         Status              `json:"status"`
	Score          *int64              `json:"score,omitempty"`
	MaxScore       *int64              `json:"max_score,omitempty"`
}

// Event ids are namespaced by source so that the merge map never collides
// across record kinds. An enriched notification whose link resolves to a
// domain record adopts the domain-side id, which is what lets the merge
// step collapse the two representations of the same real-world event.
func submissionEventID(id string) string {
	return "submission-" + id
}

func quizEventID(attemptID string) string {
	return "quiz-" + attemptID
}

func enrollmentEventID(id string) string {
	return "enrollment-" + id
}

func notificationEventID(id string) string {
	return "notif-" + id
}
