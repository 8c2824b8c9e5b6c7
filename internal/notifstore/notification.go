package notifstore

import (
	"time"
)

// Category classifies a notification for badge grouping and statistics.
type Category string

const (
	CategoryAssignment   Category = "assignment"
	CategoryQuiz         Category = "quiz"
	CategoryGrade        Category = "grade"
	CategoryAnnouncement Category = "announcement"
	CategoryEnrollment   Category = "enrollment"
	CategoryActivity     Category = "activity"
	CategoryLate         Category = "late"
	CategoryDueSoon      Category = "due-soon"
	CategoryCourse       Category = "course"
	CategoryGeneral      Category = "general"
)

var knownCategories = map[Category]bool{
	CategoryAssignment:   true,
	CategoryQuiz:         true,
	CategoryGrade:        true,
	CategoryAnnouncement: true,
	CategoryEnrollment:   true,
	CategoryActivity:     true,
	CategoryLate:         true,
	CategoryDueSoon:      true,
	CategoryCourse:       true,
	CategoryGeneral:      true,
}

// ParseCategory normalizes a raw category string. Unknown values map to
// CategoryGeneral so that a malformed producer never breaks aggregation.
func ParseCategory(raw string) Category {
	c := Category(raw)
	if knownCategories[c] {
		return c
	}
	return CategoryGeneral
}

// Notification is one document of the persisted notification log. Documents
// are created by domain-event producers and mutated only through this
// package's MarkRead/MarkAllRead/Delete.
type Notification struct {
	ID           string    `firestore:"-" json:"id"`
	RecipientID  string    `firestore:"recipientID" json:"recipient_id"`
	Title        string    `firestore:"title" json:"title"`
	Message      string    `firestore:"message" json:"message"`
	Category     Category  `firestore:"type" json:"type"`
	IsRead       bool      `firestore:"isRead" json:"is_read"`
	CreatedAt    time.Time `firestore:"createdAt" json:"created_at"`
	ActorID      *string   `firestore:"actorID" json:"actor_id,omitempty"`
	CourseID     *string   `firestore:"courseID" json:"course_id,omitempty"`
	AssignmentID *string   `firestore:"assignmentID" json:"assignment_id,omitempty"`
	QuizID       *string   `firestore:"quizID" json:"quiz_id,omitempty"`
	AttemptID    *string   `firestore:"attemptID" json:"attempt_id,omitempty"`
}
