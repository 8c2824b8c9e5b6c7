package feed

import (
	"context"
	"fmt"

	"github.com/classora/classora-BE/internal/db"
	"github.com/classora/classora-BE/internal/notifstore"
	"github.com/classora/classora-BE/internal/util"
	"github.com/rs/zerolog/log"
)

// Reader produces activity events from the raw domain records, bounded and
// scoped to what the caller may see.
type Reader struct {
	domain db.Store
	limit  int32
}

func NewReader(domain db.Store, limit int32) *Reader {
	return &Reader{
		domain: domain,
		limit:  limit,
	}
}

// Events returns the scope's recent submissions, quiz attempts and
// enrollment changes as activity events. The three sources are queried
// independently; merging happens later in the pipeline.
func (r *Reader) Events(ctx context.Context, scope Scope) ([]ActivityEvent, error) {
	var (
		submissions []db.SubmissionActivity
		attempts    []db.QuizAttemptActivity
		enrollments []db.EnrollmentActivity
		err         error
	)

	switch scope.Role {
	case RoleInstructor:
		if len(scope.CourseIDs) == 0 {
			return nil, nil
		}

		submissions, err = r.domain.ListSubmissionActivityByCourses(ctx, scope.CourseIDs, r.limit)
		if err != nil {
			return nil, fmt.Errorf("%w: listing submissions: %v", ErrDomainUnavailable, err)
		}
		attempts, err = r.domain.ListQuizAttemptActivityByCourses(ctx, scope.CourseIDs, r.limit)
		if err != nil {
			return nil, fmt.Errorf("%w: listing quiz attempts: %v", ErrDomainUnavailable, err)
		}
		enrollments, err = r.domain.ListEnrollmentActivityByCourses(ctx, scope.CourseIDs, r.limit)
		if err != nil {
			return nil, fmt.Errorf("%w: listing enrollments: %v", ErrDomainUnavailable, err)
		}
	case RoleStudent:
		submissions, err = r.domain.ListSubmissionActivityByStudent(ctx, scope.UserID, r.limit)
		if err != nil {
			return nil, fmt.Errorf("%w: listing submissions: %v", ErrDomainUnavailable, err)
		}
		attempts, err = r.domain.ListQuizAttemptActivityByStudent(ctx, scope.UserID, r.limit)
		if err != nil {
			return nil, fmt.Errorf("%w: listing quiz attempts: %v", ErrDomainUnavailable, err)
		}
		enrollments, err = r.domain.ListEnrollmentActivityByStudent(ctx, scope.UserID, r.limit)
		if err != nil {
			return nil, fmt.Errorf("%w: listing enrollments: %v", ErrDomainUnavailable, err)
		}
	default:
		return nil, fmt.Errorf("unknown role %q", scope.Role)
	}

	events := make([]ActivityEvent, 0, len(submissions)+len(attempts)+len(enrollments))
	for _, s := range submissions {
		if !scope.allows(s.CourseID, s.StudentID) {
			log.Error().Str("submissionID", s.ID).Str("userID", scope.UserID).Msg("submission outside caller scope filtered from feed")
			continue
		}
		events = append(events, eventFromSubmission(s))
	}
	for _, qa := range attempts {
		if !scope.allows(qa.CourseID, qa.StudentID) {
			log.Error().Str("attemptID", qa.ID).Str("userID", scope.UserID).Msg("quiz attempt outside caller scope filtered from feed")
			continue
		}
		events = append(events, eventFromQuizAttempt(qa))
	}
	for _, e := range enrollments {
		if !scope.allows(e.CourseID, e.StudentID) {
			log.Error().Str("enrollmentID", e.ID).Str("userID", scope.UserID).Msg("enrollment outside caller scope filtered from feed")
			continue
		}
		events = append(events, eventFromEnrollment(e))
	}

	return events, nil
}

// allows reports whether a domain record belongs to the caller's visibility.
// A record that fails this check reaching the reader is a query bug; it is
// filtered here so it can never leak into the merged timeline.
func (scope Scope) allows(courseID, actorID string) bool {
	switch scope.Role {
	case RoleInstructor:
		for _, id := range scope.CourseIDs {
			if id == courseID {
				return true
			}
		}
		return false
	case RoleStudent:
		return actorID == scope.UserID
	}
	return false
}

func eventFromSubmission(s db.SubmissionActivity) ActivityEvent {
	status := StatusCompleted
	// Strictly after the due date: submitting exactly on the deadline is on time.
	if s.SubmittedAt.After(s.DueDate) {
		status = StatusLate
	}

	return ActivityEvent{
		ID:             submissionEventID(s.ID),
		ActorName:      s.StudentName,
		ActorAvatarURL: derefString(s.StudentAvatarURL),
		Type:           notifstore.CategoryAssignment,
		Title:          fmt.Sprintf("%s submitted %s", s.StudentName, s.AssignmentTitle),
		CourseTitle:    s.CourseTitle,
		RelatedTitle:   s.AssignmentTitle,
		Timestamp:      s.SubmittedAt,
		TimeAgo:        util.FormatRelativeTime(s.SubmittedAt),
		Status:         status,
	}
}

func eventFromQuizAttempt(qa db.QuizAttemptActivity) ActivityEvent {
	score := qa.Score
	maxScore := qa.MaxScore

	return ActivityEvent{
		ID:             quizEventID(qa.ID),
		ActorName:      qa.StudentName,
		ActorAvatarURL: derefString(qa.StudentAvatarURL),
		Type:           notifstore.CategoryQuiz,
		Title:          fmt.Sprintf("%s completed %s", qa.StudentName, qa.QuizTitle),
		Message:        fmt.Sprintf("scored %s", util.FormatScore(qa.Score, qa.MaxScore)),
		CourseTitle:    qa.CourseTitle,
		RelatedTitle:   qa.QuizTitle,
		Timestamp:      qa.CompletedAt,
		TimeAgo:        util.FormatRelativeTime(qa.CompletedAt),
		Status:         StatusCompleted,
		Score:          &score,
		MaxScore:       &maxScore,
	}
}

func eventFromEnrollment(e db.EnrollmentActivity) ActivityEvent {
	return ActivityEvent{
		ID:             enrollmentEventID(e.ID),
		ActorName:      e.StudentName,
		ActorAvatarURL: derefString(e.StudentAvatarURL),
		Type:           notifstore.CategoryEnrollment,
		Title:          fmt.Sprintf("%s %s %s", e.StudentName, enrollmentVerb(e.Status), e.CourseTitle),
		CourseTitle:    e.CourseTitle,
		RelatedTitle:   e.CourseTitle,
		Timestamp:      e.ChangedAt,
		TimeAgo:        util.FormatRelativeTime(e.ChangedAt),
		Status:         StatusNew,
	}
}

func enrollmentVerb(status string) string {
	switch status {
	case "dropped":
		return "dropped"
	default:
		return "enrolled in"
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
