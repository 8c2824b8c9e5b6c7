package feed

import (
	"context"
	"testing"
	"time"

	"github.com/classora/classora-BE/internal/db"
	"github.com/classora/classora-BE/internal/notifstore"
	"github.com/stretchr/testify/require"
)

func TestSubmissionLateBoundary(t *testing.T) {
	due := testTime(0)

	testCases := []struct {
		name        string
		submittedAt time.Time
		wantStatus  Status
	}{
		{
			name:        "exactly on the due date is on time",
			submittedAt: due,
			wantStatus:  StatusCompleted,
		},
		{
			name:        "one millisecond past the due date is late",
			submittedAt: due.Add(time.Millisecond),
			wantStatus:  StatusLate,
		},
		{
			name:        "before the due date is on time",
			submittedAt: due.Add(-time.Hour),
			wantStatus:  StatusCompleted,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event := eventFromSubmission(db.SubmissionActivity{
				ID:          "s1",
				SubmittedAt: tc.submittedAt,
				DueDate:     due,
			})
			require.Equal(t, tc.wantStatus, event.Status)
		})
	}
}

func TestReaderInstructorScope(t *testing.T) {
	domain := &fakeDomainStore{
		submissions: []db.SubmissionActivity{
			{ID: "s1", CourseID: "c1", StudentID: "stu1", SubmittedAt: testTime(0), DueDate: testTime(time.Hour)},
			// Outside the instructor's courses; a scope violation must never
			// reach the merged timeline even if a query returns it.
			{ID: "s2", CourseID: "c9", StudentID: "stu2", SubmittedAt: testTime(0), DueDate: testTime(time.Hour)},
		},
		attempts: []db.QuizAttemptActivity{
			{ID: "a1", CourseID: "c1", StudentID: "stu1", CompletedAt: testTime(0), Score: 5, MaxScore: 10},
		},
	}

	reader := NewReader(readerDomainReturningAll{domain}, 50)

	events, err := reader.Events(context.Background(), Scope{
		UserID:    "teacher1",
		Role:      RoleInstructor,
		CourseIDs: []string{"c1"},
	})
	require.NoError(t, err)

	require.Len(t, events, 2)
	for _, e := range events {
		require.NotEqual(t, submissionEventID("s2"), e.ID)
	}
}

func TestReaderStudentScope(t *testing.T) {
	domain := &fakeDomainStore{
		submissions: []db.SubmissionActivity{
			{ID: "s1", CourseID: "c1", StudentID: "stu1", SubmittedAt: testTime(0), DueDate: testTime(time.Hour)},
		},
		enrollments: []db.EnrollmentActivity{
			{ID: "e1", CourseID: "c1", StudentID: "stu1", Status: "active", ChangedAt: testTime(-time.Hour)},
		},
	}

	reader := NewReader(domain, 50)

	events, err := reader.Events(context.Background(), Scope{
		UserID: "stu1",
		Role:   RoleStudent,
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestReaderInstructorWithoutCourses(t *testing.T) {
	reader := NewReader(&fakeDomainStore{}, 50)

	events, err := reader.Events(context.Background(), Scope{
		UserID: "teacher1",
		Role:   RoleInstructor,
	})
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestQuizAttemptEventCarriesScore(t *testing.T) {
	event := eventFromQuizAttempt(db.QuizAttemptActivity{
		ID:          "a1",
		StudentName: "Linh Tran",
		QuizTitle:   "Midterm",
		CompletedAt: testTime(0),
		Score:       8,
		MaxScore:    10,
	})

	require.Equal(t, quizEventID("a1"), event.ID)
	require.Equal(t, notifstore.CategoryQuiz, event.Type)
	require.NotNil(t, event.Score)
	require.EqualValues(t, 8, *event.Score)
	require.NotNil(t, event.MaxScore)
	require.EqualValues(t, 10, *event.MaxScore)
	require.Contains(t, event.Message, "8/10")
}

// readerDomainReturningAll forwards everything but disables course filtering
// on submissions, simulating a query that leaks rows outside the scope.
type readerDomainReturningAll struct {
	*fakeDomainStore
}

func (r readerDomainReturningAll) ListSubmissionActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]db.SubmissionActivity, error) {
	return r.submissions, nil
}
