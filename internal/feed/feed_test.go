package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/classora/classora-BE/internal/db"
	"github.com/classora/classora-BE/internal/notifstore"
)

// fakeNotifStore is an in-memory stand-in for the Firestore notification log.
type fakeNotifStore struct {
	mu            sync.Mutex
	notifications map[string]notifstore.Notification

	failReads  bool
	failWrites bool
	listCalls  int
	listGate   chan struct{} // when set, ListByRecipient blocks until it can receive
}

func newFakeNotifStore() *fakeNotifStore {
	return &fakeNotifStore{
		notifications: make(map[string]notifstore.Notification),
	}
}

func (f *fakeNotifStore) put(n notifstore.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications[n.ID] = n
}

func (f *fakeNotifStore) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notifstore.Notification, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	failReads := f.failReads
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if failReads {
		return nil, context.DeadlineExceeded
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var result []notifstore.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (f *fakeNotifStore) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failReads {
		return 0, context.DeadlineExceeded
	}

	var count int64
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}

	return count, nil
}

func (f *fakeNotifStore) MarkRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites {
		return context.DeadlineExceeded
	}

	// Missing or already-read ids are a no-op, like the real store.
	if n, ok := f.notifications[id]; ok {
		n.IsRead = true
		f.notifications[id] = n
	}

	return nil
}

func (f *fakeNotifStore) MarkAllRead(ctx context.Context, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites {
		return context.DeadlineExceeded
	}

	for id, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			f.notifications[id] = n
		}
	}

	return nil
}

func (f *fakeNotifStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites {
		return context.DeadlineExceeded
	}

	delete(f.notifications, id)
	return nil
}

// fakeDomainStore is an in-memory stand-in for the Postgres domain records.
type fakeDomainStore struct {
	courses     []db.Course
	assignments []db.Assignment
	quizzes     []db.Quiz
	users       []db.User
	submissions []db.SubmissionActivity
	attempts    []db.QuizAttemptActivity
	enrollments []db.EnrollmentActivity
}

func (f *fakeDomainStore) GetCourse(ctx context.Context, id string) (db.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return db.Course{}, db.ErrRecordNotFound
}

func (f *fakeDomainStore) GetAssignment(ctx context.Context, id string) (db.Assignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return db.Assignment{}, db.ErrRecordNotFound
}

func (f *fakeDomainStore) GetQuiz(ctx context.Context, id string) (db.Quiz, error) {
	for _, q := range f.quizzes {
		if q.ID == id {
			return q, nil
		}
	}
	return db.Quiz{}, db.ErrRecordNotFound
}

func (f *fakeDomainStore) GetUser(ctx context.Context, id string) (db.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return db.User{}, db.ErrRecordNotFound
}

func (f *fakeDomainStore) ListCourseIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	for _, c := range f.courses {
		if c.OwnerID == ownerID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (f *fakeDomainStore) ListSubmissionActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]db.SubmissionActivity, error) {
	var result []db.SubmissionActivity
	for _, s := range f.submissions {
		if containsString(courseIDs, s.CourseID) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeDomainStore) ListSubmissionActivityByStudent(ctx context.Context, studentID string, limit int32) ([]db.SubmissionActivity, error) {
	var result []db.SubmissionActivity
	for _, s := range f.submissions {
		if s.StudentID == studentID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeDomainStore) GetSubmissionActivity(ctx context.Context, id string) (db.SubmissionActivity, error) {
	for _, s := range f.submissions {
		if s.ID == id {
			return s, nil
		}
	}
	return db.SubmissionActivity{}, db.ErrRecordNotFound
}

func (f *fakeDomainStore) ListQuizAttemptActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]db.QuizAttemptActivity, error) {
	var result []db.QuizAttemptActivity
	for _, qa := range f.attempts {
		if containsString(courseIDs, qa.CourseID) {
			result = append(result, qa)
		}
	}
	return result, nil
}

func (f *fakeDomainStore) ListQuizAttemptActivityByStudent(ctx context.Context, studentID string, limit int32) ([]db.QuizAttemptActivity, error) {
	var result []db.QuizAttemptActivity
	for _, qa := range f.attempts {
		if qa.StudentID == studentID {
			result = append(result, qa)
		}
	}
	return result, nil
}

func (f *fakeDomainStore) GetQuizAttemptActivity(ctx context.Context, id string) (db.QuizAttemptActivity, error) {
	for _, qa := range f.attempts {
		if qa.ID == id {
			return qa, nil
		}
	}
	return db.QuizAttemptActivity{}, db.ErrRecordNotFound
}

func (f *fakeDomainStore) ListEnrollmentActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]db.EnrollmentActivity, error) {
	var result []db.EnrollmentActivity
	for _, e := range f.enrollments {
		if containsString(courseIDs, e.CourseID) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeDomainStore) ListEnrollmentActivityByStudent(ctx context.Context, studentID string, limit int32) ([]db.EnrollmentActivity, error) {
	var result []db.EnrollmentActivity
	for _, e := range f.enrollments {
		if e.StudentID == studentID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeDomainStore) GetEnrollmentActivity(ctx context.Context, id string) (db.EnrollmentActivity, error) {
	for _, e := range f.enrollments {
		if e.ID == id {
			return e, nil
		}
	}
	return db.EnrollmentActivity{}, db.ErrRecordNotFound
}

func (f *fakeDomainStore) Ping(ctx context.Context) error {
	return nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func testTime(offset time.Duration) time.Time {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	return base.Add(offset)
}
