package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides read access to the domain records (courses, assignments,
// quizzes, submissions, quiz attempts, enrollments). The notification feed
// only ever reads this data; domain writes belong to the CRUD services.
type Store interface {
	GetCourse(ctx context.Context, id string) (Course, error)
	GetAssignment(ctx context.Context, id string) (Assignment, error)
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	GetUser(ctx context.Context, id string) (User, error)
	ListCourseIDsByOwner(ctx context.Context, ownerID string) ([]string, error)

	ListSubmissionActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]SubmissionActivity, error)
	ListSubmissionActivityByStudent(ctx context.Context, studentID string, limit int32) ([]SubmissionActivity, error)
	GetSubmissionActivity(ctx context.Context, id string) (SubmissionActivity, error)

	ListQuizAttemptActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]QuizAttemptActivity, error)
	ListQuizAttemptActivityByStudent(ctx context.Context, studentID string, limit int32) ([]QuizAttemptActivity, error)
	GetQuizAttemptActivity(ctx context.Context, id string) (QuizAttemptActivity, error)

	ListEnrollmentActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]EnrollmentActivity, error)
	ListEnrollmentActivityByStudent(ctx context.Context, studentID string, limit int32) ([]EnrollmentActivity, error)
	GetEnrollmentActivity(ctx context.Context, id string) (EnrollmentActivity, error)

	Ping(ctx context.Context) error
}

type SQLStore struct {
	connPool *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(db *pgxpool.Pool) Store {
	return &SQLStore{
		connPool: db,
	}
}

// Ping checks if the database connection is alive.
func (store *SQLStore) Ping(ctx context.Context) error {
	return store.connPool.Ping(ctx)
}
