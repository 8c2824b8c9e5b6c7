package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const submissionActivityColumns = `
s.id, s.assignment_id, s.course_id, s.student_id, s.submitted_at,
u.full_name, u.avatar_url, a.title, a.due_date, c.title
`

const submissionActivityJoins = `
FROM submissions s
JOIN assignments a ON a.id = s.assignment_id
JOIN courses c ON c.id = s.course_id
JOIN users u ON u.id = s.student_id
`

func scanSubmissionActivity(row pgx.Row) (SubmissionActivity, error) {
	var s SubmissionActivity
	err := row.Scan(
		&s.ID,
		&s.AssignmentID,
		&s.CourseID,
		&s.StudentID,
		&s.SubmittedAt,
		&s.StudentName,
		&s.StudentAvatarURL,
		&s.AssignmentTitle,
		&s.DueDate,
		&s.CourseTitle,
	)
	return s, err
}

const listSubmissionActivityByCourses = `
SELECT ` + submissionActivityColumns + submissionActivityJoins + `
WHERE s.course_id = ANY($1)
ORDER BY s.submitted_at DESC
LIMIT $2
`

func (store *SQLStore) ListSubmissionActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]SubmissionActivity, error) {
	rows, err := store.connPool.Query(ctx, listSubmissionActivityByCourses, courseIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissionActivity(rows)
}

const listSubmissionActivityByStudent = `
SELECT ` + submissionActivityColumns + submissionActivityJoins + `
WHERE s.student_id = $1
ORDER BY s.submitted_at DESC
LIMIT $2
`

func (store *SQLStore) ListSubmissionActivityByStudent(ctx context.Context, studentID string, limit int32) ([]SubmissionActivity, error) {
	rows, err := store.connPool.Query(ctx, listSubmissionActivityByStudent, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissionActivity(rows)
}

const getSubmissionActivity = `
SELECT ` + submissionActivityColumns + submissionActivityJoins + `
WHERE s.id = $1
`

func (store *SQLStore) GetSubmissionActivity(ctx context.Context, id string) (SubmissionActivity, error) {
	row := store.connPool.QueryRow(ctx, getSubmissionActivity, id)
	return scanSubmissionActivity(row)
}

func collectSubmissionActivity(rows pgx.Rows) ([]SubmissionActivity, error) {
	var items []SubmissionActivity
	for rows.Next() {
		s, err := scanSubmissionActivity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}

	return items, rows.Err()
}
