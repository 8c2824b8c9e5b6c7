package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const enrollmentActivityColumns = `
e.id, e.course_id, e.student_id, e.status, e.changed_at,
u.full_name, u.avatar_url, c.title
`

const enrollmentActivityJoins = `
FROM enrollments e
JOIN courses c ON c.id = e.course_id
JOIN users u ON u.id = e.student_id
`

func scanEnrollmentActivity(row pgx.Row) (EnrollmentActivity, error) {
	var e EnrollmentActivity
	err := row.Scan(
		&e.ID,
		&e.CourseID,
		&e.StudentID,
		&e.Status,
		&e.ChangedAt,
		&e.StudentName,
		&e.StudentAvatarURL,
		&e.CourseTitle,
	)
	return e, err
}

const listEnrollmentActivityByCourses = `
SELECT ` + enrollmentActivityColumns + enrollmentActivityJoins + `
WHERE e.course_id = ANY($1)
ORDER BY e.changed_at DESC
LIMIT $2
`

func (store *SQLStore) ListEnrollmentActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]EnrollmentActivity, error) {
	rows, err := store.connPool.Query(ctx, listEnrollmentActivityByCourses, courseIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEnrollmentActivity(rows)
}

const listEnrollmentActivityByStudent = `
SELECT ` + enrollmentActivityColumns + enrollmentActivityJoins + `
WHERE e.student_id = $1
ORDER BY e.changed_at DESC
LIMIT $2
`

func (store *SQLStore) ListEnrollmentActivityByStudent(ctx context.Context, studentID string, limit int32) ([]EnrollmentActivity, error) {
	rows, err := store.connPool.Query(ctx, listEnrollmentActivityByStudent, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEnrollmentActivity(rows)
}

const getEnrollmentActivity = `
SELECT ` + enrollmentActivityColumns + enrollmentActivityJoins + `
WHERE e.id = $1
`

func (store *SQLStore) GetEnrollmentActivity(ctx context.Context, id string) (EnrollmentActivity, error) {
	row := store.connPool.QueryRow(ctx, getEnrollmentActivity, id)
	return scanEnrollmentActivity(row)
}

func collectEnrollmentActivity(rows pgx.Rows) ([]EnrollmentActivity, error) {
	var items []EnrollmentActivity
	for rows.Next() {
		e, err := scanEnrollmentActivity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}

	return items, rows.Err()
}
