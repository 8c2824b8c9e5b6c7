package db

import (
	"context"
)

const getCourse = `
SELECT id, owner_id, title, slug, created_at
FROM courses
WHERE id = $1
`

func (store *SQLStore) GetCourse(ctx context.Context, id string) (Course, error) {
	row := store.connPool.QueryRow(ctx, getCourse, id)

	var c Course
	err := row.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Slug, &c.CreatedAt)
	return c, err
}

const getAssignment = `
SELECT id, course_id, title, due_date
FROM assignments
WHERE id = $1
`

func (store *SQLStore) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	row := store.connPool.QueryRow(ctx, getAssignment, id)

	var a Assignment
	err := row.Scan(&a.ID, &a.CourseID, &a.Title, &a.DueDate)
	return a, err
}

const getQuiz = `
SELECT id, course_id, title, max_score
FROM quizzes
WHERE id = $1
`

func (store *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := store.connPool.QueryRow(ctx, getQuiz, id)

	var q Quiz
	err := row.Scan(&q.ID, &q.CourseID, &q.Title, &q.MaxScore)
	return q, err
}

const listCourseIDsByOwner = `
SELECT id
FROM courses
WHERE owner_id = $1
ORDER BY created_at DESC
`

// ListCourseIDsByOwner returns the ids of every course owned by an instructor.
// The result defines the visibility scope of that instructor's activity feed.
func (store *SQLStore) ListCourseIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := store.connPool.Query(ctx, listCourseIDsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
