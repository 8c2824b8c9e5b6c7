package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const quizAttemptActivityColumns = `
qa.id, qa.quiz_id, qa.course_id, qa.student_id, qa.completed_at, qa.score, qa.max_score,
u.full_name, u.avatar_url, q.title, c.title
`

const quizAttemptActivityJoins = `
FROM quiz_attempts qa
JOIN quizzes q ON q.id = qa.quiz_id
JOIN courses c ON c.id = qa.course_id
JOIN users u ON u.id = qa.student_id
`

func scanQuizAttemptActivity(row pgx.Row) (QuizAttemptActivity, error) {
	var qa QuizAttemptActivity
	err := row.Scan(
		&qa.ID,
		&qa.QuizID,
		&qa.CourseID,
		&qa.StudentID,
		&qa.CompletedAt,
		&qa.Score,
		&qa.MaxScore,
		&qa.StudentName,
		&qa.StudentAvatarURL,
		&qa.QuizTitle,
		&qa.CourseTitle,
	)
	return qa, err
}

const listQuizAttemptActivityByCourses = `
SELECT ` + quizAttemptActivityColumns + quizAttemptActivityJoins + `
WHERE qa.course_id = ANY($1)
ORDER BY qa.completed_at DESC
LIMIT $2
`

func (store *SQLStore) ListQuizAttemptActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]QuizAttemptActivity, error) {
	rows, err := store.connPool.Query(ctx, listQuizAttemptActivityByCourses, courseIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuizAttemptActivity(rows)
}

const listQuizAttemptActivityByStudent = `
SELECT ` + quizAttemptActivityColumns + quizAttemptActivityJoins + `
WHERE qa.student_id = $1
ORDER BY qa.completed_at DESC
LIMIT $2
`

func (store *SQLStore) ListQuizAttemptActivityByStudent(ctx context.Context, studentID string, limit int32) ([]QuizAttemptActivity, error) {
	rows, err := store.connPool.Query(ctx, listQuizAttemptActivityByStudent, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuizAttemptActivity(rows)
}

const getQuizAttemptActivity = `
SELECT ` + quizAttemptActivityColumns + quizAttemptActivityJoins + `
WHERE qa.id = $1
`

func (store *SQLStore) GetQuizAttemptActivity(ctx context.Context, id string) (QuizAttemptActivity, error) {
	row := store.connPool.QueryRow(ctx, getQuizAttemptActivity, id)
	return scanQuizAttemptActivity(row)
}

func collectQuizAttemptActivity(rows pgx.Rows) ([]QuizAttemptActivity, error) {
	var items []QuizAttemptActivity
	for rows.Next() {
		qa, err := scanQuizAttemptActivity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, qa)
	}

	return items, rows.Err()
}
