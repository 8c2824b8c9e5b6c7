package db

import (
	"time"
)

type Course struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Assignment struct {
	ID       string    `json:"id"`
	CourseID string    `json:"course_id"`
	Title    string    `json:"title"`
	DueDate  time.Time `json:"due_date"`
}

type Quiz struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	MaxScore int64  `json:"max_score"`
}

type User struct {
	ID        string  `json:"id"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Role      string  `json:"role"`
}

// SubmissionActivity is a submission row joined with the student, assignment
// and course it belongs to, shaped for the activity feed.
type SubmissionActivity struct {
	ID               string    `json:"id"`
	AssignmentID     string    `json:"assignment_id"`
	CourseID         string    `json:"course_id"`
	StudentID        string    `json:"student_id"`
	SubmittedAt      time.Time `json:"submitted_at"`
	StudentName      string    `json:"student_name"`
	StudentAvatarURL *string   `json:"student_avatar_url"`
	AssignmentTitle  string    `json:"assignment_title"`
	DueDate          time.Time `json:"due_date"`
	CourseTitle      string    `json:"course_title"`
}

// QuizAttemptActivity is a quiz attempt row joined with the student, quiz and
// course it belongs to.
type QuizAttemptActivity struct {
	ID               string    `json:"id"`
	QuizID           string    `json:"quiz_id"`
	CourseID         string    `json:"course_id"`
	StudentID        string    `json:"student_id"`
	CompletedAt      time.Time `json:"completed_at"`
	Score            int64     `json:"score"`
	MaxScore         int64     `json:"max_score"`
	StudentName      string    `json:"student_name"`
	StudentAvatarURL *string   `json:"student_avatar_url"`
	QuizTitle        string    `json:"quiz_title"`
	CourseTitle      string    `json:"course_title"`
}

// EnrollmentActivity is an enrollment change row joined with the student and
// course it belongs to.
type EnrollmentActivity struct {
	ID               string    `json:"id"`
	CourseID         string    `json:"course_id"`
	StudentID        string    `json:"student_id"`
	Status           string    `json:"status"`
	ChangedAt        time.Time `json:"changed_at"`
	StudentName      string    `json:"student_name"`
	StudentAvatarURL *string   `json:"student_avatar_url"`
	CourseTitle      string    `json:"course_title"`
}
