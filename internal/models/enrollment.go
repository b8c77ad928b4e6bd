package models

import "time"

// Enrollment links a student to a course
type Enrollment struct {
	ID         int       `json:"id" yaml:"id"`
	StudentID  int       `json:"student_id" yaml:"student_id"`
	CourseID   int       `json:"course_id" yaml:"course_id"`
	Progress   float64   `json:"progress" yaml:"progress"`
	EnrolledAt time.Time `json:"enrolled_at" yaml:"enrolled_at"`
}

// EnrollmentFilter is the optional query of GET /enrollments
type EnrollmentFilter struct {
	CourseID  int `url:"course_id,omitempty"`
	StudentID int `url:"student_id,omitempty"`
}

// EnrollRequest is the payload of POST /enrollments
type EnrollRequest struct {
	StudentID int `json:"student_id" validate:"required,gt=0"`
	CourseID  int `json:"course_id" validate:"required,gt=0"`
}
