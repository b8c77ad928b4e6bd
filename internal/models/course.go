package models

import "time"

// CourseStatus is a UI-only label derived from server fields
type CourseStatus string

const (
	CourseStatusActive CourseStatus = "active"
	CourseStatusPaused CourseStatus = "paused"
	CourseStatusDraft  CourseStatus = "draft"
)

// Course mirrors the platform's course record
type Course struct {
	ID           int       `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	StudentCount int       `json:"student_count" yaml:"student_count"`
	ModuleCount  int       `json:"module_count" yaml:"module_count"`
	CoachID      int       `json:"coach_id,omitempty" yaml:"coach_id,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// Status maps the active flag to a tri-state label: an inactive course that
// already has students is paused, one without any is still a draft.
func (c Course) Status() CourseStatus {
	switch {
	case c.IsActive:
		return CourseStatusActive
	case c.StudentCount > 0:
		return CourseStatusPaused
	default:
		return CourseStatusDraft
	}
}

// CreateCourseRequest is the payload of POST /courses
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
	IsActive    bool   `json:"is_active"`
}

// FindCourse returns the course with id, or nil
func FindCourse(courses []Course, id int) *Course {
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i]
		}
	}
	return nil
}
