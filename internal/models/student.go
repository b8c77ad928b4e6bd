package models

import "time"

// StudentStatus is the status filter and derived display label for students
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusStuck    StudentStatus = "stuck"
	StudentStatusInactive StudentStatus = "inactive"
)

// IsValid reports whether s is a known status value
func (s StudentStatus) IsValid() bool {
	switch s {
	case StudentStatusActive, StudentStatusStuck, StudentStatusInactive:
		return true
	default:
		return false
	}
}

// Student mirrors the platform's student list record
type Student struct {
	ID             int        `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	Email          string     `json:"email" yaml:"email"`
	Phone          string     `json:"phone,omitempty" yaml:"phone,omitempty"`
	IsActive       bool       `json:"is_active" yaml:"is_active"`
	Status         string     `json:"status,omitempty" yaml:"status,omitempty"`
	CourseID       *int       `json:"course_id,omitempty" yaml:"course_id,omitempty"`
	Progress       float64    `json:"progress" yaml:"progress"`
	Points         int        `json:"points" yaml:"points"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty" yaml:"last_activity_at,omitempty"`
}

// DisplayStatus maps the server's active flag and status to the tri-state label.
// The server's status only refines active students; an inactive flag always wins.
func (s Student) DisplayStatus() StudentStatus {
	if !s.IsActive {
		return StudentStatusInactive
	}
	if StudentStatus(s.Status) == StudentStatusStuck {
		return StudentStatusStuck
	}
	return StudentStatusActive
}

// StudentDetail is GET /students/{id}
type StudentDetail struct {
	Student     `yaml:",inline"`
	Enrollments []Enrollment `json:"enrollments" yaml:"enrollments"`
	Notes       string       `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// StudentFilter is the optional query of GET /students. Zero values are omitted.
type StudentFilter struct {
	CourseID int           `url:"course_id,omitempty"`
	Status   StudentStatus `url:"status,omitempty"`
	Search   string        `url:"search,omitempty"`
}

// CreateStudentRequest is the payload of POST /students
type CreateStudentRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,numeric,min=7,max=15"`
	CourseID *int   `json:"course_id,omitempty" validate:"omitempty,gt=0"`
}

// FindStudent returns the student with id, or nil
func FindStudent(students []Student, id int) *Student {
	for i := range students {
		if students[i].ID == id {
			return &students[i]
		}
	}
	return nil
}
