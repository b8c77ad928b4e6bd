package models

// DashboardMetrics is GET /dashboard/metrics
type DashboardMetrics struct {
	TotalStudents      int     `json:"total_students" yaml:"total_students"`
	ActiveStudents     int     `json:"active_students" yaml:"active_students"`
	TotalCourses       int     `json:"total_courses" yaml:"total_courses"`
	ActiveCourses      int     `json:"active_courses" yaml:"active_courses"`
	TotalConversations int     `json:"total_conversations" yaml:"total_conversations"`
	AverageProgress    float64 `json:"average_progress" yaml:"average_progress"`
	CompletionRate     float64 `json:"completion_rate" yaml:"completion_rate"`
}

// StudentStatusSummary is GET /dashboard/student-status
type StudentStatusSummary struct {
	Active   int `json:"active" yaml:"active"`
	Stuck    int `json:"stuck" yaml:"stuck"`
	Inactive int `json:"inactive" yaml:"inactive"`
}

// Total returns the number of students across all statuses
func (s StudentStatusSummary) Total() int {
	return s.Active + s.Stuck + s.Inactive
}

// LeaderboardEntry is one row of GET /leaderboard
type LeaderboardEntry struct {
	Rank        int     `json:"rank" yaml:"rank"`
	StudentID   int     `json:"student_id" yaml:"student_id"`
	StudentName string  `json:"student_name" yaml:"student_name"`
	Points      int     `json:"points" yaml:"points"`
	Progress    float64 `json:"progress" yaml:"progress"`
}

// LeaderboardFilter is the optional query of GET /leaderboard
type LeaderboardFilter struct {
	CourseID int `url:"course_id,omitempty"`
	Limit    int `url:"limit,omitempty"`
}

// HealthStatus is GET /health
type HealthStatus struct {
	Status  string `json:"status" yaml:"status"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}
