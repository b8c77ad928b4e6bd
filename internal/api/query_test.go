package api

import (
	"testing"

	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestEncodeQuery(t *testing.T) {
	courseID := 7

	tests := []struct {
		name   string
		filter any
		want   string
	}{
		{"empty filter", models.StudentFilter{}, ""},
		{"status only", models.StudentFilter{Status: models.StudentStatusStuck}, "status=stuck"},
		{"all fields", models.StudentFilter{CourseID: 2, Status: "active", Search: "a&b"}, "course_id=2&search=a%26b&status=active"},
		{"pointer filter", &models.LeaderboardFilter{Limit: 5}, "limit=5"},
		{"nil pointer", (*models.LeaderboardFilter)(nil), ""},
		{"renamed tag", models.ConversationFilter{SuperCoachID: "tutor"}, "coach_id=tutor"},
		{"pointer field", struct {
			CourseID *int `url:"course_id,omitempty"`
			Skip     int  `url:"-"`
		}{CourseID: &courseID, Skip: 3}, "course_id=7"},
		{"nil pointer field", struct {
			CourseID *int `url:"course_id,omitempty"`
		}{}, ""},
		{"not a struct", "status=stuck", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeQuery(tt.filter).Encode())
		})
	}
}
