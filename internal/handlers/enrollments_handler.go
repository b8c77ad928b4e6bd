package handlers

import (
	"net/http"

	"github.com/getmentor/supercoach-admin/internal/api"
	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/gin-gonic/gin"
)

const defaultLeaderboardLimit = 10

type enrollmentsQuery struct {
	CourseID  int `form:"course_id" json:"course_id" validate:"omitempty,gt=0"`
	StudentID int `form:"student_id" json:"student_id" validate:"omitempty,gt=0"`
}

type leaderboardQuery struct {
	CourseID int `form:"course_id" json:"course_id" validate:"omitempty,gt=0"`
	Limit    int `form:"limit" json:"limit" validate:"omitempty,gt=0,lte=100"`
}

// EnrollmentsHandler serves enrollments, enrolling and the leaderboard
type EnrollmentsHandler struct {
	views  *Views
	resp   Responder
	enroll *loader.Mutation[models.EnrollRequest, *models.Enrollment]
}

// NewEnrollmentsHandler creates a new enrollments handler
func NewEnrollmentsHandler(client *api.Client, views *Views, resp Responder) *EnrollmentsHandler {
	return &EnrollmentsHandler{
		views:  views,
		resp:   resp,
		enroll: loader.NewMutation("enroll", client.Enroll),
	}
}

func (h *EnrollmentsHandler) ListEnrollments(c *gin.Context) {
	var q enrollmentsQuery
	if !bindQuery(c, &q) {
		return
	}

	filter := models.EnrollmentFilter{CourseID: q.CourseID, StudentID: q.StudentID}
	respondState(c, h.resp, h.views.Enrollments.Fetch(c.Request.Context(), filter))
}

func (h *EnrollmentsHandler) Enroll(c *gin.Context) {
	var req models.EnrollRequest
	if !bindJSON(c, &req) {
		return
	}

	enrollment, err := h.enroll.Run(c.Request.Context(), req)
	if err != nil {
		h.resp.apiError(c, err)
		return
	}

	h.views.Enrollments.Reset()
	h.views.StudentDetail.Reset()
	h.views.Students.Reset()
	h.views.Courses.Reset()

	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentsHandler) GetLeaderboard(c *gin.Context) {
	var q leaderboardQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultLeaderboardLimit
	}

	filter := models.LeaderboardFilter{CourseID: q.CourseID, Limit: q.Limit}
	respondState(c, h.resp, h.views.Leaderboard.Fetch(c.Request.Context(), filter))
}
