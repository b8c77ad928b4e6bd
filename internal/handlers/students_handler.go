package handlers

import (
	"net/http"
	"strconv"

	"github.com/getmentor/supercoach-admin/internal/api"
	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/gin-gonic/gin"
)

type studentsQuery struct {
	CourseID int    `form:"course_id" json:"course_id" validate:"omitempty,gt=0"`
	Status   string `form:"status" json:"status" validate:"omitempty,oneof=active stuck inactive"`
	Search   string `form:"search" json:"search" validate:"max=200"`
}

// StudentsHandler serves the students views and student creation
type StudentsHandler struct {
	views  *Views
	resp   Responder
	create *loader.Mutation[models.CreateStudentRequest, *models.Student]
}

// NewStudentsHandler creates a new students handler
func NewStudentsHandler(client *api.Client, views *Views, resp Responder) *StudentsHandler {
	return &StudentsHandler{
		views:  views,
		resp:   resp,
		create: loader.NewMutation("create_student", client.CreateStudent),
	}
}

func (h *StudentsHandler) ListStudents(c *gin.Context) {
	var q studentsQuery
	if !bindQuery(c, &q) {
		return
	}

	filter := models.StudentFilter{
		CourseID: q.CourseID,
		Status:   models.StudentStatus(q.Status),
		Search:   q.Search,
	}
	respondState(c, h.resp, h.views.Students.Fetch(c.Request.Context(), filter))
}

func (h *StudentsHandler) GetStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid ID", err)
		return
	}

	respondState(c, h.resp, h.views.StudentDetail.Fetch(c.Request.Context(), id))
}

func (h *StudentsHandler) CreateStudent(c *gin.Context) {
	var req models.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.create.Run(c.Request.Context(), req)
	if err != nil {
		h.resp.apiError(c, err)
		return
	}

	h.views.Students.Reset()
	h.views.StatusSummary.Reset()
	h.views.Metrics.Reset()

	c.JSON(http.StatusCreated, student)
}
