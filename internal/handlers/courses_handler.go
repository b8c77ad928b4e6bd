package handlers

import (
	"net/http"

	"github.com/getmentor/supercoach-admin/internal/api"
	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/gin-gonic/gin"
)

// CoursesHandler serves the courses view and course creation
type CoursesHandler struct {
	views  *Views
	resp   Responder
	create *loader.Mutation[models.CreateCourseRequest, *models.Course]
}

// NewCoursesHandler creates a new courses handler
func NewCoursesHandler(client *api.Client, views *Views, resp Responder) *CoursesHandler {
	return &CoursesHandler{
		views:  views,
		resp:   resp,
		create: loader.NewMutation("create_course", client.CreateCourse),
	}
}

func (h *CoursesHandler) ListCourses(c *gin.Context) {
	respondState(c, h.resp, h.views.Courses.Fetch(c.Request.Context(), noFilter{}))
}

func (h *CoursesHandler) CreateCourse(c *gin.Context) {
	var req models.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.create.Run(c.Request.Context(), req)
	if err != nil {
		h.resp.apiError(c, err)
		return
	}

	h.views.Courses.Reset()
	h.views.Metrics.Reset()

	c.JSON(http.StatusCreated, course)
}
