package handlers

import (
	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/gin-gonic/gin"
)

type conversationsQuery struct {
	StudentID    int    `form:"student_id" json:"student_id" validate:"omitempty,gt=0"`
	SuperCoachID string `form:"coach_id" json:"coach_id" validate:"max=64"`
}

// SuperCoachHandler serves the supercoach personas and conversations
type SuperCoachHandler struct {
	views *Views
	resp  Responder
}

// NewSuperCoachHandler creates a new supercoach handler
func NewSuperCoachHandler(views *Views, resp Responder) *SuperCoachHandler {
	return &SuperCoachHandler{views: views, resp: resp}
}

func (h *SuperCoachHandler) ListSuperCoaches(c *gin.Context) {
	respondState(c, h.resp, h.views.SuperCoaches.Fetch(c.Request.Context(), noFilter{}))
}

func (h *SuperCoachHandler) ListConversations(c *gin.Context) {
	var q conversationsQuery
	if !bindQuery(c, &q) {
		return
	}

	filter := models.ConversationFilter{StudentID: q.StudentID, SuperCoachID: q.SuperCoachID}
	respondState(c, h.resp, h.views.Conversations.Fetch(c.Request.Context(), filter))
}
