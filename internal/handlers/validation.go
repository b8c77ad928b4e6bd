package handlers

import (
	"net/http"

	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/gin-gonic/gin"
)

// bindQuery parses the query string into dst and validates it.
// It writes the error response and returns false on failure.
func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters", err)
		return false
	}
	if err := models.Validate(dst); err != nil {
		respondErrorWithDetails(c, http.StatusUnprocessableEntity, "Invalid query parameters", models.ParseValidationErrors(err), err)
		return false
	}
	return true
}

// bindJSON parses the request body into dst. Field validation is left to the mutation.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}
