package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models/dto"
)

// BindJSON binds and validates the request body into obj. On failure it
// writes a 400 and returns false; missingMsg is used when a required field is
// absent.
func BindJSON(c *gin.Context, obj interface{}, missingMsg string) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeValidationFailed,
			dto.HandleValidationError(err, missingMsg),
		))
		return false
	}
	return true
}
