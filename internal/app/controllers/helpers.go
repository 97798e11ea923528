// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/middleware"
	"github.com/yigit/placement/internal/pkg/auth"
)

// parseIDParam reads a positive integer path parameter. It writes a 400 and
// returns false when the value is not usable.
func parseIDParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "Invalid "+label))
		return 0, false
	}
	return id, true
}

// principal returns the authenticated id or writes a 401
func principal(c *gin.Context) (int64, bool) {
	id, ok := middleware.PrincipalID(c)
	if !ok {
		middleware.HandleAPIError(c, auth.ErrMissingAuthHeader)
		return 0, false
	}
	return id, true
}
