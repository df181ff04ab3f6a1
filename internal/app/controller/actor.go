package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	apperrors "github.com/reviewboost/reviewboost-backend/internal/errors"
	"github.com/reviewboost/reviewboost-backend/internal/middleware"
)

// currentUser loads the authenticated user with their plan preloaded.
// Writes the error response itself on failure.
func currentUser(c *gin.Context, auth service.AuthService) (*model.User, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return nil, false
	}

	user, err := auth.GetUserByID(userID)
	if err != nil {
		apperrors.Unauthorized(c, "Account not found")
		return nil, false
	}
	return user, true
}

// pathQueryUint parses an optional uint query parameter.
func pathQueryUint(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// pathID parses a uint path parameter, responding with 400 on failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
