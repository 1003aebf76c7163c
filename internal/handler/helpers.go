package handler

import (
	"errors"
	"net/http"

	"receivables_monitor/internal/logger"
	"receivables_monitor/internal/middleware"

	"github.com/gin-gonic/gin"
)

func getAuthAnalystID(c *gin.Context) (int, error) {
	idVal, exists := c.Get(middleware.AuthAnalystKey)
	if !exists {
		return 0, errors.New("analyst ID not found in context")
	}
	id, ok := idVal.(int)
	if !ok {
		return 0, errors.New("invalid analyst ID type in context")
	}
	return id, nil
}

func getAuthRole(c *gin.Context) (string, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("analyst role not found in context")
	}
	role, ok := roleVal.(string)
	if !ok {
		return "", errors.New("invalid analyst role type in context")
	}
	return role, nil
}

// internalError logs err with the request logger and hides it from the client
func internalError(c *gin.Context, err error, msg string) {
	log := logger.FromContext(c.Request.Context())
	log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
