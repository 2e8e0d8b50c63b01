package utils

import (
	"github.com/gin-gonic/gin"

	"uploadai/internal/apperr"
)

func Success(c *gin.Context, data gin.H) {
	c.JSON(200, data)
}

func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"error": msg,
	})
}

// FromError writes err with the status code of its type.
func FromError(c *gin.Context, err error) {
	Error(c, apperr.StatusCode(err), err.Error())
}
