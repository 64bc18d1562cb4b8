package handler

import (
	"bhinneka/version"

	"github.com/gin-gonic/gin"
)

func VersionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		OK(c, version.Get())
	}
}
