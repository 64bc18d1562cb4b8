package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
)

// HealthHandler 健康检查，返回已注册的工具数量
func HealthHandler(s *server.MCPServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		OK(c, gin.H{
			"status": "ok",
			"tools":  len(s.ListTools()),
		})
	}
}
