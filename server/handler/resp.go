package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse OAuth 风格的错误响应
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// Deny 中止请求并返回错误响应
func Deny(c *gin.Context, status int, code, description string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Description: description})
}

// Unauthorized 返回 401
func Unauthorized(c *gin.Context, description string) {
	c.Header("WWW-Authenticate", `Bearer realm="bhinneka"`)
	Deny(c, http.StatusUnauthorized, "unauthorized", description)
}

// Forbidden 返回 403
func Forbidden(c *gin.Context, description string) {
	Deny(c, http.StatusForbidden, "forbidden", description)
}

// OK 返回 200 JSON
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
