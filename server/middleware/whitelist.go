package middleware

import (
	"bhinneka/config"
	"bhinneka/server/handler"
	"strings"

	"github.com/gin-gonic/gin"
)

// Whitelist 按邮箱和域名白名单限制 MCP 路径的访问。
// 没有配置白名单时直接放行；配置了白名单时未认证的请求返回 401。
func Whitelist(cfg config.Auth, mcpPath string) gin.HandlerFunc {
	emails := make(map[string]struct{}, len(cfg.AllowedEmails))
	for _, e := range cfg.AllowedEmails {
		emails[strings.ToLower(e)] = struct{}{}
	}
	domains := make(map[string]struct{}, len(cfg.AllowedDomains))
	for _, d := range cfg.AllowedDomains {
		domains[strings.TrimLeft(strings.ToLower(d), "@")] = struct{}{}
	}

	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, mcpPath) || (len(emails) == 0 && len(domains) == 0) {
			c.Next()
			return
		}
		id, ok := IdentityFrom(c.Request.Context())
		if !ok {
			handler.Unauthorized(c, "Missing bearer token")
			return
		}
		if id.Email == "" {
			handler.Forbidden(c, "Email not available for authorization")
			return
		}

		email := strings.ToLower(id.Email)
		domain := ""
		if i := strings.LastIndexByte(email, '@'); i >= 0 {
			domain = email[i+1:]
		}
		if _, ok := emails[email]; ok {
			c.Next()
			return
		}
		if _, ok := domains[domain]; ok && domain != "" {
			c.Next()
			return
		}
		handler.Forbidden(c, "Email not whitelisted")
	}
}
