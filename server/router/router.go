package router

import (
	"bhinneka/config"
	"bhinneka/server/handler"
	"bhinneka/server/metrics"
	"bhinneka/server/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Options 路由依赖
type Options struct {
	MCPPath    string
	MCPServer  *server.MCPServer
	MCPHandler http.Handler
	Metrics    *metrics.Metrics
	Auth       config.Auth
	Logger     *zap.Logger
}

func Init(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(opts.Logger.Named("http")),
		middleware.Recovery(opts.Logger.Named("http")),
		opts.Metrics.GinMiddleware(),
	)

	r.GET("/healthz", handler.HealthHandler(opts.MCPServer))
	r.GET("/version", handler.VersionHandler())
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	authenticator := middleware.NewAuthenticator(opts.Auth, opts.Logger)
	mcpGroup := r.Group(opts.MCPPath,
		middleware.Cors(),
		authenticator.Auth(),
		middleware.Whitelist(opts.Auth, opts.MCPPath),
	)
	{
		mcpHandler := gin.WrapH(opts.MCPHandler)
		mcpGroup.GET("", mcpHandler)
		mcpGroup.POST("", mcpHandler)
		mcpGroup.DELETE("", mcpHandler)
		mcpGroup.OPTIONS("", func(c *gin.Context) {})
	}
	return r
}
