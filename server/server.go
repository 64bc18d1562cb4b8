package server

import (
	"bhinneka/common"
	"bhinneka/config"
	"bhinneka/server/metrics"
	"bhinneka/server/router"
	"bhinneka/tools"
	"bhinneka/version"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ServiceName MCP 服务名称
const ServiceName = "bhinneka"

const instructions = `bhinneka bundles flight search, SearXNG web search, safe URL fetching and Context7 documentation lookup.
Tool failures are returned as text starting with "❌ ".
Use flights_find_airports to resolve city names to IATA codes before flights_search.
Use fetch_url for pages found through searx_web_search; set render_js=true only for pages that need JavaScript.`

// Server MCP 服务及其传输层
type Server struct {
	cfg      *config.Config
	services *tools.Services
	toolsets []string
	mcp      *server.MCPServer
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// New 注册配置中启用的工具集和 get_server_status
func New(cfg *config.Config, services *tools.Services, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	toolsets := cfg.Server.Tools
	if len(toolsets) == 0 {
		toolsets = tools.Names
	}
	selected, err := services.Select(toolsets)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		services: services,
		toolsets: toolsets,
		metrics:  metrics.New(),
		logger:   logger.Named("server"),
	}
	s.mcp = server.NewMCPServer(ServiceName, version.Get().Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
		server.WithToolHandlerMiddleware(s.metrics.ToolMiddleware(logger.Named("tools"))),
	)
	s.mcp.AddTools(selected...)
	s.mcp.AddTools(s.statusTool())
	return s, nil
}

// MCP 返回底层的 MCP 服务
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Metrics 返回服务指标
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Run 按配置的传输方式运行，直到 ctx 取消
func (s *Server) Run(ctx context.Context) error {
	switch s.cfg.Server.Transport {
	case "http":
		return s.ListenHTTP(ctx)
	default:
		return s.ServeStdio(ctx, os.Stdin, os.Stdout)
	}
}

// ServeStdio 通过标准输入输出提供 MCP 服务
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("serving MCP over stdio", zap.Int("tools", len(s.mcp.ListTools())))
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Handler 返回 HTTP 模式下的路由
func (s *Server) Handler() http.Handler {
	if s.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	streamable := server.NewStreamableHTTPServer(s.mcp,
		server.WithEndpointPath(s.cfg.Server.MCPPath),
		server.WithStateLess(s.cfg.Server.Stateless),
		server.WithLogger(s.logger.Named("mcp").Sugar()),
	)
	return router.Init(router.Options{
		MCPPath:    s.cfg.Server.MCPPath,
		MCPServer:  s.mcp,
		MCPHandler: streamable,
		Metrics:    s.metrics,
		Auth:       s.cfg.Auth,
		Logger:     s.logger,
	})
}

// ListenHTTP 在配置的地址上提供 streamable HTTP 服务，ctx 取消后优雅退出
func (s *Server) ListenHTTP(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", s.cfg.Server.Addr(), err)
	}
	return s.Serve(ctx, listener)
}

// Serve 在给定的 listener 上提供 HTTP 服务
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleaner := common.NewResourceCleaner()
	cleaner.Add("http server", func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving MCP over HTTP",
			zap.String("addr", listener.Addr().String()),
			zap.String("path", s.cfg.Server.MCPPath),
			zap.Int("tools", len(s.mcp.ListTools())),
		)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down HTTP server")
		return cleaner.Execute()
	})
	return g.Wait()
}
