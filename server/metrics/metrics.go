package metrics

import (
	"bhinneka/common"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "bhinneka"

// 工具调用结果标签
const (
	OutcomeOK      = "ok"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Metrics 独立注册表上的服务指标
type Metrics struct {
	registry     *prometheus.Registry
	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New 创建指标并注册进程和 Go 运行时采集器
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Number of MCP tool calls by tool and outcome.",
		}, []string{"tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "MCP tool call latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"tool"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.toolCalls,
		m.toolDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry 返回指标注册表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics 的处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveTool 记录一次工具调用
func (m *Metrics) ObserveTool(tool, outcome string, d time.Duration) {
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// Outcome 根据工具返回值判断调用结果：返回了 Go 错误、输出以失败前缀开头、或者成功
func Outcome(res *mcp.CallToolResult, err error) string {
	if err != nil || res == nil {
		return OutcomeError
	}
	if res.IsError {
		return OutcomeFailure
	}
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok && common.IsFailure(tc.Text) {
			return OutcomeFailure
		}
	}
	return OutcomeOK
}

// ToolMiddleware 记录每次工具调用的耗时和结果，并输出一行日志
func (m *Metrics) ToolMiddleware(logger *zap.Logger) server.ToolHandlerMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			res, err := next(ctx, req)
			elapsed := time.Since(start)
			outcome := Outcome(res, err)
			m.ObserveTool(req.Params.Name, outcome, elapsed)

			fields := []zap.Field{
				zap.String("tool", req.Params.Name),
				zap.String("outcome", outcome),
				zap.Duration("duration", elapsed),
			}
			if err != nil {
				logger.Warn("tool call failed", append(fields, zap.Error(err))...)
			} else {
				logger.Info("tool call", fields...)
			}
			return res, err
		}
	}
}

// GinMiddleware 记录 HTTP 请求数和耗时，未匹配路由统一记为 unmatched
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
