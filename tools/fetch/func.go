package fetch

import (
	"bhinneka/common"
	"bhinneka/config"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxBytes 默认响应体大小上限
	DefaultMaxBytes = 2_000_000
	// DefaultTimeout 默认超时时间
	DefaultTimeout = 120 * time.Second
	// DefaultUserAgent 默认 User-Agent
	DefaultUserAgent = "bhinneka/0.2 fetch"

	renderedContentType = "text/html; charset=utf-8"
	renderedEncoding    = "utf-8"
)

// Request 一次抓取调用的参数
type Request struct {
	URL             string
	TextOnly        bool
	RenderJS        bool
	Timeout         time.Duration
	MaxBytes        int64
	FollowRedirects bool
	ExtractLinks    bool
	ReturnJSON      bool
	Markdown        bool
}

// NewRequest 返回带默认值的请求
func NewRequest(rawURL string) Request {
	return Request{
		URL:             rawURL,
		TextOnly:        true,
		Timeout:         DefaultTimeout,
		MaxBytes:        DefaultMaxBytes,
		FollowRedirects: true,
	}
}

// RenderError JS 渲染阶段的失败
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return "JS rendering failed: " + e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Fetcher 静态抓取接口
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, opts StaticOptions) (*Response, error)
}

// Service 安全检查、抓取、提取和组装的完整流程，调用之间不共享可变状态
type Service struct {
	guard           *Guard
	fetcher         Fetcher
	renderer        Renderer
	userAgent       string
	defaultTimeout  time.Duration
	defaultMaxBytes int64
	logger          *zap.Logger
}

// Option Service 配置项
type Option func(*Service)

// WithGuard 替换安全检查器
func WithGuard(g *Guard) Option {
	return func(s *Service) { s.guard = g }
}

// WithFetcher 替换静态抓取器
func WithFetcher(f Fetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithRenderer 替换 JS 渲染器
func WithRenderer(r Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// NewService 按配置创建抓取服务
func NewService(cfg config.Fetch, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		userAgent:       cfg.UserAgent,
		defaultTimeout:  cfg.Timeout(),
		defaultMaxBytes: cfg.MaxBytes,
		logger:          logger.Named("fetch"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.userAgent == "" {
		s.userAgent = DefaultUserAgent
	}
	if s.defaultTimeout <= 0 {
		s.defaultTimeout = DefaultTimeout
	}
	if s.defaultMaxBytes <= 0 {
		s.defaultMaxBytes = DefaultMaxBytes
	}
	if s.guard == nil {
		s.guard = NewGuard(WithLookupTimeout(cfg.LookupTimeout()))
	}
	if s.fetcher == nil {
		s.fetcher = NewStaticFetcher(newTransport(cfg.ProxyURL), s.guard)
	}
	if s.renderer == nil {
		s.renderer = NewChromeRenderer(cfg.ChromePath, cfg.NoSandbox, s.logger)
	}
	return s
}

// Renderer 返回当前使用的渲染器
func (s *Service) Renderer() Renderer {
	return s.renderer
}

// Do 执行抓取流程并返回结构化结果。
// 安全检查失败时返回 *Verdict，渲染失败时返回 *RenderError。
func (s *Service) Do(ctx context.Context, req Request) (*Result, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}
	maxBytes := req.MaxBytes
	if maxBytes <= 0 {
		maxBytes = s.defaultMaxBytes
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	verdict := s.guard.Evaluate(checkCtx, req.URL)
	cancel()
	if !verdict.Allowed {
		s.logger.Info("blocked unsafe url", zap.String("url", req.URL), zap.String("reason", verdict.Reason))
		return nil, &verdict
	}

	var meta Meta
	if req.RenderJS {
		finalURL, markup, err := s.renderer.Render(ctx, req.URL, timeout, s.userAgent)
		if err != nil {
			s.logger.Warn("render failed", zap.String("url", req.URL), zap.Error(err))
			return nil, &RenderError{Err: err}
		}
		body := []byte(markup)
		truncated := int64(len(body)) > maxBytes
		if truncated {
			body = body[:maxBytes]
		}
		meta = Meta{
			FinalURL:    finalURL,
			StatusCode:  200,
			ContentType: renderedContentType,
			Encoding:    renderedEncoding,
			Body:        body,
			Rendered:    true,
			Truncated:   truncated,
		}
	} else {
		resp, err := s.fetcher.Fetch(ctx, req.URL, StaticOptions{
			Timeout:         timeout,
			MaxBytes:        maxBytes,
			FollowRedirects: req.FollowRedirects,
			UserAgent:       s.userAgent,
		})
		if err != nil {
			var v *Verdict
			if errors.As(err, &v) {
				s.logger.Info("blocked unsafe redirect", zap.String("url", req.URL), zap.String("reason", v.Reason))
			} else {
				s.logger.Warn("fetch failed", zap.String("url", req.URL), zap.Error(err))
			}
			return nil, err
		}
		meta = Meta{
			FinalURL:    resp.FinalURL,
			StatusCode:  resp.StatusCode,
			ContentType: resp.ContentType,
			Encoding:    resp.Encoding,
			Body:        resp.Body,
			Truncated:   resp.Truncated,
		}
	}

	res := Assemble(meta, AssembleOptions{
		TextOnly:     req.TextOnly,
		ExtractLinks: req.ExtractLinks,
		Markdown:     req.Markdown,
	})
	s.logger.Debug("fetched",
		zap.String("url", res.URLFinal),
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", res.BytesDownloaded),
		zap.Bool("rendered", meta.Rendered),
		zap.Bool("truncated", meta.Truncated),
	)
	return res, nil
}

// Fetch 执行抓取并把结果或失败信息渲染为字符串，不会返回错误
func (s *Service) Fetch(ctx context.Context, req Request) string {
	res, err := s.Do(ctx, req)
	if err != nil {
		return FormatError(err)
	}
	if req.ReturnJSON {
		out, err := res.JSON()
		if err != nil {
			return common.Failure("Error fetching URL: %v", err)
		}
		return out
	}
	return res.Summary()
}

// FormatError 把抓取错误转换为带失败前缀的信息
func FormatError(err error) string {
	var v *Verdict
	if errors.As(err, &v) {
		return common.FailureMarker + v.Reason
	}
	var re *RenderError
	if errors.As(err, &re) {
		return common.FailureMarker + re.Error()
	}
	return common.Failure("Error fetching URL: %v", err)
}
