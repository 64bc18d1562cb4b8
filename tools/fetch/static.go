package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// MaxRedirects 跟随重定向的最大次数
const MaxRedirects = 10

// Response 静态抓取的原始结果
type Response struct {
	FinalURL    string
	StatusCode  int
	ContentType string
	Encoding    string
	Body        []byte
	// Truncated 响应体超过 MaxBytes 被截断
	Truncated bool
}

// StaticOptions 单次静态抓取的参数
type StaticOptions struct {
	Timeout         time.Duration
	MaxBytes        int64
	FollowRedirects bool
	UserAgent       string
}

// StaticFetcher 不执行 JS 的 HTTP 抓取器，单次请求，不重试
type StaticFetcher struct {
	transport http.RoundTripper
	guard     *Guard
}

// NewStaticFetcher 创建静态抓取器。
// guard 不为空时，每一跳重定向都会重新做安全检查。
func NewStaticFetcher(transport http.RoundTripper, guard *Guard) *StaticFetcher {
	if transport == nil {
		transport = newTransport("")
	}
	return &StaticFetcher{transport: transport, guard: guard}
}

// newTransport 创建 HTTP Transport，代理优先使用配置，否则读取环境变量
func newTransport(proxyURL string) *http.Transport {
	proxy := http.ProxyFromEnvironment
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			proxy = http.ProxyURL(u)
		}
	}
	return &http.Transport{
		Proxy:                 proxy,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func (f *StaticFetcher) client(opts StaticOptions) *http.Client {
	return &http.Client{
		Transport: f.transport,
		Timeout:   opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !opts.FollowRedirects {
				return http.ErrUseLastResponse
			}
			if len(via) >= MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", MaxRedirects)
			}
			if f.guard != nil {
				if v := f.guard.Evaluate(req.Context(), req.URL.String()); !v.Allowed {
					return &v
				}
			}
			return nil
		},
	}
}

// Fetch 发送一次 GET 请求，读取响应体直到 MaxBytes 为止
func (f *StaticFetcher) Fetch(ctx context.Context, rawURL string, opts StaticOptions) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := f.client(opts).Do(req)
	if err != nil {
		var verdict *Verdict
		if errors.As(err, &verdict) {
			return nil, verdict
		}
		return nil, err
	}
	defer resp.Body.Close()

	// 多读一个字节用来判断是否截断
	body, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	truncated := int64(len(body)) > opts.MaxBytes
	if truncated {
		body = body[:opts.MaxBytes]
	}

	contentType := resp.Header.Get("Content-Type")
	return &Response{
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Encoding:    detectEncoding(body, contentType),
		Body:        body,
		Truncated:   truncated,
	}, nil
}
