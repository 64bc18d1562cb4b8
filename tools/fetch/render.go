package fetch

import (
	"bhinneka/common"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrRendererUnavailable 运行环境中找不到可用的浏览器
var ErrRendererUnavailable = errors.New("renderer unavailable: no Chrome/Chromium executable found")

// maxCaptureReserve 为读取渲染结果预留的最长时间
const maxCaptureReserve = 15 * time.Second

// renderBudget 把总超时拆成启动加导航阶段和读取阶段，两者之和等于 timeout
func renderBudget(timeout time.Duration) (navigate, capture time.Duration) {
	capture = min(timeout/5, maxCaptureReserve)
	return timeout - capture, capture
}

// 按顺序查找的浏览器可执行文件
var browserCandidates = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"/usr/bin/google-chrome",
	"/usr/local/bin/chrome",
	"/snap/bin/chromium",
	"chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// Renderer 执行 JS 后返回最终 URL 和渲染后的 HTML
type Renderer interface {
	Render(ctx context.Context, rawURL string, timeout time.Duration, userAgent string) (finalURL, markup string, err error)
}

// ChromeRenderer 每次调用启动一个独立的无头浏览器，调用结束后无条件关闭
type ChromeRenderer struct {
	execPath  string
	noSandbox bool
	logger    *zap.Logger
	lookPath  func(string) (string, error)
	warnOnce  *common.OnceWithReset
}

// NewChromeRenderer 创建渲染器，execPath 为空时自动查找浏览器
func NewChromeRenderer(execPath string, noSandbox bool, logger *zap.Logger) *ChromeRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeRenderer{
		execPath:  execPath,
		noSandbox: noSandbox,
		logger:    logger,
		lookPath:  exec.LookPath,
		warnOnce:  common.NewOnceWithReset(),
	}
}

// Available 返回可用的浏览器路径
func (r *ChromeRenderer) Available() (string, bool) {
	path, err := r.browserPath()
	return path, err == nil
}

func (r *ChromeRenderer) browserPath() (string, error) {
	candidates := browserCandidates
	if r.execPath != "" {
		candidates = []string{r.execPath}
	}
	for _, c := range candidates {
		if found, err := r.lookPath(c); err == nil {
			r.warnOnce.Reset()
			return found, nil
		}
	}
	r.warnOnce.Do(func() {
		r.logger.Warn("js rendering requested but no browser executable was found",
			zap.String("configured_path", r.execPath))
	})
	return "", ErrRendererUnavailable
}

// Render 打开页面，等待 DOM 加载完成后尽量等待网络空闲，再读取渲染结果
func (r *ChromeRenderer) Render(ctx context.Context, rawURL string, timeout time.Duration, userAgent string) (string, string, error) {
	path, err := r.browserPath()
	if err != nil {
		return "", "", err
	}

	cleaner := common.NewResourceCleaner()
	defer func() {
		if err := cleaner.Execute(); err != nil {
			r.logger.Debug("browser teardown", zap.Error(err))
		}
	}()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(path),
		chromedp.UserAgent(userAgent),
		chromedp.DisableGPU,
	)
	if r.noSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	cleaner.Add("allocator", func() error {
		cancelAlloc()
		return nil
	})
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cleaner.Add("browser", func() error {
		cancelBrowser()
		return nil
	})

	start := time.Now()
	navigate, _ := renderBudget(timeout)
	navDeadline, deadline := start.Add(navigate), start.Add(timeout)

	// 浏览器必须在不带超时的 context 上启动，否则到期时进程会被杀掉
	launch := func(ctx context.Context) error { return chromedp.Run(ctx) }
	if err := startBrowser(browserCtx, navDeadline, launch); err != nil {
		return "", "", err
	}

	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(browserCtx, func(ev any) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		switch e.Name {
		case "init":
			select {
			case <-idle:
			default:
			}
		case "networkIdle":
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	navCtx, cancelNav := context.WithDeadline(browserCtx, navDeadline)
	defer cancelNav()
	if err := chromedp.Run(navCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return "", "", fmt.Errorf("navigation failed: %w", err)
	}

	select {
	case <-idle:
	case <-navCtx.Done():
		r.logger.Debug("network idle wait timed out", zap.String("url", rawURL))
	}

	capCtx, cancelCap := context.WithDeadline(browserCtx, deadline)
	defer cancelCap()
	var finalURL, markup string
	if err := chromedp.Run(capCtx,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	); err != nil {
		return "", "", fmt.Errorf("failed to capture page: %w", err)
	}
	return finalURL, markup, nil
}

// startBrowser 调用 launch 启动浏览器，超过 deadline 仍未就绪时返回错误，由调用方负责关闭
func startBrowser(browserCtx context.Context, deadline time.Time, launch func(context.Context) error) error {
	started := make(chan error, 1)
	go func() { started <- launch(browserCtx) }()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case err := <-started:
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("failed to start browser: %w", context.DeadlineExceeded)
	}
}
