package fetch

import (
	"bhinneka/config"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeRenderer 返回预设的渲染结果
type fakeRenderer struct {
	finalURL string
	markup   string
	err      error
	calls    int
}

func (f *fakeRenderer) Render(_ context.Context, rawURL string, _ time.Duration, _ string) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	finalURL := f.finalURL
	if finalURL == "" {
		finalURL = rawURL
	}
	return finalURL, f.markup, nil
}

// newTestService 创建一个所有外部主机都解析到 httptest 服务器的抓取服务
func newTestService(t *testing.T, handler http.Handler, renderer Renderer) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	addr := srv.Listener.Addr().String()
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}
	guard := NewGuard(WithResolver(fakeResolver{
		"docs.example.test":  {"93.184.216.34"},
		"other.example.test": {"93.184.216.35"},
		"intranet.test":      {"10.0.0.7"},
	}))
	if renderer == nil {
		renderer = &fakeRenderer{err: ErrRendererUnavailable}
	}
	return NewService(config.Default().Fetch, nil,
		WithGuard(guard),
		WithFetcher(NewStaticFetcher(transport, guard)),
		WithRenderer(renderer),
	)
}

func testMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(r.UserAgent()))
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("a", 10_000)))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not here"))
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://other.example.test/page", http.StatusFound)
	})
	mux.HandleFunc("/to-private", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://intranet.test/secret", http.StatusFound)
	})
	mux.HandleFunc("/to-loopback", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://127.0.0.1:9/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	return mux
}

func TestServiceFetchStatic(t *testing.T) {
	svc := newTestService(t, testMux(), nil)
	ctx := context.Background()

	t.Run("html summary", func(t *testing.T) {
		out := svc.Fetch(ctx, NewRequest("http://docs.example.test/page"))
		if !strings.HasPrefix(out, "🔗 URL: http://docs.example.test/page\n📄 Status: 200 | Type: text/html; charset=utf-8") {
			t.Errorf("unexpected summary header:\n%s", out)
		}
		if !strings.Contains(out, "Title: Halaman   Contoh • Description: First description • Lang: id") {
			t.Errorf("metadata line missing:\n%s", out)
		}
		if !strings.Contains(out, "Selamat datang Visible text") {
			t.Errorf("text missing:\n%s", out)
		}
	})

	t.Run("user agent", func(t *testing.T) {
		res, err := svc.Do(ctx, NewRequest("http://docs.example.test/ua"))
		if err != nil {
			t.Fatal(err)
		}
		if *res.Text != DefaultUserAgent {
			t.Errorf("User-Agent = %q", *res.Text)
		}
	})

	t.Run("max bytes", func(t *testing.T) {
		req := NewRequest("http://docs.example.test/big")
		req.MaxBytes = 1000
		res, err := svc.Do(ctx, req)
		if err != nil {
			t.Fatal(err)
		}
		if res.BytesDownloaded != 1000 || len(*res.Text) != 1000 {
			t.Errorf("BytesDownloaded = %d, text = %d", res.BytesDownloaded, len(*res.Text))
		}
	})

	t.Run("non-2xx is not a failure", func(t *testing.T) {
		out := svc.Fetch(ctx, NewRequest("http://docs.example.test/missing"))
		if strings.HasPrefix(out, "❌") {
			t.Fatalf("404 should be reported as a result: %s", out)
		}
		if !strings.Contains(out, "Status: 404") || !strings.HasSuffix(out, "not here") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("json output", func(t *testing.T) {
		req := NewRequest("http://docs.example.test/page")
		req.ReturnJSON = true
		req.ExtractLinks = true
		out := svc.Fetch(ctx, req)
		var res Result
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if len(res.Links) != 3 || res.Links[0].URL != "http://docs.example.test/about" {
			t.Errorf("Links = %+v", res.Links)
		}
		if res.Notes == nil {
			t.Error("notes should be an empty array, not null")
		}
	})
}

func TestServiceRedirects(t *testing.T) {
	svc := newTestService(t, testMux(), nil)
	ctx := context.Background()

	t.Run("followed", func(t *testing.T) {
		res, err := svc.Do(ctx, NewRequest("http://docs.example.test/hop"))
		if err != nil {
			t.Fatal(err)
		}
		if res.URLFinal != "http://other.example.test/page" || res.StatusCode != 200 {
			t.Errorf("URLFinal = %q, StatusCode = %d", res.URLFinal, res.StatusCode)
		}
	})

	t.Run("not followed", func(t *testing.T) {
		req := NewRequest("http://docs.example.test/hop")
		req.FollowRedirects = false
		res, err := svc.Do(ctx, req)
		if err != nil {
			t.Fatal(err)
		}
		if res.StatusCode != http.StatusFound || res.URLFinal != "http://docs.example.test/hop" {
			t.Errorf("URLFinal = %q, StatusCode = %d", res.URLFinal, res.StatusCode)
		}
	})

	t.Run("hop to private host", func(t *testing.T) {
		out := svc.Fetch(ctx, NewRequest("http://docs.example.test/to-private"))
		if out != "❌ "+ReasonResolvesPriv {
			t.Errorf("Fetch() = %q", out)
		}
	})

	t.Run("hop to loopback literal", func(t *testing.T) {
		_, err := svc.Do(ctx, NewRequest("http://docs.example.test/to-loopback"))
		var v *Verdict
		if !errors.As(err, &v) || v.Reason != ReasonPrivateIP {
			t.Errorf("Do() error = %v, want private address verdict", err)
		}
	})

	t.Run("too many hops", func(t *testing.T) {
		out := svc.Fetch(ctx, NewRequest("http://docs.example.test/loop"))
		if !strings.HasPrefix(out, "❌ Error fetching URL: ") {
			t.Errorf("Fetch() = %q", out)
		}
	})
}

func TestServiceBlocked(t *testing.T) {
	var hits int
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }), nil)

	tests := map[string]string{
		"file:///etc/passwd":        "❌ " + ReasonScheme,
		"http://localhost/":         "❌ " + ReasonLocalhost,
		"http://192.168.1.1/router": "❌ " + ReasonPrivateIP,
		"http://intranet.test/":     "❌ " + ReasonResolvesPriv,
	}
	for url, want := range tests {
		if got := svc.Fetch(context.Background(), NewRequest(url)); got != want {
			t.Errorf("Fetch(%q) = %q, want %q", url, got, want)
		}
	}
	if hits != 0 {
		t.Errorf("blocked URLs reached the network %d times", hits)
	}
}

func TestServiceRender(t *testing.T) {
	renderer := &fakeRenderer{
		finalURL: "http://docs.example.test/app#/home",
		markup:   `<html lang="en"><head><title>App</title></head><body><div>Rendered content</div>` + strings.Repeat("<script></script>", 6) + `</body></html>`,
	}
	svc := newTestService(t, testMux(), renderer)

	req := NewRequest("http://docs.example.test/app")
	req.RenderJS = true
	res, err := svc.Do(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if renderer.calls != 1 {
		t.Errorf("renderer calls = %d", renderer.calls)
	}
	if res.URLFinal != renderer.finalURL || res.StatusCode != 200 {
		t.Errorf("URLFinal = %q, StatusCode = %d", res.URLFinal, res.StatusCode)
	}
	if *res.ContentType != "text/html; charset=utf-8" || *res.Encoding != "utf-8" {
		t.Errorf("ContentType = %q, Encoding = %q", *res.ContentType, *res.Encoding)
	}
	if *res.Text != "Rendered content" || *res.Title != "App" {
		t.Errorf("Text = %q, Title = %q", *res.Text, *res.Title)
	}
	if len(res.Notes) != 0 {
		t.Errorf("rendered pages never get the dynamic note, Notes = %v", res.Notes)
	}

	req.MaxBytes = 20
	res, err = svc.Do(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.BytesDownloaded != 20 {
		t.Errorf("rendered markup should be truncated to max bytes, got %d", res.BytesDownloaded)
	}
}

func TestServiceRenderFailures(t *testing.T) {
	ctx := context.Background()

	unavailable := newTestService(t, testMux(), &fakeRenderer{err: ErrRendererUnavailable})
	req := NewRequest("http://docs.example.test/app")
	req.RenderJS = true
	out := unavailable.Fetch(ctx, req)
	if !strings.HasPrefix(out, "❌ JS rendering failed: ") {
		t.Errorf("Fetch() = %q", out)
	}
	_, err := unavailable.Do(ctx, req)
	if !errors.Is(err, ErrRendererUnavailable) {
		t.Errorf("Do() error = %v, want ErrRendererUnavailable", err)
	}

	renderer := &fakeRenderer{}
	guarded := newTestService(t, testMux(), renderer)
	blocked := NewRequest("http://127.0.0.1/")
	blocked.RenderJS = true
	if out := guarded.Fetch(ctx, blocked); out != "❌ "+ReasonPrivateIP {
		t.Errorf("Fetch() = %q", out)
	}
	if renderer.calls != 0 {
		t.Error("renderer must not run for blocked URLs")
	}
}

func TestChromeRendererUnavailable(t *testing.T) {
	r := NewChromeRenderer("", false, nil)
	r.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	if _, ok := r.Available(); ok {
		t.Error("Available() = true, want false")
	}
	if _, _, err := r.Render(context.Background(), "http://docs.example.test/", time.Second, DefaultUserAgent); !errors.Is(err, ErrRendererUnavailable) {
		t.Errorf("Render() error = %v", err)
	}
	if !r.warnOnce.IsTriggered() {
		t.Error("missing browser should be logged once")
	}

	r.lookPath = func(name string) (string, error) { return "/opt/" + name, nil }
	r.execPath = "chrome-custom"
	if path, ok := r.Available(); !ok || path != "/opt/chrome-custom" {
		t.Errorf("Available() = %q, %v", path, ok)
	}
	if r.warnOnce.IsTriggered() {
		t.Error("warning should be re-armed after a browser is found")
	}
}

func TestFetchArgsRequest(t *testing.T) {
	f := false
	timeout := 2.5
	var zero int64
	req := FetchArgs{URL: "https://docs.example.test", TextOnly: &f, Timeout: &timeout, MaxBytes: &zero, Markdown: true}.Request()
	if req.TextOnly || !req.FollowRedirects || !req.Markdown {
		t.Errorf("flags = %+v", req)
	}
	if req.Timeout != 2500*time.Millisecond {
		t.Errorf("Timeout = %v", req.Timeout)
	}
	if req.MaxBytes != DefaultMaxBytes {
		t.Errorf("non-positive max_bytes should use the default, got %d", req.MaxBytes)
	}

	rendered := RenderedArgs{URL: "https://docs.example.test"}.Request()
	if !rendered.RenderJS || !rendered.TextOnly || rendered.Timeout != DefaultTimeout {
		t.Errorf("rendered request = %+v", rendered)
	}
}

func TestRenderBudget(t *testing.T) {
	tests := []struct {
		timeout      time.Duration
		wantNavigate time.Duration
		wantCapture  time.Duration
	}{
		{10 * time.Second, 8 * time.Second, 2 * time.Second},
		{120 * time.Second, 105 * time.Second, 15 * time.Second},
		{time.Second, 800 * time.Millisecond, 200 * time.Millisecond},
	}
	for _, tt := range tests {
		navigate, capture := renderBudget(tt.timeout)
		if navigate != tt.wantNavigate || capture != tt.wantCapture {
			t.Errorf("renderBudget(%v) = %v, %v, want %v, %v", tt.timeout, navigate, capture, tt.wantNavigate, tt.wantCapture)
		}
		if navigate+capture != tt.timeout {
			t.Errorf("renderBudget(%v) exceeds the request timeout", tt.timeout)
		}
	}
}

func TestStartBrowserDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 启动一直不返回时按 deadline 失败
	begin := time.Now()
	err := startBrowser(ctx, time.Now().Add(50*time.Millisecond), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("startBrowser() error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(begin); elapsed > 2*time.Second {
		t.Errorf("startBrowser() returned after %v", elapsed)
	}

	if err := startBrowser(ctx, time.Now().Add(time.Second), func(context.Context) error { return nil }); err != nil {
		t.Errorf("startBrowser() error = %v", err)
	}
}
