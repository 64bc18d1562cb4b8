package middleware

import (
	"bhinneka/config"
	"bhinneka/server/handler"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine 在 /mcp 和 /healthz 上挂载认证和白名单，handler 返回解析出的邮箱
func newEngine(auth config.Auth) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	authenticator := NewAuthenticator(auth, nil)
	echo := func(c *gin.Context) {
		email := ""
		if id, ok := IdentityFrom(c.Request.Context()); ok {
			email = id.Email
		}
		c.String(http.StatusOK, email)
	}
	r.POST("/mcp", authenticator.Auth(), Whitelist(auth, "/mcp"), echo)
	r.GET("/healthz", Whitelist(auth, "/mcp"), echo)
	return r
}

func do(t *testing.T, r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func signedToken(t *testing.T, secret, email string) string {
	t.Helper()
	token, err := handler.NewTokenSigner(secret).Generate(email, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestWhitelist(t *testing.T) {
	const secret = "s3cret"
	auth := config.Auth{
		Secret:         secret,
		AllowedEmails:  []string{"Boss@Corp.example"},
		AllowedDomains: []string{"@Team.Example"},
	}
	r := newEngine(auth)

	tests := []struct {
		name   string
		email  string
		status int
		desc   string
	}{
		{"allowed email case-insensitive", "boss@corp.example", http.StatusOK, ""},
		{"allowed domain", "dev@team.example", http.StatusOK, ""},
		{"subdomain not allowed", "dev@sub.team.example", http.StatusForbidden, "Email not whitelisted"},
		{"other email", "eve@corp.example", http.StatusForbidden, "Email not whitelisted"},
		{"empty email", "", http.StatusForbidden, "Email not available for authorization"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/mcp", signedToken(t, secret, tt.email))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.desc != "" {
				body := decodeError(t, w)
				if body.Error != "forbidden" || body.Description != tt.desc {
					t.Errorf("body = %+v", body)
				}
			}
		})
	}

	t.Run("anonymous rejected when restricted", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/mcp", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401 (%s)", w.Code, w.Body.String())
		}
		if body := decodeError(t, w); body.Error != "unauthorized" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("whitelist alone rejects anonymous", func(t *testing.T) {
		wr := gin.New()
		wr.POST("/mcp", Whitelist(config.Auth{AllowedEmails: []string{"boss@corp.example"}}, "/mcp"), func(c *gin.Context) {
			c.String(http.StatusOK, "reached")
		})
		if w := do(t, wr, http.MethodPost, "/mcp", ""); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("other paths are not restricted", func(t *testing.T) {
		if w := do(t, r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("no restriction configured", func(t *testing.T) {
		open := newEngine(config.Auth{Secret: secret})
		if w := do(t, open, http.MethodPost, "/mcp", signedToken(t, secret, "anyone@else.example")); w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(config.Auth{Required: true, Secret: "s3cret"})

	w := do(t, r, http.MethodPost, "/mcp", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decodeError(t, w); body.Error != "unauthorized" || body.Description != "Missing bearer token" {
		t.Errorf("body = %+v", body)
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate header")
	}

	w = do(t, r, http.MethodPost, "/mcp", "garbage")
	if w.Code != http.StatusUnauthorized || decodeError(t, w).Description != "Invalid or expired token" {
		t.Errorf("invalid token: %d %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || decodeError(t, rec).Description != "Invalid authorization header format" {
		t.Errorf("basic auth: %d %s", rec.Code, rec.Body.String())
	}

	w = do(t, r, http.MethodPost, "/mcp", signedToken(t, "s3cret", "ok@example.com"))
	if w.Code != http.StatusOK || w.Body.String() != "ok@example.com" {
		t.Errorf("valid token: %d %q", w.Code, w.Body.String())
	}
}

func TestUserinfo(t *testing.T) {
	var hits atomic.Int32
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_, _ = w.Write([]byte(`{"sub":"123","email":"User@Team.Example"}`))
		case "Bearer noemail":
			_, _ = w.Write([]byte(`{"sub":"456"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer idp.Close()

	auth := config.Auth{
		Secret:          "s3cret",
		UserinfoURL:     idp.URL,
		CacheTTLSeconds: 60,
		CacheSize:       16,
		AllowedDomains:  []string{"team.example"},
	}
	r := newEngine(auth)

	for i := 0; i < 3; i++ {
		w := do(t, r, http.MethodPost, "/mcp", "good")
		if w.Code != http.StatusOK || w.Body.String() != "user@team.example" {
			t.Fatalf("good token: %d %q", w.Code, w.Body.String())
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("userinfo hits = %d, want 1 (cached)", got)
	}

	if w := do(t, r, http.MethodPost, "/mcp", "noemail"); w.Code != http.StatusForbidden {
		t.Errorf("no email: status = %d", w.Code)
	}

	before := hits.Load()
	for i := 0; i < 2; i++ {
		if w := do(t, r, http.MethodPost, "/mcp", "revoked"); w.Code != http.StatusUnauthorized {
			t.Errorf("revoked: status = %d", w.Code)
		}
	}
	if got := hits.Load() - before; got != 2 {
		t.Errorf("failed lookups must not be cached, hits = %d", got)
	}

	expired, err := func() (string, error) {
		s := handler.NewTokenSigner("s3cret")
		return s.Generate("user@team.example", -time.Minute)
	}()
	if err != nil {
		t.Fatal(err)
	}
	before = hits.Load()
	if w := do(t, r, http.MethodPost, "/mcp", expired); w.Code != http.StatusUnauthorized {
		t.Errorf("expired signed token: status = %d", w.Code)
	}
	if hits.Load() != before {
		t.Error("expired signed tokens must not fall back to userinfo")
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := do(t, r, http.MethodGet, "/", "")
	if id := w.Header().Get(RequestIDHeader); id == "" || id != w.Body.String() {
		t.Errorf("generated id = %q, body = %q", id, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "abc-123" {
		t.Errorf("incoming id not kept: %q", rec.Body.String())
	}
}
