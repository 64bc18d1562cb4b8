package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func environ(values map[string]string) func() []string {
	return func() []string {
		out := make([]string, 0, len(values))
		for k, v := range values {
			out = append(out, k+"="+v)
		}
		return out
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Fetch.Timeout() != 120*time.Second {
		t.Errorf("Fetch.Timeout() = %v, want 120s", cfg.Fetch.Timeout())
	}
	if cfg.Fetch.MaxBytes != 2_000_000 {
		t.Errorf("Fetch.MaxBytes = %d, want 2000000", cfg.Fetch.MaxBytes)
	}
	if cfg.Fetch.UserAgent != "bhinneka/0.2 fetch" {
		t.Errorf("Fetch.UserAgent = %q", cfg.Fetch.UserAgent)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(environ(map[string]string{
		"SEARXNG_BASE_URL":           "http://searx.local:8888/",
		"SEARXNG_TIMEOUT":            "2.5",
		"SEARXNG_LANGUAGE":           "  ",
		"CONTEXT7_API_KEY":           " secret ",
		"BHINNEKA_PORT":              "9100",
		"BHINNEKA_CHROME_NO_SANDBOX": "true",
		"BHINNEKA_ALLOWED_EMAILS":    "Alice@Example.com,\nbob@example.org",
		"BHINNEKA_ALLOWED_DOMAINS":   "@Corp.example",
		"BHINNEKA_AUTH_REQUIRED":     "true",
		"UNRELATED_VARIABLE":         "ignored",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	cfg.normalize()

	if cfg.SearXNG.BaseURL != "http://searx.local:8888" {
		t.Errorf("SearXNG.BaseURL = %q", cfg.SearXNG.BaseURL)
	}
	if cfg.SearXNG.Timeout() != 2500*time.Millisecond {
		t.Errorf("SearXNG.Timeout() = %v", cfg.SearXNG.Timeout())
	}
	if cfg.SearXNG.Language != "en" {
		t.Errorf("blank value should keep default, Language = %q", cfg.SearXNG.Language)
	}
	if cfg.SearXNG.MaxResults != 10 {
		t.Errorf("unset variable should keep default, MaxResults = %d", cfg.SearXNG.MaxResults)
	}
	if cfg.Context7.APIKey != "secret" {
		t.Errorf("Context7.APIKey = %q", cfg.Context7.APIKey)
	}
	if cfg.Server.Port != 9100 || !cfg.Fetch.NoSandbox {
		t.Errorf("Port = %d, NoSandbox = %v", cfg.Server.Port, cfg.Fetch.NoSandbox)
	}
	if cfg.Fetch.MaxBytes != 2_000_000 || cfg.Context7.BaseURL != "https://context7.com/api" {
		t.Errorf("fields without variables changed: %+v %+v", cfg.Fetch, cfg.Context7)
	}
	if want := []string{"alice@example.com", "bob@example.org"}; !reflect.DeepEqual(cfg.Auth.AllowedEmails, want) {
		t.Errorf("AllowedEmails = %v, want %v", cfg.Auth.AllowedEmails, want)
	}
	if want := []string{"corp.example"}; !reflect.DeepEqual(cfg.Auth.AllowedDomains, want) {
		t.Errorf("AllowedDomains = %v, want %v", cfg.Auth.AllowedDomains, want)
	}
	if !cfg.Auth.Required || !cfg.Auth.Restricted() {
		t.Errorf("Auth = %+v, want required and restricted", cfg.Auth)
	}
}

func TestApplyEnvRejectsInvalidNumber(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"int", "SEARXNG_MAX_RESULTS", "not-a-number"},
		{"float", "CONTEXT7_TIMEOUT", "soon"},
		{"bool", "BHINNEKA_AUTH_REQUIRED", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.ApplyEnv(environ(map[string]string{tt.key: tt.value})); err == nil {
				t.Fatalf("ApplyEnv(%s=%q) expected error", tt.key, tt.value)
			}
		})
	}
}

func TestEnvBindingsFromTags(t *testing.T) {
	bindings := bindingsFromTags()
	tests := []struct {
		env  string
		want envBinding
	}{
		{"SEARXNG_TIMEOUT", envBinding{Path: "searxng.timeout_seconds"}},
		{"CONTEXT7_API_KEY", envBinding{Path: "context7.api_key"}},
		{"BHINNEKA_TOOLS", envBinding{Path: "server.tools", List: true}},
		{"BHINNEKA_ALLOWED_DOMAINS", envBinding{Path: "auth.allowed_domains", List: true}},
	}
	for _, tt := range tests {
		if got := bindings[tt.env]; got != tt.want {
			t.Errorf("bindings[%s] = %+v, want %+v", tt.env, got, tt.want)
		}
	}
	if _, ok := bindings["BHINNEKA_MCP_PATH"]; ok {
		t.Error("fields without env tag must not be bound")
	}
}

func TestWhitelistForcesAuth(t *testing.T) {
	tests := []struct {
		name string
		auth Auth
		want bool
	}{
		{"open", Auth{}, false},
		{"explicit", Auth{Required: true}, true},
		{"emails only", Auth{AllowedEmails: []string{"Boss@Corp.example"}}, true},
		{"domains only", Auth{AllowedDomains: []string{"corp.example"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth = tt.auth
			cfg.normalize()
			if cfg.Auth.Required != tt.want {
				t.Errorf("Auth.Required = %v, want %v", cfg.Auth.Required, tt.want)
			}
		})
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "config.toml",
			content: `[server]
port = 9001
transport = "http"

[searxng]
base_url = "http://search.internal"
`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `server:
  port: 9001
  transport: http
searxng:
  base_url: http://search.internal
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Server.Port != 9001 || cfg.Server.Transport != "http" {
				t.Errorf("Server = %+v", cfg.Server)
			}
			if cfg.Server.Host != "127.0.0.1" {
				t.Errorf("unset fields should keep defaults, Host = %q", cfg.Server.Host)
			}
			if os.Getenv("SEARXNG_BASE_URL") == "" && cfg.SearXNG.BaseURL != "http://search.internal" {
				t.Errorf("SearXNG.BaseURL = %q", cfg.SearXNG.BaseURL)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	content := `[server]
transport = "websocket"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected validation error for unknown transport")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestGenerateExample(t *testing.T) {
	for _, name := range []string{"nested/config.toml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := GenerateExample(path); err != nil {
				t.Fatalf("GenerateExample() error = %v", err)
			}
			var cfg Config
			if err := Unmarshal(path, &cfg); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if cfg.SearXNG.BaseURL == "" || cfg.Fetch.MaxBytes != 2_000_000 {
				t.Errorf("generated config = %+v", cfg)
			}
		})
	}
}
