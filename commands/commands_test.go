package commands

import (
	"bhinneka/config"
	"bhinneka/server/handler"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ucli "github.com/urfave/cli/v3"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := Root()
	root.Writer = &out
	root.ErrWriter = &bytes.Buffer{}
	if err := root.Run(context.Background(), append([]string{"bhinneka"}, args...)); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return out.String()
}

func TestAirportsCommand(t *testing.T) {
	out := run(t, "airports", "--limit", "2", "london")
	for _, want := range []string{"Code", "LHR", "LGW"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "STN") {
		t.Errorf("limit not applied:\n%s", out)
	}

	if out := run(t, "airports", "atlantis"); !strings.Contains(out, "atlantis") {
		t.Errorf("no-match output = %q", out)
	}
}

func TestGenerateCommands(t *testing.T) {
	dir := t.TempDir()

	envPath := filepath.Join(dir, "example.env")
	run(t, "generate", "env", "--output", envPath)
	data, err := os.ReadFile(envPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"SEARXNG_BASE_URL", "BHINNEKA_AUTH_SECRET", "FLIGHTS_BASE_URL", "BHINNEKA_TOOLS"} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf(".env example missing %s", key)
		}
	}

	cfgPath := filepath.Join(dir, "nested", "config.yaml")
	run(t, "generate", "config", "-o", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.SearXNG.BaseURL == "" {
		t.Error("generated config lost the example SearXNG URL")
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("BHINNEKA_AUTH_SECRET", "cli-secret")
	token := strings.TrimSpace(run(t, "token", "--email", "Dev@Example.com", "--ttl", "1h"))
	email, err := handler.NewTokenSigner("cli-secret").Validate(token)
	if err != nil {
		t.Fatalf("Validate(%q) = %v", token, err)
	}
	if email != "dev@example.com" {
		t.Errorf("email = %q", email)
	}
}

func TestVersionCommand(t *testing.T) {
	if out := run(t, "version"); !strings.HasPrefix(out, "bhinneka: v") {
		t.Errorf("version output = %q", out)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	var got *config.Config
	root := Root()
	root.Writer = &bytes.Buffer{}
	for _, c := range root.Commands {
		if c.Name == "serve" {
			c.Action = func(ctx context.Context, cmd *ucli.Command) error {
				var err error
				got, err = loadConfig(cmd)
				return err
			}
		}
	}
	args := []string{"bhinneka", "serve", "--transport", "HTTP", "--port", "9100", "--tools", "fetch", "--tools", "docs"}
	if err := root.Run(context.Background(), args); err != nil {
		t.Fatal(err)
	}
	if got.Server.Transport != "http" || got.Server.Port != 9100 {
		t.Errorf("server = %+v", got.Server)
	}
	if strings.Join(got.Server.Tools, ",") != "fetch,docs" {
		t.Errorf("tools = %v", got.Server.Tools)
	}
}
