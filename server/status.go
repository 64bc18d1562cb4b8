package server

import (
	"bhinneka/tools/fetch"
	"bhinneka/version"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Status get_server_status 的输出内容
type Status struct {
	ServiceName  string
	Version      string
	Transport    string
	Toolsets     []string
	Tools        []string
	Renderer     string
	Capabilities []string
	Features     [][2]string
}

func (s *Server) status() Status {
	names := make([]string, 0, len(s.mcp.ListTools()))
	for name := range s.mcp.ListTools() {
		names = append(names, name)
	}
	slices.Sort(names)

	renderer := "unavailable (install Chrome or Chromium for render_js)"
	if r, ok := s.services.Fetch.Renderer().(*fetch.ChromeRenderer); ok {
		if path, found := r.Available(); found {
			renderer = path
		}
	}

	return Status{
		ServiceName: ServiceName,
		Version:     version.Get().Version,
		Transport:   s.cfg.Server.Transport,
		Toolsets:    s.toolsets,
		Tools:       names,
		Renderer:    renderer,
		Capabilities: []string{
			"flight_search",
			"airport_lookup",
			"price_comparison",
			"web_search",
			"safe_url_fetch",
			"library_docs",
		},
		Features: [][2]string{
			{"trip_types", "one-way, round-trip"},
			{"seat_classes", "economy, premium-economy, business, first"},
			{"passengers", "1-9 adults, 0-8 children, 0-5 infants"},
			{"search_categories", "general, images, news"},
			{"fetch_formats", "text, markdown, raw markup, JSON"},
		},
	}
}

func titleWords(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// String 渲染为多行文本
func (st Status) String() string {
	lines := []string{
		fmt.Sprintf("🛫 %s v%s", st.ServiceName, st.Version),
		"🟢 Status: Online",
		"📡 Transport: " + st.Transport,
		"🧰 Toolsets: " + strings.Join(st.Toolsets, ", "),
		"🖥️  JS Renderer: " + st.Renderer,
		"",
		"✅ Capabilities:",
	}
	for _, c := range st.Capabilities {
		lines = append(lines, "   • "+titleWords(c))
	}
	lines = append(lines, "", "📋 Supported Features:")
	for _, f := range st.Features {
		lines = append(lines, fmt.Sprintf("   • %s: %s", titleWords(f[0]), f[1]))
	}
	lines = append(lines, "", fmt.Sprintf("🔧 Tools (%d):", len(st.Tools)))
	for _, t := range st.Tools {
		lines = append(lines, "   • "+t)
	}
	lines = append(lines,
		"",
		"🔧 Usage Examples:",
		"   • flights_search('LAX', 'JFK', '2025-12-25')",
		"   • flights_find_airports('Los Angeles')",
		"   • searx_web_search('golang generics')",
		"   • fetch_url('https://example.com')",
	)
	return strings.Join(lines, "\n")
}

func (s *Server) statusTool() server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("get_server_status",
			mcp.WithDescription("Get current status and capabilities of the MCP server."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(false),
		),
		Handler: func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(s.status().String()), nil
		},
	}
}
