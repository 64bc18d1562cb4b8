package fetch

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const toolDescription = `Fetch a URL safely and return readable text.

## When to use
- Read the content of a web page, an API endpoint returning JSON, or a plain text file
- Collect the links of a page (extract_links=true)
- Get the full result as structured JSON (return_json=true)

## Safety
- Only http and https URLs are allowed
- localhost, private, loopback, link-local and reserved addresses are blocked, including hosts that resolve to them
- Responses are truncated at max_bytes

## Tips
- HTML is stripped to visible text by default (text_only=true); set text_only=false for the raw markup
- Set markdown=true to get the page body as Markdown instead of flat text
- If the result notes that the content looks dynamic, retry with render_js=true or use fetch_url_rendered`

const renderedDescription = `Fetch a URL in a headless browser so JavaScript generated content is included.

Same parameters and safety rules as fetch_url, with render_js always enabled. Use it for single page applications
or when fetch_url reports that the content looks dynamic. Requires a Chrome or Chromium executable on the server.`

// FetchArgs fetch_url 的参数
type FetchArgs struct {
	URL             string   `json:"url" jsonschema_description:"Absolute http(s) URL to fetch"`
	TextOnly        *bool    `json:"text_only,omitempty" jsonschema:"default=true" jsonschema_description:"Strip HTML to readable text; false returns the raw markup"`
	RenderJS        bool     `json:"render_js,omitempty" jsonschema:"default=false" jsonschema_description:"Render the page in a headless browser before extraction"`
	Timeout         *float64 `json:"timeout,omitempty" jsonschema:"default=120" jsonschema_description:"Timeout in seconds for each network step"`
	MaxBytes        *int64   `json:"max_bytes,omitempty" jsonschema:"default=2000000" jsonschema_description:"Maximum number of response bytes to read"`
	FollowRedirects *bool    `json:"follow_redirects,omitempty" jsonschema:"default=true" jsonschema_description:"Follow HTTP redirects (every hop is checked again)"`
	ExtractLinks    bool     `json:"extract_links,omitempty" jsonschema:"default=false" jsonschema_description:"Include absolute link targets found in the page"`
	ReturnJSON      bool     `json:"return_json,omitempty" jsonschema:"default=false" jsonschema_description:"Return the full result as a JSON document"`
	Markdown        bool     `json:"markdown,omitempty" jsonschema:"default=false" jsonschema_description:"Convert the page body to Markdown instead of flat text"`
}

// RenderedArgs fetch_url_rendered 的参数，与 fetch_url 相同但没有 render_js
type RenderedArgs struct {
	URL             string   `json:"url" jsonschema_description:"Absolute http(s) URL to render"`
	TextOnly        *bool    `json:"text_only,omitempty" jsonschema:"default=true" jsonschema_description:"Strip HTML to readable text; false returns the rendered markup"`
	Timeout         *float64 `json:"timeout,omitempty" jsonschema:"default=120" jsonschema_description:"Timeout in seconds for navigation and network idle wait"`
	MaxBytes        *int64   `json:"max_bytes,omitempty" jsonschema:"default=2000000" jsonschema_description:"Maximum number of markup bytes to keep"`
	FollowRedirects *bool    `json:"follow_redirects,omitempty" jsonschema:"default=true" jsonschema_description:"Accepted for parity with fetch_url; the browser always follows redirects"`
	ExtractLinks    bool     `json:"extract_links,omitempty" jsonschema:"default=false" jsonschema_description:"Include absolute link targets found in the page"`
	ReturnJSON      bool     `json:"return_json,omitempty" jsonschema:"default=false" jsonschema_description:"Return the full result as a JSON document"`
	Markdown        bool     `json:"markdown,omitempty" jsonschema:"default=false" jsonschema_description:"Convert the page body to Markdown instead of flat text"`
}

// Request 把工具参数转换为抓取请求，未提供的字段使用默认值
func (a FetchArgs) Request() Request {
	req := NewRequest(a.URL)
	req.RenderJS = a.RenderJS
	req.ExtractLinks = a.ExtractLinks
	req.ReturnJSON = a.ReturnJSON
	req.Markdown = a.Markdown
	if a.TextOnly != nil {
		req.TextOnly = *a.TextOnly
	}
	if a.FollowRedirects != nil {
		req.FollowRedirects = *a.FollowRedirects
	}
	if a.Timeout != nil && *a.Timeout > 0 {
		req.Timeout = time.Duration(*a.Timeout * float64(time.Second))
	}
	if a.MaxBytes != nil && *a.MaxBytes > 0 {
		req.MaxBytes = *a.MaxBytes
	}
	return req
}

// Request 转换为强制开启 JS 渲染的抓取请求
func (a RenderedArgs) Request() Request {
	req := FetchArgs{
		URL:             a.URL,
		TextOnly:        a.TextOnly,
		Timeout:         a.Timeout,
		MaxBytes:        a.MaxBytes,
		FollowRedirects: a.FollowRedirects,
		ExtractLinks:    a.ExtractLinks,
		ReturnJSON:      a.ReturnJSON,
		Markdown:        a.Markdown,
	}.Request()
	req.RenderJS = true
	return req
}

// GetTools 返回抓取相关的 MCP 工具
func GetTools(svc *Service) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("fetch_url",
				mcp.WithDescription(toolDescription),
				mcp.WithInputSchema[FetchArgs](),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args FetchArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.Fetch(ctx, args.Request())), nil
			}),
		},
		{
			Tool: mcp.NewTool("fetch_url_rendered",
				mcp.WithDescription(renderedDescription),
				mcp.WithInputSchema[RenderedArgs](),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args RenderedArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.Fetch(ctx, args.Request())), nil
			}),
		},
	}
}
