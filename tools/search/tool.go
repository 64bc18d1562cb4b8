package search

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// WebArgs searx_web_search 的参数
type WebArgs struct {
	Query      string `json:"query" jsonschema_description:"Search query"`
	Engines    string `json:"engines,omitempty" jsonschema_description:"Comma separated SearXNG engines, e.g. duckduckgo,wikipedia"`
	Language   string `json:"language,omitempty" jsonschema_description:"Language code such as en or id; defaults to the server setting"`
	TimeRange  string `json:"time_range,omitempty" jsonschema:"enum=day,enum=week,enum=month,enum=year" jsonschema_description:"Only return results from this period"`
	SafeSearch *int   `json:"safesearch,omitempty" jsonschema:"default=1,minimum=0,maximum=2" jsonschema_description:"0 off, 1 moderate, 2 strict"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1" jsonschema_description:"Maximum number of results; defaults to the server setting"`
}

// ImagesArgs searx_images_search 的参数
type ImagesArgs struct {
	Query      string `json:"query" jsonschema_description:"Image search query"`
	Engines    string `json:"engines,omitempty" jsonschema_description:"Comma separated SearXNG engines"`
	Language   string `json:"language,omitempty" jsonschema_description:"Language code; defaults to the server setting"`
	SafeSearch *int   `json:"safesearch,omitempty" jsonschema:"default=1,minimum=0,maximum=2" jsonschema_description:"0 off, 1 moderate, 2 strict"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1" jsonschema_description:"Maximum number of results"`
}

// NewsArgs searx_news_search 的参数，安全搜索固定为 1
type NewsArgs struct {
	Query      string `json:"query" jsonschema_description:"News search query"`
	Engines    string `json:"engines,omitempty" jsonschema_description:"Comma separated SearXNG engines"`
	Language   string `json:"language,omitempty" jsonschema_description:"Language code; defaults to the server setting"`
	TimeRange  string `json:"time_range,omitempty" jsonschema:"enum=day,enum=week,enum=month,enum=year" jsonschema_description:"Only return news from this period"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1" jsonschema_description:"Maximum number of results"`
}

// JSONArgs searx_search_json 的参数
type JSONArgs struct {
	Query      string `json:"query" jsonschema_description:"Search query"`
	Category   string `json:"category,omitempty" jsonschema:"default=general" jsonschema_description:"SearXNG category such as general, images, news, it, science"`
	Engines    string `json:"engines,omitempty" jsonschema_description:"Comma separated SearXNG engines"`
	Language   string `json:"language,omitempty" jsonschema_description:"Language code; defaults to the server setting"`
	TimeRange  string `json:"time_range,omitempty" jsonschema:"enum=day,enum=week,enum=month,enum=year" jsonschema_description:"Only return results from this period"`
	SafeSearch *int   `json:"safesearch,omitempty" jsonschema:"default=1,minimum=0,maximum=2" jsonschema_description:"0 off, 1 moderate, 2 strict"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1" jsonschema_description:"Maximum number of results"`
}

func safeSearch(v *int) *int {
	if v != nil {
		return v
	}
	one := 1
	return &one
}

// GetTools 返回 SearXNG 相关的 MCP 工具
func GetTools(svc *Service) []server.ServerTool {
	readOnly := []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
	newTool := func(name, desc string, schema mcp.ToolOption) mcp.Tool {
		opts := append([]mcp.ToolOption{mcp.WithDescription(desc), schema}, readOnly...)
		return mcp.NewTool(name, opts...)
	}

	return []server.ServerTool{
		{
			Tool: newTool("searx_web_search",
				"General web search via SearXNG. Returns numbered results with title, URL, snippet and engine.",
				mcp.WithInputSchema[WebArgs]()),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args WebArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.Search(ctx, Query{
					Query:      args.Query,
					Category:   CategoryGeneral,
					Engines:    args.Engines,
					Language:   args.Language,
					TimeRange:  args.TimeRange,
					SafeSearch: safeSearch(args.SafeSearch),
					MaxResults: args.MaxResults,
				})), nil
			}),
		},
		{
			Tool: newTool("searx_images_search",
				"Image search via SearXNG. Each result includes the image URL.",
				mcp.WithInputSchema[ImagesArgs]()),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args ImagesArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.Search(ctx, Query{
					Query:      args.Query,
					Category:   CategoryImages,
					Engines:    args.Engines,
					Language:   args.Language,
					SafeSearch: safeSearch(args.SafeSearch),
					MaxResults: args.MaxResults,
				})), nil
			}),
		},
		{
			Tool: newTool("searx_news_search",
				"News search via SearXNG with moderate safe search.",
				mcp.WithInputSchema[NewsArgs]()),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args NewsArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.Search(ctx, Query{
					Query:      args.Query,
					Category:   "news",
					Engines:    args.Engines,
					Language:   args.Language,
					TimeRange:  args.TimeRange,
					SafeSearch: safeSearch(nil),
					MaxResults: args.MaxResults,
				})), nil
			}),
		},
		{
			Tool: newTool("searx_search_json",
				`Generic SearXNG search returning compact JSON: {"query","count","results":[{"title","url","snippet","engine","score","image"}]}.`,
				mcp.WithInputSchema[JSONArgs]()),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args JSONArgs) (*mcp.CallToolResult, error) {
				category := args.Category
				if category == "" {
					category = CategoryGeneral
				}
				return mcp.NewToolResultText(svc.Search(ctx, Query{
					Query:      args.Query,
					Category:   category,
					Engines:    args.Engines,
					Language:   args.Language,
					TimeRange:  args.TimeRange,
					SafeSearch: safeSearch(args.SafeSearch),
					MaxResults: args.MaxResults,
					ReturnJSON: true,
				})), nil
			}),
		},
	}
}
