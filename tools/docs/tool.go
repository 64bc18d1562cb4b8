package docs

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SearchArgs context7_search 的参数
type SearchArgs struct {
	Query      string `json:"query" jsonschema_description:"Library or framework name to look up, e.g. next.js"`
	ClientIP   string `json:"client_ip,omitempty" jsonschema_description:"Client IP forwarded to Context7 for rate limiting"`
	APIKey     string `json:"api_key,omitempty" jsonschema_description:"Context7 API key; overrides the server key"`
	ReturnJSON bool   `json:"return_json,omitempty" jsonschema:"default=false" jsonschema_description:"Return the raw search results as JSON"`
}

// FetchArgs context7_fetch 的参数
type FetchArgs struct {
	LibraryID string `json:"library_id" jsonschema_description:"Context7 library id from context7_search, e.g. /vercel/next.js"`
	Tokens    *int   `json:"tokens,omitempty" jsonschema:"minimum=1" jsonschema_description:"Maximum number of tokens of documentation to return"`
	Topic     string `json:"topic,omitempty" jsonschema_description:"Focus the documentation on a topic, e.g. routing"`
	TypeHint  string `json:"type_hint,omitempty" jsonschema_description:"Response format passed as the type parameter; defaults to txt"`
	ClientIP  string `json:"client_ip,omitempty" jsonschema_description:"Client IP forwarded to Context7 for rate limiting"`
	APIKey    string `json:"api_key,omitempty" jsonschema_description:"Context7 API key; overrides the server key"`
}

// GetTools 返回 Context7 相关的 MCP 工具
func GetTools(svc *Service) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("context7_search",
				mcp.WithDescription(`Search Context7 for up-to-date library documentation.

## When to use
- Find the library id needed by context7_fetch
- Check whether documentation for a framework or package is indexed`),
				mcp.WithInputSchema[SearchArgs](),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, error) {
				cred := Credentials{ClientIP: args.ClientIP, APIKey: args.APIKey}
				return mcp.NewToolResultText(svc.Search(ctx, args.Query, cred, args.ReturnJSON)), nil
			}),
		},
		{
			Tool: mcp.NewTool("context7_fetch",
				mcp.WithDescription(`Fetch documentation text for a Context7 library.

Parameters mirror the Context7 API. Use context7_search first to get the library id. Defaults to type=txt.`),
				mcp.WithInputSchema[FetchArgs](),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args FetchArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.Fetch(ctx, FetchRequest{
					LibraryID:   args.LibraryID,
					Tokens:      args.Tokens,
					Topic:       args.Topic,
					Type:        args.TypeHint,
					Credentials: Credentials{ClientIP: args.ClientIP, APIKey: args.APIKey},
				})), nil
			}),
		},
	}
}
