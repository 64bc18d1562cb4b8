package flights

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SearchArgs flights_search 的参数
type SearchArgs struct {
	Origin        string `json:"origin" jsonschema_description:"Origin airport IATA code, e.g. LAX"`
	Destination   string `json:"destination" jsonschema_description:"Destination airport IATA code, e.g. JFK"`
	DepartureDate string `json:"departure_date" jsonschema_description:"Departure date in YYYY-MM-DD format"`
	ReturnDate    string `json:"return_date,omitempty" jsonschema_description:"Return date in YYYY-MM-DD format for round trips"`
	SeatClass     string `json:"seat_class,omitempty" jsonschema:"enum=economy,enum=premium-economy,enum=business,enum=first,default=economy" jsonschema_description:"Seat class"`
	Adults        *int   `json:"adults,omitempty" jsonschema:"default=1,minimum=1,maximum=9" jsonschema_description:"Number of adult passengers"`
	Children      int    `json:"children,omitempty" jsonschema:"default=0,minimum=0,maximum=8" jsonschema_description:"Number of child passengers"`
	InfantsInSeat int    `json:"infants_in_seat,omitempty" jsonschema:"default=0,minimum=0,maximum=5" jsonschema_description:"Number of infants with their own seat"`
	InfantsOnLap  int    `json:"infants_on_lap,omitempty" jsonschema:"default=0,minimum=0,maximum=5" jsonschema_description:"Number of infants on lap"`
	MaxResults    *int   `json:"max_results,omitempty" jsonschema:"default=20,minimum=1,maximum=100" jsonschema_description:"Maximum number of flights to return"`
}

// AirportArgs flights_find_airports 的参数
type AirportArgs struct {
	Query string `json:"query" jsonschema_description:"Airport code, airport name or city"`
	Limit *int   `json:"limit,omitempty" jsonschema:"default=10,minimum=1,maximum=50" jsonschema_description:"Maximum number of airports to return"`
}

// ViewArgs flights_get_cheapest 与 flights_get_best 的参数
type ViewArgs struct {
	Origin        string `json:"origin" jsonschema_description:"Origin airport IATA code"`
	Destination   string `json:"destination" jsonschema_description:"Destination airport IATA code"`
	DepartureDate string `json:"departure_date" jsonschema_description:"Departure date in YYYY-MM-DD format"`
	SeatClass     string `json:"seat_class,omitempty" jsonschema:"enum=economy,enum=premium-economy,enum=business,enum=first,default=economy" jsonschema_description:"Seat class"`
	Adults        *int   `json:"adults,omitempty" jsonschema:"default=1,minimum=1,maximum=9" jsonschema_description:"Number of adult passengers"`
	MaxResults    *int   `json:"max_results,omitempty" jsonschema:"default=10,minimum=1" jsonschema_description:"Maximum number of flights to show"`
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// Request 转换为搜索参数
func (a SearchArgs) Request() SearchRequest {
	return SearchRequest{
		Origin:        a.Origin,
		Destination:   a.Destination,
		DepartureDate: a.DepartureDate,
		ReturnDate:    a.ReturnDate,
		SeatClass:     SeatClass(a.SeatClass),
		Adults:        intOr(a.Adults, 1),
		Children:      a.Children,
		InfantsInSeat: a.InfantsInSeat,
		InfantsOnLap:  a.InfantsOnLap,
		MaxResults:    intOr(a.MaxResults, DefaultMaxResults),
	}
}

// Request 转换为视图参数
func (a ViewArgs) Request() ViewRequest {
	return ViewRequest{
		Origin:        a.Origin,
		Destination:   a.Destination,
		DepartureDate: a.DepartureDate,
		SeatClass:     SeatClass(a.SeatClass),
		Adults:        intOr(a.Adults, 1),
		MaxResults:    intOr(a.MaxResults, DefaultViewResults),
	}
}

// GetTools 返回航班相关的 MCP 工具
func GetTools(svc *Service) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("flights_search",
				mcp.WithDescription(`Search for flights between two airports.

## Tips
- Use flights_find_airports first when you only know the city name
- Giving return_date makes the search a round trip`),
				mcp.WithInputSchema[SearchArgs](),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.Search(ctx, args.Request())), nil
			}),
		},
		{
			Tool: mcp.NewTool("flights_find_airports",
				mcp.WithDescription("Find airports matching a code, airport name or city. Works offline against a built-in list of major airports."),
				mcp.WithInputSchema[AirportArgs](),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			Handler: mcp.NewTypedToolHandler(func(_ context.Context, _ mcp.CallToolRequest, args AirportArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.FindAirports(args.Query, intOr(args.Limit, DefaultAirportLimit))), nil
			}),
		},
		{
			Tool: mcp.NewTool("flights_get_cheapest",
				mcp.WithDescription("Find the cheapest one-way flights for a route, sorted by price."),
				mcp.WithInputSchema[ViewArgs](),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args ViewArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.Cheapest(ctx, args.Request())), nil
			}),
		},
		{
			Tool: mcp.NewTool("flights_get_best",
				mcp.WithDescription("Get flights marked as best by the flight data provider, listed before the other options."),
				mcp.WithInputSchema[ViewArgs](),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: mcp.NewTypedToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args ViewArgs) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText(svc.Best(ctx, args.Request())), nil
			}),
		},
	}
}
