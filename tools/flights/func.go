package flights

import (
	"bhinneka/common"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultMaxResults flights_search 默认返回数量
	DefaultMaxResults = 20
	// DefaultViewResults 最便宜和推荐航班默认返回数量
	DefaultViewResults = 10
	// DefaultAirportLimit 机场查询默认返回数量
	DefaultAirportLimit = 10

	cheapestFactor = 2
	bestFactor     = 3
)

// NoFlightsError 数据服务没有返回航班
type NoFlightsError struct {
	Origin      string
	Destination string
	Date        string
	// Empty 为 true 表示返回了空列表，否则表示响应中没有航班字段
	Empty bool
}

func (e *NoFlightsError) Error() string {
	if e.Empty {
		return fmt.Sprintf("No flights available for %s → %s on %s", e.Origin, e.Destination, e.Date)
	}
	return fmt.Sprintf("No flights found for route %s → %s on %s", e.Origin, e.Destination, e.Date)
}

// SearchResult 一次航班搜索的结果
type SearchResult struct {
	Request      SearchRequest
	CurrentPrice string
	Flights      []FlightDetails
}

// ViewRequest 最便宜和推荐航班的参数
type ViewRequest struct {
	Origin        string
	Destination   string
	DepartureDate string
	SeatClass     SeatClass
	Adults        int
	MaxResults    int
}

// Service 航班搜索和机场查询
type Service struct {
	provider Provider
	airports *AirportIndex
	logger   *zap.Logger
}

// NewService 创建航班服务
func NewService(provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		airports: defaultAirports,
		logger:   logger.Named("flights"),
	}
}

// SearchFlights 校验参数后调用数据服务，结果按 MaxResults 截断
func (s *Service) SearchFlights(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	req.Normalize()
	if err := validateStruct("request", req); err != nil {
		return nil, err
	}
	s.logger.Info("searching flights",
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.String("date", req.DepartureDate),
	)

	res, err := s.provider.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	if res == nil || res.Flights == nil {
		return nil, &NoFlightsError{Origin: req.Origin, Destination: req.Destination, Date: req.DepartureDate}
	}
	if len(res.Flights) == 0 {
		return nil, &NoFlightsError{Origin: req.Origin, Destination: req.Destination, Date: req.DepartureDate, Empty: true}
	}
	flights := res.Flights
	if len(flights) > req.MaxResults {
		flights = flights[:req.MaxResults]
	}
	return &SearchResult{Request: req, CurrentPrice: res.CurrentPrice, Flights: flights}, nil
}

// Search 搜索航班并返回文本结果
func (s *Service) Search(ctx context.Context, req SearchRequest) string {
	res, err := s.SearchFlights(ctx, req)
	if err != nil {
		return s.formatError(err, "Error searching flights")
	}
	return FormatResult(res)
}

func (v ViewRequest) search(factor int) SearchRequest {
	maxResults := v.MaxResults
	if maxResults == 0 {
		maxResults = DefaultViewResults
	}
	return SearchRequest{
		Origin:        v.Origin,
		Destination:   v.Destination,
		DepartureDate: v.DepartureDate,
		SeatClass:     v.SeatClass,
		Adults:        v.Adults,
		MaxResults:    maxResults * factor,
	}
}

func (v ViewRequest) limit() int {
	if v.MaxResults <= 0 {
		return DefaultViewResults
	}
	return v.MaxResults
}

// Cheapest 多取一倍的航班，按价格从低到高排序后返回前 MaxResults 个
func (s *Service) Cheapest(ctx context.Context, v ViewRequest) string {
	res, err := s.SearchFlights(ctx, v.search(cheapestFactor))
	if err != nil {
		return s.formatError(err, "Error finding cheapest flights")
	}
	res.Flights = SortByPrice(res.Flights)
	if len(res.Flights) > v.limit() {
		res.Flights = res.Flights[:v.limit()]
	}
	header := fmt.Sprintf("💰 CHEAPEST FLIGHTS: %s → %s\n🎯 Showing top %d lowest-priced options\n\n",
		res.Request.Origin, res.Request.Destination, v.limit())
	return header + FormatResult(res)
}

// Best 多取两倍的航班，推荐航班排在前面，返回前 MaxResults 个
func (s *Service) Best(ctx context.Context, v ViewRequest) string {
	res, err := s.SearchFlights(ctx, v.search(bestFactor))
	if err != nil {
		return s.formatError(err, "Error finding best flights")
	}
	res.Flights = BestFirst(res.Flights)
	if len(res.Flights) > v.limit() {
		res.Flights = res.Flights[:v.limit()]
	}
	header := fmt.Sprintf("⭐ BEST FLIGHTS: %s → %s\n🎯 Google's recommended options (showing up to %d)\n\n",
		res.Request.Origin, res.Request.Destination, v.limit())
	return header + FormatResult(res)
}

// FindAirports 在内置机场表中查找并返回文本结果
func (s *Service) FindAirports(query string, limit int) string {
	req := AirportSearchRequest{Query: strings.TrimSpace(query), Limit: limit}
	if req.Limit == 0 {
		req.Limit = DefaultAirportLimit
	}
	if err := validateStruct("search", req); err != nil {
		return common.FailureMarker + err.Error()
	}
	airports := s.airports.Search(req.Query, req.Limit)
	if len(airports) == 0 {
		return common.Failure("No airports found matching '%s'", req.Query)
	}
	return FormatAirports(req.Query, airports)
}

func (s *Service) formatError(err error, fallback string) string {
	var invalid *InvalidRequestError
	var none *NoFlightsError
	if errors.As(err, &invalid) || errors.As(err, &none) {
		return common.FailureMarker + err.Error()
	}
	s.logger.Warn("flight search failed", zap.Error(err))
	return common.Failure("%s: %v", fallback, err)
}

// PriceValue 去掉 $ 和千位分隔符后解析价格，无法解析时返回 +Inf
func PriceValue(price string) float64 {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(price))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}

// SortByPrice 按价格升序稳定排序，返回新切片
func SortByPrice(flights []FlightDetails) []FlightDetails {
	out := slices.Clone(flights)
	slices.SortStableFunc(out, func(a, b FlightDetails) int {
		pa, pb := PriceValue(a.Price), PriceValue(b.Price)
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		default:
			return 0
		}
	})
	return out
}

// BestFirst 推荐航班在前，其余保持原顺序，返回新切片
func BestFirst(flights []FlightDetails) []FlightDetails {
	out := make([]FlightDetails, 0, len(flights))
	for _, f := range flights {
		if f.IsBest {
			out = append(out, f)
		}
	}
	for _, f := range flights {
		if !f.IsBest {
			out = append(out, f)
		}
	}
	return out
}

// FormatFlight 单个航班的摘要
func FormatFlight(f FlightDetails) string {
	stops := "non-stop"
	switch {
	case f.Stops == 1:
		stops = "1 stop"
	case f.Stops > 1:
		stops = fmt.Sprintf("%d stops", f.Stops)
	}
	title := f.Airline
	if f.IsBest {
		title += " ⭐"
	}
	lines := []string{title}
	if f.FlightNumber != "" {
		lines = append(lines, "  ✈️  Flight: "+f.FlightNumber)
	}
	lines = append(lines,
		"  🛫 Departure: "+f.DepartureTime,
		"  🛬 Arrival: "+f.ArrivalTime,
		fmt.Sprintf("  ⏱️  Duration: %s (%s)", f.Duration, stops),
		"  💰 Price: "+f.Price,
	)
	return strings.Join(lines, "\n")
}

// FormatResult 航班搜索结果的文本
func FormatResult(res *SearchResult) string {
	req := res.Request
	date := "📅 Date: " + req.DepartureDate
	if req.ReturnDate != "" {
		date += " (Return: " + req.ReturnDate + ")"
	}
	header := []string{
		fmt.Sprintf("✈️  Flight Search Results: %s → %s", req.Origin, req.Destination),
		date,
		fmt.Sprintf("👥 Passengers: %d adult(s)", req.Adults),
	}
	if req.Children > 0 {
		header = append(header, fmt.Sprintf("👶 Children: %d", req.Children))
	}
	if req.Infants() > 0 {
		header = append(header, fmt.Sprintf("🍼 Infants: %d", req.Infants()))
	}
	header = append(header,
		"💺 Class: "+req.SeatClass.Title(),
		"💰 Price Range: "+res.CurrentPrice,
		fmt.Sprintf("📊 Results: %d flights found", len(res.Flights)),
		strings.Repeat("=", 60),
	)

	summaries := make([]string, 0, len(res.Flights))
	for _, f := range res.Flights {
		summaries = append(summaries, FormatFlight(f))
	}
	return strings.Join(header, "\n") + "\n\n" + strings.Join(summaries, "\n\n")
}

// FormatAirports 机场查询结果的文本
func FormatAirports(query string, airports []Airport) string {
	lines := []string{
		fmt.Sprintf("🏢 Airport Search Results for '%s'", query),
		fmt.Sprintf("📊 Found %d airport(s)", len(airports)),
		strings.Repeat("=", 50),
	}
	for _, a := range airports {
		lines = append(lines, fmt.Sprintf("✈️  %s: %s (%s)", a.Code, a.Name, a.Location()))
	}
	return strings.Join(lines, "\n")
}
