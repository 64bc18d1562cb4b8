package flights

import (
	"bhinneka/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrProviderNotConfigured 未配置航班数据服务地址
var ErrProviderNotConfigured = errors.New("flight data provider not configured. Set FLIGHTS_BASE_URL.")

// ProviderError 航班数据服务返回了 4xx/5xx
type ProviderError struct {
	Code int
	Body string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("flight data provider returned HTTP %d: %s", e.Code, e.Body)
}

// ProviderResult 数据服务返回的航班列表和当前价格区间，Flights 为 nil 表示响应中没有航班字段
type ProviderResult struct {
	CurrentPrice string
	Flights      []FlightDetails
}

// Provider 航班数据来源
type Provider interface {
	Search(ctx context.Context, req SearchRequest) (*ProviderResult, error)
}

// Leg 单程航段
type Leg struct {
	Date        string `json:"date"`
	FromAirport string `json:"from_airport"`
	ToAirport   string `json:"to_airport"`
}

// Passengers 乘客人数
type Passengers struct {
	Adults        int `json:"adults"`
	Children      int `json:"children"`
	InfantsInSeat int `json:"infants_in_seat"`
	InfantsOnLap  int `json:"infants_on_lap"`
}

type providerRequest struct {
	FlightData []Leg      `json:"flight_data"`
	Trip       TripType   `json:"trip"`
	Seat       SeatClass  `json:"seat"`
	Passengers Passengers `json:"passengers"`
	FetchMode  string     `json:"fetch_mode"`
}

// rawFlight 数据服务返回的航班条目，stops/is_best/price 的类型不固定
type rawFlight struct {
	Name              *string `json:"name"`
	FlightNumber      string  `json:"flight_number"`
	Departure         string  `json:"departure"`
	Arrival           string  `json:"arrival"`
	DepartureAirport  string  `json:"departure_airport"`
	ArrivalAirport    string  `json:"arrival_airport"`
	Duration          string  `json:"duration"`
	Stops             any     `json:"stops"`
	Price             any     `json:"price"`
	IsBest            any     `json:"is_best"`
	DepartureTerminal string  `json:"departure_terminal"`
	ArrivalTerminal   string  `json:"arrival_terminal"`
}

type providerResponse struct {
	CurrentPrice any         `json:"current_price"`
	Flights      []rawFlight `json:"flights"`
}

// HTTPProvider 通过 HTTP 调用航班数据服务：POST {base}/flights
type HTTPProvider struct {
	client  *resty.Client
	baseURL string
	logger  *zap.Logger
}

// NewHTTPProvider 按配置创建数据服务客户端
func NewHTTPProvider(cfg config.Flights, logger *zap.Logger) *HTTPProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetTimeout(cfg.Timeout()).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &HTTPProvider{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger.Named("flights"),
	}
}

// Search 把搜索参数转换为航段和乘客信息后请求数据服务
func (p *HTTPProvider) Search(ctx context.Context, req SearchRequest) (*ProviderResult, error) {
	if p.baseURL == "" {
		return nil, ErrProviderNotConfigured
	}
	body := providerRequest{
		FlightData: []Leg{{Date: req.DepartureDate, FromAirport: req.Origin, ToAirport: req.Destination}},
		Trip:       req.TripType,
		Seat:       req.SeatClass,
		Passengers: Passengers{
			Adults:        req.Adults,
			Children:      req.Children,
			InfantsInSeat: req.InfantsInSeat,
			InfantsOnLap:  req.InfantsOnLap,
		},
		FetchMode: "fallback",
	}
	if req.ReturnDate != "" {
		body.FlightData = append(body.FlightData, Leg{Date: req.ReturnDate, FromAirport: req.Destination, ToAirport: req.Origin})
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(p.baseURL + "/flights")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() >= 400 {
		return nil, &ProviderError{Code: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}

	var raw providerResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("invalid flight data response: %w", err)
	}
	result := &ProviderResult{CurrentPrice: stringify(raw.CurrentPrice, "Unknown")}
	if raw.Flights != nil {
		result.Flights = make([]FlightDetails, 0, len(raw.Flights))
		for _, f := range raw.Flights {
			result.Flights = append(result.Flights, f.details())
		}
	}
	p.logger.Debug("flight data received", zap.Int("flights", len(result.Flights)))
	return result, nil
}

func (f rawFlight) details() FlightDetails {
	airline := "Unknown Airline"
	if f.Name != nil {
		airline = *f.Name
	}
	return FlightDetails{
		Airline:           airline,
		FlightNumber:      f.FlightNumber,
		DepartureTime:     f.Departure,
		ArrivalTime:       f.Arrival,
		DepartureAirport:  f.DepartureAirport,
		ArrivalAirport:    f.ArrivalAirport,
		Duration:          f.Duration,
		Stops:             toInt(f.Stops, 0),
		Price:             stringify(f.Price, "N/A"),
		Currency:          "USD",
		IsBest:            toBool(f.IsBest, false),
		DepartureTerminal: f.DepartureTerminal,
		ArrivalTerminal:   f.ArrivalTerminal,
	}
}

// toInt 宽松转换：整数、整数值的浮点数、数字字符串，其他情况返回默认值
func toInt(v any, def int) int {
	switch x := v.(type) {
	case float64:
		if x == float64(int(x)) {
			return int(x)
		}
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n
		}
	}
	return def
}

// toBool 宽松转换：true/1/yes/on 视为 true，数字非零视为 true
func toBool(v any, def bool) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(x) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	}
	return def
}

func stringify(v any, def string) string {
	switch x := v.(type) {
	case nil:
		return def
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
