package flights

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout 日期参数格式
const DateLayout = "2006-01-02"

// SeatClass 舱位等级
type SeatClass string

const (
	Economy        SeatClass = "economy"
	PremiumEconomy SeatClass = "premium-economy"
	Business       SeatClass = "business"
	First          SeatClass = "first"
)

// Title 返回首字母大写的舱位名称，例如 Premium-Economy
func (c SeatClass) Title() string {
	parts := strings.Split(string(c), "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "-")
}

// TripType 行程类型
type TripType string

const (
	OneWay    TripType = "one-way"
	RoundTrip TripType = "round-trip"
)

// SearchRequest 航班搜索参数
type SearchRequest struct {
	Origin        string    `json:"origin" validate:"len=3"`
	Destination   string    `json:"destination" validate:"len=3"`
	DepartureDate string    `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string    `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TripType      TripType  `json:"trip_type" validate:"oneof=one-way round-trip"`
	SeatClass     SeatClass `json:"seat_class" validate:"oneof=economy premium-economy business first"`
	Adults        int       `json:"adults" validate:"min=1,max=9"`
	Children      int       `json:"children" validate:"min=0,max=8"`
	InfantsInSeat int       `json:"infants_in_seat" validate:"min=0,max=5"`
	InfantsOnLap  int       `json:"infants_on_lap" validate:"min=0,max=5"`
	MaxResults    int       `json:"max_results" validate:"min=1,max=100"`
}

// Normalize 补全默认值：机场代码转大写，有返程日期时单程自动改为往返
func (r *SearchRequest) Normalize() {
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
	r.SeatClass = SeatClass(strings.ToLower(string(r.SeatClass)))
	if r.SeatClass == "" {
		r.SeatClass = Economy
	}
	if r.TripType == "" {
		r.TripType = OneWay
	}
	if r.ReturnDate != "" && r.TripType == OneWay {
		r.TripType = RoundTrip
	}
}

// Infants 婴儿总数
func (r SearchRequest) Infants() int {
	return r.InfantsInSeat + r.InfantsOnLap
}

// AirportSearchRequest 机场查询参数
type AirportSearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"min=1,max=50"`
}

// FlightDetails 单个航班的信息
type FlightDetails struct {
	Airline           string `json:"airline"`
	FlightNumber      string `json:"flight_number,omitempty"`
	DepartureTime     string `json:"departure_time"`
	ArrivalTime       string `json:"arrival_time"`
	DepartureAirport  string `json:"departure_airport"`
	ArrivalAirport    string `json:"arrival_airport"`
	Duration          string `json:"duration"`
	Stops             int    `json:"stops"`
	Price             string `json:"price"`
	Currency          string `json:"currency"`
	IsBest            bool   `json:"is_best"`
	DepartureTerminal string `json:"departure_terminal,omitempty"`
	ArrivalTerminal   string `json:"arrival_terminal,omitempty"`
}

// InvalidRequestError 参数校验失败，Details 为 "字段: 原因" 列表
type InvalidRequestError struct {
	Kind    string
	Details []string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("Invalid %s parameters: %s", e.Kind, strings.Join(e.Details, "; "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		r := sl.Current().Interface().(SearchRequest)
		if r.ReturnDate == "" {
			return
		}
		dep, err1 := time.Parse(DateLayout, r.DepartureDate)
		ret, err2 := time.Parse(DateLayout, r.ReturnDate)
		if err1 == nil && err2 == nil && !ret.After(dep) {
			sl.ReportError(r.ReturnDate, "return_date", "ReturnDate", "after_departure", "")
		}
	}, SearchRequest{})
	return v
}

// validateStruct 校验并把 validator 的错误转换为 InvalidRequestError
func validateStruct(kind string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fe.Field()+": "+describe(fe))
	}
	return &InvalidRequestError{Kind: kind, Details: details}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		return "must be greater than or equal to " + fe.Param()
	case "max":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "after_departure":
		return "Return date must be after departure date"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
