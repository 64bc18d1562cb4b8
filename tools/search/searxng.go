package search

import (
	"bhinneka/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// UserAgent 请求 SearXNG 时使用的 User-Agent
	UserAgent = "bhinneka/0.1"

	// CategoryImages 图片分类，结果中额外携带图片地址
	CategoryImages = "images"
	// CategoryGeneral 未指定分类时展示的名称
	CategoryGeneral = "general"

	defaultLanguage   = "en"
	errorBodyMaxChars = 200
)

// ErrNotConfigured 未配置 SearXNG 地址
var ErrNotConfigured = errors.New("SearXNG base URL not configured. Set SEARXNG_BASE_URL.")

// StatusError SearXNG 返回了 4xx/5xx
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("SearXNG error %d: %s", e.Code, e.Body)
}

// Query 一次搜索的参数，空字符串表示不传该参数
type Query struct {
	Query      string
	Category   string
	Engines    string
	Language   string
	TimeRange  string
	SafeSearch *int
	MaxResults int
	ReturnJSON bool
}

// Result 归一化后的搜索结果
type Result struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Snippet string   `json:"snippet"`
	Engine  string   `json:"engine"`
	Score   *float64 `json:"score,omitempty"`
	Image   string   `json:"image,omitempty"`
}

// rawResult SearXNG 返回的原始条目，不同引擎填充的字段不一样
type rawResult struct {
	Title        string   `json:"title"`
	PrettyURL    string   `json:"pretty_url"`
	URL          string   `json:"url"`
	Href         string   `json:"href"`
	Content      string   `json:"content"`
	Snippet      string   `json:"snippet"`
	Engine       string   `json:"engine"`
	Source       string   `json:"source"`
	Score        *float64 `json:"score"`
	ImgSrc       string   `json:"img_src"`
	ThumbnailSrc string   `json:"thumbnail_src"`
}

type searchResponse struct {
	Results []rawResult `json:"results"`
}

// Response 搜索结果以及实际生效的语言和数量上限
type Response struct {
	Query    Query
	Language string
	Limit    int
	Results  []Result
}

// Service SearXNG 元搜索客户端
type Service struct {
	client     *resty.Client
	baseURL    string
	language   string
	maxResults int
	logger     *zap.Logger
}

// NewService 按配置创建搜索服务，BaseURL 为空时每次调用都返回 ErrNotConfigured
func NewService(cfg config.SearXNG, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetTimeout(cfg.Timeout()).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json")
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Service{
		client:     client,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		language:   cfg.Language,
		maxResults: maxResults,
		logger:     logger.Named("searxng"),
	}
}

// Configured 是否配置了 SearXNG 地址
func (s *Service) Configured() bool {
	return s.baseURL != ""
}

// Do 调用 SearXNG JSON 接口并归一化结果
func (s *Service) Do(ctx context.Context, q Query) (*Response, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	lang := q.Language
	if lang == "" {
		lang = s.language
	}
	if lang == "" {
		lang = defaultLanguage
	}
	lang = strings.TrimSpace(lang)

	params := map[string]string{
		"q":      q.Query,
		"format": "json",
	}
	if lang != "" {
		params["language"] = lang
	}
	if q.Category != "" {
		params["categories"] = q.Category
	}
	if q.Engines != "" {
		params["engines"] = q.Engines
	}
	if q.TimeRange != "" {
		params["time_range"] = q.TimeRange
	}
	if q.SafeSearch != nil {
		params["safesearch"] = strconv.Itoa(*q.SafeSearch)
	}

	limit := q.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(s.baseURL + "/search")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() >= 400 {
		return nil, &StatusError{Code: resp.StatusCode(), Body: firstRunes(string(resp.Body()), errorBodyMaxChars)}
	}
	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("invalid SearXNG response: %w", err)
	}

	results := body.Results
	if len(results) > limit {
		results = results[:limit]
	}
	out := &Response{Query: q, Language: lang, Limit: limit, Results: make([]Result, 0, len(results))}
	for _, item := range results {
		out.Results = append(out.Results, normalize(item, q.Category))
	}
	s.logger.Debug("search finished",
		zap.String("category", q.Category),
		zap.Int("results", len(out.Results)),
	)
	return out, nil
}

// Search 执行搜索并返回文本或 JSON，失败时返回带 ❌ 前缀的信息
func (s *Service) Search(ctx context.Context, q Query) string {
	resp, err := s.Do(ctx, q)
	if err != nil {
		return FormatError(err)
	}
	if q.ReturnJSON {
		out, err := FormatJSON(q.Query, resp.Results)
		if err != nil {
			return FormatError(err)
		}
		return out
	}
	return FormatText(resp)
}

func normalize(item rawResult, category string) Result {
	r := Result{
		Title:   firstNonEmpty(item.Title, item.PrettyURL, "(no title)"),
		URL:     firstNonEmpty(item.URL, item.Href),
		Snippet: firstNonEmpty(item.Content, item.Snippet),
		Engine:  firstNonEmpty(item.Engine, item.Source),
		Score:   item.Score,
	}
	if category == CategoryImages {
		r.Image = firstNonEmpty(item.ImgSrc, item.ThumbnailSrc)
	}
	return r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
