package docs

import (
	"bhinneka/common"
	"bhinneka/config"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// DefaultType 文档默认返回格式
	DefaultType = "txt"
	// NoContent 文档为空时的输出
	NoContent = "(no content)"

	clientIPHeader     = "mcp-client-ip"
	sourceHeader       = "X-Context7-Source"
	sourceHeaderValue  = "mcp-server"
	descriptionMaxChar = 200
)

var (
	ErrQueryRequired   = errors.New("Query is required")
	ErrLibraryRequired = errors.New("Library ID is required")
)

// 表示没有文档内容的占位文本
var placeholderTexts = map[string]bool{
	"No content available":      true,
	"No context data available": true,
}

// Op 出错的接口
type Op string

const (
	OpSearch Op = "search"
	OpFetch  Op = "fetch"
)

// StatusError Context7 返回了 4xx/5xx
type StatusError struct {
	Op   Op
	Code int
}

func (e *StatusError) Error() string {
	switch {
	case e.Code == http.StatusTooManyRequests:
		return "Rate limited. Please try again later."
	case e.Code == http.StatusUnauthorized:
		return "Unauthorized. Check CONTEXT7_API_KEY or supplied api_key."
	case e.Code == http.StatusNotFound && e.Op == OpFetch:
		return "Library not found. Try a different library ID."
	case e.Op == OpFetch:
		return fmt.Sprintf("Fetch failed (HTTP %d)", e.Code)
	default:
		return fmt.Sprintf("Search failed (HTTP %d)", e.Code)
	}
}

// Credentials 调用方提供的身份信息，APIKey 为空时使用配置中的密钥
type Credentials struct {
	ClientIP string
	APIKey   string
}

// Library 搜索结果中的文档库
type Library struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DisplayID 优先使用 id，其次 slug
func (l Library) DisplayID() string {
	if l.ID != "" {
		return l.ID
	}
	return l.Slug
}

// DisplayName 优先使用 name，其次 title，最后使用 id
func (l Library) DisplayName() string {
	switch {
	case l.Name != "":
		return l.Name
	case l.Title != "":
		return l.Title
	default:
		return l.DisplayID()
	}
}

// FetchRequest 获取文档的参数
type FetchRequest struct {
	LibraryID string
	Tokens    *int
	Topic     string
	Type      string
	Credentials
}

// Service Context7 文档检索客户端
type Service struct {
	client      *resty.Client
	baseURL     string
	apiKey      string
	defaultType string
	logger      *zap.Logger
}

// NewService 按配置创建文档服务
func NewService(cfg config.Context7, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultType := cfg.DefaultType
	if defaultType == "" {
		defaultType = DefaultType
	}
	return &Service{
		client:      resty.New().SetTimeout(cfg.Timeout()),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		defaultType: defaultType,
		logger:      logger.Named("context7"),
	}
}

func (s *Service) request(ctx context.Context, cred Credentials) *resty.Request {
	req := s.client.R().SetContext(ctx)
	if cred.ClientIP != "" {
		req.SetHeader(clientIPHeader, cred.ClientIP)
	}
	token := cred.APIKey
	if token == "" {
		token = s.apiKey
	}
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// SearchLibraries 按关键字搜索文档库，返回原始的结果条目
func (s *Service) SearchLibraries(ctx context.Context, query string, cred Credentials) ([]json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrQueryRequired
	}
	resp, err := s.request(ctx, cred).
		SetQueryParam("query", query).
		Get(s.baseURL + "/v1/search")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() >= 400 {
		return nil, &StatusError{Op: OpSearch, Code: resp.StatusCode()}
	}
	var body struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("invalid search response: %w", err)
	}
	s.logger.Debug("library search", zap.Int("results", len(body.Results)))
	return body.Results, nil
}

// Search 搜索文档库并返回文本或 JSON
func (s *Service) Search(ctx context.Context, query string, cred Credentials, returnJSON bool) string {
	results, err := s.SearchLibraries(ctx, query, cred)
	if err != nil {
		return formatError(err, "Error searching Context7")
	}
	if returnJSON {
		out, err := FormatSearchJSON(query, results)
		if err != nil {
			return formatError(err, "Error searching Context7")
		}
		return out
	}
	return FormatSearchText(query, results)
}

// FetchDocs 获取文档库的文档文本，没有内容时返回 NoContent
func (s *Service) FetchDocs(ctx context.Context, req FetchRequest) (string, error) {
	lib := strings.TrimLeft(req.LibraryID, "/")
	if lib == "" {
		return "", ErrLibraryRequired
	}
	params := map[string]string{"type": req.Type}
	if req.Type == "" {
		params["type"] = s.defaultType
	}
	if req.Tokens != nil {
		params["tokens"] = strconv.Itoa(*req.Tokens)
	}
	if req.Topic != "" {
		params["topic"] = req.Topic
	}

	resp, err := s.request(ctx, req.Credentials).
		SetHeader(sourceHeader, sourceHeaderValue).
		SetQueryParams(params).
		Get(s.baseURL + "/v1/" + lib)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() >= 400 {
		return "", &StatusError{Op: OpFetch, Code: resp.StatusCode()}
	}
	text := string(resp.Body())
	if strings.TrimSpace(text) == "" || placeholderTexts[strings.TrimSpace(text)] {
		return NoContent, nil
	}
	s.logger.Debug("library docs fetched", zap.String("library", lib), zap.Int("bytes", len(text)))
	return text, nil
}

// Fetch 获取文档并把失败转换为 ❌ 信息
func (s *Service) Fetch(ctx context.Context, req FetchRequest) string {
	text, err := s.FetchDocs(ctx, req)
	if err != nil {
		return formatError(err, "Error fetching Context7 documentation")
	}
	return text
}

// FormatSearchText 生成带编号的文档库列表
func FormatSearchText(query string, results []json.RawMessage) string {
	lines := []string{"📚 Context7 Search: " + query, strings.Repeat("=", 60)}
	if len(results) == 0 {
		lines = append(lines, "(no results)")
	}
	for i, raw := range results {
		var lib Library
		// 条目不是对象时按空条目展示
		_ = json.Unmarshal(raw, &lib)
		desc := common.Truncate(strings.TrimSpace(lib.Description), descriptionMaxChar)
		lines = append(lines, fmt.Sprintf("%d. %s (%s)\n   %s", i+1, lib.DisplayName(), lib.DisplayID(), desc))
	}
	return strings.Join(lines, "\n")
}

// FormatSearchJSON 生成 {"query","count","results"} 格式的 JSON，结果条目保持原样
func FormatSearchJSON(query string, results []json.RawMessage) (string, error) {
	if results == nil {
		results = []json.RawMessage{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		Query   string            `json:"query"`
		Count   int               `json:"count"`
		Results []json.RawMessage `json:"results"`
	}{query, len(results), results})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func formatError(err error, fallback string) string {
	var se *StatusError
	if errors.Is(err, ErrQueryRequired) || errors.Is(err, ErrLibraryRequired) || errors.As(err, &se) {
		return common.FailureMarker + err.Error()
	}
	return common.Failure("%s: %v", fallback, err)
}
