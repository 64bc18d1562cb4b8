package search

import (
	"bhinneka/common"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const snippetMaxChars = 300

// FormatText 生成带编号的文本结果
func FormatText(resp *Response) string {
	category := resp.Query.Category
	if category == "" {
		category = CategoryGeneral
	}
	lines := []string{
		"🔎 SearXNG Search: " + resp.Query.Query,
		fmt.Sprintf("🌐 Category: %s | Lang: %s | Max: %d", category, resp.Language, resp.Limit),
		strings.Repeat("=", 60),
	}
	for i, r := range resp.Results {
		detail := common.Truncate(r.Snippet, snippetMaxChars)
		if resp.Query.Category == CategoryImages && r.Image != "" {
			detail = r.Image
		}
		lines = append(lines, fmt.Sprintf("%d. %s\n   %s\n   %s\n   %s", i+1, r.Title, r.URL, detail, r.Engine))
	}
	if len(resp.Results) == 0 {
		lines = append(lines, "(no results)")
	}
	return strings.Join(lines, "\n")
}

// FormatJSON 生成紧凑的 JSON 结果，不转义非 ASCII 字符和 HTML
func FormatJSON(query string, results []Result) (string, error) {
	if results == nil {
		results = []Result{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		Query   string   `json:"query"`
		Count   int      `json:"count"`
		Results []Result `json:"results"`
	}{query, len(results), results})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// FormatError 把搜索错误转换为失败信息
func FormatError(err error) string {
	var se *StatusError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return common.FailureMarker + err.Error()
	case errors.As(err, &se):
		return common.FailureMarker + se.Error()
	default:
		return common.Failure("Error querying SearXNG: %v", err)
	}
}
