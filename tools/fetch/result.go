package fetch

import (
	"bhinneka/common"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// NoteDynamic 页面疑似由 JS 渲染时附加的提示
	NoteDynamic = "Content looks dynamic; try render_js=true for SPA pages"
	// NoteUnsupported 内容类型无法提取文本时附加的提示
	NoteUnsupported = "Unsupported content-type for text extraction; returning headers only"

	// dynamicTextThreshold 与 dynamicScriptThreshold 共同决定是否提示使用 JS 渲染
	dynamicTextThreshold   = 200
	dynamicScriptThreshold = 5

	// SummaryMaxChars 文本摘要中正文的最大字符数
	SummaryMaxChars = 2000
)

// Result 一次抓取的最终结果，组装完成后不再修改
type Result struct {
	URLFinal        string   `json:"url_final"`
	StatusCode      int      `json:"status_code"`
	ContentType     *string  `json:"content_type"`
	Encoding        *string  `json:"encoding"`
	BytesDownloaded int      `json:"bytes_downloaded"`
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Language        *string  `json:"language"`
	Text            *string  `json:"text"`
	Links           []Link   `json:"links"`
	Notes           []string `json:"notes"`
}

// Meta 抓取阶段得到的元数据和原始字节
type Meta struct {
	FinalURL    string
	StatusCode  int
	ContentType string
	Encoding    string
	Body        []byte
	Rendered    bool
	Truncated   bool
}

// AssembleOptions 内容处理选项
type AssembleOptions struct {
	TextOnly     bool
	ExtractLinks bool
	Markdown     bool
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Assemble 按内容类型处理响应体并生成结果
func Assemble(meta Meta, opts AssembleOptions) *Result {
	res := &Result{
		URLFinal:        meta.FinalURL,
		StatusCode:      meta.StatusCode,
		ContentType:     optional(meta.ContentType),
		Encoding:        optional(meta.Encoding),
		BytesDownloaded: len(meta.Body),
		Notes:           []string{},
	}

	contentType := strings.ToLower(meta.ContentType)
	switch {
	case strings.HasPrefix(contentType, "text/html"):
		markup := decodeBody(meta.Body, meta.Encoding)
		ext := Extract(markup, meta.FinalURL, opts.ExtractLinks)
		text := ext.Text
		switch {
		case !opts.TextOnly:
			text = markup
		case opts.Markdown:
			if converted, err := ToMarkdown(markup, meta.FinalURL); err == nil {
				text = converted
			}
		}
		res.Text = &text
		res.Title = optional(ext.Title)
		res.Description = optional(ext.Description)
		res.Language = optional(ext.Language)
		if opts.ExtractLinks {
			res.Links = ext.Links
		}
		if !meta.Rendered && looksDynamic(ext) {
			res.Notes = append(res.Notes, NoteDynamic)
		}
	case strings.HasPrefix(contentType, "application/json"):
		raw := decodeBody(meta.Body, meta.Encoding)
		text := raw
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(raw), "", "  "); err == nil {
			text = buf.String()
		}
		res.Text = &text
	case strings.HasPrefix(contentType, "text/plain"):
		text := decodeBody(meta.Body, meta.Encoding)
		res.Text = &text
	default:
		res.Notes = append(res.Notes, NoteUnsupported)
	}
	return res
}

// looksDynamic 可见文本很少而脚本很多时，页面大概率依赖 JS 渲染
func looksDynamic(ext Extraction) bool {
	return utf8.RuneCountInString(ext.Text) < dynamicTextThreshold && ext.ScriptCount >= dynamicScriptThreshold
}

// JSON 完整序列化结果
func (r *Result) JSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Summary 生成有长度上限的文本摘要
func (r *Result) Summary() string {
	contentType := "unknown"
	if r.ContentType != nil {
		contentType = *r.ContentType
	}
	lines := []string{
		"🔗 URL: " + r.URLFinal,
		fmt.Sprintf("📄 Status: %d | Type: %s | Bytes: %d", r.StatusCode, contentType, r.BytesDownloaded),
	}

	var meta []string
	if r.Title != nil {
		meta = append(meta, "Title: "+*r.Title)
	}
	if r.Description != nil {
		meta = append(meta, "Description: "+*r.Description)
	}
	if r.Language != nil {
		meta = append(meta, "Lang: "+*r.Language)
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, " • "))
	}
	for _, n := range r.Notes {
		lines = append(lines, "⚠️ "+n)
	}

	body := "(no text)"
	if r.Text != nil && *r.Text != "" {
		body = common.Truncate(*r.Text, SummaryMaxChars)
	}
	lines = append(lines, "", body)
	return strings.Join(lines, "\n")
}
