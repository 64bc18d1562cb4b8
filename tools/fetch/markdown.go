package fetch

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
)

// ToMarkdown 将页面 body 转换为 Markdown，脚本和样式会被移除，
// 相对链接按 baseURL 补全
func ToMarkdown(markup, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to extract body: %w", err)
	}
	if strings.TrimSpace(body) == "" {
		// 没有 body 标签时转换整个文档
		if body, err = doc.Html(); err != nil {
			return "", fmt.Errorf("failed to render document: %w", err)
		}
	}

	var opts []converter.ConvertOptionFunc
	if baseURL != "" {
		opts = append(opts, converter.WithDomain(baseURL))
	}
	markdown, err := md.ConvertString(body, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
