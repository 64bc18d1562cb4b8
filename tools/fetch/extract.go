package fetch

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link 页面中的链接，Text 取自 a 标签的 title 属性
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Extraction HTML 提取结果，空字符串表示未找到
type Extraction struct {
	Text        string
	Title       string
	Description string
	Language    string
	Links       []Link
	ScriptCount int
}

// extractor 单次遍历 token 流的状态
type extractor struct {
	base         *url.URL
	collectLinks bool

	scriptDepth int
	styleDepth  int
	titleDepth  int

	text  strings.Builder
	title strings.Builder

	out Extraction
}

// Extract 流式解析 HTML，提取可见文本、标题、描述、语言和链接。
// 解析不会失败，遇到残缺的标记时返回已解析部分的结果。
func Extract(markup, baseURL string, collectLinks bool) Extraction {
	e := &extractor{collectLinks: collectLinks}
	if u, err := url.Parse(baseURL); err == nil {
		e.base = u
	}
	if collectLinks {
		e.out.Links = []Link{}
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF 或残缺标记导致的错误都按已读取的内容收尾
			return e.finish()
		case html.StartTagToken, html.SelfClosingTagToken:
			e.startTag(z, z.Token())
		case html.EndTagToken:
			e.endTag(z.Token().Data)
		case html.TextToken:
			e.data(string(z.Text()))
		}
	}
}

// startTag 自闭合的 script/style/title 同样开启原始文本，直到对应的结束标签
func (e *extractor) startTag(z *html.Tokenizer, tok html.Token) {
	switch tok.Data {
	case "script":
		e.out.ScriptCount++
		e.scriptDepth++
		return
	case "style":
		e.styleDepth++
		return
	case "title":
		e.titleDepth++
	case "html":
		if lang := strings.TrimSpace(attr(tok, "lang")); lang != "" {
			e.out.Language = lang
		}
	case "meta":
		e.meta(tok)
	case "a":
		if e.collectLinks {
			if href := attr(tok, "href"); href != "" {
				e.out.Links = append(e.out.Links, Link{URL: e.resolve(href), Text: attr(tok, "title")})
			}
		}
	case "noscript", "iframe", "noembed", "noframes", "xmp":
		// 这些元素的内容按普通标记继续解析
		z.NextIsNotRawText()
	}
}

func (e *extractor) meta(tok html.Token) {
	content := attr(tok, "content")
	if content == "" {
		return
	}
	name := strings.ToLower(attr(tok, "name"))
	property := strings.ToLower(attr(tok, "property"))
	if (name == "description" || property == "og:description") && e.out.Description == "" {
		e.out.Description = content
	}
	if strings.ToLower(attr(tok, "http-equiv")) == "content-language" && e.out.Language == "" {
		first, _, _ := strings.Cut(content, ",")
		e.out.Language = strings.TrimSpace(first)
	}
}

func (e *extractor) endTag(name string) {
	switch name {
	case "script":
		if e.scriptDepth > 0 {
			e.scriptDepth--
		}
	case "style":
		if e.styleDepth > 0 {
			e.styleDepth--
		}
	case "title":
		if e.titleDepth > 0 {
			e.titleDepth--
		}
	}
}

func (e *extractor) data(s string) {
	if e.scriptDepth > 0 || e.styleDepth > 0 {
		return
	}
	if e.titleDepth > 0 {
		e.title.WriteString(s)
		return
	}
	e.text.WriteString(s)
}

func (e *extractor) resolve(href string) string {
	if e.base == nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return e.base.ResolveReference(ref).String()
}

func (e *extractor) finish() Extraction {
	e.out.Text = collapseSpace(e.text.String())
	e.out.Title = strings.TrimSpace(e.title.String())
	return e.out
}

// collapseSpace 把连续空白折叠为单个空格并去掉首尾空白
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
