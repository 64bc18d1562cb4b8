package fetch

import (
	"bytes"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

// defaultEncoding 未声明字符集且无法判断时使用的编码
const defaultEncoding = "utf-8"

// detectEncoding 返回响应的字符集名称：JSON 固定为 UTF-8，其余优先 Content-Type
// 中声明的 charset，其次 BOM 和 HTML meta 预扫描，都没有时合法的 UTF-8 内容按 UTF-8 处理。
func detectEncoding(body []byte, contentType string) string {
	if isJSONType(contentType) {
		return defaultEncoding
	}
	_, name, certain := charset.DetermineEncoding(body, contentType)
	name = strings.ToLower(name)
	if !certain && name == "windows-1252" && utf8.Valid(body) {
		return defaultEncoding
	}
	return name
}

func isJSONType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

var utf8BOM = []byte("\xef\xbb\xbf")

// decodeBody 按字符集名称把字节解码为 UTF-8 文本，无法解码的字节直接丢弃
func decodeBody(body []byte, encodingName string) string {
	enc, err := htmlindex.Get(encodingName)
	name, _ := htmlindex.Name(enc)
	if err != nil || name == defaultEncoding {
		return strings.ToValidUTF8(string(bytes.TrimPrefix(body, utf8BOM)), "")
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return strings.ToValidUTF8(string(body), "")
	}
	// 单字节和多字节旧式字符集中出现的 U+FFFD 只可能来自解码失败
	if !strings.HasPrefix(name, "utf-16") {
		out = bytes.ReplaceAll(out, []byte("\uFFFD"), nil)
	}
	return strings.ToValidUTF8(string(out), "")
}
