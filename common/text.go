package common

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FailureMarker 工具返回失败信息时使用的前缀
const FailureMarker = "❌ "

// Failure 生成带失败前缀的信息
func Failure(format string, args ...any) string {
	return FailureMarker + fmt.Sprintf(format, args...)
}

// IsFailure 判断工具输出是否为失败信息
func IsFailure(s string) bool {
	return strings.HasPrefix(s, strings.TrimSpace(FailureMarker))
}

// Truncate 超过 limit 个字符时截断，去掉末尾空白后追加省略号
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace) + "…"
}
