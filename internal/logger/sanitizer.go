package logger

import (
	"strconv"
	"strings"
	"unicode"
)

// Sanitizer 處理日誌中的不可信文字
//
// 檔名可以包含換行、ANSI escape 等控制字元，直接寫入日誌會偽造日誌行或
// 控制終端機。Sanitizer 會把這些字元轉成可見的跳脫序列。
//
// 限制說明：
//   - SanitizeArgs() 只處理 string、error 與 fmt.Stringer 型別的 value
//   - key 不處理，key 一律由程式碼提供
type Sanitizer struct{}

// NewSanitizer 建立 sanitizer
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize escapes control characters in input
func (s *Sanitizer) Sanitize(input string) string {
	return escapeControl(input)
}

// SanitizeArgs escapes the values of key-value logging arguments
func (s *Sanitizer) SanitizeArgs(args []any) []any {
	if len(args) == 0 {
		return args
	}

	result := make([]any, len(args))
	copy(result, args)

	for i := 1; i < len(result); i += 2 {
		switch v := result[i].(type) {
		case string:
			result[i] = escapeControl(v)
		case error:
			result[i] = escapeControl(v.Error())
		case interface{ String() string }:
			result[i] = escapeControl(v.String())
		}
	}

	return result
}

// escapeControl 將控制字元轉為 Go 跳脫序列，其餘字元保持不變
func escapeControl(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
			continue
		}
		q := strconv.QuoteRune(r)
		b.WriteString(q[1 : len(q)-1])
	}
	return b.String()
}
