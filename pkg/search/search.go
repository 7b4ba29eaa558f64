package search

import (
	"context"
	"unicode/utf8"
)

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query         string
	NumResults    int
	Text          bool // 是否抓取页面正文
	UseAutoprompt bool // 是否允许服务端改写查询（并非所有提供方支持）
}

// Response 通用搜索响应。零条结果是合法响应，不视为错误。
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	Author        string  `json:"author,omitempty"`
	Text          string  `json:"text,omitempty"`
	PublishedDate string  `json:"publishedDate,omitempty"`
	Score         float64 `json:"score,omitempty"`
}

// TruncateText 将正文截断到不超过 limit 字节，回退到 rune 边界，
// 避免切出无效的 UTF-8 序列。
func TruncateText(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
