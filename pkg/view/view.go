package view

import (
	"net/url"
	"sort"
	"strings"

	dm "github.com/makingkaiser/exa-fraud/pkg/model"
)

// SortIndicators 返回按严重程度稳定排序的新切片（Critical 最前）。
// 生成端虽被要求预排序，但上游顺序不可信，展示前必须重排。
func SortIndicators(indicators []dm.RiskIndicator) []dm.RiskIndicator {
	sorted := make([]dm.RiskIndicator, len(indicators))
	copy(sorted, indicators)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	return sorted
}

// Heading 拆分后的摘要标题。Glyph 为空表示标题不以 emoji 开头。
type Heading struct {
	Glyph string
	Text  string
}

// SplitHeading 按第一个空格分隔的词判断标题是否以 emoji 开头，
// 是则拆出独立的 glyph，否则整体作为纯文本标题。对任意输入都不会失败。
func SplitHeading(heading string) Heading {
	first, rest, _ := strings.Cut(heading, " ")
	if !leadsWithEmoji(first) {
		return Heading{Text: heading}
	}
	return Heading{Glyph: first, Text: rest}
}

// leadsWithEmoji 宽泛的 Unicode 区段启发式判断。
// 会对部分符号误报、对多码点 emoji 序列漏报，只作尽力而为的展示判断。
func leadsWithEmoji(token string) bool {
	for _, r := range token {
		switch {
		case r == 0x00A9 || r == 0x00AE: // © ®
			return true
		case r >= 0x2000 && r <= 0x3300: // 常用符号与标点区段
			return true
		case r >= 0x1F000 && r <= 0x1FFFF: // emoji 补充区段
			return true
		}
	}
	return false
}

// ScoreColor 风险分值分档配色。与四级 riskLevel 相互独立，不做一致性约束。
func ScoreColor(score int) string {
	switch {
	case score < 30:
		return "green"
	case score < 60:
		return "yellow"
	case score < 85:
		return "orange"
	default:
		return "red"
	}
}

// LevelColor 风险等级徽标配色
func LevelColor(level dm.Severity) string {
	switch level {
	case dm.SeverityLow:
		return "green"
	case dm.SeverityMedium:
		return "yellow"
	case dm.SeverityHigh:
		return "orange"
	case dm.SeverityCritical:
		return "red"
	default:
		return "gray"
	}
}

// ExtractDomain 从 URL 提取用于展示的域名，去掉开头的 www. 标签。
// 解析失败时原样返回输入，绝不 panic。
func ExtractDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
