package model

import (
	"fmt"

	"github.com/makingkaiser/exa-fraud/pkg/search"
)

// Severity 风险严重程度，同时用作整体风险等级
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Rank 返回用于排序的数值，数值越小越紧急（Critical 最前）
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Valid 判断是否为约定的四个等级之一
func (s Severity) Valid() bool {
	return s.Rank() < 4
}

// MaxSummaryItems 调查摘要的最大条目数
const MaxSummaryItems = 6

// SummaryItem 调查摘要条目，heading 约定以一个 emoji 开头
type SummaryItem struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// RiskIndicator 单条风险指标
type RiskIndicator struct {
	Indicator   string   `json:"indicator"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Principal 识别出的公司负责人
type Principal struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	LinkedInURL string `json:"linkedInUrl,omitempty"`
}

// RiskReport LLM 按约定结构返回的欺诈风险报告
type RiskReport struct {
	RiskScore      int             `json:"riskScore"`
	RiskLevel      Severity        `json:"riskLevel"`
	Summary        []SummaryItem   `json:"summary"`
	RiskIndicators []RiskIndicator `json:"riskIndicators"`
	Principals     []Principal     `json:"principals"`
}

// Validate 校验报告是否符合结构约定。
// LLM 输出是外部输入，不符合约定时必须整体失败，不做静默修正。
func (r *RiskReport) Validate() error {
	if r.RiskScore < 0 || r.RiskScore > 100 {
		return fmt.Errorf("riskScore %d out of range [0, 100]", r.RiskScore)
	}
	if !r.RiskLevel.Valid() {
		return fmt.Errorf("invalid riskLevel %q", r.RiskLevel)
	}
	if len(r.Summary) > MaxSummaryItems {
		return fmt.Errorf("summary has %d entries, max %d", len(r.Summary), MaxSummaryItems)
	}
	for i, ind := range r.RiskIndicators {
		if !ind.Severity.Valid() {
			return fmt.Errorf("riskIndicators[%d]: invalid severity %q", i, ind.Severity)
		}
	}
	return nil
}

// InvestigationResult 一次完整调查的响应体。
// RelatedIncidents 为声誉检索的原始结果，不做过滤。
type InvestigationResult struct {
	Report           *RiskReport     `json:"report"`
	RelatedIncidents []search.Result `json:"relatedIncidents"`
}
