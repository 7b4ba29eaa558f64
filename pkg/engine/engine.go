package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/makingkaiser/exa-fraud/pkg/config"
	"github.com/makingkaiser/exa-fraud/pkg/logger"
	dm "github.com/makingkaiser/exa-fraud/pkg/model"
	"github.com/makingkaiser/exa-fraud/pkg/search"
)

// sleep 重试退避使用的等待函数，测试时可替换
var sleep = time.Sleep

// systemPrompt 风险分析师人设与反过度反应规则
const systemPrompt = "You are an expert logistics risk analyst. Your goal is to identify operational risks " +
	"and potential fraud in the trucking industry. DO NOT automatically assume that a lack of public records " +
	"or FMCSA registration indicates fraud or a stolen identity. Instead, categorize these as " +
	"'Business Verification Gaps' or 'Documentation Deficiencies'. Focus on identifying actual red flags " +
	"like mismatched contact info, known scam patterns, or recent malicious activity. Be objective and nuanced. " +
	"Respond with a single JSON object only, without any markdown markup."

// maxResultTextLen 单条搜索结果正文写入提示词前的截断长度
const maxResultTextLen = 4000

// Engine 报告生成引擎：组装提示词并调用 LLM 产出结构化的欺诈风险报告
type Engine struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
}

// NewEngine 创建引擎实例
func NewEngine(cfg *config.Config) (*Engine, error) {
	ctx := context.Background()

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM init failed: %w", err)
	}

	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	burst := cfg.Concurrency.QPS
	limiter := rate.NewLimiter(limit, burst)

	return newEngineWithModel(chatModel, limiter), nil
}

func newEngineWithModel(cm model.ChatModel, limiter *rate.Limiter) *Engine {
	return &Engine{chatModel: cm, limiter: limiter}
}

// GenerateReport 基于三组检索结果生成结构化风险报告。
// 返回值已通过 RiskReport.Validate 校验；校验不通过视为生成失败，不合成兜底报告。
func (e *Engine) GenerateReport(ctx context.Context, carrierName, websiteURL string, registration, reputation, website []search.Result) (*dm.RiskReport, error) {
	userPrompt, err := buildPrompt(carrierName, websiteURL, registration, reputation, website)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	logger.Log.Infof("开始为承运商 [%s] 生成风险报告", carrierName)

	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: systemPrompt},
			{Role: schema.User, Content: userPrompt},
		}

		resp, err := e.chatModel.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					delay := baseDelay * time.Duration(1<<i)
					logger.Log.Warnf("触发 429 限流，等待 %v 后重试 (%d/%d)...", delay, i+1, maxRetries)
					sleep(delay)
					continue
				}
			}
			return nil, err
		}

		cleanContent := strings.TrimSpace(resp.Content)
		cleanContent = strings.TrimPrefix(cleanContent, "```json")
		cleanContent = strings.TrimPrefix(cleanContent, "```")
		cleanContent = strings.TrimSuffix(cleanContent, "```")

		var report dm.RiskReport
		if err := json.Unmarshal([]byte(cleanContent), &report); err != nil {
			lastErr = fmt.Errorf("json unmarshal: %w", err)
			if i < maxRetries {
				logger.Log.Warnf("JSON 解析失败，重试 (%d/%d): %v", i+1, maxRetries, lastErr)
				continue
			}
			return nil, lastErr
		}

		if err := report.Validate(); err != nil {
			lastErr = fmt.Errorf("report validation: %w", err)
			if i < maxRetries {
				logger.Log.Warnf("报告校验失败，重试 (%d/%d): %v", i+1, maxRetries, lastErr)
				continue
			}
			return nil, lastErr
		}

		logger.Log.Infof("承运商 [%s] 风险报告生成完成 (Score: %d, Level: %s)", carrierName, report.RiskScore, report.RiskLevel)
		return &report, nil
	}
	return nil, lastErr
}

// buildPrompt 组装用户提示词：三组检索结果原样序列化为上下文，外加业务规则与输出格式约定
func buildPrompt(carrierName, websiteURL string, registration, reputation, website []search.Result) (string, error) {
	site := websiteURL
	if site == "" {
		site = "Not provided"
	}

	regData, err := marshalResults(registration)
	if err != nil {
		return "", err
	}
	repData, err := marshalResults(reputation)
	if err != nil {
		return "", err
	}
	webData := "No website data provided."
	if websiteURL != "" {
		webData, err = marshalResults(website)
		if err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze the following research data for the carrier: %s\n", carrierName)
	fmt.Fprintf(&sb, "Website: %s\n\n", site)
	fmt.Fprintf(&sb, "BUSINESS REGISTRATION & OFFICIAL DATA:\n%s\n\n", regData)
	fmt.Fprintf(&sb, "REPUTATION, REVIEWS & INDUSTRY ALERTS:\n%s\n\n", repData)
	fmt.Fprintf(&sb, "WEBSITE DATA:\n%s\n\n", webData)

	sb.WriteString(`Based on this information, generate a nuanced fraud and operational risk report.

CRITICAL INSTRUCTIONS:
1. If no FMCSA or official records are found, DO NOT label this as 'Fraud' or 'Stolen Identity'. Label it as 'Business Verification Gap' or 'Limited Public Record'.
2. A lack of compliance data is an operational risk, not necessarily a fraudulent intent.
3. Only flag 'Critical' or 'High' risk if there are explicit reports of theft, double-brokering scams, or clear evidence of impersonation (e.g., the website claims to be a 20-year-old company but was registered last week).
4. Negative online reputation (e.g., reports of non-payment, cargo theft, or 'do not load' alerts in industry forums) MUST be categorized as a 'Critical' severity indicator.
5. DO NOT flag simple name mismatches between different sources as an alert, as these are often due to clerical variations.
6. Focus on 'Strategic Theft' indicators: recent domain changes, phone number mismatches across different sources, or use of free email providers for high-value load requests.

Return strictly the following JSON structure:
{
	"riskScore": <integer 0-100>,
	"riskLevel": "Low" | "Medium" | "High" | "Critical",
	"summary": [{"heading": "<nuanced heading starting with an emoji, e.g. \"📋 Registration Status\", \"🔍 Fraud History\">", "text": "<finding>"}],
	"riskIndicators": [{"indicator": "<name>", "severity": "Low" | "Medium" | "High" | "Critical", "description": "<detail>"}],
	"principals": [{"name": "<name>", "role": "<role>", "linkedInUrl": "<optional url>"}]
}
The summary holds at most 6 entries. Sort riskIndicators by severity: Critical first, then High, Medium, Low.`)

	return sb.String(), nil
}

// marshalResults 序列化检索结果，过长的正文先行截断以控制上下文长度
func marshalResults(results []search.Result) (string, error) {
	trimmed := make([]search.Result, len(results))
	copy(trimmed, results)
	for i := range trimmed {
		trimmed[i].Text = search.TruncateText(trimmed[i].Text, maxResultTextLen)
	}

	data, err := json.MarshalIndent(trimmed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal search results: %w", err)
	}
	return string(data), nil
}
