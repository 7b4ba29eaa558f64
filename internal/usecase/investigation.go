package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"github.com/makingkaiser/exa-fraud/pkg/model"
	"github.com/makingkaiser/exa-fraud/pkg/search"
)

// 检索计划：查询模板与结果数量
const (
	registrationQueryTpl = "%s trucking carrier business registration safety rating history FMCSA records"
	reputationQueryTpl   = "%s carrier reputation reviews complaints suspicious activity cargo theft logistics industry forums"
	websiteQueryTpl      = "site:%s contact information address phone number about us"

	registrationNumResults = 10
	reputationNumResults   = 10
	websiteNumResults      = 3
)

const (
	// investigationTimeout 整个调查的时间上限，超时即整体失败
	investigationTimeout = 100 * time.Second

	// fetchTimeout 单次补抓的时间上限
	fetchTimeout = 30 * time.Second

	// minTextLen 低于该长度的网站结果正文会尝试补抓
	minTextLen = 500
	// maxTextLen 网站结果正文截断长度
	maxTextLen = 5000
)

// ErrCarrierNameRequired 缺少承运商名称时返回，由传输层映射为 400
var ErrCarrierNameRequired = errors.New("Carrier Name is required")

// fetchReadable 抓取 URL 并提取核心文本，测试时可替换。
// 调用方取消时放弃在途请求。
var fetchReadable = func(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// ReportGenerator 报告生成接口，由使用方定义
type ReportGenerator interface {
	GenerateReport(ctx context.Context, carrierName, websiteURL string, registration, reputation, website []search.Result) (*model.RiskReport, error)
}

// InvestigationUseCase 承运商欺诈调查业务逻辑
type InvestigationUseCase struct {
	searcher  search.Searcher
	generator ReportGenerator
	log       *log.Helper
}

// NewInvestigationUseCase 创建调查业务逻辑实例
func NewInvestigationUseCase(searcher search.Searcher, generator ReportGenerator, logger log.Logger) *InvestigationUseCase {
	return &InvestigationUseCase{
		searcher:  searcher,
		generator: generator,
		log:       log.NewHelper(logger),
	}
}

// Investigate 执行一次完整调查：并发发起检索，全部完成后生成报告。
// 任一上游失败则整体失败，不返回部分结果。
func (uc *InvestigationUseCase) Investigate(ctx context.Context, carrierName, websiteURL string) (*model.InvestigationResult, error) {
	carrierName = strings.TrimSpace(carrierName)
	if carrierName == "" {
		return nil, ErrCarrierNameRequired
	}

	ctx, cancel := context.WithTimeout(ctx, investigationTimeout)
	defer cancel()

	uc.log.WithContext(ctx).Infof("investigating carrier %q (website: %q)", carrierName, websiteURL)

	// 注册信息与声誉信息两路检索相互独立；网站检索仅在提供了网址时发起。
	// 生成调用依赖全部检索结果，必须等待所有检索完成。
	var registration, reputation, website []search.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := uc.searcher.Search(gctx, &search.Request{
			Query:         fmt.Sprintf(registrationQueryTpl, carrierName),
			NumResults:    registrationNumResults,
			Text:          true,
			UseAutoprompt: true,
		})
		if err != nil {
			return fmt.Errorf("registration search: %w", err)
		}
		registration = resp.Results
		return nil
	})
	g.Go(func() error {
		resp, err := uc.searcher.Search(gctx, &search.Request{
			Query:         fmt.Sprintf(reputationQueryTpl, carrierName),
			NumResults:    reputationNumResults,
			Text:          true,
			UseAutoprompt: true,
		})
		if err != nil {
			return fmt.Errorf("reputation search: %w", err)
		}
		reputation = resp.Results
		return nil
	})
	if websiteURL != "" {
		g.Go(func() error {
			resp, err := uc.searcher.Search(gctx, &search.Request{
				Query:      fmt.Sprintf(websiteQueryTpl, websiteURL),
				NumResults: websiteNumResults,
				Text:       true,
			})
			if err != nil {
				return fmt.Errorf("website search: %w", err)
			}
			website = enrichResults(gctx, resp.Results)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report, err := uc.generator.GenerateReport(ctx, carrierName, websiteURL, registration, reputation, website)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	if reputation == nil {
		reputation = []search.Result{}
	}
	return &model.InvestigationResult{
		Report:           report,
		RelatedIncidents: reputation,
	}, nil
}

// enrichResults 对正文过短的结果补抓页面内容并截断过长正文
func enrichResults(ctx context.Context, results []search.Result) []search.Result {
	for i := range results {
		if len(results[i].Text) < minTextLen {
			fetched, err := fetchReadable(ctx, results[i].URL)
			if err == nil && len(fetched) > len(results[i].Text) {
				results[i].Text = fetched
			}
		}
		results[i].Text = search.TruncateText(results[i].Text, maxTextLen)
	}
	return results
}
