package server

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/makingkaiser/exa-fraud/internal/conf"
	"github.com/makingkaiser/exa-fraud/pkg/config"
	"github.com/makingkaiser/exa-fraud/pkg/engine"
	fdLogger "github.com/makingkaiser/exa-fraud/pkg/logger"
	"github.com/makingkaiser/exa-fraud/pkg/search"
	"github.com/makingkaiser/exa-fraud/pkg/search/factory"
)

// NewDetector 初始化搜索客户端与报告生成引擎
func NewDetector(c *conf.Detector, logger log.Logger) (search.Searcher, *engine.Engine, error) {
	helper := log.NewHelper(logger)

	if c == nil || c.Llm == nil || c.Search == nil || c.Log == nil || c.Concurrency == nil {
		return nil, nil, fmt.Errorf("detector config incomplete: llm, search, log and concurrency sections are required")
	}

	// 将 internal/conf.Detector 转换为 pkg/config.Config
	cfg := &config.Config{
		LLM: config.LLMConfig{
			BaseURL: c.Llm.BaseUrl,
			APIKey:  c.Llm.ApiKey,
			Model:   c.Llm.Model,
		},
		Search: config.SearchConfig{
			Provider: c.Search.Provider,
		},
		Log: config.LogConfig{
			Level: c.Log.Level,
			File:  c.Log.File,
		},
		Concurrency: config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		},
	}
	if c.Search.Exa != nil {
		cfg.Search.Exa = config.ExaConfig{APIKey: c.Search.Exa.ApiKey}
	}
	if c.Search.Tavily != nil {
		cfg.Search.Tavily = config.TavilyConfig{APIKey: c.Search.Tavily.ApiKey}
	}

	// 初始化日志
	if err := fdLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init detector logger: %v", err)
		_ = fdLogger.InitLogger("info", "") // 降级处理
	}

	// 初始化搜索客户端
	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		helper.Errorf("Failed to init searcher: %v", err)
		return nil, nil, err
	}

	// 初始化报告生成引擎
	eng, err := engine.NewEngine(cfg)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	return searcher, eng, nil
}
