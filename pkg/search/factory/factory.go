package factory

import (
	"fmt"

	"github.com/makingkaiser/exa-fraud/pkg/config"
	"github.com/makingkaiser/exa-fraud/pkg/exa"
	"github.com/makingkaiser/exa-fraud/pkg/search"
	"github.com/makingkaiser/exa-fraud/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		// 默认回退逻辑：有 exa key 则使用 exa
		if cfg.Search.Exa.APIKey != "" {
			provider = "exa"
		} else {
			return nil, fmt.Errorf("search provider not configured")
		}
	}

	switch provider {
	case "exa":
		if cfg.Search.Exa.APIKey == "" {
			return nil, fmt.Errorf("exa api key is missing")
		}
		return exa.NewClient(cfg.Search.Exa.APIKey), nil

	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
