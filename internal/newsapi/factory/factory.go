package factory

import (
	"fmt"

	"github.com/iWorld-y/news_agent/internal/config"
	"github.com/iWorld-y/news_agent/internal/newsapi"
	"github.com/iWorld-y/news_agent/internal/newsapi/gnews"
	"github.com/iWorld-y/news_agent/internal/newsapi/tavily"
)

// NewSource 根据配置创建新闻检索实例。
// provider 留空时按可用凭证回退；两个凭证都缺失时仍返回可用实例，
// 由客户端在实际调用时报告 ErrMissingCredential
func NewSource(cfg *config.Config) (newsapi.Source, error) {
	provider := cfg.News.Provider
	if provider == "" {
		if cfg.News.Tavily.APIKey != "" && cfg.News.GNews.APIKey == "" {
			provider = "tavily"
		} else {
			provider = "gnews"
		}
	}

	switch provider {
	case "gnews":
		return gnews.NewClient(cfg.News.GNews.APIKey, cfg.News.GNews.Endpoint), nil
	case "tavily":
		return tavily.NewClient(cfg.News.Tavily.APIKey, ""), nil
	default:
		return nil, fmt.Errorf("unknown news provider: %s", provider)
	}
}
