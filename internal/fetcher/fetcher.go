package fetcher

import (
	"context"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/news_agent/internal/logger"
	"github.com/iWorld-y/news_agent/internal/model"
	"github.com/iWorld-y/news_agent/internal/newsapi"
)

// DefaultQuery 固定的 AI 领域检索词，与 GNews 的 OR 语法兼容
const DefaultQuery = "artificial intelligence OR AI OR machine learning OR deep learning OR neural networks OR LLM OR GPT OR generative AI"

// 正文短于该长度时尝试抓取原文补全
const minContentLen = 200

// Options 抓取选项
type Options struct {
	Query       string
	WindowHours int
	MaxArticles int
	Enrich      bool // 是否抓取原文补全过短的正文
}

// Fetcher 从新闻检索 API 拉取原始文章
type Fetcher struct {
	source newsapi.Source
	opts   Options
}

// New 创建抓取器，零值选项回退到默认检索词、24 小时窗口和 10 条上限
func New(source newsapi.Source, opts Options) *Fetcher {
	if opts.Query == "" {
		opts.Query = DefaultQuery
	}
	if opts.WindowHours <= 0 {
		opts.WindowHours = 24
	}
	if opts.MaxArticles <= 0 || opts.MaxArticles > 10 {
		opts.MaxArticles = 10
	}
	return &Fetcher{source: source, opts: opts}
}

// Fetch 拉取时间窗口内的文章。
// 凭证缺失原样返回 newsapi.ErrMissingCredential 由调用方提示用户；
// 其他上游失败降级为空列表并记录日志，不向上传播
func (f *Fetcher) Fetch(ctx context.Context) ([]model.Article, error) {
	now := time.Now().UTC()
	req := &newsapi.Request{
		Query:      f.opts.Query,
		Lang:       "en",
		Country:    "us",
		MaxResults: f.opts.MaxArticles,
		StartDate:  now.Add(-time.Duration(f.opts.WindowHours) * time.Hour).Format(time.RFC3339),
		EndDate:    now.Format(time.RFC3339),
	}

	resp, err := f.source.Search(ctx, req)
	if err != nil {
		if err == newsapi.ErrMissingCredential {
			return nil, err
		}
		logger.Log.Warnf("news search failed, continuing with no articles: %v", err)
		return nil, nil
	}

	articles := make([]model.Article, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.URL == "" {
			logger.Log.Warnf("skipping result without url: %q", r.Title)
			continue
		}

		content := r.Content
		if f.opts.Enrich && len(content) < minContentLen {
			if fetched, err := fetchAndCleanContent(r.URL); err == nil && len(fetched) > len(content) {
				content = fetched
			} else if err != nil {
				logger.Log.Warnf("fetching full text failed, keeping search snippet [%s]: %v", r.Title, err)
			}
		}

		articles = append(articles, model.Article{
			Title:       r.Title,
			Description: r.Description,
			Content:     content,
			URL:         r.URL,
			Source:      r.Source,
			PublishedAt: parsePublished(r.PublishedDate),
		})
		if len(articles) >= f.opts.MaxArticles {
			break
		}
	}

	return articles, nil
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(url string) (string, error) {
	article, err := readability.FromURL(url, 10*time.Second)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// parsePublished 解析上游的发布时间，格式不符时返回零值而不是丢弃文章
func parsePublished(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
