package host

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/iWorld-y/news_agent/internal/conversation"
	"github.com/iWorld-y/news_agent/internal/logger"
	"github.com/iWorld-y/news_agent/internal/model"
	"github.com/iWorld-y/news_agent/internal/newsapi"
	"github.com/iWorld-y/news_agent/internal/ranker"
)

// Intent 封闭的意图集合，分发表的键
type Intent string

const (
	IntentFetch     Intent = "fetch"
	IntentHeadlines Intent = "headlines"
	IntentSummary   Intent = "summary"
	IntentQuestion  Intent = "question"
)

// Request 一次能力调用的输入：用户消息与当前会话的文章快照
type Request struct {
	Message  string
	Mode     conversation.SummaryMode
	Articles []model.EnhancedArticle
}

// Response 能力调用的输出。Articles 非 nil 时替换会话快照
type Response struct {
	Text     string
	Articles []model.EnhancedArticle
}

// Capability 所有能力实现的统一调用接口。
// 实现必须无共享可变状态，可以任意顺序、任意并发地重复调用
type Capability interface {
	Name() string
	Invoke(ctx context.Context, req *Request) (*Response, error)
}

// ArticleFetcher 拉取原始文章
type ArticleFetcher interface {
	Fetch(ctx context.Context) ([]model.Article, error)
}

// HeadlineRewriter 批量改写标题
type HeadlineRewriter interface {
	RewriteAll(ctx context.Context, ranked []model.RankedArticle) []model.EnhancedArticle
}

// Conversationalist 问答与语音摘要
type Conversationalist interface {
	Answer(ctx context.Context, question string, articles []model.EnhancedArticle) string
	AudioSummary(ctx context.Context, mode conversation.SummaryMode, articles []model.EnhancedArticle) conversation.Summary
}

// Host 持有分发表与会话状态，把用户消息路由到对应能力
type Host struct {
	caps map[Intent]Capability

	mu       sync.Mutex
	sessions map[string][]model.EnhancedArticle
}

// New 组装分发表。能力集合是封闭的，新增意图需要同时扩展分类器
func New(f ArticleFetcher, r HeadlineRewriter, c Conversationalist) *Host {
	return &Host{
		caps: map[Intent]Capability{
			IntentFetch:     &fetchCapability{fetcher: f},
			IntentHeadlines: &headlinesCapability{rewriter: r},
			IntentSummary:   &summaryCapability{conv: c},
			IntentQuestion:  &questionCapability{conv: c},
		},
		sessions: make(map[string][]model.EnhancedArticle),
	}
}

// Handle 处理一条用户消息：分类意图、查表分发、更新会话快照。
// 所有失败都转换为用户可见的提示，不向上抛错
func (h *Host) Handle(ctx context.Context, sessionID, message string) string {
	intent := ClassifyIntent(message)
	c, ok := h.caps[intent]
	if !ok {
		c = h.caps[IntentQuestion]
	}

	req := &Request{
		Message:  message,
		Mode:     DetectMode(message),
		Articles: h.snapshot(sessionID),
	}

	resp, err := c.Invoke(ctx, req)
	if err != nil {
		if errors.Is(err, newsapi.ErrMissingCredential) {
			return "The news API key is not configured. Set GNEWS_API_KEY (or TAVILY_API_KEY) and ask again."
		}
		logger.Log.Errorf("capability %s failed: %v", c.Name(), err)
		return "Something went wrong while handling that. Please try again."
	}

	if resp.Articles != nil {
		h.store(sessionID, resp.Articles)
	}
	return resp.Text
}

func (h *Host) snapshot(sessionID string) []model.EnhancedArticle {
	h.mu.Lock()
	defer h.mu.Unlock()
	stored := h.sessions[sessionID]
	out := make([]model.EnhancedArticle, len(stored))
	copy(out, stored)
	return out
}

func (h *Host) store(sessionID string, articles []model.EnhancedArticle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[sessionID] = articles
}

// ClassifyIntent 基于关键词的意图分类，默认落到问答
func ClassifyIntent(message string) Intent {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "headline"):
		return IntentHeadlines
	case containsAny(m, "summary", "summarize", "briefing", "recap"):
		return IntentSummary
	case containsAny(m, "latest", "fetch", "refresh", "get news"):
		return IntentFetch
	default:
		return IntentQuestion
	}
}

// DetectMode 从消息中提取摘要详略模式，默认 brief
func DetectMode(message string) conversation.SummaryMode {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "detailed"):
		return conversation.ModeDetailed
	case strings.Contains(m, "highlight"):
		return conversation.ModeHighlights
	default:
		return conversation.ModeBrief
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// fetchCapability 拉取并排序，结果写入会话快照
type fetchCapability struct {
	fetcher ArticleFetcher
}

func (c *fetchCapability) Name() string { return "news_fetcher" }

func (c *fetchCapability) Invoke(ctx context.Context, _ *Request) (*Response, error) {
	articles, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	ranked := ranker.Rank(articles)
	if len(ranked) == 0 {
		return &Response{
			Text:     "I couldn't find any AI news in the last 24 hours. Try again in a little while.",
			Articles: []model.EnhancedArticle{},
		}, nil
	}

	enhanced := make([]model.EnhancedArticle, 0, len(ranked))
	for _, ra := range ranked {
		enhanced = append(enhanced, model.EnhancedArticle{RankedArticle: ra})
	}

	return &Response{
		Text:     formatRankedList(enhanced),
		Articles: enhanced,
	}, nil
}

// formatRankedList 按从最无趣到最有趣列出，结尾点出前三条
func formatRankedList(articles []model.EnhancedArticle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are %d AI stories from the last 24 hours, least to most interesting:\n", len(articles))
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. [%s %d/10] %s (%s)\n", i+1, a.Tier.Label(), a.Score, a.Title, a.Source)
	}
	sb.WriteString("\nAsk me to generate headlines, create a summary, or ask about any story.")
	return sb.String()
}

// headlinesCapability 为当前会话的文章改写标题
type headlinesCapability struct {
	rewriter HeadlineRewriter
}

func (c *headlinesCapability) Name() string { return "headline_generator" }

func (c *headlinesCapability) Invoke(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Articles) == 0 {
		return &Response{Text: "There are no articles to rewrite yet. Ask me for the latest news first."}, nil
	}

	ranked := make([]model.RankedArticle, 0, len(req.Articles))
	for _, a := range req.Articles {
		ranked = append(ranked, a.RankedArticle)
	}
	enhanced := c.rewriter.RewriteAll(ctx, ranked)

	var sb strings.Builder
	sb.WriteString("Rewritten headlines:\n")
	failed := 0
	for i, a := range enhanced {
		marker := ""
		if a.EnhancementFailed {
			marker = " (kept original)"
			failed++
		}
		fmt.Fprintf(&sb, "%d. [%s] %s%s\n", i+1, a.Tier.Label(), a.Headline, marker)
	}
	if failed > 0 {
		fmt.Fprintf(&sb, "\n%d headline(s) could not be rewritten and kept their original titles.", failed)
	}

	return &Response{Text: sb.String(), Articles: enhanced}, nil
}

// summaryCapability 语音摘要
type summaryCapability struct {
	conv Conversationalist
}

func (c *summaryCapability) Name() string { return "audio_summary" }

func (c *summaryCapability) Invoke(ctx context.Context, req *Request) (*Response, error) {
	s := c.conv.AudioSummary(ctx, req.Mode, req.Articles)
	return &Response{Text: s.Text}, nil
}

// questionCapability 基于文章上下文的问答
type questionCapability struct {
	conv Conversationalist
}

func (c *questionCapability) Name() string { return "news_qa" }

func (c *questionCapability) Invoke(ctx context.Context, req *Request) (*Response, error) {
	return &Response{Text: c.conv.Answer(ctx, req.Message, req.Articles)}, nil
}
