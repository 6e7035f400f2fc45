package conversation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iWorld-y/news_agent/internal/llm"
	"github.com/iWorld-y/news_agent/internal/logger"
	"github.com/iWorld-y/news_agent/internal/model"
)

// NoContextMessage 没有文章上下文时的固定拒答，
// 宁可拒答也不编造没有出处的内容
const NoContextMessage = "I don't have any news articles loaded right now, so I can't answer that. Ask me to fetch the latest AI news first."

// UnavailableMessage 模型不可用时的固定降级回复
const UnavailableMessage = "Sorry, I couldn't reach the language model just now. The articles are still loaded, please try again in a moment."

// SummaryMode 语音摘要的详略模式
type SummaryMode string

const (
	ModeBrief      SummaryMode = "brief"
	ModeDetailed   SummaryMode = "detailed"
	ModeHighlights SummaryMode = "highlights"
)

// ParseMode 解析模式字符串，未知值回退到 brief
func ParseMode(s string) SummaryMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ModeDetailed):
		return ModeDetailed
	case string(ModeHighlights):
		return ModeHighlights
	default:
		return ModeBrief
	}
}

// opener 每种模式的固定开场白
func (m SummaryMode) opener() string {
	switch m {
	case ModeDetailed:
		return "Welcome to your comprehensive AI news briefing."
	case ModeHighlights:
		return "Here are today's most exciting AI developments."
	default:
		return "Here's your AI news update for today."
	}
}

// Summary 语音摘要结果，时长按 150 词/分钟估算
type Summary struct {
	Text             string      `json:"text"`
	Mode             SummaryMode `json:"mode"`
	WordCount        int         `json:"word_count"`
	EstimatedMinutes float64     `json:"estimated_minutes"`
	ArticlesCovered  int         `json:"articles_covered"`
}

// Agent 基于文章上下文的问答与语音摘要
type Agent struct {
	llm *llm.Client
}

// New 创建对话组件
func New(client *llm.Client) *Agent {
	return &Agent{llm: client}
}

// Answer 回答关于文章的自然语言问题。回答必须落在文章正文里，
// 没有上下文时返回固定拒答；模型不可用时降级为固定提示，从不报错到进程层面
func (a *Agent) Answer(ctx context.Context, question string, articles []model.EnhancedArticle) string {
	if len(articles) == 0 {
		return NoContextMessage
	}

	relevant := SelectRelevant(question, articles, 3)

	var sb strings.Builder
	sb.WriteString("Today's AI news articles:\n\n")
	writeArticleContext(&sb, articles)
	if len(relevant) > 0 {
		sb.WriteString("\nMost relevant to the question: ")
		titles := make([]string, 0, len(relevant))
		for _, r := range relevant {
			titles = append(titles, r.Title)
		}
		sb.WriteString(strings.Join(titles, "; "))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nThe user asked: %q\n\n", question)
	sb.WriteString("Answer the question using only the article text above. ")
	sb.WriteString("Reference specific articles, keep the answer to two or three short paragraphs, ")
	sb.WriteString("and if the articles do not contain the answer, say so instead of guessing.")

	answer, err := a.llm.Generate(ctx, answerSystemPrompt, sb.String())
	if err != nil {
		logger.Log.Warnf("answer generation failed: %v", err)
		return UnavailableMessage
	}
	return answer
}

const answerSystemPrompt = "You are an AI news assistant. Ground every statement in the provided articles and never invent facts."

// AudioSummary 生成适合语音播报的摘要：短句、无标记、不读 URL
func (a *Agent) AudioSummary(ctx context.Context, mode SummaryMode, articles []model.EnhancedArticle) Summary {
	if len(articles) == 0 {
		return summaryOf(NoContextMessage, mode, 0)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a %s spoken news summary of the articles below.\n\n", mode)
	writeArticleContext(&sb, articles)
	sb.WriteString("\nRules:\n")
	sb.WriteString("1. Short sentences in natural spoken language.\n")
	sb.WriteString("2. No markdown, no emoji, never read URLs aloud.\n")
	switch mode {
	case ModeDetailed:
		sb.WriteString("3. Cover every story with context and clear transitions, two to three minutes of speech.\n")
	case ModeHighlights:
		sb.WriteString("3. Only the most exciting developments, enthusiastic tone.\n")
	default:
		sb.WriteString("3. The top two or three stories and why they matter, under a minute of speech.\n")
	}
	fmt.Fprintf(&sb, "4. Start with: %s", mode.opener())

	text, err := a.llm.Generate(ctx, summarySystemPrompt, sb.String())
	if err != nil {
		logger.Log.Warnf("audio summary generation failed: %v", err)
		return summaryOf(UnavailableMessage, mode, len(articles))
	}

	return summaryOf(ForSpeech(text), mode, len(articles))
}

const summarySystemPrompt = "You are a radio news anchor. Write text to be read aloud, plain prose only."

func summaryOf(text string, mode SummaryMode, covered int) Summary {
	words := len(strings.Fields(text))
	return Summary{
		Text:             text,
		Mode:             mode,
		WordCount:        words,
		EstimatedMinutes: float64(words) / 150.0,
		ArticlesCovered:  covered,
	}
}

func writeArticleContext(sb *strings.Builder, articles []model.EnhancedArticle) {
	for i, art := range articles {
		title := art.Headline
		if title == "" {
			title = art.Title
		}
		fmt.Fprintf(sb, "%d. [%s] %s\n", i+1, art.Tier.Label(), title)
		if art.Source != "" {
			fmt.Fprintf(sb, "   Source: %s\n", art.Source)
		}
		if art.Description != "" {
			fmt.Fprintf(sb, "   Description: %s\n", art.Description)
		}
		if art.Content != "" {
			fmt.Fprintf(sb, "   Body: %s\n", truncate(art.Content, 1500))
		}
		fmt.Fprintf(sb, "   Interest: %d/10\n", art.Score)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// SelectRelevant 按关键词匹配挑选与问题最相关的文章：
// 长度大于 3 的词在标题命中 +3、描述命中 +1，取前 n 篇
func SelectRelevant(question string, articles []model.EnhancedArticle, n int) []model.EnhancedArticle {
	type scored struct {
		article model.EnhancedArticle
		score   int
		index   int
	}

	words := strings.Fields(strings.ToLower(question))
	var matches []scored
	for i, art := range articles {
		title := strings.ToLower(art.Title)
		desc := strings.ToLower(art.Description)

		score := 0
		for _, w := range words {
			if len(w) <= 3 {
				continue
			}
			if strings.Contains(title, w) {
				score += 3
			} else if strings.Contains(desc, w) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{article: art, score: score, index: i})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if n > len(matches) {
		n = len(matches)
	}
	result := make([]model.EnhancedArticle, 0, n)
	for _, m := range matches[:n] {
		result = append(result, m.article)
	}
	return result
}
