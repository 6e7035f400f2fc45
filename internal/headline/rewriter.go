package headline

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/news_agent/internal/llm"
	"github.com/iWorld-y/news_agent/internal/logger"
	"github.com/iWorld-y/news_agent/internal/model"
)

const systemPrompt = "You are a news headline editor. Reply with the rewritten headline only, no quotes, no commentary."

// styleForTier 兴趣等级对应的语气强度，NEWS 平实、BREAKING 最高
func styleForTier(tier model.Tier) string {
	switch tier {
	case model.TierBreaking:
		return "maximally urgent and sensational"
	case model.TierHot:
		return "very exciting and attention-grabbing"
	case model.TierTrending:
		return "interesting and engaging"
	default:
		return "clear, neutral and informative"
	}
}

// Rewriter 调用 LLM 将原始标题改写为更吸引人的版本
type Rewriter struct {
	llm *llm.Client
}

// New 创建标题改写器
func New(client *llm.Client) *Rewriter {
	return &Rewriter{llm: client}
}

// Rewrite 改写单篇文章的标题。任何失败都回退为原标题并打上
// EnhancementFailed 标记，从不让失败中断整体流程。
// 原标题始终保留在 Title 字段，改写结果只写入 Headline
func (r *Rewriter) Rewrite(ctx context.Context, ra model.RankedArticle) model.EnhancedArticle {
	enhanced := model.EnhancedArticle{RankedArticle: ra}

	prompt := buildPrompt(ra)
	generated, err := r.llm.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		logger.Log.Warnf("headline generation failed, keeping original [%s]: %v", ra.Title, err)
		enhanced.Headline = ra.Title
		enhanced.EnhancementFailed = true
		return enhanced
	}

	headline := firstLine(generated)
	if headline == "" {
		logger.Log.Warnf("headline generation returned nothing, keeping original [%s]", ra.Title)
		enhanced.Headline = ra.Title
		enhanced.EnhancementFailed = true
		return enhanced
	}

	enhanced.Headline = headline
	return enhanced
}

// RewriteAll 逐篇改写，保持输入顺序
func (r *Rewriter) RewriteAll(ctx context.Context, ranked []model.RankedArticle) []model.EnhancedArticle {
	enhanced := make([]model.EnhancedArticle, 0, len(ranked))
	for _, ra := range ranked {
		enhanced = append(enhanced, r.Rewrite(ctx, ra))
	}
	return enhanced
}

func buildPrompt(ra model.RankedArticle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rewrite this AI news headline in a %s register.\n\n", styleForTier(ra.Tier))
	fmt.Fprintf(&sb, "Original: %s\n", ra.Title)
	if ra.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", ra.Description)
	}
	fmt.Fprintf(&sb, "Interest level: %d/10 (%s)\n\n", ra.Score, ra.Tier.Label())
	sb.WriteString("Requirements:\n")
	sb.WriteString("1. Keep every fact of the original: same subject, same action, same object.\n")
	sb.WriteString("2. Do not invent numbers, names or claims.\n")
	sb.WriteString("3. Keep it under 100 characters if possible.\n")
	sb.WriteString("4. Return only the new headline.")
	return sb.String()
}

// firstLine 取第一行非空文本并去掉包裹引号
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"`)
		if line != "" {
			return line
		}
	}
	return ""
}
