package ranker

import (
	"sort"
	"strings"

	"github.com/iWorld-y/news_agent/internal/logger"
	"github.com/iWorld-y/news_agent/internal/model"
)

// 关键词集合与分值增量。具体词表是可调参数而非硬性约定，
// 调整时保持"出现即计一次"的规则不变
var (
	breakthroughTerms = []string{"breakthrough", "revolutionary"}
	majorTerms        = []string{"major", "significant"}
	launchTerms       = []string{"announces", "launches"}
	lowSignalTerms    = []string{"minor", "slight", "routine", "rumor"}
)

const (
	baseScore = 5
	minScore  = 1
	maxScore  = 10
)

// Rank 为每篇文章计算兴趣评分并按评分升序排列（最无趣在前）。
// 评分相同的文章保持输入顺序；缺少标题的文章跳过并记录告警。
// 空输入返回空结果，不视为错误
func Rank(articles []model.Article) []model.RankedArticle {
	ranked := make([]model.RankedArticle, 0, len(articles))
	for _, a := range articles {
		if strings.TrimSpace(a.Title) == "" {
			logger.Log.Warnf("skipping article without title: %s", a.URL)
			continue
		}
		score := Score(a)
		ranked = append(ranked, model.RankedArticle{
			Article: a,
			Score:   score,
			Tier:    model.TierForScore(score),
		})
	}

	// 显式使用稳定排序：同分文章的相对顺序是约定行为，不是实现巧合
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})

	return ranked
}

// Score 计算单篇文章的兴趣评分，确定性且无副作用。
// 基础分 5，按关键词集合的出现情况加减分，夹取到 [1,10]
func Score(a model.Article) int {
	text := strings.ToLower(a.Title + " " + a.Description + " " + a.Content)

	score := baseScore
	if containsAny(text, breakthroughTerms) {
		score += 3
	}
	if containsAny(text, majorTerms) {
		score += 2
	}
	if containsAny(text, launchTerms) {
		score++
	}
	if containsAny(text, lowSignalTerms) {
		score--
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
