package model

import "time"

// Article 单条新闻的原始信息，抓取后不再修改
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Tier 兴趣等级，由评分映射得到
type Tier string

const (
	TierNews     Tier = "NEWS"
	TierTrending Tier = "TRENDING"
	TierHot      Tier = "HOT"
	TierBreaking Tier = "BREAKING"
)

// TierForScore 评分到等级的映射，边界均为闭区间：
// 1-3 NEWS, 4-6 TRENDING, 7-8 HOT, 9-10 BREAKING
func TierForScore(score int) Tier {
	switch {
	case score <= 3:
		return TierNews
	case score <= 6:
		return TierTrending
	case score <= 8:
		return TierHot
	default:
		return TierBreaking
	}
}

// Label 用于展示的等级前缀
func (t Tier) Label() string {
	switch t {
	case TierBreaking:
		return "BREAKING"
	case TierHot:
		return "HOT"
	case TierTrending:
		return "TRENDING"
	default:
		return "NEWS"
	}
}

// RankedArticle 附带兴趣评分与等级的文章，评分赋值后不再变动
type RankedArticle struct {
	Article
	Score int  `json:"interest_score"`
	Tier  Tier `json:"interest_tier"`
}

// EnhancedArticle 附带改写标题的文章，原标题保留以便审计
type EnhancedArticle struct {
	RankedArticle
	Headline          string `json:"headline"`
	EnhancementFailed bool   `json:"enhancement_failed,omitempty"`
}
