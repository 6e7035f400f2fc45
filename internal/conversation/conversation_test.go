package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/news_agent/internal/llm"
	"github.com/iWorld-y/news_agent/internal/model"
)

// fakeChatModel 模拟 ChatModel，记录最后一次收到的用户消息
type fakeChatModel struct {
	reply    string
	err      error
	lastUser string
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	for _, m := range input {
		if m.Role == schema.User {
			f.lastUser = m.Content
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func enhanced(title, description string) model.EnhancedArticle {
	return model.EnhancedArticle{
		RankedArticle: model.RankedArticle{
			Article: model.Article{Title: title, Description: description, URL: "https://example.com/a"},
			Score:   5,
			Tier:    model.TierTrending,
		},
		Headline: title,
	}
}

func TestAnswer_NoContextRefusal(t *testing.T) {
	a := New(llm.NewClientWithModel(&fakeChatModel{reply: "should not be used"}, 0))

	got := a.Answer(context.Background(), "what happened today?", nil)
	if got != NoContextMessage {
		t.Errorf("Answer() = %q, want the no-context message", got)
	}
	if got == "" {
		t.Error("refusal must never be empty")
	}
}

func TestAnswer_UsesArticleContext(t *testing.T) {
	fake := &fakeChatModel{reply: "The funding round was led by example investors."}
	a := New(llm.NewClientWithModel(fake, 0))

	articles := []model.EnhancedArticle{enhanced("AI startup raises funding", "Series B round")}
	got := a.Answer(context.Background(), "who raised funding?", articles)

	if got != "The funding round was led by example investors." {
		t.Errorf("Answer() = %q", got)
	}
	if !strings.Contains(fake.lastUser, "AI startup raises funding") {
		t.Error("prompt does not contain the article context")
	}
	if !strings.Contains(fake.lastUser, "who raised funding?") {
		t.Error("prompt does not contain the question")
	}
}

func TestAnswer_DegradesWhenModelFails(t *testing.T) {
	a := New(llm.NewClientWithModel(&fakeChatModel{err: errors.New("timeout")}, 0))

	got := a.Answer(context.Background(), "anything?", []model.EnhancedArticle{enhanced("Some story", "")})
	if got != UnavailableMessage {
		t.Errorf("Answer() = %q, want the unavailable message", got)
	}
}

func TestAudioSummary_NoContext(t *testing.T) {
	a := New(llm.NewClientWithModel(&fakeChatModel{reply: "unused"}, 0))

	got := a.AudioSummary(context.Background(), ModeBrief, nil)
	if got.Text != NoContextMessage {
		t.Errorf("Text = %q, want the no-context message", got.Text)
	}
	if got.ArticlesCovered != 0 {
		t.Errorf("ArticlesCovered = %d, want 0", got.ArticlesCovered)
	}
}

func TestAudioSummary_ModeShapesPrompt(t *testing.T) {
	tests := []struct {
		mode       SummaryMode
		wantOpener string
	}{
		{ModeBrief, "Here's your AI news update for today."},
		{ModeDetailed, "Welcome to your comprehensive AI news briefing."},
		{ModeHighlights, "Here are today's most exciting AI developments."},
	}

	for _, tt := range tests {
		fake := &fakeChatModel{reply: "Spoken summary text here."}
		a := New(llm.NewClientWithModel(fake, 0))
		a.AudioSummary(context.Background(), tt.mode, []model.EnhancedArticle{enhanced("Story", "")})

		if !strings.Contains(fake.lastUser, tt.wantOpener) {
			t.Errorf("mode %s: prompt missing opener %q", tt.mode, tt.wantOpener)
		}
	}
}

func TestAudioSummary_SanitizesAndMeasures(t *testing.T) {
	fake := &fakeChatModel{reply: "Big news today! 🔥 Read more at https://example.com/story **seriously**."}
	a := New(llm.NewClientWithModel(fake, 0))

	got := a.AudioSummary(context.Background(), ModeBrief, []model.EnhancedArticle{enhanced("Story", "")})

	if strings.Contains(got.Text, "http") {
		t.Errorf("Text still contains a URL: %q", got.Text)
	}
	if strings.Contains(got.Text, "🔥") || strings.Contains(got.Text, "*") {
		t.Errorf("Text still contains markup or emoji: %q", got.Text)
	}
	if got.WordCount == 0 || got.EstimatedMinutes <= 0 {
		t.Errorf("word count/duration not measured: %+v", got)
	}
	if got.ArticlesCovered != 1 {
		t.Errorf("ArticlesCovered = %d, want 1", got.ArticlesCovered)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want SummaryMode
	}{
		{"brief", ModeBrief},
		{"DETAILED", ModeDetailed},
		{" highlights ", ModeHighlights},
		{"", ModeBrief},
		{"bogus", ModeBrief},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSelectRelevant(t *testing.T) {
	articles := []model.EnhancedArticle{
		enhanced("Google updates Gemini model", "new features for the assistant"),
		enhanced("OpenAI announces funding round", "investors join the round"),
		enhanced("Chip market report", "quarterly figures, mentions funding in passing"),
	}

	got := SelectRelevant("tell me about the funding announcement", articles, 3)
	if len(got) == 0 {
		t.Fatal("SelectRelevant() returned nothing")
	}
	if got[0].Title != "OpenAI announces funding round" {
		t.Errorf("top relevant = %q, want the funding article (title hits outweigh description hits)", got[0].Title)
	}

	// 短词不参与匹配
	got = SelectRelevant("ai the and for", articles, 3)
	if len(got) != 0 {
		t.Errorf("SelectRelevant(short words) = %d articles, want 0", len(got))
	}
}

func TestForSpeech(t *testing.T) {
	in := "## Update\n\nCheck [the story](https://example.com/x) and https://example.com/y now! 🚀✨"
	got := ForSpeech(in)

	for _, banned := range []string{"http", "#", "[", "](", "🚀", "✨"} {
		if strings.Contains(got, banned) {
			t.Errorf("ForSpeech() output still contains %q: %q", banned, got)
		}
	}
	if !strings.Contains(got, "the story") {
		t.Errorf("link text dropped: %q", got)
	}
}
