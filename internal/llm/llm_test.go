package llm

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/news_agent/internal/config"
)

type fakeChatModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatModel) Generate(context.Context, []*schema.Message, ...einomodel.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func TestGenerate_StripsFences(t *testing.T) {
	c := NewClientWithModel(&fakeChatModel{reply: "```json\n{\"ok\":true}\n```"}, 0)

	got, err := c.Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != `{"ok":true}` {
		t.Errorf("Generate() = %q", got)
	}
}

func TestGenerate_MissingCredential(t *testing.T) {
	c, err := NewClient(context.Background(), config.LLMConfig{Model: "m", Timeout: 1}, config.ConcurrencyConfig{QPS: 1, RPM: 60})
	if err != nil {
		t.Fatalf("NewClient() error = %v, missing key must not fail construction", err)
	}

	_, err = c.Generate(context.Background(), "s", "u")
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("Generate() error = %v, want ErrMissingCredential", err)
	}
}

func TestGenerate_NoRetryOnPlainError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("500 internal error")}
	c := NewClientWithModel(fake, 0)

	if _, err := c.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("Generate() error = nil, want non-nil")
	}
	if fake.calls != 1 {
		t.Errorf("model called %d times, want 1 (no retry storm on non-429 failures)", fake.calls)
	}
}

func TestGenerate_EmptyReplyIsError(t *testing.T) {
	c := NewClientWithModel(&fakeChatModel{reply: "  \n "}, 0)

	if _, err := c.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("Generate() error = nil, want non-nil for empty completion")
	}
}
