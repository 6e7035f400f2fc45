package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/news_agent/internal/config"
	"github.com/iWorld-y/news_agent/internal/logger"
)

// ErrMissingCredential 凭证缺失。客户端照常构建，首次调用时才报告，
// 让依赖 LLM 的组件走各自的降级路径
var ErrMissingCredential = errors.New("llm api key is not configured")

const (
	maxRetries = 3
	baseDelay  = 2 * time.Second
)

// Client 对 ChatModel 的薄封装：限流、超时、429 指数退避重试
type Client struct {
	cm      model.BaseChatModel
	limiter *rate.Limiter
	timeout time.Duration
}

// NewClient 创建 LLM 客户端。缺少 API Key 时不报错，返回延迟失败的客户端
func NewClient(ctx context.Context, llmCfg config.LLMConfig, cc config.ConcurrencyConfig) (*Client, error) {
	c := &Client{
		limiter: rate.NewLimiter(rate.Limit(float64(cc.RPM)/60.0), cc.QPS),
		timeout: time.Duration(llmCfg.Timeout) * time.Second,
	}

	if llmCfg.APIKey == "" {
		logger.Log.Warn("llm api key missing, generation calls will fail until configured")
		return c, nil
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: llmCfg.BaseURL,
		APIKey:  llmCfg.APIKey,
		Model:   llmCfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	c.cm = chatModel

	return c, nil
}

// NewClientWithModel 用现成的 ChatModel 构建客户端，供测试注入
func NewClientWithModel(cm model.BaseChatModel, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cm:      cm,
		limiter: rate.NewLimiter(rate.Inf, 1),
		timeout: timeout,
	}
}

// Generate 发起一次补全。单次请求最多一个在途调用，超时即失败交给上层降级
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	if c.cm == nil {
		return "", ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("limiter wait: %w", err)
		}

		resp, err := c.cm.Generate(ctx, messages)
		if err != nil {
			// 仅对 429 重试，避免对失效请求形成重试风暴
			if isRateLimited(err) && i < maxRetries {
				lastErr = err
				delay := baseDelay * time.Duration(1<<i)
				logger.Log.Warnf("llm rate limited, retrying in %v (%d/%d)", delay, i+1, maxRetries)
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(delay):
					continue
				}
			}
			return "", err
		}

		content := stripFences(resp.Content)
		if content == "" {
			return "", errors.New("empty completion")
		}
		return content, nil
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

// stripFences 清理模型偶尔带上的 markdown 代码块标记
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
