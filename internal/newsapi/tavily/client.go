package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/news_agent/internal/newsapi"
)

const defaultEndpoint = "https://api.tavily.com/search"

// Client Tavily API 客户端，topic 固定为 news
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient 创建一个新的 Tavily 客户端，endpoint 留空时使用官方地址
func NewClient(apiKey, endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Ensure Client implements newsapi.Source
var _ newsapi.Source = (*Client)(nil)

// searchRequest Tavily 搜索请求参数
type searchRequest struct {
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth,omitempty"` // basic or advanced
	Topic             string `json:"topic,omitempty"`        // general or news
	MaxResults        int    `json:"max_results,omitempty"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty"`
	StartDate         string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate           string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

// searchResponse Tavily 搜索响应
type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

// searchResult 单个搜索结果
type searchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	RawContent    string  `json:"raw_content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date"`
}

// Search implements newsapi.Source
func (c *Client) Search(ctx context.Context, req *newsapi.Request) (*newsapi.Response, error) {
	if c.apiKey == "" {
		return nil, newsapi.ErrMissingCredential
	}

	tavilyReq := searchRequest{
		Query:       req.Query,
		SearchDepth: "basic",
		Topic:       "news",
		MaxResults:  req.MaxResults,
		StartDate:   dateOnly(req.StartDate),
		EndDate:     dateOnly(req.EndDate),
	}
	if tavilyReq.MaxResults <= 0 {
		tavilyReq.MaxResults = 5
	}

	payload, err := json.Marshal(tavilyReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	httpReq.Header.Add("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	var results []newsapi.Result
	for _, r := range searchResp.Results {
		results = append(results, newsapi.Result{
			Title:         r.Title,
			URL:           r.URL,
			Description:   r.Content,
			Content:       r.RawContent,
			PublishedDate: r.PublishedDate,
		})
	}

	return &newsapi.Response{Results: results}, nil
}

// dateOnly Tavily 只接受 YYYY-MM-DD，RFC3339 输入时截取日期部分
func dateOnly(s string) string {
	if len(s) > len(time.DateOnly) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return s
}
