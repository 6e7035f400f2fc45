package gnews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/news_agent/internal/newsapi"
)

const defaultEndpoint = "https://gnews.io/api/v4"

// 免费版单次请求最多返回 10 条
const maxPerRequest = 10

// Client GNews API 客户端
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient 创建一个新的 GNews 客户端，endpoint 留空时使用官方地址
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

// searchResponse GNews 搜索响应
type searchResponse struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []article `json:"articles"`
}

// article GNews 单条结果
type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

// Search 执行搜索
func (c *Client) Search(ctx context.Context, req *newsapi.Request) (*newsapi.Response, error) {
	if c.apiKey == "" {
		return nil, newsapi.ErrMissingCredential
	}

	max := req.MaxResults
	if max <= 0 || max > maxPerRequest {
		max = maxPerRequest
	}

	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("max", strconv.Itoa(max))
	q.Set("sortby", "publishedAt")
	q.Set("apikey", c.apiKey)
	if req.Lang != "" {
		q.Set("lang", req.Lang)
	}
	if req.Country != "" {
		q.Set("country", req.Country)
	}
	if req.StartDate != "" {
		q.Set("from", req.StartDate)
	}
	if req.EndDate != "" {
		q.Set("to", req.EndDate)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

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
		return nil, fmt.Errorf("gnews api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	var results []newsapi.Result
	for _, a := range searchResp.Articles {
		results = append(results, newsapi.Result{
			Title:         a.Title,
			URL:           a.URL,
			Description:   a.Description,
			Content:       a.Content,
			Source:        a.Source.Name,
			PublishedDate: a.PublishedAt,
		})
	}

	return &newsapi.Response{Results: results}, nil
}
