package newsapi

import (
	"context"
	"errors"
)

// ErrMissingCredential 凭证缺失，调用方应将其转换为用户可见的提示而非崩溃
var ErrMissingCredential = errors.New("news api key is not configured")

// Source 定义通用的新闻检索接口
type Source interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用检索请求
type Request struct {
	Query      string
	Lang       string
	Country    string
	MaxResults int
	StartDate  string // RFC3339
	EndDate    string // RFC3339
}

// Response 通用检索响应
type Response struct {
	Results []Result
}

// Result 单条检索结果
type Result struct {
	Title         string
	URL           string
	Description   string
	Content       string
	Source        string
	PublishedDate string
}
