package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 环境变量覆盖项，优先级高于配置文件
const (
	gnewsAPIKeyEnv  = "GNEWS_API_KEY"
	tavilyAPIKeyEnv = "TAVILY_API_KEY"
	llmAPIKeyEnv    = "LLM_API_KEY"
	llmBaseURLEnv   = "LLM_BASE_URL"
	llmModelEnv     = "LLM_MODEL"
)

// Config 项目配置结构体
type Config struct {
	News        NewsConfig        `yaml:"news"`
	LLM         LLMConfig         `yaml:"llm"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// NewsConfig 新闻检索相关配置
type NewsConfig struct {
	Provider    string       `yaml:"provider"` // gnews 或 tavily，留空时按可用凭证自动选择
	GNews       GNewsConfig  `yaml:"gnews"`
	Tavily      TavilyConfig `yaml:"tavily"`
	Query       string       `yaml:"query"`
	WindowHours int          `yaml:"window_hours"`
	MaxArticles int          `yaml:"max_articles"`
}

// GNewsConfig GNews 配置
type GNewsConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"` // 留空使用官方地址，测试时可指向本地
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout"` // 单次调用超时秒数
}

// ServerConfig web 模式 HTTP 服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 调用限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置；文件不存在时退回默认值 + 环境变量，
// 缺少凭证不在这里报错，由依赖该凭证的组件在调用时检查
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(gnewsAPIKeyEnv); v != "" {
		c.News.GNews.APIKey = v
	}
	if v := os.Getenv(tavilyAPIKeyEnv); v != "" {
		c.News.Tavily.APIKey = v
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmBaseURLEnv); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
}

func (c *Config) applyDefaults() {
	if c.News.WindowHours <= 0 {
		c.News.WindowHours = 24
	}
	if c.News.MaxArticles <= 0 || c.News.MaxArticles > 10 {
		c.News.MaxArticles = 10
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 30
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 2
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
}

// Warnings 返回启动时需要提示的配置问题，缺少凭证不是致命错误
func (c *Config) Warnings() []string {
	var warns []string
	if c.News.GNews.APIKey == "" && c.News.Tavily.APIKey == "" {
		warns = append(warns, "no news api key configured (GNEWS_API_KEY or TAVILY_API_KEY), fetching news will fail")
	}
	if c.LLM.APIKey == "" {
		warns = append(warns, "no llm api key configured (LLM_API_KEY), headline rewriting and Q&A will fail")
	}
	return warns
}
