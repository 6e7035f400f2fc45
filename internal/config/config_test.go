package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearCredentialEnv 清空宿主机可能设置的凭证，避免覆盖测试输入
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GNEWS_API_KEY", "TAVILY_API_KEY", "LLM_API_KEY", "LLM_BASE_URL", "LLM_MODEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	clearCredentialEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
news:
  provider: gnews
  gnews:
    api_key: file-key
llm:
  model: test-model
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.News.GNews.APIKey != "file-key" {
		t.Errorf("gnews key = %q", cfg.News.GNews.APIKey)
	}
	if cfg.News.WindowHours != 24 || cfg.News.MaxArticles != 10 {
		t.Errorf("news defaults not applied: %+v", cfg.News)
	}
	if cfg.LLM.Timeout != 30 {
		t.Errorf("llm timeout default = %d, want 30", cfg.LLM.Timeout)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("server addr default = %q", cfg.Server.Addr)
	}
}

func TestLoadConfig_MissingFileIsFine(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, missing file must fall back to defaults", err)
	}
	if cfg.News.MaxArticles != 10 {
		t.Errorf("defaults not applied: %+v", cfg.News)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("GNEWS_API_KEY", "env-gnews")
	t.Setenv("LLM_API_KEY", "env-llm")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.News.GNews.APIKey != "env-gnews" {
		t.Errorf("gnews key = %q, want env override", cfg.News.GNews.APIKey)
	}
	if cfg.LLM.APIKey != "env-llm" {
		t.Errorf("llm key = %q, want env override", cfg.LLM.APIKey)
	}
}

func TestWarnings(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	warns := cfg.Warnings()
	if len(warns) != 2 {
		t.Fatalf("warnings = %v, want one for news key and one for llm key", warns)
	}

	cfg.News.GNews.APIKey = "k"
	cfg.LLM.APIKey = "k"
	if warns := cfg.Warnings(); len(warns) != 0 {
		t.Errorf("warnings = %v, want none when both keys present", warns)
	}
}

func TestLoadConfig_CapsMaxArticles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("news:\n  max_articles: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.News.MaxArticles != 10 {
		t.Errorf("max_articles = %d, want capped to 10", cfg.News.MaxArticles)
	}
}
