package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-kratos/kratos/v2"

	"github.com/iWorld-y/news_agent/internal/config"
	"github.com/iWorld-y/news_agent/internal/conversation"
	"github.com/iWorld-y/news_agent/internal/fetcher"
	"github.com/iWorld-y/news_agent/internal/headline"
	"github.com/iWorld-y/news_agent/internal/host"
	"github.com/iWorld-y/news_agent/internal/llm"
	"github.com/iWorld-y/news_agent/internal/logger"
	"github.com/iWorld-y/news_agent/internal/newsapi/factory"
	"github.com/iWorld-y/news_agent/internal/server"
)

var (
	flagconf string
	flagmode string
)

func init() {
	flag.StringVar(&flagconf, "conf", "config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagmode, "mode", "repl", "run mode: repl or web")
}

func main() {
	flag.Parse()

	// 1. 加载配置。缺少凭证只告警，对应组件在实际调用时才失败
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Log.Warn(w)
	}

	ctx := context.Background()

	// 3. 初始化 LLM 客户端与新闻检索源
	llmClient, err := llm.NewClient(ctx, cfg.LLM, cfg.Concurrency)
	if err != nil {
		logger.Log.Fatalf("init llm client: %v", err)
	}

	source, err := factory.NewSource(cfg)
	if err != nil {
		logger.Log.Fatalf("init news source: %v", err)
	}

	// 4. 组装能力与分发表
	f := fetcher.New(source, fetcher.Options{
		Query:       cfg.News.Query,
		WindowHours: cfg.News.WindowHours,
		MaxArticles: cfg.News.MaxArticles,
		Enrich:      true,
	})
	h := host.New(f, headline.New(llmClient), conversation.New(llmClient))

	switch flagmode {
	case "web":
		runWeb(cfg, h)
	case "repl":
		runREPL(ctx, h)
	default:
		log.Fatalf("unknown mode %q, use repl or web", flagmode)
	}
}

// runWeb 以 HTTP 服务方式运行
func runWeb(cfg *config.Config, h *host.Host) {
	httpSrv := server.NewHTTPServer(cfg.Server, h)

	app := kratos.New(
		kratos.Name("news_agent"),
		kratos.Server(httpSrv),
	)

	logger.Log.Infof("serving chat endpoint on %s", cfg.Server.Addr)
	if err := app.Run(); err != nil {
		logger.Log.Fatalf("server exited: %v", err)
	}
}

// runREPL 以终端问答方式运行
func runREPL(ctx context.Context, h *host.Host) {
	fmt.Println("AI news agent. Ask for the latest news, headlines, a summary, or anything about a story.")
	fmt.Println("Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		fmt.Println(h.Handle(ctx, "terminal", line))
	}
}
