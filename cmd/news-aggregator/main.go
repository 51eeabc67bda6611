package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/zaddie29/News-aggregator-cli/internal/aggregator"
	"github.com/zaddie29/News-aggregator-cli/internal/api"
	"github.com/zaddie29/News-aggregator-cli/internal/collector"
	"github.com/zaddie29/News-aggregator-cli/internal/config"
	"github.com/zaddie29/News-aggregator-cli/internal/processor"
	"github.com/zaddie29/News-aggregator-cli/internal/scheduler"
	"github.com/zaddie29/News-aggregator-cli/internal/storage"
)

var (
	flagSource  string
	flagKeyword string
	flagDate    string
	flagStore   string
	flagExport  string
)

var rootCmd = &cobra.Command{
	Use:   "news-aggregator",
	Short: "Aggregate news headlines from NewsAPI, BBC and CNN",
	Long: `Fetch headlines from all sources concurrently, dedupe by (title, source),
apply optional filters and print one line per headline. Results can also be
stored to a JSON file or sqlite, and exported to CSV or Excel.`,
	Run: runCollect,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Aggregate on a cron schedule and serve the query API",
	Run:   runServe,
}

func init() {
	rootCmd.Flags().StringVar(&flagSource, "source", "all", "source to fetch: all, newsapi, bbc, cnn")
	rootCmd.Flags().StringVar(&flagKeyword, "keyword", "", "keep only titles containing this keyword")
	rootCmd.Flags().StringVar(&flagDate, "date", "", "keep only headlines published on this date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&flagStore, "store", "none", "persist results: json, sqlite, none")
	rootCmd.Flags().StringVar(&flagExport, "export", "none", "export results: csv, excel, none")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// 一次性执行一轮聚合后退出；单个源或 sink 失败不影响退出码
func runCollect(cmd *cobra.Command, args []string) {
	cfg := config.Load()

	// 参数校验放在任何抓取之前，不合法直接失败退出
	if flagDate != "" {
		if _, err := time.Parse("2006-01-02", flagDate); err != nil {
			log.Fatalf("invalid --date %q: must be YYYY-MM-DD", flagDate)
		}
	}

	var selected collector.Source
	if flagSource != "" && flagSource != "all" {
		src, err := collector.ParseSource(flagSource)
		if err != nil {
			log.Fatalf("invalid --source: %v", err)
		}
		selected = src
	}

	var sinks []aggregator.Sink
	switch flagStore {
	case "json":
		sinks = append(sinks, storage.JSONFile{Path: cfg.JSONFile})
	case "sqlite":
		// CLI 模式不挂 Redis；打不开数据库只跳过这个 sink，控制台输出照常
		store, err := storage.NewStore(cfg.DBFile, "")
		if err != nil {
			log.Printf("warn: init sqlite sink: %v, skipping", err)
		} else {
			sinks = append(sinks, store)
		}
	case "none", "":
	default:
		log.Fatalf("invalid --store %q: must be json, sqlite or none", flagStore)
	}
	switch flagExport {
	case "csv":
		sinks = append(sinks, storage.CSVFile{Path: cfg.CSVFile})
	case "excel":
		sinks = append(sinks, storage.ExcelFile{Path: cfg.ExcelFile})
	case "none", "":
	default:
		log.Fatalf("invalid --export %q: must be csv, excel or none", flagExport)
	}

	fetchers := buildFetchers(cfg, selected, flagKeyword, flagDate)
	filters := processor.Filters{Source: selected, Keyword: flagKeyword, Date: flagDate}

	agg := aggregator.New(fetchers, filters, sinks, os.Stdout)
	res := agg.Run()
	log.Printf("aggregation done: fetched=%d kept=%d failed_sources=%d",
		res.Fetched, len(res.Headlines), len(res.Failures))
}

// 常驻模式：定时聚合入库并记录运行报告，同时提供查询 API
func runServe(cmd *cobra.Command, args []string) {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.DBFile, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	// 定时任务不做筛选，全部源全部入库
	fetchers := buildFetchers(cfg, "", "", "")
	agg := aggregator.New(fetchers, processor.Filters{}, []aggregator.Sink{store}, io.Discard)

	job := func() {
		started := time.Now()
		res := agg.Run()

		failures := make(map[string]string, len(res.Failures))
		for _, f := range res.Failures {
			failures[f.Source] = f.Err.Error()
		}
		if err := store.SaveRun(storage.NewRun(started, res.Fetched, len(res.Headlines), failures)); err != nil {
			log.Printf("save run report error: %v", err)
		}
		log.Printf("aggregation done: fetched=%d kept=%d failed_sources=%d",
			res.Fetched, len(res.Headlines), len(res.Failures))
	}

	s, err := scheduler.New(cfg.CronSpec, job)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	r := gin.Default()
	api.NewServer(store).RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// buildFetchers 按固定优先级注册采集器；selected 非空时只保留指定源。
// keyword / date 会转发给 NewsAPI 的查询参数，抓取页面的源不支持查询参数。
func buildFetchers(cfg *config.Config, selected collector.Source, keyword, date string) []collector.Fetcher {
	var fetchers []collector.Fetcher
	for _, src := range collector.AllSources() {
		if selected != "" && src != selected {
			continue
		}
		switch src {
		case collector.SourceNewsAPI:
			fetchers = append(fetchers, &collector.NewsAPIFetcher{
				APIKey:   cfg.NewsAPIKey,
				BaseURL:  cfg.NewsAPIBaseURL,
				Keyword:  keyword,
				FromDate: date,
			})
		case collector.SourceBBC:
			fetchers = append(fetchers, &collector.BBCFetcher{})
		case collector.SourceCNN:
			fetchers = append(fetchers, &collector.CNNFetcher{})
		}
	}
	return fetchers
}
