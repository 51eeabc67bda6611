package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	NewsAPIKey     string
	NewsAPIBaseURL string

	DBFile    string
	JSONFile  string
	CSVFile   string
	ExcelFile string

	AppPort   string
	RedisAddr string
	CronSpec  string
}

// Load 读取环境变量；支持通过 .env 文件注入（不存在时直接用进程环境）
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("env loaded from .env")
	}

	cfg := &Config{
		NewsAPIKey:     getEnv("NEWSAPI_KEY", ""),
		NewsAPIBaseURL: getEnv("NEWSAPI_BASE_URL", "https://newsapi.org/v2/top-headlines"),
		DBFile:         getEnv("DB_FILE", "news_aggregator.db"),
		JSONFile:       getEnv("JSON_FILE", "news_results.json"),
		CSVFile:        getEnv("CSV_FILE", "news_results.csv"),
		ExcelFile:      getEnv("EXCEL_FILE", "news_results.xlsx"),
		AppPort:        getEnv("APP_PORT", "8080"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		CronSpec:       getEnv("CRON_SPEC", "*/30 * * * *"),
	}

	// 不打印 NewsAPI key 本身
	log.Printf("config loaded: port=%s cron=%s db=%s newsapi_key_set=%t",
		cfg.AppPort, cfg.CronSpec, cfg.DBFile, cfg.NewsAPIKey != "")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
