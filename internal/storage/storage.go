package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zaddie29/News-aggregator-cli/internal/processor"
)

// Headline 入库的头条记录。业务列上不建唯一约束：
// 去重只发生在内存管线里，多次执行允许产生重复行。
type Headline struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Source        string `gorm:"size:64;index" json:"source"`
	Title         string `gorm:"size:512" json:"title"`
	URL           string `gorm:"size:1024" json:"url"`
	PublishedAt   string `gorm:"size:64" json:"publishedAt"`
	PublishedDate string `gorm:"size:10;index" json:"publishedDate"` // 日期 YYYY-MM-DD，用于按日期筛选

	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStore 打开 sqlite 数据库并建表；redisAddr 为空时不启用缓存
func NewStore(dbFile, redisAddr string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Headline{}, &CollectionRun{}); err != nil {
		return nil, err
	}

	s := &Store{DB: db}
	if redisAddr == "" {
		return s, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}
	s.Redis = rdb

	return s, nil
}

// Name / Write 让 Store 可以直接挂进聚合管线当 sink 用
func (s *Store) Name() string { return "sqlite" }

func (s *Store) Write(headlines []processor.Headline) error {
	return s.SaveBatch(headlines)
}

// SaveBatch 保存一批头条，纯追加，不做任何幂等判断
func (s *Store) SaveBatch(items []processor.Headline) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]Headline, 0, len(items))
	for _, it := range items {
		rows = append(rows, Headline{
			Source:        string(it.Source),
			Title:         it.Title,
			URL:           it.URL,
			PublishedAt:   it.PublishedAt,
			PublishedDate: processor.CalendarDate(it.PublishedAt),
		})
	}
	return s.DB.Create(&rows).Error
}

// listCacheKey 拼查询缓存键；各段先转义再用 ":" 连接，
// 关键词里出现 ":" 时不会与别的参数组合撞键
func listCacheKey(source, keyword, date string, limit int) string {
	return fmt.Sprintf("headlines:list:%s:%s:%s:%d",
		url.QueryEscape(source), url.QueryEscape(keyword), url.QueryEscape(date), limit)
}

// ListHeadlines 按源、关键词与日期返回已入库的头条（新入库在前），并用 Redis 做简单缓存
// source: 源标识，可为空
// keyword: 标题子串，可为空
// date: 可选，格式 2006-01-02
func (s *Store) ListHeadlines(source, keyword, date string, limit int) ([]Headline, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}

	ctx := context.Background()
	cacheKey := listCacheKey(source, keyword, date, limit)

	// L2: Redis 缓存
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Headline
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	// DB 兜底
	var list []Headline
	db := s.DB.Model(&Headline{})
	if source != "" {
		db = db.Where("source = ?", source)
	}
	if keyword != "" {
		// sqlite 的 LIKE 对 ASCII 不区分大小写，与内存筛选的关键词语义一致
		db = db.Where("title LIKE ?", "%"+keyword+"%")
	}
	if date != "" {
		db = db.Where("published_date = ?", date)
	}
	if err := db.Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	// 回写缓存（5 分钟，依赖短 TTL 自然过期，不做通配删除）
	const listCacheTTL = 5 * time.Minute
	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}
