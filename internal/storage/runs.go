package storage

import (
	"time"

	"gorm.io/datatypes"
)

// CollectionRun 一次定时聚合的运行报告
type CollectionRun struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	StartedAt time.Time         `gorm:"index" json:"startedAt"`
	Fetched   int               `json:"fetched"`
	Kept      int               `json:"kept"`
	Failures  datatypes.JSONMap `json:"failures"` // source -> 错误文本

	CreatedAt time.Time `json:"createdAt"`
}

// NewRun 由一轮聚合的统计构造运行报告
func NewRun(startedAt time.Time, fetched, kept int, failures map[string]string) *CollectionRun {
	fm := datatypes.JSONMap{}
	for src, msg := range failures {
		fm[src] = msg
	}
	return &CollectionRun{
		StartedAt: startedAt,
		Fetched:   fetched,
		Kept:      kept,
		Failures:  fm,
	}
}

// SaveRun 记录一次运行报告
func (s *Store) SaveRun(run *CollectionRun) error {
	return s.DB.Create(run).Error
}

// ListRuns 返回最近的运行报告（新在前）
func (s *Store) ListRuns(limit int) ([]CollectionRun, error) {
	if limit <= 0 || limit > 365 {
		limit = 20
	}
	var runs []CollectionRun
	err := s.DB.Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
