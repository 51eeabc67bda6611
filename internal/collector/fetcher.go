package collector

import "fmt"

// Source 数据源标识，固定枚举：newsapi / bbc / cnn
type Source string

const (
	SourceNewsAPI Source = "newsapi"
	SourceBBC     Source = "bbc"
	SourceCNN     Source = "cnn"
)

// AllSources 返回全部数据源，顺序即聚合时的固定优先级
func AllSources() []Source {
	return []Source{SourceNewsAPI, SourceBBC, SourceCNN}
}

// ParseSource 校验 CLI / API 传入的数据源取值
func ParseSource(s string) (Source, error) {
	for _, src := range AllSources() {
		if s == string(src) {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown source %q (valid: newsapi, bbc, cnn)", s)
}

// RawCandidate 适配器产出的原始候选记录，Source 字段标记来源。
// 适配器保证 URL 与 PublishedAt 非空；Title 允许包含首尾空白，由归一化阶段处理。
type RawCandidate struct {
	Source      Source
	Title       string
	URL         string
	PublishedAt string
}

// Fetcher 抽象每一个数据源
type Fetcher interface {
	Name() string
	Fetch() ([]RawCandidate, error)
}
