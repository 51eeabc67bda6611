package processor

import (
	"strings"

	"github.com/zaddie29/News-aggregator-cli/internal/collector"
)

// Filters 可选筛选条件，零值字段跳过，多个条件按 AND 组合。
// Apply 只做保留/丢弃，不修改记录，同一组条件重复应用结果不变。
type Filters struct {
	Source  collector.Source // 来源精确匹配
	Keyword string           // 标题子串匹配，忽略大小写
	Date    string           // 日历日期精确匹配，YYYY-MM-DD
}

// IsZero 没有任何条件时整体直通
func (f Filters) IsZero() bool {
	return f.Source == "" && f.Keyword == "" && f.Date == ""
}

// Apply 按条件筛选，保持输入顺序
func (f Filters) Apply(headlines []Headline) []Headline {
	if f.IsZero() {
		return headlines
	}

	out := make([]Headline, 0, len(headlines))
	for _, h := range headlines {
		if f.match(h) {
			out = append(out, h)
		}
	}
	return out
}

func (f Filters) match(h Headline) bool {
	if f.Source != "" && h.Source != f.Source {
		return false
	}
	if f.Keyword != "" && !strings.Contains(strings.ToLower(h.Title), strings.ToLower(f.Keyword)) {
		return false
	}
	if f.Date != "" && CalendarDate(h.PublishedAt) != f.Date {
		return false
	}
	return true
}
