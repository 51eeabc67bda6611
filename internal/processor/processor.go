package processor

import (
	"strings"

	"github.com/zaddie29/News-aggregator-cli/internal/collector"
)

// Headline 各阶段共用的规范记录，归一化之后不再修改。
// PublishedAt 保留适配器产出的 ISO-8601 文本：日期筛选与落盘格式都定义在
// 文本前 10 个字符上，换算成 time.Time 再格式化可能因时区改变日历日期。
type Headline struct {
	Source      collector.Source `json:"source"`
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	PublishedAt string           `json:"publishedAt"`
}

// identityKey 去重身份键：(title, source) 相同即视为同一条头条
type identityKey struct {
	title  string
	source collector.Source
}

// Normalize 将原始候选转换为规范记录。标题去掉首尾空白，去空白后为空的
// 候选直接丢弃（返回 false，不算错误）；URL 与 PublishedAt 原样保留。
func Normalize(c collector.RawCandidate) (Headline, bool) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return Headline{}, false
	}
	return Headline{
		Source:      c.Source,
		Title:       title,
		URL:         c.URL,
		PublishedAt: c.PublishedAt,
	}, true
}

// NormalizeAll 批量归一化，丢弃空标题候选
func NormalizeAll(candidates []collector.RawCandidate) []Headline {
	out := make([]Headline, 0, len(candidates))
	for _, c := range candidates {
		if h, ok := Normalize(c); ok {
			out = append(out, h)
		}
	}
	return out
}

// Dedupe 按 (title, source) 去重，保留先出现的一条，输出保持输入顺序
func Dedupe(headlines []Headline) []Headline {
	out := make([]Headline, 0, len(headlines))
	seen := make(map[identityKey]struct{}, len(headlines))

	for _, h := range headlines {
		key := identityKey{title: h.Title, source: h.Source}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}

	return out
}

// CalendarDate 返回 ISO-8601 时间戳的日历日期部分（前 10 个字符，YYYY-MM-DD），
// 文本不足 10 个字符时原样返回
func CalendarDate(publishedAt string) string {
	if len(publishedAt) >= 10 {
		return publishedAt[:10]
	}
	return publishedAt
}
