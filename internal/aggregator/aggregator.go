package aggregator

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/zaddie29/News-aggregator-cli/internal/collector"
	"github.com/zaddie29/News-aggregator-cli/internal/processor"
)

// Sink 消费最终头条序列的目的地（JSON 文件 / 数据表 / 表格导出）
type Sink interface {
	Name() string
	Write(headlines []processor.Headline) error
}

// Failure 单个数据源的抓取失败记录
type Failure struct {
	Source string
	Err    error
}

// SinkFailure 单个 sink 的写入失败记录
type SinkFailure struct {
	Sink string
	Err  error
}

// Result 一轮聚合的结果：保留的头条、原始候选总数与各类失败
type Result struct {
	Headlines    []processor.Headline
	Fetched      int
	Failures     []Failure
	SinkFailures []SinkFailure
}

// Aggregator 定序执行 抓取 → 归一化 → 去重 → 筛选 → 分发。
// 抓取阶段各源并发执行；合并按注册顺序拼接，保证去重时谁先谁后
// 只取决于固定的源优先级，与网络完成时序无关。
type Aggregator struct {
	fetchers []collector.Fetcher
	filters  processor.Filters
	sinks    []Sink
	out      io.Writer
}

// New 构造聚合器；fetchers 的顺序即固定的源优先级
func New(fetchers []collector.Fetcher, filters processor.Filters, sinks []Sink, out io.Writer) *Aggregator {
	if out == nil {
		out = io.Discard
	}
	return &Aggregator{
		fetchers: fetchers,
		filters:  filters,
		sinks:    sinks,
		out:      out,
	}
}

// Run 执行一轮聚合。单个源或单个 sink 的失败只记录不中断，整体总会跑完；
// 每条保留的头条都会向 out 写一行 "[source] title (publishedAt)"。
func (a *Aggregator) Run() Result {
	var res Result

	// 每个源一个任务，结果写入各自的下标槽位
	batches := make([][]collector.RawCandidate, len(a.fetchers))
	errs := make([]error, len(a.fetchers))

	var wg sync.WaitGroup
	for i, f := range a.fetchers {
		wg.Add(1)
		go func(idx int, fetcher collector.Fetcher) {
			defer wg.Done()
			items, err := fetcher.Fetch()
			if err != nil {
				errs[idx] = err
				return
			}
			batches[idx] = items
		}(i, f)
	}
	wg.Wait()

	var candidates []collector.RawCandidate
	for i, f := range a.fetchers {
		if errs[i] != nil {
			log.Printf("fetch %s error: %v", f.Name(), errs[i])
			res.Failures = append(res.Failures, Failure{Source: f.Name(), Err: errs[i]})
			continue
		}
		candidates = append(candidates, batches[i]...)
	}
	res.Fetched = len(candidates)

	headlines := processor.NormalizeAll(candidates)
	headlines = processor.Dedupe(headlines)
	headlines = a.filters.Apply(headlines)
	res.Headlines = headlines

	// sink 相互独立，单个失败不影响其它 sink 和控制台输出
	for _, s := range a.sinks {
		if err := s.Write(headlines); err != nil {
			log.Printf("sink %s error: %v", s.Name(), err)
			res.SinkFailures = append(res.SinkFailures, SinkFailure{Sink: s.Name(), Err: err})
		}
	}

	for _, h := range headlines {
		fmt.Fprintf(a.out, "[%s] %s (%s)\n", h.Source, h.Title, h.PublishedAt)
	}

	return res
}
