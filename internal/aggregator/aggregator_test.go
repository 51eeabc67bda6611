package aggregator

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zaddie29/News-aggregator-cli/internal/collector"
	"github.com/zaddie29/News-aggregator-cli/internal/processor"
)

type stubFetcher struct {
	name  string
	items []collector.RawCandidate
	err   error
	delay time.Duration
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch() ([]collector.RawCandidate, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.items, s.err
}

type recordSink struct {
	name  string
	got   []processor.Headline
	calls int
	err   error
}

func (r *recordSink) Name() string { return r.name }

func (r *recordSink) Write(h []processor.Headline) error {
	r.got = h
	r.calls++
	return r.err
}

func TestRunMergesInRegistrationOrder(t *testing.T) {
	// 先注册的源故意放慢，完成顺序与注册顺序相反
	slow := &stubFetcher{
		name:  "newsapi",
		delay: 80 * time.Millisecond,
		items: []collector.RawCandidate{
			{Source: collector.SourceNewsAPI, Title: "Slow story", URL: "https://example.com/1", PublishedAt: "2024-01-05T08:00:00Z"},
		},
	}
	fast := &stubFetcher{
		name: "bbc",
		items: []collector.RawCandidate{
			{Source: collector.SourceBBC, Title: "Fast story", URL: "https://example.com/2", PublishedAt: "2024-01-05T08:00:00Z"},
		},
	}

	var buf bytes.Buffer
	res := New([]collector.Fetcher{slow, fast}, processor.Filters{}, nil, &buf).Run()

	if len(res.Headlines) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(res.Headlines))
	}
	if res.Headlines[0].Title != "Slow story" || res.Headlines[1].Title != "Fast story" {
		t.Fatalf("merge must follow registration order, got %+v", res.Headlines)
	}
}

func TestRunDedupeWinnerFollowsRegistrationOrder(t *testing.T) {
	// 两个任务产出同 (title, source) 的候选，保留的必须是先注册任务的那条，
	// 与网络完成时序无关
	first := &stubFetcher{
		name:  "bbc",
		delay: 80 * time.Millisecond,
		items: []collector.RawCandidate{
			{Source: collector.SourceBBC, Title: "Race", URL: "https://example.com/first", PublishedAt: "2024-01-05T08:00:00Z"},
		},
	}
	second := &stubFetcher{
		name: "bbc-mirror",
		items: []collector.RawCandidate{
			{Source: collector.SourceBBC, Title: "Race", URL: "https://example.com/second", PublishedAt: "2024-01-05T09:00:00Z"},
		},
	}

	res := New([]collector.Fetcher{first, second}, processor.Filters{}, nil, nil).Run()

	if len(res.Headlines) != 1 {
		t.Fatalf("expected 1 headline after dedupe, got %d", len(res.Headlines))
	}
	if res.Headlines[0].URL != "https://example.com/first" {
		t.Fatalf("dedupe winner must come from the first registered source: %+v", res.Headlines[0])
	}
}

func TestRunOneSourceFailureKeepsOthers(t *testing.T) {
	ok1 := &stubFetcher{
		name: "newsapi",
		items: []collector.RawCandidate{
			{Source: collector.SourceNewsAPI, Title: "A", URL: "https://example.com/a", PublishedAt: "2024-01-05T08:00:00Z"},
		},
	}
	bad := &stubFetcher{name: "bbc", err: errors.New("connection refused")}
	ok2 := &stubFetcher{
		name: "cnn",
		items: []collector.RawCandidate{
			{Source: collector.SourceCNN, Title: "B", URL: "https://example.com/b", PublishedAt: "2024-01-05T08:00:00Z"},
		},
	}

	res := New([]collector.Fetcher{ok1, bad, ok2}, processor.Filters{}, nil, nil).Run()

	if len(res.Headlines) != 2 {
		t.Fatalf("other sources should survive one failure, got %d headlines", len(res.Headlines))
	}
	if res.Fetched != 2 {
		t.Fatalf("fetched count should only cover successful sources, got %d", res.Fetched)
	}
	if len(res.Failures) != 1 || res.Failures[0].Source != "bbc" {
		t.Fatalf("failure should be recorded per source: %+v", res.Failures)
	}
}

func TestRunAllSourcesFailedIsBestEffort(t *testing.T) {
	// 全部源失败也按成功路径走完：失败逐源记账，sink 仍收到空批次，控制台无输出
	bad1 := &stubFetcher{name: "newsapi", err: errors.New("401 unauthorized")}
	bad2 := &stubFetcher{name: "bbc", err: errors.New("connection refused")}
	bad3 := &stubFetcher{name: "cnn", err: errors.New("timeout")}
	sink := &recordSink{name: "json"}

	var buf bytes.Buffer
	res := New([]collector.Fetcher{bad1, bad2, bad3}, processor.Filters{}, []Sink{sink}, &buf).Run()

	if len(res.Headlines) != 0 || res.Fetched != 0 {
		t.Fatalf("expected empty result, got %d headlines fetched=%d", len(res.Headlines), res.Fetched)
	}
	if len(res.Failures) != 3 {
		t.Fatalf("expected one failure per source: %+v", res.Failures)
	}
	for i, want := range []string{"newsapi", "bbc", "cnn"} {
		if res.Failures[i].Source != want {
			t.Fatalf("failure[%d].Source = %q, want %q", i, res.Failures[i].Source, want)
		}
	}
	if sink.calls != 1 {
		t.Fatalf("sink should still be invoked once, got %d calls", sink.calls)
	}
	if len(sink.got) != 0 {
		t.Fatalf("sink should receive an empty batch: %+v", sink.got)
	}
	if buf.Len() != 0 {
		t.Fatalf("console should stay silent: %q", buf.String())
	}
}

func TestRunSinkFailureIsIsolated(t *testing.T) {
	f := &stubFetcher{
		name: "bbc",
		items: []collector.RawCandidate{
			{Source: collector.SourceBBC, Title: "Flood hits city", URL: "https://example.com/f", PublishedAt: "2024-01-05T08:00:00Z"},
		},
	}
	broken := &recordSink{name: "json", err: errors.New("disk full")}
	good := &recordSink{name: "csv"}

	var buf bytes.Buffer
	res := New([]collector.Fetcher{f}, processor.Filters{}, []Sink{broken, good}, &buf).Run()

	// 坏 sink 只记账，不影响其它 sink 和控制台输出
	if len(res.SinkFailures) != 1 || res.SinkFailures[0].Sink != "json" {
		t.Fatalf("sink failure should be recorded: %+v", res.SinkFailures)
	}
	if len(good.got) != 1 {
		t.Fatalf("good sink should still receive headlines, got %d", len(good.got))
	}
	if !strings.Contains(buf.String(), "[bbc] Flood hits city (2024-01-05T08:00:00Z)") {
		t.Fatalf("console output missing: %q", buf.String())
	}
}

func TestRunConsoleLineFormat(t *testing.T) {
	f := &stubFetcher{
		name: "cnn",
		items: []collector.RawCandidate{
			{Source: collector.SourceCNN, Title: "Quake shakes region", URL: "https://example.com/q", PublishedAt: "2024-01-05T10:30:00Z"},
		},
	}

	var buf bytes.Buffer
	New([]collector.Fetcher{f}, processor.Filters{}, nil, &buf).Run()

	want := "[cnn] Quake shakes region (2024-01-05T10:30:00Z)\n"
	if buf.String() != want {
		t.Fatalf("console line = %q, want %q", buf.String(), want)
	}
}

func TestRunAppliesFiltersBeforeDispatch(t *testing.T) {
	f := &stubFetcher{
		name: "newsapi",
		items: []collector.RawCandidate{
			{Source: collector.SourceNewsAPI, Title: "Climate summit opens", URL: "https://example.com/1", PublishedAt: "2024-01-05T08:00:00Z"},
			{Source: collector.SourceNewsAPI, Title: "Sports final tonight", URL: "https://example.com/2", PublishedAt: "2024-01-05T09:00:00Z"},
		},
	}
	sink := &recordSink{name: "json"}

	res := New([]collector.Fetcher{f}, processor.Filters{Keyword: "climate"}, []Sink{sink}, nil).Run()

	if len(res.Headlines) != 1 || res.Headlines[0].Title != "Climate summit opens" {
		t.Fatalf("filter should run before dispatch: %+v", res.Headlines)
	}
	if len(sink.got) != 1 || sink.got[0].Title != "Climate summit opens" {
		t.Fatalf("sink should only see filtered headlines: %+v", sink.got)
	}
}
