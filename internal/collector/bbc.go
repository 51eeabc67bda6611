package collector

import (
	"fmt"
	"log"
	"strings"

	"github.com/gocolly/colly/v2"
)

const bbcNewsURL = "https://www.bbc.com/news"

// BBCFetcher 抓取 BBC News 首页标题（h3 节点）
type BBCFetcher struct {
	PageURL string // 为空时使用默认页面
}

func (b *BBCFetcher) Name() string {
	return string(SourceBBC)
}

func (b *BBCFetcher) Fetch() ([]RawCandidate, error) {
	log.Println("fetch BBC News headlines...")

	pageURL := b.PageURL
	if pageURL == "" {
		pageURL = bbcNewsURL
	}

	c := newScrapeCollector(pageURL)

	results := make([]RawCandidate, 0, 50)
	collectedAt := nowTimestamp()

	c.OnHTML("h3", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.Text)
		if title == "" {
			return
		}

		itemURL := headlineLink(e)
		if itemURL == "" {
			itemURL = pageURL
		}

		results = append(results, RawCandidate{
			Source:      SourceBBC,
			Title:       title,
			URL:         itemURL,
			PublishedAt: collectedAt,
		})
	})

	if err := c.Visit(pageURL); err != nil {
		log.Printf("fetch BBC News failed: %v", err)
		return nil, fmt.Errorf("bbc: visit %s: %w", pageURL, err)
	}

	// 页面改版导致选择器一个节点都没匹配到时按空结果处理，属于降级而非失败
	if len(results) == 0 {
		log.Printf("fetch BBC News got 0 items")
	}

	return results, nil
}
