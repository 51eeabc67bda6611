package collector

import (
	"fmt"
	"log"
	"strings"

	"github.com/gocolly/colly/v2"
)

const cnnWorldURL = "https://edition.cnn.com/world"

// CNNFetcher 抓取 CNN World 栏目标题（span.cd__headline-text 节点）
type CNNFetcher struct {
	PageURL string // 为空时使用默认页面
}

func (c *CNNFetcher) Name() string {
	return string(SourceCNN)
}

func (c *CNNFetcher) Fetch() ([]RawCandidate, error) {
	log.Println("fetch CNN World headlines...")

	pageURL := c.PageURL
	if pageURL == "" {
		pageURL = cnnWorldURL
	}

	col := newScrapeCollector(pageURL)

	results := make([]RawCandidate, 0, 50)
	collectedAt := nowTimestamp()

	col.OnHTML("span.cd__headline-text", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.Text)
		if title == "" {
			return
		}

		itemURL := headlineLink(e)
		if itemURL == "" {
			itemURL = pageURL
		}

		results = append(results, RawCandidate{
			Source:      SourceCNN,
			Title:       title,
			URL:         itemURL,
			PublishedAt: collectedAt,
		})
	})

	if err := col.Visit(pageURL); err != nil {
		log.Printf("fetch CNN World failed: %v", err)
		return nil, fmt.Errorf("cnn: visit %s: %w", pageURL, err)
	}

	if len(results) == 0 {
		log.Printf("fetch CNN World got 0 items")
	}

	return results, nil
}
