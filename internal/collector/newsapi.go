package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	newsapiDefaultBaseURL   = "https://newsapi.org/v2/top-headlines"
	newsapiRootURL          = "https://newsapi.org"
	newsapiLanguage         = "en"
	newsapiPageSize         = 100
	newsapiMaxResponseBytes = 2 << 20 // 2MB
	newsapiClientTimeout    = 10 * time.Second
)

// NewsAPIFetcher 通过 NewsAPI 的 top-headlines 接口抓取头条。
// Keyword / FromDate 会作为 q / from 查询参数透传给上游。
type NewsAPIFetcher struct {
	APIKey   string
	BaseURL  string // 为空时使用官方地址，测试时可指向 httptest
	Keyword  string
	FromDate string
}

func (n *NewsAPIFetcher) Name() string {
	return string(SourceNewsAPI)
}

// 对应 /v2/top-headlines 的响应结构，只取用到的字段
type newsapiResp struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (n *NewsAPIFetcher) Fetch() ([]RawCandidate, error) {
	log.Println("fetch NewsAPI top headlines...")

	// 没有密钥时该源降级为一次失败记录，不影响其它源
	if strings.TrimSpace(n.APIKey) == "" {
		return nil, fmt.Errorf("newsapi: NEWSAPI_KEY not set")
	}

	baseURL := n.BaseURL
	if baseURL == "" {
		baseURL = newsapiDefaultBaseURL
	}

	client := &http.Client{Timeout: newsapiClientTimeout}

	resp, err := client.Get(baseURL + "?" + newsapiQuery(n.APIKey, n.Keyword, n.FromDate).Encode())
	if err != nil {
		return nil, fmt.Errorf("newsapi: fetch top headlines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi: unexpected status %d", resp.StatusCode)
	}

	var data newsapiResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, newsapiMaxResponseBytes)).Decode(&data); err != nil {
		return nil, fmt.Errorf("newsapi: decode response: %w", err)
	}
	if data.Status != "" && data.Status != "ok" {
		return nil, fmt.Errorf("newsapi: response status %q: %s", data.Status, data.Message)
	}

	// 空列表是正常结果，不当作失败
	if len(data.Articles) == 0 {
		log.Println("newsapi: got 0 articles")
		return nil, nil
	}

	results := make([]RawCandidate, 0, len(data.Articles))
	fetchedAt := nowTimestamp()
	for _, a := range data.Articles {
		if a.Title == "" {
			continue
		}

		itemURL := a.URL
		if itemURL == "" {
			itemURL = newsapiRootURL
		}

		publishedAt := a.PublishedAt
		if publishedAt == "" {
			publishedAt = fetchedAt
		}

		results = append(results, RawCandidate{
			Source:      SourceNewsAPI,
			Title:       a.Title,
			URL:         itemURL,
			PublishedAt: publishedAt,
		})
	}

	return results, nil
}

// newsapiQuery 组装上游查询参数；keyword / fromDate 为空时不携带
func newsapiQuery(apiKey, keyword, fromDate string) url.Values {
	q := url.Values{}
	q.Set("apiKey", apiKey)
	q.Set("language", newsapiLanguage)
	q.Set("pageSize", strconv.Itoa(newsapiPageSize))
	if keyword != "" {
		q.Set("q", keyword)
	}
	if fromDate != "" {
		q.Set("from", fromDate)
	}
	return q
}
