package collector

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	scrapeUserAgent = "NewsAggregatorBot/1.0"
	scrapeTimeout   = 10 * time.Second
)

// newScrapeCollector 按页面地址构造 colly 采集器，允许域名从地址推导，
// 这样测试可以把适配器指向 httptest 服务
func newScrapeCollector(pageURL string) *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains(allowedDomains(pageURL)...),
		colly.UserAgent(scrapeUserAgent),
	)
	c.SetRequestTimeout(scrapeTimeout)
	return c
}

func allowedDomains(pageURL string) []string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	host := u.Hostname()
	if strings.HasPrefix(host, "www.") {
		return []string{host, strings.TrimPrefix(host, "www.")}
	}
	return []string{host, "www." + host}
}

// headlineLink 从标题节点就近解析条目链接：优先祖先 <a>，其次子孙节点里
// 第一个可用的 <a>，相对地址解析为绝对地址。找不到时返回空串，由调用方
// 退回栏目首页。
func headlineLink(e *colly.HTMLElement) string {
	if href, ok := e.DOM.Closest("a").Attr("href"); ok && usableHref(href) {
		return e.Request.AbsoluteURL(strings.TrimSpace(href))
	}

	link := ""
	e.DOM.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok && usableHref(href) {
			link = e.Request.AbsoluteURL(strings.TrimSpace(href))
			return false
		}
		return true
	})
	return link
}

// usableHref 排除空链接、页内锚点与脚本伪链接
func usableHref(href string) bool {
	href = strings.TrimSpace(href)
	return href != "" && !strings.HasPrefix(href, "#") && !strings.HasPrefix(href, "javascript:")
}

// nowTimestamp 返回采集时刻的 ISO-8601 文本；上游不提供发布时间时
// 统一以该时刻作为 publishedAt
func nowTimestamp() string {
	return time.Now().Format(time.RFC3339)
}
