package news

// Categories articles are filed under.
const (
	CategoryAI       = "ai"
	CategoryCloud    = "cloud"
	CategorySecurity = "security"
	CategoryStartup  = "startup"
	CategoryTech     = "tech"
)

// Feed is one RSS source.
type Feed struct {
	URL      string
	Source   string
	Category string
}

const (
	sourceGoogleNews = "Google News"
	sourceHackerNews = "Hacker News"
)

// DefaultFeeds returns the built-in sources in fetch order.
func DefaultFeeds() []Feed {
	return []Feed{
		{URL: "https://news.google.com/rss/search?q=artificial+intelligence&hl=ko&gl=KR&ceid=KR:ko", Source: sourceGoogleNews, Category: CategoryAI},
		{URL: "https://news.google.com/rss/search?q=ChatGPT+OR+GPT+OR+LLM&hl=ko&gl=KR&ceid=KR:ko", Source: sourceGoogleNews, Category: CategoryAI},
		{URL: "https://news.google.com/rss/search?q=cloud+computing+AWS+Azure&hl=ko&gl=KR&ceid=KR:ko", Source: sourceGoogleNews, Category: CategoryCloud},
		{URL: "https://news.google.com/rss/search?q=cybersecurity+%EC%82%AC%EC%9D%B4%EB%B2%84%EB%B3%B4%EC%95%88&hl=ko&gl=KR&ceid=KR:ko", Source: sourceGoogleNews, Category: CategorySecurity},
		{URL: "https://news.google.com/rss/search?q=%EC%8A%A4%ED%83%80%ED%8A%B8%EC%97%85+%ED%88%AC%EC%9E%90&hl=ko&gl=KR&ceid=KR:ko", Source: sourceGoogleNews, Category: CategoryStartup},
		{URL: "https://hnrss.org/newest?points=100", Source: sourceHackerNews, Category: CategoryTech},
		{URL: "https://news.google.com/rss/search?q=IT+%EA%B8%B0%EC%88%A0+%ED%85%8C%ED%81%AC&hl=ko&gl=KR&ceid=KR:ko", Source: sourceGoogleNews, Category: CategoryTech},
	}
}

// Categories lists every category in DefaultFeeds.
func Categories() []string {
	return []string{CategoryAI, CategoryCloud, CategorySecurity, CategoryStartup, CategoryTech}
}
