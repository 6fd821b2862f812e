package admission

import (
	"context"
	"strings"
)

type BotCategory string

const (
	BotCategorySearchEngine BotCategory = "SEARCH_ENGINE"
	BotCategoryPreview      BotCategory = "PREVIEW"
	BotCategoryMonitor      BotCategory = "MONITOR"
	BotCategoryTool         BotCategory = "TOOL"
	BotCategoryUnknown      BotCategory = "UNKNOWN"
)

var botMarkers = []struct {
	category BotCategory
	markers  []string
}{
	{BotCategorySearchEngine, []string{"googlebot", "bingbot", "duckduckbot", "yandexbot", "baiduspider", "applebot", "slurp"}},
	{BotCategoryPreview, []string{"slackbot-linkexpanding", "facebookexternalhit", "twitterbot", "discordbot", "whatsapp", "telegrambot", "linkedinbot"}},
	{BotCategoryMonitor, []string{"uptimerobot", "pingdom", "statuscake", "datadog"}},
	{BotCategoryTool, []string{"curl/", "wget/", "python-requests", "python-urllib", "go-http-client", "scrapy", "httpie", "postmanruntime", "okhttp", "headlesschrome", "phantomjs"}},
}

var genericBotMarkers = []string{"bot", "crawler", "spider", "scraper"}

// ClassifyUserAgent returns the bot category of ua, or false for a regular browser.
// An empty User-Agent is treated as automated.
func ClassifyUserAgent(ua string) (BotCategory, bool) {
	ua = strings.ToLower(strings.TrimSpace(ua))
	if ua == "" {
		return BotCategoryUnknown, true
	}
	for _, group := range botMarkers {
		if _, ok := containsAny(ua, group.markers); ok {
			return group.category, true
		}
	}
	if _, ok := containsAny(ua, genericBotMarkers); ok {
		return BotCategoryUnknown, true
	}
	return "", false
}

// BotRule blocks automated clients outside the allowed categories.
type BotRule struct {
	mode  Mode
	allow map[BotCategory]bool
}

func NewBotRule(mode Mode, allowed ...BotCategory) *BotRule {
	allow := make(map[BotCategory]bool, len(allowed))
	for _, c := range allowed {
		allow[BotCategory(strings.ToUpper(string(c)))] = true
	}
	return &BotRule{mode: mode, allow: allow}
}

func (r *BotRule) Name() string { return "bot" }

func (r *BotRule) Mode() Mode { return r.mode }

func (r *BotRule) Evaluate(ctx context.Context, req *Request) (Decision, error) {
	category, isBot := ClassifyUserAgent(req.UserAgent)
	if !isBot || r.allow[category] {
		return allow(r.Name()), nil
	}
	return deny(r.Name(), ReasonBot, string(category)), nil
}
