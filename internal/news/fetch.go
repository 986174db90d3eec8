// Package news fetches and normalizes market headlines for a watchlist of
// tickers from multiple sources: Alpaca, Google News RSS, and GlobeNewswire
// RSS. External schemas are messy — timestamps in particular arrive in
// several shapes — so extraction runs an explicit ordered list of parse
// strategies and collapses everything into one Headline record type.
package news

import (
	"context"
	"encoding/xml"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// Headline is one normalized news item from any source.
type Headline struct {
	Symbol  string
	Company string
	Source  string
	Time    time.Time
	Title   string
	Summary string
}

// Source fetches headlines for one symbol within [start, end]. Fetch returns
// whatever it could parse; individual malformed items are skipped, not
// surfaced as errors.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string, start, end time.Time) ([]Headline, error)
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// ---------------------------------------------------------------------------
// Timestamp extraction
//
// Each strategy either succeeds or reports absence; the first success wins.
// Raising on a weird timestamp would let one malformed item poison a feed.
// ---------------------------------------------------------------------------

var timeLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 02 Jan 2006 15:04 MST",
	"2006-01-02T15:04:05Z",
}

// parseTimestamp tries each extraction strategy in order: unix seconds
// first, then the known string layouts. The second return value reports
// whether any strategy succeeded.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), true
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ---------------------------------------------------------------------------
// Alpaca
// ---------------------------------------------------------------------------

// AlpacaSource fetches news from the Alpaca market-data API.
type AlpacaSource struct {
	Client *marketdata.Client
}

// Name returns "alpaca".
func (s *AlpacaSource) Name() string { return "alpaca" }

// Fetch returns Alpaca news articles for the symbol within [start, end].
func (s *AlpacaSource) Fetch(_ context.Context, symbol string, start, end time.Time) ([]Headline, error) {
	articles, err := s.Client.GetNews(marketdata.GetNewsRequest{
		Symbols:            []string{symbol},
		Start:              start,
		End:                end,
		TotalLimit:         50,
		ExcludeContentless: true,
		Sort:               marketdata.SortAsc,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Headline, 0, len(articles))
	for _, a := range articles {
		summary := a.Summary
		if summary == "" && a.Content != "" {
			summary = StripHTML(a.Content)
		}
		out = append(out, Headline{
			Symbol:  symbol,
			Source:  "alpaca",
			Time:    a.CreatedAt,
			Title:   a.Headline,
			Summary: summary,
		})
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// RSS (Google News, GlobeNewswire)
// ---------------------------------------------------------------------------

type rssResponse struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	PubDate string `xml:"pubDate"`
	Desc    string `xml:"description"`
}

// fetchRSS downloads and decodes one RSS feed, normalizing items into
// Headlines within the window. Items whose timestamp resists every parse
// strategy are dropped.
func fetchRSS(ctx context.Context, feedURL, source, symbol string, start, end time.Time) ([]Headline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rss rssResponse
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return nil, err
	}

	var out []Headline
	for _, item := range rss.Channel.Items {
		t, ok := parseTimestamp(item.PubDate)
		if !ok {
			continue
		}
		if t.Before(start) || t.After(end) {
			continue
		}
		out = append(out, Headline{
			Symbol:  symbol,
			Source:  source,
			Time:    t,
			Title:   cleanRSSTitle(item.Title, source),
			Summary: StripHTML(item.Desc),
		})
	}
	return out, nil
}

// cleanRSSTitle strips the trailing " - Publisher" suffix Google News
// appends to every title.
func cleanRSSTitle(title, source string) string {
	if source == "google" {
		if idx := strings.LastIndex(title, " - "); idx > 0 {
			return title[:idx]
		}
	}
	return title
}

// GoogleNewsSource fetches news from Google News RSS search.
type GoogleNewsSource struct{}

// Name returns "google".
func (GoogleNewsSource) Name() string { return "google" }

// Fetch returns Google News headlines mentioning the symbol within [start, end].
func (GoogleNewsSource) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]Headline, error) {
	q := url.QueryEscape(symbol + " stock")
	u := "https://news.google.com/rss/search?q=" + q + "&hl=en-US&gl=US&ceid=US:en"
	return fetchRSS(ctx, u, "google", symbol, start, end)
}

// GlobeNewswireSource fetches news from GlobeNewswire keyword RSS.
type GlobeNewswireSource struct{}

// Name returns "globenewswire".
func (GlobeNewswireSource) Name() string { return "globenewswire" }

// Fetch returns GlobeNewswire headlines for the symbol within [start, end].
func (GlobeNewswireSource) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]Headline, error) {
	u := "https://www.globenewswire.com/RssFeed/keyword/" + url.PathEscape(symbol) + "/feedTitle/GlobeNewswire.xml"
	return fetchRSS(ctx, u, "globenewswire", symbol, start, end)
}

// ---------------------------------------------------------------------------
// HTML helpers
// ---------------------------------------------------------------------------

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes HTML tags and normalizes whitespace.
func StripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
