package adapter

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/careerwatch/internal/model"
)

// DefaultWrapbookURL is the Wrapbook careers page listing open positions.
const DefaultWrapbookURL = "https://www.wrapbook.com/careers#open-positions"

// Anchor selectors, strictest first. The first one that matches anything wins.
var wrapbookSelectors = []string{
	"a[href*='/careers/'][data-open-position]",
	"a[href*='/careers/']",
}

// WrapbookAdapter scrapes job links from the Wrapbook careers page.
type WrapbookAdapter struct {
	url    string
	client *http.Client
}

// NewWrapbookAdapter creates an adapter for the given careers page URL.
func NewWrapbookAdapter(url string, client *http.Client) *WrapbookAdapter {
	if url == "" {
		url = DefaultWrapbookURL
	}
	return &WrapbookAdapter{url: url, client: client}
}

// FetchJobs fetches the careers page and extracts one job per matching anchor.
// The job ID is the last path segment of the link; anchors without one are
// skipped. A page with no matching anchors yields no jobs and no error.
func (a *WrapbookAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	body, err := fetchBody(ctx, a.client, a.url)
	if err != nil {
		return nil, fmt.Errorf("wrapbook fetch: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, model.NewDecodeError(model.SourceWrapbook, body, err)
	}

	var links *goquery.Selection
	for _, sel := range wrapbookSelectors {
		links = doc.Find(sel)
		if links.Length() > 0 {
			break
		}
	}

	var jobs []model.Job
	links.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		id := lastPathSegment(href)
		if id == "" {
			return
		}
		jobs = append(jobs, model.Job{
			ID:     id,
			Source: model.SourceWrapbook,
			Title:  cleanText(s.Text()),
			URL:    href,
		})
	})
	return jobs, nil
}
