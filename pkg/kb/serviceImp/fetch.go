package serviceImp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"agriverse/pkg/apperr"
	"agriverse/pkg/kb/service"
)

type fetcher func(ctx context.Context, u string, maxBytes int) (text, title string, err error)

var httpClient = &http.Client{Timeout: 20 * time.Second}

func (s *Svc) IngestURL(ctx context.Context, req service.IngestURLRequest) (*service.IngestResult, error) {
	u, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, apperr.Invalid("url must be an absolute http(s) url")
	}
	if !s.allow[strings.ToLower(u.Hostname())] {
		return nil, apperr.Forbidden("domain %s is not allowed", u.Hostname())
	}

	text, title, err := s.fetch(ctx, u.String(), s.maxBytes)
	if err != nil {
		s.log.Warn("kb fetch failed", "url", u.String(), "error", err)
		return nil, apperr.Invalid("could not ingest %s: %v", u.String(), err)
	}
	if req.Title != "" {
		title = req.Title
	}
	if title == "" {
		title = u.Hostname()
	}
	return s.Ingest(service.IngestRequest{Title: title, Tags: req.Tags, Text: text, SourceURL: u.String()})
}

func httpFetch(ctx context.Context, u string, maxBytes int) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("status %d", resp.StatusCode)
	}
	if resp.ContentLength > int64(maxBytes) {
		return "", "", fmt.Errorf("page too large")
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)))
	if err != nil {
		return "", "", err
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "text/plain"):
		return string(b), firstLine(string(b)), nil
	case strings.Contains(ct, "text/html"):
		return mainText(b)
	}
	return "", "", fmt.Errorf("unsupported content-type %q", ct)
}

// mainText keeps headings, paragraphs and list items, preferring main/article.
func mainText(page []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", "", err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())

	sel := doc.Find("main, article")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	var parts []string
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return cleanWhitespace(strings.Join(parts, "\n")), title, nil
}

var wsRX = regexp.MustCompile(`\s+\n`)

func cleanWhitespace(s string) string {
	return wsRX.ReplaceAllString(strings.ReplaceAll(s, "\r", ""), "\n")
}

func firstLine(s string) string {
	line := strings.SplitN(strings.TrimSpace(s), "\n", 2)[0]
	if len(line) > 120 {
		line = line[:120]
	}
	return line
}
