package crawl

import (
	"bytes"
	"context"
	"math/rand/v2"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/praxisdata/clinic-enrich/internal/fetcher"
	"github.com/praxisdata/clinic-enrich/internal/model"
)

var emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// ErrNoWebsite is the recorded error text for records without a usable
// website field.
const ErrNoWebsite = "missing or invalid website URL"

// Crawler runs the per-business crawl state machine: fetch the main page,
// discover candidate subpages, fetch each unvisited candidate with a short
// randomized delay, and aggregate everything into one CrawlDocument.
type Crawler struct {
	fetch     *fetcher.Client
	pageDelay func() time.Duration
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithPageDelay overrides the inter-subpage delay. Tests pass a zero delay.
func WithPageDelay(fn func() time.Duration) Option {
	return func(c *Crawler) { c.pageDelay = fn }
}

// New creates a Crawler. The default inter-subpage delay is a randomized
// 1–2s to bound request rate against a single site.
func New(fetch *fetcher.Client, opts ...Option) *Crawler {
	c := &Crawler{
		fetch: fetch,
		pageDelay: func() time.Duration {
			return time.Second + time.Duration(rand.Int64N(int64(time.Second)))
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CleanWebsite normalizes a raw website field: trims, prepends https:// when
// no scheme is present, and strips a trailing slash. Returns false for an
// empty field.
func CleanWebsite(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return strings.TrimSuffix(raw, "/"), true
}

// CrawlBusiness crawls one business's website. A missing website or an
// unreachable main page terminates the crawl with a recorded error; subpage
// failures are skipped silently and the crawl continues.
func (c *Crawler) CrawlBusiness(ctx context.Context, rec model.BusinessRecord) model.CrawlResult {
	result := model.CrawlResult{Row: rec.Row, Practice: rec.Practice}

	website, ok := CleanWebsite(rec.Website)
	if !ok {
		zap.L().Warn("crawl: no usable website",
			zap.String("practice", rec.Practice),
		)
		result.Err = ErrNoWebsite
		return result
	}

	zap.L().Info("crawl: starting",
		zap.String("practice", rec.Practice),
		zap.String("website", website),
	)

	main, err := c.fetch.Fetch(ctx, website)
	if err != nil {
		zap.L().Warn("crawl: main page fetch failed",
			zap.String("practice", rec.Practice),
			zap.String("website", website),
			zap.Error(err),
		)
		result.Err = "failed to fetch " + website + ": " + string(fetcher.KindOf(err))
		return result
	}

	doc := &model.CrawlDocument{Practice: rec.Practice, Website: website}
	doc.PagesVisited = append(doc.PagesVisited, website)

	sections, err := ExtractSections(main.Body, website, model.RoleMain)
	if err != nil {
		result.Err = "failed to parse " + website
		return result
	}
	doc.Sections = sections

	candidates := c.discoverCandidates(main.Body, website)
	doc.DoctorPages = dedupe(candidates)

	visited := map[string]bool{website: true}
	for _, pageURL := range candidates {
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		if !sleepCtx(ctx, c.pageDelay()) {
			break // cancelled: keep what we have so far
		}

		page, err := c.fetch.Fetch(ctx, pageURL)
		if err != nil {
			zap.L().Debug("crawl: subpage fetch failed, skipping",
				zap.String("url", pageURL),
				zap.Error(err),
			)
			continue
		}

		role := model.RoleOther
		if isStaffPage(pageURL) {
			role = model.RoleStaffCandidate
		}
		pageSections, err := ExtractSections(page.Body, pageURL, role)
		if err != nil {
			continue
		}
		doc.Sections = append(doc.Sections, pageSections...)
		doc.PagesVisited = append(doc.PagesVisited, pageURL)
	}

	doc.Emails = findEmails(doc.Sections)

	zap.L().Info("crawl: done",
		zap.String("practice", rec.Practice),
		zap.Int("pages", len(doc.PagesVisited)),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("emails", len(doc.Emails)),
	)

	result.Doc = doc
	return result
}

// discoverCandidates parses the main page a second time for anchors. Parse
// failures yield no candidates; the main-page sections already extracted
// still stand.
func (c *Crawler) discoverCandidates(body []byte, website string) []string {
	base, err := url.Parse(website)
	if err != nil {
		return nil
	}
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	return DiscoverLinks(gq, base)
}

// findEmails sweeps all accumulated section text for email addresses,
// deduplicated in discovery order.
func findEmails(sections []model.PageSection) []string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString(s.Text)
		b.WriteString("\n")
		for _, item := range s.Items {
			b.WriteString(item)
			b.WriteString("\n")
		}
	}
	return dedupe(emailRe.FindAllString(b.String(), -1))
}

// sleepCtx waits for d, returning false if the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
