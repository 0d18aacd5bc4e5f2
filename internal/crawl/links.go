package crawl

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// targetKeywords mark links likely to lead to staff, service, or fee pages.
// Matching is case-insensitive substring matching against the anchor text and
// the full URL, so a keyword inside a longer word still matches (accepted
// imprecision).
var targetKeywords = []string{
	"about", "about-us", "our-team", "our-doctors", "our-psychologists",
	"team", "staff", "practitioners", "doctors", "psychologists", "clinicians",
	"our-services", "services", "fees", "pricing",
}

// staffKeywords is the subset whose presence in a URL marks a fetched page as
// a staff-candidate rather than a generic subpage.
var staffKeywords = []string{
	"about", "team", "staff", "doctors", "practitioners", "psychologists",
}

// DiscoverLinks returns candidate subpage URLs from the page's anchors, in
// document order. Relative hrefs are resolved against base; only same-domain
// links whose anchor text or URL contains a target keyword are kept.
// Duplicates are preserved — the crawler's visited set dedupes.
func DiscoverLinks(doc *goquery.Document, base *url.URL) []string {
	var candidates []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""

		if !SameDomain(abs, base) {
			return
		}

		anchorText := strings.ToLower(strings.TrimSpace(s.Text()))
		target := strings.ToLower(abs.String())
		for _, kw := range targetKeywords {
			if strings.Contains(anchorText, kw) || strings.Contains(target, kw) {
				candidates = append(candidates, abs.String())
				return
			}
		}
	})

	return candidates
}

// SameDomain reports whether two URLs share a host after stripping a leading
// "www." from both sides.
func SameDomain(a, b *url.URL) bool {
	return stripWWW(a.Host) == stripWWW(b.Host)
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// isStaffPage reports whether a URL points at a likely staff/team page.
func isStaffPage(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, kw := range staffKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
