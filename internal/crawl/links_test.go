package crawl

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsePage(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestDiscoverLinks(t *testing.T) {
	base, err := url.Parse("https://wisemind.com.au")
	require.NoError(t, err)

	doc := parsePage(t, `<html><body>
		<a href="/our-team">Our Team</a>
		<a href="https://wisemind.com.au/fees">Fees</a>
		<a href="https://www.wisemind.com.au/services#booking">Services</a>
		<a href="/contact">Find us</a>
		<a href="/page2">Psychologists here</a>
		<a href="https://facebook.com/wisemind">About us on Facebook</a>
		<a href="mailto:admin@wisemind.com.au">Email</a>
		<a href="tel:0754915522">Call</a>
		<a href="#top">Top</a>
		<a href="javascript:void(0)">Menu</a>
	</body></html>`)

	got := DiscoverLinks(doc, base)
	assert.Equal(t, []string{
		"https://wisemind.com.au/our-team",
		"https://wisemind.com.au/fees",
		"https://www.wisemind.com.au/services", // fragment stripped, www tolerated
		"https://wisemind.com.au/page2",       // matched via anchor text
	}, got)
}

func TestDiscoverLinksNoKeywordMatch(t *testing.T) {
	base, _ := url.Parse("https://example.com")
	doc := parsePage(t, `<a href="/blog">Blog</a><a href="/privacy">Privacy</a>`)
	assert.Empty(t, DiscoverLinks(doc, base))
}

func TestSameDomain(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"https://www.example.com/x", "https://example.com", true},
		{"https://EXAMPLE.com", "https://example.com", true},
		{"https://sub.example.com", "https://example.com", false},
		{"https://other.com", "https://example.com", false},
	}
	for _, tt := range tests {
		a, _ := url.Parse(tt.a)
		b, _ := url.Parse(tt.b)
		assert.Equal(t, tt.want, SameDomain(a, b), "%s vs %s", tt.a, tt.b)
	}
}

func TestIsStaffPage(t *testing.T) {
	assert.True(t, isStaffPage("https://example.com/our-team"))
	assert.True(t, isStaffPage("https://example.com/About-Us"))
	assert.True(t, isStaffPage("https://example.com/meet-our-psychologists"))
	assert.False(t, isStaffPage("https://example.com/fees"))
	assert.False(t, isStaffPage("https://example.com/services"))
}
