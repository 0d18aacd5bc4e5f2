// Package crawl implements the per-business website crawl: page text
// extraction, candidate-link discovery, the crawl state machine, and the
// batched worker pool that runs crawls concurrently.
package crawl

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/praxisdata/clinic-enrich/internal/model"
)

// ExtractSections converts raw HTML into tagged text sections. Script and
// style content is dropped first. Sections are collected in a fixed kind
// precedence — headings h1..h6, paragraphs, unordered lists, ordered lists,
// then leftover div blocks that contain none of the above — so the output is
// grouped by kind rather than document order. Within a kind, document order
// is preserved. Empty-after-trim content is dropped.
func ExtractSections(rawHTML []byte, pageURL string, role model.PageRole) ([]model.PageSection, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, eris.Wrap(err, "crawl: parse html")
	}
	doc.Find("script, style").Remove()

	var sections []model.PageSection

	for level := 1; level <= 6; level++ {
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text == "" {
				return
			}
			sections = append(sections, model.PageSection{
				Kind:    model.SectionHeading,
				Level:   level,
				Text:    text,
				PageURL: pageURL,
				Role:    role,
			})
		})
	}

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		sections = append(sections, model.PageSection{
			Kind:    model.SectionParagraph,
			Text:    text,
			PageURL: pageURL,
			Role:    role,
		})
	})

	sections = append(sections, listSections(doc, "ul", model.SectionUList, pageURL, role)...)
	sections = append(sections, listSections(doc, "ol", model.SectionOList, pageURL, role)...)

	// Remaining divs: emit only containers that hold none of the elements
	// captured above, so nested content is not duplicated.
	doc.Find("div").Each(func(_ int, s *goquery.Selection) {
		if s.Find("h1, h2, h3, h4, h5, h6, p, ul, ol").Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		sections = append(sections, model.PageSection{
			Kind:    model.SectionBlock,
			Text:    text,
			PageURL: pageURL,
			Role:    role,
		})
	})

	return sections, nil
}

// listSections collapses each list element into one section holding its
// non-empty items. Lists with no non-empty items are dropped.
func listSections(doc *goquery.Document, tag string, kind model.SectionKind, pageURL string, role model.PageRole) []model.PageSection {
	var sections []model.PageSection
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		var items []string
		s.Find("li").Each(func(_ int, li *goquery.Selection) {
			if text := strings.TrimSpace(li.Text()); text != "" {
				items = append(items, text)
			}
		})
		if len(items) == 0 {
			return
		}
		sections = append(sections, model.PageSection{
			Kind:    kind,
			Items:   items,
			PageURL: pageURL,
			Role:    role,
		})
	})
	return sections
}
