package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisdata/clinic-enrich/internal/model"
)

func TestExtractSections(t *testing.T) {
	html := []byte(`<html><head><style>p { color: red }</style></head><body>
		<h1>Wisemind Psychology</h1>
		<script>var tracking = true;</script>
		<p>We provide clinical psychology services.</p>
		<h2>Our Team</h2>
		<p>Meet our psychologists.</p>
		<ul><li>Dr Jane Smith</li><li>Dr Alan Wu</li></ul>
		<ol><li>Book online</li><li>Attend session</li></ol>
		<div>Call us on 07 5491 5522</div>
		<div><p>nested, already captured</p></div>
	</body></html>`)

	secs, err := ExtractSections(html, "https://wisemind.com.au", model.RoleMain)
	require.NoError(t, err)

	var kinds []model.SectionKind
	for _, s := range secs {
		kinds = append(kinds, s.Kind)
	}
	// Kind-grouped: all headings, then paragraphs, then lists, then blocks.
	// The paragraph inside a div is still a paragraph; only residual divs
	// are filtered for nesting.
	assert.Equal(t, []model.SectionKind{
		model.SectionHeading, model.SectionHeading,
		model.SectionParagraph, model.SectionParagraph, model.SectionParagraph,
		model.SectionUList, model.SectionOList,
		model.SectionBlock,
	}, kinds)

	assert.Equal(t, "Wisemind Psychology", secs[0].Text)
	assert.Equal(t, 1, secs[0].Level)
	assert.Equal(t, "Our Team", secs[1].Text)
	assert.Equal(t, 2, secs[1].Level)

	// Script and style content must not leak into any section.
	for _, s := range secs {
		assert.NotContains(t, s.Text, "tracking")
		assert.NotContains(t, s.Text, "color: red")
	}

	assert.Equal(t, "nested, already captured", secs[4].Text)

	assert.Equal(t, []string{"Dr Jane Smith", "Dr Alan Wu"}, secs[5].Items)
	assert.Equal(t, []string{"Book online", "Attend session"}, secs[6].Items)

	// Only the leaf div qualifies as a block; the div wrapping a <p> does not.
	assert.Equal(t, "Call us on 07 5491 5522", secs[7].Text)

	for _, s := range secs {
		assert.Equal(t, "https://wisemind.com.au", s.PageURL)
		assert.Equal(t, model.RoleMain, s.Role)
	}
}

func TestExtractSectionsEmptyContent(t *testing.T) {
	html := []byte(`<html><body><h1>  </h1><p></p><ul><li> </li></ul></body></html>`)
	secs, err := ExtractSections(html, "https://example.com", model.RoleOther)
	require.NoError(t, err)
	assert.Empty(t, secs)
}
