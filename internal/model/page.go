package model

// SectionKind classifies a text block extracted from a page.
type SectionKind string

const (
	SectionHeading   SectionKind = "heading"
	SectionParagraph SectionKind = "paragraph"
	SectionUList     SectionKind = "ulist"
	SectionOList     SectionKind = "olist"
	SectionBlock     SectionKind = "block"
)

// PageRole classifies how a crawled page was reached.
type PageRole string

const (
	RoleMain           PageRole = "main"
	RoleStaffCandidate PageRole = "staff-candidate"
	RoleOther          PageRole = "other"
)

// PageSection is a tagged text block extracted from one page. List sections
// carry their items in Items and leave Text empty; all other kinds use Text.
// Sections preserve document order within a page and page discovery order
// across a crawl.
type PageSection struct {
	Kind    SectionKind `json:"kind"`
	Level   int         `json:"level,omitempty"` // heading level 1-6
	Text    string      `json:"text,omitempty"`
	Items   []string    `json:"items,omitempty"`
	PageURL string      `json:"page_url"`
	Role    PageRole    `json:"role"`
}

// CrawlDocument is the aggregated output of one business crawl: every
// extracted section with provenance, plus the emails and staff-page URLs
// discovered along the way. Immutable once produced.
type CrawlDocument struct {
	Practice     string        `json:"practice"`
	Website      string        `json:"website"` // cleaned canonical form
	Sections     []PageSection `json:"sections"`
	Emails       []string      `json:"emails"`       // deduplicated, discovery order
	DoctorPages  []string      `json:"doctor_pages"` // candidate staff-page URLs
	PagesVisited []string      `json:"pages_visited"`
}

// CrawlResult is the per-business outcome of the crawl phase. Err is set when
// the crawl could not start or the main page was unreachable; Doc is nil in
// that case.
type CrawlResult struct {
	Row      int            `json:"row"`
	Practice string         `json:"practice"`
	Doc      *CrawlDocument `json:"doc,omitempty"`
	Err      string         `json:"error,omitempty"`
}
