package crawl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/praxisdata/clinic-enrich/internal/model"
)

// MappingFileName links practice names to their artifact files inside the
// crawl output directory.
const MappingFileName = "practice_mapping.txt"

// RenderDocument flattens a crawl document into the text artifact fed to the
// extraction model. Main-page content comes first, then one delimited block
// per additional page visited, staff pages labelled distinctly so the model
// can weight them.
func RenderDocument(doc model.CrawlDocument) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Practice: %s\n", doc.Practice)
	fmt.Fprintf(&b, "Website: %s\n", doc.Website)
	fmt.Fprintf(&b, "Emails: %s\n", strings.Join(doc.Emails, ", "))
	fmt.Fprintf(&b, "Doctor Pages: %s\n", strings.Join(doc.DoctorPages, ", "))
	b.WriteString("\n--- MAIN PAGE CONTENT ---\n")

	// Group sections by source page, preserving crawl order.
	byPage := make(map[string][]model.PageSection)
	for _, sec := range doc.Sections {
		byPage[sec.PageURL] = append(byPage[sec.PageURL], sec)
	}

	writeSections(&b, byPage[doc.Website])

	for _, page := range doc.PagesVisited {
		if page == doc.Website {
			continue
		}
		secs := byPage[page]
		if len(secs) == 0 {
			continue
		}
		if secs[0].Role == model.RoleStaffCandidate {
			fmt.Fprintf(&b, "\n--- DOCTOR PAGE: %s ---\n", page)
		} else {
			fmt.Fprintf(&b, "\n--- OTHER PAGE: %s ---\n", page)
		}
		writeSections(&b, secs)
	}

	return b.String()
}

func writeSections(b *strings.Builder, secs []model.PageSection) {
	for _, sec := range secs {
		switch sec.Kind {
		case model.SectionHeading:
			fmt.Fprintf(b, "<h%d>%s</h%d>\n", sec.Level, sec.Text, sec.Level)
		case model.SectionParagraph:
			fmt.Fprintf(b, "<p>%s</p>\n", sec.Text)
		case model.SectionUList, model.SectionOList:
			tag := "ul"
			if sec.Kind == model.SectionOList {
				tag = "ol"
			}
			fmt.Fprintf(b, "<%s>\n", tag)
			for _, item := range sec.Items {
				fmt.Fprintf(b, "  <li>%s</li>\n", item)
			}
			fmt.Fprintf(b, "</%s>\n", tag)
		case model.SectionBlock:
			fmt.Fprintf(b, "<div>%s</div>\n", sec.Text)
		}
	}
}

// SafeFileName converts a practice name to a filesystem-safe artifact stem.
func SafeFileName(practice string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(practice) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "practice"
	}
	return name
}

// WriteArtifact persists a rendered crawl document under dir and appends the
// file-to-practice mapping entry. Row disambiguates practices that collapse
// to the same safe name. The directory is created on first use.
func WriteArtifact(dir string, doc model.CrawlDocument, row int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "crawl: create artifact dir")
	}

	fileName := fmt.Sprintf("%s_%d.txt", SafeFileName(doc.Practice), row)
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, []byte(RenderDocument(doc)), 0o644); err != nil {
		return "", eris.Wrap(err, "crawl: write artifact")
	}

	mapping, err := os.OpenFile(filepath.Join(dir, MappingFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", eris.Wrap(err, "crawl: open practice mapping")
	}
	defer mapping.Close()
	if _, err := fmt.Fprintf(mapping, "%s\t%s\n", fileName, doc.Practice); err != nil {
		return "", eris.Wrap(err, "crawl: append practice mapping")
	}

	return path, nil
}
