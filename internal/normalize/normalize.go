// Package normalize canonicalizes the individual field values of a business
// record: addresses, phone numbers, emails, URLs, prices, practitioner
// categories, and staff names. Every function returns the canonical value and
// whether the input was recognizably valid; on invalid input the original
// value comes back so callers can decide whether to keep it.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlRe   = regexp.MustCompile(`^(http|https)://[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(/.*)?$`)
	priceRe = regexp.MustCompile(`\$?(\d+(?:\.\d{2})?)`)
	spaceRe = regexp.MustCompile(`\s+`)

	titleCaser = cases.Title(language.English, cases.NoLower)
)

// Email lowercases and trims an email address. Invalid emails come back
// unmodified with ok=false.
func Email(email string) (string, bool) {
	if email == "" {
		return "", false
	}
	cleaned := strings.ToLower(strings.TrimSpace(email))
	if emailRe.MatchString(cleaned) {
		return cleaned, true
	}
	return email, false
}

// URL trims a URL and prepends http:// when no scheme is present, then
// checks it for a plausible host. The (possibly prefixed) value is returned
// either way.
func URL(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	cleaned := strings.TrimSpace(rawURL)
	if !strings.HasPrefix(cleaned, "http://") && !strings.HasPrefix(cleaned, "https://") {
		cleaned = "http://" + cleaned
	}
	return cleaned, urlRe.MatchString(cleaned)
}

// Phone canonicalizes an Australian phone number: strip everything but
// digits, restore a dropped leading zero on 9-digit mobiles, then format by
// prefix. 8 to 12 digits are accepted; anything else comes back unmodified.
func Phone(phone string) (string, bool) {
	if phone == "" {
		return "", false
	}

	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	// Mobiles entered without the leading zero.
	if len(d) == 9 && d[0] == '4' {
		d = "0" + d
	}

	if len(d) < 8 || len(d) > 12 {
		return phone, false
	}

	switch {
	case len(d) == 10 && strings.HasPrefix(d, "04"):
		return "0" + d[1:4] + " " + d[4:7] + " " + d[7:10], true
	case len(d) == 10 && (strings.HasPrefix(d, "02") || strings.HasPrefix(d, "03") ||
		strings.HasPrefix(d, "07") || strings.HasPrefix(d, "08")):
		return "(" + d[0:2] + ") " + d[2:6] + " " + d[6:10], true
	case len(d) == 10 && (strings.HasPrefix(d, "1300") || strings.HasPrefix(d, "1800")):
		return d[0:4] + " " + d[4:7] + " " + d[7:10], true
	case len(d) == 8:
		return d[0:4] + " " + d[4:8], true
	case len(d) == 9:
		return d[0:3] + " " + d[3:6] + " " + d[6:9], true
	default:
		return d, true
	}
}

// Price extracts the first numeric amount from a price string, dropping any
// dollar sign. "$220.00" and "220" both yield their bare amounts.
func Price(price string) (string, bool) {
	if price == "" {
		return "", false
	}
	if m := priceRe.FindStringSubmatch(price); m != nil {
		return m[1], true
	}
	return price, false
}

// Category canonicalizes a practitioner category to "C" (clinical) or "G"
// (general). Unrecognized values yield "" with ok=false.
func Category(category string) (string, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(category))
	if cleaned == "" {
		return "", false
	}
	switch {
	case cleaned == "C" || cleaned == "G":
		return cleaned, true
	case strings.HasPrefix(cleaned, "C") || strings.Contains(cleaned, "CLINICAL"):
		return "C", true
	case strings.HasPrefix(cleaned, "G") || strings.Contains(cleaned, "GENERAL"):
		return "G", true
	default:
		return "", false
	}
}

// StaffName collapses runs of whitespace and title-cases each word without
// lowercasing existing capitals, so "dr jane SMITH" becomes "Dr Jane SMITH".
func StaffName(name string) string {
	cleaned := spaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}
