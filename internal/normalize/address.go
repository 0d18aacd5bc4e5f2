package normalize

import (
	"regexp"
	"strings"
)

// auStates are the Australian state and territory abbreviations recognized in
// address text.
var auStates = []string{"NSW", "VIC", "QLD", "SA", "WA", "TAS", "NT", "ACT"}

var (
	// unitRe matches a leading unit or suite designator like "Unit 2/40",
	// "2/7" or "35B\12"; group 2 is the building number, group 3 the rest.
	unitRe = regexp.MustCompile(`^((?:Unit\s+)?[\dA-Za-z]+[/\\])(\d+(?:[A-Za-z])?)\s+(.+)$`)

	// standardAddrRe: "40 Minchinton St, Caloundra QLD 4551".
	standardAddrRe = regexp.MustCompile(`^\d+\s+[\w\s]+,\s+[\w\s]+\s+[A-Z]{2,3}\s+\d{4,5}$`)
	// cornerAddrRe: "Cnr Smith St & Jones Rd, Caloundra QLD 4551".
	cornerAddrRe = regexp.MustCompile(`^Cnr\s+[\w\s]+\s+&\s+[\w\s]+,\s+[\w\s]+\s+[A-Z]{2,3}\s+\d{4,5}$`)

	postcodeRe = regexp.MustCompile(`\b\d{4}\b`)
)

// Address canonicalizes an Australian street address. A leading unit
// designator is stripped down to the building number, then the result is
// checked against the standard and corner-address shapes. Addresses that fit
// neither shape but carry a state token and a 4-digit postcode are rebuilt
// around those anchors; anything still unrecognized comes back unmodified
// with ok=false.
func Address(address string) (string, bool) {
	if address == "" {
		return "", false
	}
	address = strings.TrimSpace(address)

	if m := unitRe.FindStringSubmatch(address); m != nil {
		address = m[2] + " " + m[3]
	}

	if standardAddrRe.MatchString(address) || cornerAddrRe.MatchString(address) {
		return address, true
	}

	if rebuilt, ok := rebuildAddress(address); ok {
		return rebuilt, true
	}
	return address, false
}

// rebuildAddress restructures a loosely formatted address around its state
// token and postcode: "40 Minchinton St Caloundra QLD 4551" becomes
// "40 Minchinton St, Caloundra QLD 4551". Heuristic only: it assumes the
// segment before the state ends with the suburb. Succeeds only when the
// rebuilt form passes the shape check.
func rebuildAddress(address string) (string, bool) {
	postcode := postcodeRe.FindString(address)
	if postcode == "" {
		return "", false
	}

	var state string
	padded := " " + address + " "
	for _, s := range auStates {
		if strings.Contains(padded, " "+s+" ") {
			state = s
			break
		}
	}
	if state == "" {
		return "", false
	}

	stateRe := regexp.MustCompile(`\s+` + state + `\s+`)
	parts := stateRe.Split(address, -1)
	if len(parts) != 2 {
		return "", false
	}

	streetPart := strings.TrimSpace(parts[0])
	if !strings.Contains(streetPart, ",") {
		// Peel the suburb off the end of the street segment.
		if idx := strings.LastIndex(streetPart, " "); idx > 0 {
			streetPart = strings.TrimSpace(streetPart[:idx]) + ", " + strings.TrimSpace(streetPart[idx+1:])
		}
	}

	rebuilt := streetPart + " " + state + " " + postcode
	if standardAddrRe.MatchString(rebuilt) || cornerAddrRe.MatchString(rebuilt) {
		return rebuilt, true
	}
	return "", false
}
