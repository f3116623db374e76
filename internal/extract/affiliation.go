package extract

import "strings"

// departmentPrefixes mark affiliation segments that name an organizational
// unit rather than the institution itself.
var departmentPrefixes = []string{
	"Department of",
	"Division of",
	"Center for",
	"Institute of",
}

// locationIndicators are substrings (matched case-insensitively) that
// suggest an affiliation segment is a place rather than an institution.
var locationIndicators = []string{
	"USA", "UK", "MA", "CA", "SWITZERLAND", "BOSTON", "CAMBRIDGE",
}

// ResolveCompany extracts the institution name from a comma-separated
// affiliation string. A leading department segment is skipped in favor of
// the next segment when one exists. Never returns an empty string.
func ResolveCompany(affiliation string) string {
	parts := strings.Split(affiliation, ",")
	if len(parts) == 0 || strings.TrimSpace(parts[0]) == "" {
		return "Unknown"
	}
	company := strings.TrimSpace(parts[0])
	for _, prefix := range departmentPrefixes {
		if strings.HasPrefix(company, prefix) && len(parts) > 1 {
			return strings.TrimSpace(parts[1])
		}
	}
	return company
}

// ResolveLocation extracts a location from a comma-separated affiliation
// string, scanning from the end for a segment containing a known place
// indicator and falling back to the last segment. Never returns an empty
// string.
func ResolveLocation(affiliation string) string {
	parts := strings.Split(affiliation, ",")

	for i := len(parts) - 1; i >= 0; i-- {
		part := strings.TrimSpace(parts[i])
		upper := strings.ToUpper(part)
		for _, indicator := range locationIndicators {
			if strings.Contains(upper, indicator) {
				return part
			}
		}
	}

	if last := strings.TrimSpace(parts[len(parts)-1]); last != "" {
		return last
	}
	return "Unknown"
}
