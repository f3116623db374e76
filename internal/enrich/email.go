// Package enrich fills in contact details for extracted leads: likely
// email addresses, profile URLs and conference suggestions.
package enrich

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	honorificRe   = regexp.MustCompile(`(?i)\b(Dr|Prof|Mr|Ms|Mrs)\.?\s+`)
	legalSuffixRe = regexp.MustCompile(`(?i)\s+(inc|corp|corporation|ltd|limited|llc|gmbh)\.?$`)
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9\s]`)
	slugCleanRe   = regexp.MustCompile(`[^a-z0-9-]`)
	emailRe       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// emailPatterns are ordered by how common each layout is; the first one
// is used as the primary guess.
var emailPatterns = []string{
	"%[1]s.%[2]s@%[4]s",
	"%[1]s%[2]s@%[4]s",
	"%[3]s%[2]s@%[4]s",
	"%[1]s_%[2]s@%[4]s",
}

// Enricher generates contact details from a lead's name and company.
type Enricher struct {
	profileTemplate string
}

// New creates an Enricher. profileTemplate is a fmt template with one %s
// verb for the name slug, e.g. "https://www.linkedin.com/in/%s".
func New(profileTemplate string) *Enricher {
	return &Enricher{profileTemplate: profileTemplate}
}

type nameParts struct {
	first string
	last  string
}

// parseName splits a full name into first and last, dropping honorifics
// and middle names. Returns false when fewer than two parts remain.
func parseName(name string) (nameParts, bool) {
	cleaned := honorificRe.ReplaceAllString(name, "")
	fields := strings.Fields(cleaned)
	if len(fields) < 2 {
		return nameParts{}, false
	}
	return nameParts{first: fields[0], last: fields[len(fields)-1]}, true
}

// deriveDomain guesses a company email domain: lowercase, legal suffix
// stripped, punctuation removed, first word plus ".com".
func deriveDomain(company string) string {
	c := strings.ToLower(company)
	c = legalSuffixRe.ReplaceAllString(c, "")
	c = nonAlnumRe.ReplaceAllString(c, "")

	words := strings.Fields(c)
	if len(words) == 0 {
		return "example.com"
	}
	return words[0] + ".com"
}

// Email returns the most likely email address for a person at a company,
// or "" when the name or company cannot be parsed.
func (e *Enricher) Email(name, company string) string {
	if name == "" || company == "" {
		return ""
	}
	parts, ok := parseName(name)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s.%s@%s",
		strings.ToLower(parts.first),
		strings.ToLower(parts.last),
		deriveDomain(company),
	)
}

// EmailPatterns returns all candidate addresses, most likely first.
func (e *Enricher) EmailPatterns(name, company string) []string {
	if name == "" || company == "" {
		return nil
	}
	parts, ok := parseName(name)
	if !ok {
		return nil
	}

	first := strings.ToLower(parts.first)
	last := strings.ToLower(parts.last)
	initial := first[:1]
	domain := deriveDomain(company)

	emails := make([]string, 0, len(emailPatterns))
	for _, pattern := range emailPatterns {
		emails = append(emails, fmt.Sprintf(pattern, first, last, initial, domain))
	}
	return emails
}

// ProfileURL builds a profile link from a "first-last" slug, or ""
// when the name cannot be parsed.
func (e *Enricher) ProfileURL(name string) string {
	parts, ok := parseName(name)
	if !ok {
		return ""
	}
	slug := strings.ToLower(parts.first) + "-" + strings.ToLower(parts.last)
	slug = slugCleanRe.ReplaceAllString(slug, "")
	return fmt.Sprintf(e.profileTemplate, slug)
}

// ValidEmail reports whether the address has a plausible format.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
