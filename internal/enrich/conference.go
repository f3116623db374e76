package enrich

import (
	"strings"

	"github.com/lumen-bio/leadscout/internal/model"
)

// conferenceRule maps topic keywords to the conferences where people
// working on that topic tend to present. Rules are evaluated in order.
type conferenceRule struct {
	keywords    []string
	conferences []string
}

var conferenceRules = []conferenceRule{
	{
		keywords:    []string{"toxicology", "toxicologist", "safety", "dili", "liver"},
		conferences: []string{"SOT (Society of Toxicology)"},
	},
	{
		keywords:    []string{"cancer", "oncology", "tumor", "carcinoma"},
		conferences: []string{"AACR (American Association for Cancer Research)"},
	},
	{
		keywords:    []string{"metabolism", "pharmacokinetics", "xenobiotic"},
		conferences: []string{"ISSX (International Society for the Study of Xenobiotics)"},
	},
	{
		keywords:    []string{"3d", "organoid", "spheroid", "organ-on-chip", "in vitro"},
		conferences: []string{"Organ-on-Chip World Summit", "3D Cell Culture Conference"},
	},
	{
		keywords:    []string{"hepat", "liver", "cirrhosis"},
		conferences: []string{"AASLD (American Association for the Study of Liver Diseases)"},
	},
}

const defaultConference = "SOT (Society of Toxicology)"

// SuggestConferences returns up to three likely conferences as a
// comma-separated string, matched against the lead's job title and
// publication titles. Falls back to the default toxicology venue when
// nothing matches.
func SuggestConferences(title string, publications []model.Publication) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(title))
	for _, pub := range publications {
		sb.WriteString(" ")
		sb.WriteString(strings.ToLower(pub.Title))
	}
	text := sb.String()

	var matched []string
	for _, rule := range conferenceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, rule.conferences...)
				break
			}
		}
	}

	if len(matched) == 0 {
		matched = []string{defaultConference}
	}
	if len(matched) > 3 {
		matched = matched[:3]
	}
	return strings.Join(matched, ", ")
}
