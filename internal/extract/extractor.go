// Package extract turns paper author lists into candidate leads.
package extract

import (
	"strings"

	"github.com/lumen-bio/leadscout/internal/model"
)

// Extractor derives leads from paper author lists. It carries no mutable
// state; a single value is safe for concurrent use.
type Extractor struct {
	dataSource       string
	placeholderTitle string
}

// New creates an Extractor. dataSource labels where the leads came from
// and placeholderTitle is assigned to every lead until enrichment supplies
// a real job title.
func New(dataSource, placeholderTitle string) *Extractor {
	return &Extractor{
		dataSource:       dataSource,
		placeholderTitle: placeholderTitle,
	}
}

// IdentityKey normalizes an author name for deduplication: lowercased with
// runs of whitespace collapsed to a single space.
func IdentityKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Leads folds the papers into a deduplicated lead list. The first
// occurrence of an author wins; later papers by the same author do not
// add publications. Authors without an affiliation are skipped.
func (e *Extractor) Leads(papers []model.Paper) []model.Lead {
	leads := make([]model.Lead, 0)
	seen := make(map[string]struct{})

	for _, paper := range papers {
		title := paper.Title
		if title == "" {
			title = "Untitled"
		}
		for _, author := range paper.Authors {
			key := IdentityKey(author.Name)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			if author.Affiliation == "" {
				continue
			}

			location := ResolveLocation(author.Affiliation)
			leads = append(leads, model.Lead{
				Name:           author.Name,
				Title:          e.placeholderTitle,
				Company:        ResolveCompany(author.Affiliation),
				PersonLocation: location,
				CompanyHQ:      location,
				Publications: []model.Publication{{
					Title:    title,
					Year:     paper.Year,
					PubmedID: paper.PubmedID,
				}},
				RecentPublicationCount: 1,
				DataSource:             e.dataSource,
			})
			seen[key] = struct{}{}
		}
	}

	return leads
}
