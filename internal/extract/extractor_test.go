package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-bio/leadscout/internal/model"
)

func TestResolveCompany(t *testing.T) {
	tests := []struct {
		name        string
		affiliation string
		want        string
	}{
		{
			name:        "plain institution first",
			affiliation: "Acme Biosciences, Boston, MA, USA",
			want:        "Acme Biosciences",
		},
		{
			name:        "department prefix skipped",
			affiliation: "Department of Toxicology, Acme Biosciences, Boston, MA, USA",
			want:        "Acme Biosciences",
		},
		{
			name:        "division prefix skipped",
			affiliation: "Division of Hepatology, University Hospital Zurich, Switzerland",
			want:        "University Hospital Zurich",
		},
		{
			name:        "center prefix skipped",
			affiliation: "Center for Drug Safety, Vertex Pharmaceuticals, Cambridge, MA",
			want:        "Vertex Pharmaceuticals",
		},
		{
			name:        "institute prefix skipped",
			affiliation: "Institute of Molecular Biology, ETH Zurich, Switzerland",
			want:        "ETH Zurich",
		},
		{
			name:        "department with no second part kept",
			affiliation: "Department of Toxicology",
			want:        "Department of Toxicology",
		},
		{
			name:        "empty falls back to Unknown",
			affiliation: "",
			want:        "Unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCompany(tt.affiliation))
		})
	}
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		name        string
		affiliation string
		want        string
	}{
		{
			name:        "country token at end",
			affiliation: "Acme Biosciences, Boston, MA, USA",
			want:        "USA",
		},
		{
			name:        "city token",
			affiliation: "Vertex Pharmaceuticals, Cambridge",
			want:        "Cambridge",
		},
		{
			name:        "switzerland",
			affiliation: "ETH Zurich, Switzerland.",
			want:        "Switzerland.",
		},
		{
			name:        "no indicator falls back to last part",
			affiliation: "Weiss Labs, Berlin",
			want:        "Berlin",
		},
		{
			name:        "empty falls back to Unknown",
			affiliation: "",
			want:        "Unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLocation(tt.affiliation))
		})
	}
}

func TestIdentityKey(t *testing.T) {
	assert.Equal(t, "jane smith", IdentityKey("Jane Smith"))
	assert.Equal(t, "jane smith", IdentityKey("  JANE   Smith "))
	assert.Equal(t, "", IdentityKey("   "))
}

func TestLeads(t *testing.T) {
	papers := []model.Paper{
		{
			Title:    "Organ-on-chip models of hepatotoxicity",
			Year:     "2025",
			PubmedID: "12345678",
			Authors: []model.Author{
				{Name: "Jane Smith", Affiliation: "Department of Toxicology, Acme Biosciences, Boston, MA, USA"},
				{Name: "No Affiliation", Affiliation: ""},
			},
		},
		{
			Title:    "A second paper",
			Year:     "2024",
			PubmedID: "87654321",
			Authors: []model.Author{
				// Same person, different casing: first occurrence wins.
				{Name: "JANE SMITH", Affiliation: "Somewhere Else, Berlin"},
				{Name: "Bob Jones", Affiliation: "MicroPhys Systems, Basel, Switzerland"},
			},
		},
	}

	ex := New("PubMed", "Research Scientist")
	leads := ex.Leads(papers)
	require.Len(t, leads, 2)

	jane := leads[0]
	assert.Equal(t, "Jane Smith", jane.Name)
	assert.Equal(t, "Research Scientist", jane.Title)
	assert.Equal(t, "Acme Biosciences", jane.Company)
	assert.Equal(t, "USA", jane.PersonLocation)
	assert.Equal(t, "USA", jane.CompanyHQ)
	assert.Equal(t, 1, jane.RecentPublicationCount)
	assert.Equal(t, "PubMed", jane.DataSource)
	require.Len(t, jane.Publications, 1)
	assert.Equal(t, "12345678", jane.Publications[0].PubmedID)

	bob := leads[1]
	assert.Equal(t, "Bob Jones", bob.Name)
	assert.Equal(t, "MicroPhys Systems", bob.Company)
	assert.Equal(t, "Switzerland", bob.PersonLocation)
}

func TestLeadsEmptyInput(t *testing.T) {
	ex := New("PubMed", "Research Scientist")
	assert.Empty(t, ex.Leads(nil))
}

func TestLeadsUntitledPaper(t *testing.T) {
	ex := New("PubMed", "Research Scientist")
	leads := ex.Leads([]model.Paper{{
		PubmedID: "1",
		Authors:  []model.Author{{Name: "A B", Affiliation: "X Corp, Boston"}},
	}})
	require.Len(t, leads, 1)
	assert.Equal(t, "Untitled", leads[0].Publications[0].Title)
}
