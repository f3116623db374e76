package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-bio/leadscout/pkg/entrez"
)

func sampleArticle() entrez.PubmedArticle {
	return entrez.PubmedArticle{
		PMID: "12345678",
		Article: entrez.Article{
			Title: "Organ-on-chip models of hepatotoxicity",
			Journal: entrez.Journal{
				PubDate: entrez.PubDate{Year: "2025", Month: "03"},
			},
			Authors: []entrez.AuthorEntry{
				{
					LastName: "Smith",
					ForeName: "Jane",
					Affiliations: []entrez.AffiliationInfo{
						{Affiliation: "Acme Biosciences, Boston, MA, USA"},
					},
				},
				{LastName: "Collective"}, // consortium entry, no fore name
			},
			AbstractTexts: []string{"Background text.", "Results text."},
		},
	}
}

func TestParsePaper(t *testing.T) {
	paper, err := ParsePaper(sampleArticle())
	require.NoError(t, err)

	assert.Equal(t, "Organ-on-chip models of hepatotoxicity", paper.Title)
	assert.Equal(t, "2025", paper.Year)
	assert.Equal(t, "03", paper.Month)
	assert.Equal(t, "12345678", paper.PubmedID)
	assert.Equal(t, "Background text. Results text.", paper.Abstract)

	require.Len(t, paper.Authors, 1)
	assert.Equal(t, "Jane Smith", paper.Authors[0].Name)
	assert.Equal(t, "Acme Biosciences, Boston, MA, USA", paper.Authors[0].Affiliation)
}

func TestParsePaper_MissingPMID(t *testing.T) {
	article := sampleArticle()
	article.PMID = ""

	_, err := ParsePaper(article)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRecord))
}

func TestParsePaper_DefaultMonth(t *testing.T) {
	article := sampleArticle()
	article.Article.Journal.PubDate.Month = ""

	paper, err := ParsePaper(article)
	require.NoError(t, err)
	assert.Equal(t, "01", paper.Month)
}

func TestParsePaper_AbstractTruncated(t *testing.T) {
	article := sampleArticle()
	article.Article.AbstractTexts = []string{strings.Repeat("a", 600)}

	paper, err := ParsePaper(article)
	require.NoError(t, err)
	assert.Len(t, paper.Abstract, maxAbstractLen)
}

func TestParsePapers_SkipsMalformed(t *testing.T) {
	good := sampleArticle()
	bad := sampleArticle()
	bad.PMID = ""

	papers := ParsePapers([]entrez.PubmedArticle{good, bad})
	require.Len(t, papers, 1)
	assert.Equal(t, "12345678", papers[0].PubmedID)
}
