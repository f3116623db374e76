package pipeline

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lumen-bio/leadscout/internal/model"
	"github.com/lumen-bio/leadscout/pkg/entrez"
)

// ErrMalformedRecord marks an article record that cannot be turned into
// a Paper. Callers skip such records rather than failing a run.
var ErrMalformedRecord = eris.New("pipeline: malformed article record")

const maxAbstractLen = 500

// ParsePaper converts a fetched article into a Paper. Authors without
// both a fore and last name are dropped; the abstract is truncated.
func ParsePaper(article entrez.PubmedArticle) (model.Paper, error) {
	if article.PMID == "" {
		return model.Paper{}, eris.Wrap(ErrMalformedRecord, "missing pmid")
	}

	month := article.Article.Journal.PubDate.Month
	if month == "" {
		month = "01"
	}

	authors := make([]model.Author, 0, len(article.Article.Authors))
	for _, a := range article.Article.Authors {
		if a.LastName == "" || a.ForeName == "" {
			continue
		}
		affiliation := ""
		if len(a.Affiliations) > 0 {
			affiliation = a.Affiliations[0].Affiliation
		}
		authors = append(authors, model.Author{
			Name:        a.ForeName + " " + a.LastName,
			Affiliation: affiliation,
		})
	}

	abstract := strings.Join(article.Article.AbstractTexts, " ")
	if runes := []rune(abstract); len(runes) > maxAbstractLen {
		abstract = string(runes[:maxAbstractLen])
	}

	return model.Paper{
		Title:    article.Article.Title,
		Year:     article.Article.Journal.PubDate.Year,
		Month:    month,
		Authors:  authors,
		Abstract: abstract,
		PubmedID: article.PMID,
	}, nil
}

// ParsePapers converts all well-formed articles, logging and skipping
// the rest.
func ParsePapers(articles []entrez.PubmedArticle) []model.Paper {
	papers := make([]model.Paper, 0, len(articles))
	for _, article := range articles {
		paper, err := ParsePaper(article)
		if err != nil {
			zap.L().Warn("pipeline: skipping malformed record",
				zap.String("pmid", article.PMID),
				zap.Error(err),
			)
			continue
		}
		papers = append(papers, paper)
	}
	return papers
}
