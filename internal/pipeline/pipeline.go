// Package pipeline orchestrates the scrape run: search, fetch, parse,
// extract, enrich, score and persist.
package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lumen-bio/leadscout/internal/enrich"
	"github.com/lumen-bio/leadscout/internal/extract"
	"github.com/lumen-bio/leadscout/internal/model"
	"github.com/lumen-bio/leadscout/internal/scorer"
	"github.com/lumen-bio/leadscout/internal/store"
	"github.com/lumen-bio/leadscout/pkg/entrez"
)

// RunParams controls a single scrape run.
type RunParams struct {
	Keywords   []string `json:"keywords"`
	MonthsBack int      `json:"months_back"`
	MaxResults int      `json:"max_results"`
}

// RunResult summarizes what a scrape run did.
type RunResult struct {
	IDsFound          int `json:"ids_found"`
	PapersParsed      int `json:"papers_parsed"`
	LeadsExtracted    int `json:"leads_extracted"`
	LeadsStored       int `json:"leads_stored"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
	StoreFailures     int `json:"store_failures"`
}

// Pipeline wires the upstream client, extraction, enrichment, scoring
// and persistence into one run loop.
type Pipeline struct {
	client        entrez.Client
	store         store.Store
	extractor     *extract.Extractor
	enricher      *enrich.Enricher
	scorer        *scorer.Scorer
	maxConcurrent int
}

// New creates a Pipeline with all dependencies.
func New(
	client entrez.Client,
	st store.Store,
	extractor *extract.Extractor,
	enricher *enrich.Enricher,
	sc *scorer.Scorer,
	maxConcurrent int,
) *Pipeline {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Pipeline{
		client:        client,
		store:         st,
		extractor:     extractor,
		enricher:      enricher,
		scorer:        sc,
		maxConcurrent: maxConcurrent,
	}
}

// Run executes a full scrape. An unreachable upstream yields an empty
// result, not an error; duplicate leads are skipped per-lead.
func (p *Pipeline) Run(ctx context.Context, params RunParams) (*RunResult, error) {
	log := zap.L().With(
		zap.Int("months_back", params.MonthsBack),
		zap.Int("max_results", params.MaxResults),
	)
	log.Info("pipeline: starting run", zap.Strings("keywords", params.Keywords))

	result := &RunResult{}

	ids, err := p.client.Search(ctx, params.Keywords, params.MonthsBack, params.MaxResults)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("pipeline: search failed, nothing to do", zap.Error(err))
		return result, nil
	}
	result.IDsFound = len(ids)
	if len(ids) == 0 {
		log.Info("pipeline: no matching papers")
		return result, nil
	}

	articles, err := p.client.Fetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	papers := ParsePapers(articles)
	result.PapersParsed = len(papers)

	leads := p.extractor.Leads(papers)
	result.LeadsExtracted = len(leads)
	log.Info("pipeline: extracted leads",
		zap.Int("papers", len(papers)),
		zap.Int("leads", len(leads)),
	)

	// Enrichment and scoring are pure per-lead work; fan out.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)
	for i := range leads {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			p.enrichLead(&leads[i])
			leads[i].Scores = p.scorer.Score(leads[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Persist sequentially so duplicate handling stays deterministic.
	for i := range leads {
		_, err := p.store.CreateLead(ctx, &leads[i])
		switch {
		case err == nil:
			result.LeadsStored++
		case errors.Is(err, store.ErrDuplicateLead):
			result.DuplicatesSkipped++
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			result.StoreFailures++
			log.Warn("pipeline: failed to store lead",
				zap.String("name", leads[i].Name),
				zap.Error(err),
			)
		}
	}

	log.Info("pipeline: run complete",
		zap.Int("stored", result.LeadsStored),
		zap.Int("duplicates", result.DuplicatesSkipped),
		zap.Int("failures", result.StoreFailures),
	)
	return result, nil
}

// enrichLead fills contact fields and the conference suggestion used by
// the presenter bonus in scoring.
func (p *Pipeline) enrichLead(lead *model.Lead) {
	if lead.Email == "" {
		lead.Email = p.enricher.Email(lead.Name, lead.Company)
	}
	if lead.LinkedInURL == "" {
		lead.LinkedInURL = p.enricher.ProfileURL(lead.Name)
	}
	if lead.ConferenceParticipation == "" {
		lead.ConferenceParticipation = enrich.SuggestConferences(lead.Title, lead.Publications)
	}
}

// Rescore recomputes scores for every stored lead. Scoring is pure, so
// this is safe to run at any time, e.g. after a weights change.
func (p *Pipeline) Rescore(ctx context.Context) (int, error) {
	leads, err := p.store.SearchLeads(ctx, store.LeadFilter{Limit: 10000})
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range leads {
		scores := p.scorer.Score(leads[i])
		if err := p.store.UpdateScores(ctx, leads[i].ID, scores); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
