package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lumen-bio/leadscout/internal/model"
)

// ErrDuplicateLead is returned by CreateLead when a lead with the same
// name already exists.
var ErrDuplicateLead = eris.New("store: duplicate lead")

// LeadFilter specifies criteria for searching leads. String filters are
// case-insensitive substring matches; SearchText matches name, company
// or location at once.
type LeadFilter struct {
	SearchText string  `json:"search_text,omitempty"`
	Name       string  `json:"name,omitempty"`
	Company    string  `json:"company,omitempty"`
	Location   string  `json:"location,omitempty"`
	MinScore   float64 `json:"min_score,omitempty"`
	MaxScore   float64 `json:"max_score,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}

// Store defines the persistence interface for leads.
type Store interface {
	// CreateLead persists a new lead and returns its id. Returns
	// ErrDuplicateLead when a lead with the same name exists.
	CreateLead(ctx context.Context, lead *model.Lead) (string, error)
	// GetLead returns the lead with the given id, or (nil, nil) when it
	// does not exist.
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	// SearchLeads returns leads matching the filter ordered by total
	// score descending.
	SearchLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	// UpdateScores replaces the score breakdown of an existing lead.
	UpdateScores(ctx context.Context, id string, scores model.ScoreBreakdown) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
