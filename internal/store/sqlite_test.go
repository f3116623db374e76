package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-bio/leadscout/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleLead(name string, total float64) *model.Lead {
	return &model.Lead{
		Name:           name,
		Title:          "Director of Toxicology",
		Email:          "jane.smith@biotech.com",
		Company:        "BioTech Innovations",
		PersonLocation: "Boston, MA",
		CompanyHQ:      "Boston, MA",
		FundingStage:   "Series B",
		Publications: []model.Publication{
			{Title: "3D hepatic spheroids", Year: "2025", PubmedID: "12345678"},
		},
		RecentPublicationCount: 1,
		TechKeywords:           []string{"3D models", "NAMs"},
		Scores: model.ScoreBreakdown{
			RoleFit: 30, Location: 10, Total: total,
		},
		DataSource: "PubMed",
	}
}

func TestSQLite_CreateAndGetLead(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := sampleLead("Jane Smith", 82)
	id, err := st.CreateLead(ctx, lead)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())

	got, err := st.GetLead(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, "Director of Toxicology", got.Title)
	assert.Equal(t, []string{"3D models", "NAMs"}, got.TechKeywords)
	require.Len(t, got.Publications, 1)
	assert.Equal(t, "12345678", got.Publications[0].PubmedID)
	assert.Equal(t, 30.0, got.Scores.RoleFit)
	assert.Equal(t, 82.0, got.Scores.Total)
}

func TestSQLite_GetLead_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetLead(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_CreateLead_Duplicate(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateLead(ctx, sampleLead("Jane Smith", 82))
	require.NoError(t, err)

	_, err = st.CreateLead(ctx, sampleLead("Jane Smith", 50))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateLead))
}

func TestSQLite_SearchLeads_OrderAndFilters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	low := sampleLead("Low Scorer", 20)
	low.Company = "Widget Co"
	low.PersonLocation = "Berlin"
	mid := sampleLead("Mid Scorer", 55)
	high := sampleLead("High Scorer", 90)

	for _, l := range []*model.Lead{low, mid, high} {
		_, err := st.CreateLead(ctx, l)
		require.NoError(t, err)
	}

	all, err := st.SearchLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "High Scorer", all[0].Name)
	assert.Equal(t, "Mid Scorer", all[1].Name)
	assert.Equal(t, "Low Scorer", all[2].Name)

	warm, err := st.SearchLeads(ctx, LeadFilter{MinScore: 50, MaxScore: 79})
	require.NoError(t, err)
	require.Len(t, warm, 1)
	assert.Equal(t, "Mid Scorer", warm[0].Name)

	byCompany, err := st.SearchLeads(ctx, LeadFilter{Company: "widget"})
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, "Low Scorer", byCompany[0].Name)

	byText, err := st.SearchLeads(ctx, LeadFilter{SearchText: "Boston"})
	require.NoError(t, err)
	assert.Len(t, byText, 2)

	limited, err := st.SearchLeads(ctx, LeadFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Mid Scorer", limited[0].Name)
}

func TestSQLite_UpdateScores(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := sampleLead("Jane Smith", 40)
	id, err := st.CreateLead(ctx, lead)
	require.NoError(t, err)

	err = st.UpdateScores(ctx, id, model.ScoreBreakdown{
		RoleFit: 30, CompanyIntent: 20, Technographic: 25,
		Location: 10, ScientificIntent: 40, Total: 100,
	})
	require.NoError(t, err)

	got, err := st.GetLead(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 100.0, got.Scores.Total)
	assert.Equal(t, 40.0, got.Scores.ScientificIntent)
}

func TestSQLite_UpdateScores_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateScores(context.Background(), "nonexistent", model.ScoreBreakdown{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_MalformedStoredJSON(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := sampleLead("Jane Smith", 80)
	id, err := st.CreateLead(ctx, lead)
	require.NoError(t, err)

	_, err = st.db.ExecContext(ctx,
		`UPDATE leads SET publications = 'not json', tech_keywords = '{broken' WHERE id = ?`, id)
	require.NoError(t, err)

	got, err := st.GetLead(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Publications)
	assert.Empty(t, got.TechKeywords)
}
