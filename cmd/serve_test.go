package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-bio/leadscout/internal/model"
	"github.com/lumen-bio/leadscout/internal/store"
)

func newAPITestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func newAPITestRouter(st store.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/leads", func(w http.ResponseWriter, req *http.Request) {
		handleListLeads(w, req, st)
	})
	r.Get("/api/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
		handleGetLead(w, req, st)
	})
	return r
}

func TestAPIListLeads(t *testing.T) {
	st := newAPITestStore(t)
	ctx := context.Background()

	for _, lead := range []*model.Lead{
		{Name: "Jane Smith", Company: "BioTech Innovations", Scores: model.ScoreBreakdown{Total: 90}},
		{Name: "Bob Jones", Company: "Widget Co", Scores: model.ScoreBreakdown{Total: 30}},
	} {
		_, err := st.CreateLead(ctx, lead)
		require.NoError(t, err)
	}

	r := newAPITestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/api/leads?min_score=50", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var leads []model.Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "Jane Smith", leads[0].Name)
}

func TestAPIListLeads_EmptyIsArray(t *testing.T) {
	r := newAPITestRouter(newAPITestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestAPIGetLead(t *testing.T) {
	st := newAPITestStore(t)

	lead := &model.Lead{Name: "Jane Smith", Company: "BioTech Innovations"}
	id, err := st.CreateLead(context.Background(), lead)
	require.NoError(t, err)

	r := newAPITestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/"+id, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got model.Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, id, got.ID)
}

func TestAPIGetLead_NotFound(t *testing.T) {
	r := newAPITestRouter(newAPITestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/leads/nonexistent", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
