package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumen-bio/leadscout/internal/model"
	"github.com/lumen-bio/leadscout/internal/pipeline"
	"github.com/lumen-bio/leadscout/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
				handleListLeads(w, req, env.Store)
			})
			r.Get("/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
				handleGetLead(w, req, env.Store)
			})
			r.Post("/scrape", func(w http.ResponseWriter, req *http.Request) {
				handleScrape(ctx, w, req, env.Pipeline)
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func handleListLeads(w http.ResponseWriter, r *http.Request, st store.Store) {
	q := r.URL.Query()
	filter := store.LeadFilter{
		SearchText: q.Get("search_text"),
		Name:       q.Get("name"),
		Company:    q.Get("company"),
		Location:   q.Get("location"),
	}
	filter.MinScore, _ = strconv.ParseFloat(q.Get("min_score"), 64)
	filter.MaxScore, _ = strconv.ParseFloat(q.Get("max_score"), 64)
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	leads, err := st.SearchLeads(r.Context(), filter)
	if err != nil {
		zap.L().Error("api: search leads failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func handleGetLead(w http.ResponseWriter, r *http.Request, st store.Store) {
	id := chi.URLParam(r, "id")

	lead, err := st.GetLead(r.Context(), id)
	if err != nil {
		zap.L().Error("api: get lead failed", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		return
	}
	if lead == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// handleScrape accepts a scrape request and runs it asynchronously; the
// run outlives the HTTP request but not the server.
func handleScrape(serverCtx context.Context, w http.ResponseWriter, r *http.Request, p *pipeline.Pipeline) {
	var params pipeline.RunParams
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}
	if len(params.Keywords) == 0 {
		params.Keywords = cfg.PubMed.Keywords
	}
	if params.MonthsBack <= 0 {
		params.MonthsBack = cfg.PubMed.MonthsBack
	}
	if params.MaxResults <= 0 {
		params.MaxResults = cfg.PubMed.MaxResults
	}

	go func() {
		result, err := p.Run(serverCtx, params)
		if err != nil {
			zap.L().Error("api: scrape run failed", zap.Error(err))
			return
		}
		zap.L().Info("api: scrape run complete",
			zap.Int("leads_stored", result.LeadsStored),
			zap.Int("duplicates", result.DuplicatesSkipped),
		)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
