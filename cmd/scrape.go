package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumen-bio/leadscout/internal/pipeline"
)

var (
	scrapeMonths   int
	scrapeMax      int
	scrapeKeywords []string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Search PubMed and store extracted, scored leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		params := pipeline.RunParams{
			Keywords:   scrapeKeywords,
			MonthsBack: scrapeMonths,
			MaxResults: scrapeMax,
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

		result, err := env.Pipeline.Run(ctx, params)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("scrape complete",
			zap.Int("leads_stored", result.LeadsStored),
			zap.Int("duplicates", result.DuplicatesSkipped),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapeMonths, "months", 0, "publication window in months (default from config)")
	scrapeCmd.Flags().IntVar(&scrapeMax, "max", 0, "max papers to fetch (default from config)")
	scrapeCmd.Flags().StringSliceVar(&scrapeKeywords, "keywords", nil, "override topic keywords")
	rootCmd.AddCommand(scrapeCmd)
}
