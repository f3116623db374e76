package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumen-bio/leadscout/internal/pipeline"
	"github.com/lumen-bio/leadscout/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		leads, err := st.SearchLeads(ctx, store.LeadFilter{Limit: 10000})
		if err != nil {
			return err
		}

		switch strings.ToLower(filepath.Ext(exportOut)) {
		case ".csv":
			err = pipeline.ExportCSV(leads, exportOut)
		case ".xlsx":
			err = pipeline.ExportXLSX(leads, exportOut)
		default:
			return eris.Errorf("unsupported export format: %s (use .csv or .xlsx)", exportOut)
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("file", exportOut),
			zap.Int("leads", len(leads)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "leads.csv", "output file (.csv or .xlsx)")
	rootCmd.AddCommand(exportCmd)
}
