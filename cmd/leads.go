package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumen-bio/leadscout/internal/store"
)

var (
	leadsSearch   string
	leadsMinScore float64
	leadsMaxScore float64
	leadsLimit    int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Search stored leads, best scores first",
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

		leads, err := st.SearchLeads(ctx, store.LeadFilter{
			SearchText: leadsSearch,
			MinScore:   leadsMinScore,
			MaxScore:   leadsMaxScore,
			Limit:      leadsLimit,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(leads)
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsSearch, "search", "", "substring match on name, company or location")
	leadsCmd.Flags().Float64Var(&leadsMinScore, "min-score", 0, "minimum total score")
	leadsCmd.Flags().Float64Var(&leadsMaxScore, "max-score", 0, "maximum total score")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 100, "max results")
	rootCmd.AddCommand(leadsCmd)
}
