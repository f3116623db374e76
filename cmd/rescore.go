package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute propensity scores for all stored leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		n, err := env.Pipeline.Rescore(ctx)
		if err != nil {
			return err
		}

		zap.L().Info("rescore complete", zap.Int("leads", n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)
}
