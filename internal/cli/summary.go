package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"fraudnet/internal/output"
	"fraudnet/ui/console"
)

func summaryCmd() *cobra.Command {
	var (
		topN   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "summary",
		Aliases: []string{"report"},
		Short:   "Print tier counts, rings, health checks and top accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := openLogger(cmd, false)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Sources.LoadTimeout)
			defer cancel()

			b, err := openBackends(ctx, cfg, log, false)
			if err != nil {
				return err
			}
			defer b.Close()

			payload, err := output.RunPipeline(ctx, b.source, topN)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload.Report)
			}
			console.Print(cmd.OutOrStdout(), payload.Report)
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", output.DefaultTopN, "number of top accounts to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
