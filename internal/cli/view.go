package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"fraudnet/ui/tui"
)

func viewCmd() *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:     "view",
		Aliases: []string{"tui"},
		Short:   "Interactive force-directed view of the fraud network",
		Long: "Opens the live network view. Without a source the view shows a placeholder.\n" +
			"With --refresh the source is polled and the graph rebuilt when the analysis changes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := openLogger(cmd, true)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Sources.LoadTimeout)
			b, err := openBackends(ctx, cfg, log, persist)
			cancel()
			if errors.Is(err, ErrNoSource) {
				log.Info("starting without a source")
				return tui.Start(cfg, nil, log)
			}
			if err != nil {
				return err
			}
			defer b.Close()

			log.Info("starting view", "source", b.source.Name(), "refresh", cfg.Sources.RefreshInterval)
			return tui.Start(cfg, b.source, log, b.refresherOptions()...)
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "store file analyses into --duckdb and mirror them into --neo4j-uri")
	return cmd
}
