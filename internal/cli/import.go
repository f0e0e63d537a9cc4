package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fraudnet/internal/dataset"
	"fraudnet/ui/console"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <analysis.json>",
		Short: "Load an analysis file into DuckDB and/or Neo4j",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := openLogger(cmd, false)
			if err != nil {
				return err
			}
			defer closeLog()

			s := cfg.Sources
			if s.DuckDB.Path == "" && s.Neo4j.URI == "" {
				return errors.New("import needs --duckdb or --neo4j-uri")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), s.LoadTimeout)
			defer cancel()

			a, err := dataset.NewFileSource(args[0]).Load(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s.DuckDB.Path != "" {
				repo, err := openStore(ctx, s.DuckDB)
				if err != nil {
					return err
				}
				err = repo.SaveAnalysis(ctx, a)
				repo.Close()
				if err != nil {
					return fmt.Errorf("save to duckdb: %w", err)
				}
				log.Info("analysis stored", "path", s.DuckDB.Path)
				fmt.Fprintf(out, "  %s duckdb  %s\n", console.Good.Sprint("✓"), s.DuckDB.Path)
			}

			if s.Neo4j.URI != "" {
				client, err := openGraph(ctx, s.Neo4j)
				if err != nil {
					return err
				}
				defer client.Close(context.Background())
				if err := client.Reset(ctx); err != nil {
					return fmt.Errorf("reset neo4j: %w", err)
				}
				if err := client.IngestAnalysis(ctx, a); err != nil {
					return fmt.Errorf("ingest into neo4j: %w", err)
				}
				log.Info("analysis ingested", "uri", s.Neo4j.URI)
				fmt.Fprintf(out, "  %s neo4j   %s\n", console.Good.Sprint("✓"), s.Neo4j.URI)
			}

			accounts := 0
			if a != nil {
				accounts = len(a.SuspiciousAccounts)
			}
			fmt.Fprintf(out, "  %d flagged accounts imported\n", accounts)
			return nil
		},
	}
	return cmd
}
