package cli

import (
	"context"

	"github.com/spf13/cobra"

	"fraudnet/internal/mcpserver"
)

func mcpCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve network queries to MCP clients over stdio",
		Long: "Runs an MCP server on stdin/stdout with the tools network_summary, query_accounts,\n" +
			"ring_members and account_details, plus query_graph when Neo4j is configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol, so logs go to stderr or --log-file.
			log, closeLog, err := openLogger(cmd, false)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Sources.LoadTimeout)
			b, err := openBackends(ctx, cfg, log, false)
			cancel()
			if err != nil {
				return err
			}
			defer b.Close()

			opts := []mcpserver.Option{mcpserver.WithLogger(log)}
			if b.graph != nil {
				opts = append(opts, mcpserver.WithGraph(b.graph))
			}

			srv, err := mcpserver.NewServer(mcpserver.Config{
				ServerName:      "fraudnet",
				ServerVersion:   version,
				TopN:            topN,
				RefreshInterval: cfg.Sources.RefreshInterval,
				LoadTimeout:     cfg.Sources.LoadTimeout,
			}, b.source, opts...)
			if err != nil {
				return err
			}
			defer srv.Close()

			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&topN, "top", 0, "default number of top accounts in network_summary")
	return cmd
}
