// Package cli wires fraudnet's commands: the live network view, the console
// summary, the MCP tool server and the import helper.
package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"fraudnet/internal/config"
	"fraudnet/internal/logging"
	"fraudnet/ui/console"
)

var version = "0.3.0"

// flagValues holds the persistent flags shared by every command.
type flagValues struct {
	configPath    string
	file          string
	neo4jURI      string
	neo4jUser     string
	neo4jPassword string
	neo4jDB       string
	duckdb        string
	refresh       time.Duration
	seed          uint64
	filter        string
	logFile       string
}

var (
	flags flagValues
	cfg   config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fraudnet",
	Short: "fraudnet: fraud network explorer",
	Long: console.Heading.Sprint("fraudnet") + ": explore flagged accounts, transfers and fraud rings\n" +
		console.Subtle.Sprint("Live force-directed view, console summaries and an MCP tool server"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := resolveConfig(cmd, flags)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate("fraudnet {{ .Version }}\n")

	bindFlags(rootCmd, &flags)

	rootCmd.AddCommand(
		viewCmd(),
		summaryCmd(),
		mcpCmd(),
		importCmd(),
	)
}

func bindFlags(cmd *cobra.Command, f *flagValues) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "TOML config file")
	pf.StringVar(&f.file, "file", "", "analysis JSON file")
	pf.StringVar(&f.neo4jURI, "neo4j-uri", "", "Neo4j URI, e.g. neo4j://localhost:7687")
	pf.StringVar(&f.neo4jUser, "neo4j-user", "", "Neo4j username")
	pf.StringVar(&f.neo4jPassword, "neo4j-password", "", "Neo4j password")
	pf.StringVar(&f.neo4jDB, "neo4j-db", "", "Neo4j database name")
	pf.StringVar(&f.duckdb, "duckdb", "", "DuckDB database file")
	pf.DurationVar(&f.refresh, "refresh", 0, "poll the source on this interval (0 loads once)")
	pf.Uint64Var(&f.seed, "seed", 0, "layout seed (0 = random)")
	pf.StringVar(&f.filter, "filter", "", "initial risk filter: all, critical, high, medium, low")
	pf.StringVar(&f.logFile, "log-file", "", "log file path")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		console.Bad.Printf("fraudnet: %v\n", err)
	}
	return err
}

// resolveConfig layers defaults, the TOML file, the environment and finally
// any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command, f flagValues) (config.Config, error) {
	c, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("file") {
		c = c.WithFile(f.file)
	}
	if changed("neo4j-uri") || changed("neo4j-user") || changed("neo4j-password") || changed("neo4j-db") {
		n := c.Sources.Neo4j
		c = c.WithNeo4j(
			pick(changed("neo4j-uri"), f.neo4jURI, n.URI),
			pick(changed("neo4j-user"), f.neo4jUser, n.Username),
			pick(changed("neo4j-password"), f.neo4jPassword, n.Password),
			pick(changed("neo4j-db"), f.neo4jDB, n.Database),
		)
	}
	if changed("duckdb") {
		c = c.WithDuckDB(f.duckdb)
	}
	if changed("refresh") {
		c = c.WithRefresh(f.refresh)
	}
	if changed("seed") {
		c = c.WithSeed(f.seed)
	}
	if changed("filter") {
		c = c.WithFilter(f.filter)
	}
	if changed("log-file") {
		c = c.WithLogFile(f.logFile)
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

func pick(use bool, flag, current string) string {
	if use {
		return flag
	}
	return current
}

// openLogger logs to the configured file for the TUI. Other commands log to
// stderr unless --log-file was given.
func openLogger(cmd *cobra.Command, toFile bool) (*slog.Logger, func() error, error) {
	lc := cfg.Log
	if !toFile {
		if fl := cmd.Flags().Lookup("log-file"); fl == nil || !fl.Changed {
			lc.File = ""
		}
	}
	log, closeLog, err := logging.Open(lc)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}
	slog.SetDefault(log)
	return log, closeLog, nil
}
