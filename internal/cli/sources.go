package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fraudnet/internal/config"
	"fraudnet/internal/database"
	"fraudnet/internal/database/graph"
	"fraudnet/internal/database/relational"
	"fraudnet/internal/dataset"
)

// Source kinds in priority order.
const (
	kindFile   = "file"
	kindNeo4j  = "neo4j"
	kindDuckDB = "duckdb"
)

// ErrNoSource is returned when no source is configured.
var ErrNoSource = errors.New("no analysis source configured (use --file, --neo4j-uri or --duckdb)")

// sourceKind picks the analysis source: File, then Neo4j, then DuckDB.
func sourceKind(s config.SourcesConfig) string {
	switch {
	case s.File != "":
		return kindFile
	case s.Neo4j.URI != "":
		return kindNeo4j
	case s.DuckDB.Path != "":
		return kindDuckDB
	}
	return ""
}

// backends holds the opened source plus any store or graph mirror.
type backends struct {
	source dataset.Source
	graph  *graph.Neo4jClient
	store  *relational.Repo
	closer []func() error
}

// openBackends opens the configured source. With sinks set and a file
// source, a configured DuckDB becomes the store and a configured Neo4j the
// graph mirror.
func openBackends(ctx context.Context, c config.Config, log *slog.Logger, sinks bool) (*backends, error) {
	b := &backends{}
	s := c.Sources

	switch sourceKind(s) {
	case kindFile:
		b.source = dataset.NewFileSource(s.File)
		if !sinks {
			return b, nil
		}
		if s.DuckDB.Path != "" {
			repo, err := openStore(ctx, s.DuckDB)
			if err != nil {
				b.Close()
				return nil, err
			}
			b.store = repo
			b.closer = append(b.closer, repo.Close)
		}
		if s.Neo4j.URI != "" {
			client, err := openGraph(ctx, s.Neo4j)
			if err != nil {
				b.Close()
				return nil, err
			}
			b.graph = client
		}

	case kindNeo4j:
		client, err := openGraph(ctx, s.Neo4j)
		if err != nil {
			return nil, err
		}
		b.graph = client
		b.source = graph.NewSource(client, s.Neo4j.URI, log)

	case kindDuckDB:
		src, err := relational.OpenSource(s.DuckDB.Path, log, duckOptions(s.DuckDB)...)
		if err != nil {
			return nil, fmt.Errorf("open duckdb source: %w", err)
		}
		b.source = src
		b.closer = append(b.closer, src.Close)

	default:
		return nil, ErrNoSource
	}
	return b, nil
}

func duckOptions(d config.DuckDBConfig) []relational.DuckDBOption {
	return []relational.DuckDBOption{
		relational.WithThreads(d.Threads),
		relational.WithMemoryLimit(d.MemoryLimitGB),
	}
}

func openStore(ctx context.Context, d config.DuckDBConfig) (*relational.Repo, error) {
	client, err := relational.NewFileDB(d.Path, duckOptions(d)...)
	if err != nil {
		return nil, fmt.Errorf("open duckdb store: %w", err)
	}
	repo := relational.NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migrate duckdb store: %w", err)
	}
	return repo, nil
}

func openGraph(ctx context.Context, n config.Neo4jConfig) (*graph.Neo4jClient, error) {
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:      n.URI,
		Username: n.Username,
		Password: n.Password,
		Database: n.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect neo4j: %w", err)
	}
	return client, nil
}

// refresherOptions turns the opened sinks into refresher options. A graph
// that is also the source is never mirrored back into itself.
func (b *backends) refresherOptions() []database.Option {
	var opts []database.Option
	if b.store != nil {
		opts = append(opts, database.WithStore(b.store))
	}
	if b.graph != nil {
		if _, isSource := b.source.(*graph.Source); !isSource {
			opts = append(opts, database.WithGraphMirror(b.graph))
		}
	}
	return opts
}

func (b *backends) Close() error {
	var errs []error
	for _, c := range b.closer {
		errs = append(errs, c())
	}
	if b.graph != nil {
		errs = append(errs, b.graph.Close(context.Background()))
	}
	return errors.Join(errs...)
}
