package relational

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fraudnet/internal/dataset"
)

// Source serves analyses stored in a DuckDB file.
type Source struct {
	repo *Repo
	path string
	log  *slog.Logger
}

// OpenSource opens path read-only.
func OpenSource(path string, log *slog.Logger, opts ...DuckDBOption) (*Source, error) {
	opts = append([]DuckDBOption{WithReadOnly(), WithTimeout(5 * time.Second)}, opts...)
	client, err := NewFileDB(path, opts...)
	if err != nil {
		return nil, err
	}
	return NewSource(NewRepo(client.DB()), path, log), nil
}

func NewSource(repo *Repo, path string, log *slog.Logger) *Source {
	if log == nil {
		log = slog.Default()
	}
	return &Source{repo: repo, path: path, log: log}
}

func (s *Source) Name() string {
	return "duckdb:" + s.path
}

func (s *Source) Load(ctx context.Context) (*dataset.Analysis, error) {
	start := time.Now()
	a, err := s.repo.LoadAnalysis(ctx)
	if err != nil {
		return nil, fmt.Errorf("load from %s: %w", s.Name(), err)
	}
	accounts := 0
	if a != nil {
		accounts = len(a.SuspiciousAccounts)
	}
	s.log.Debug("analysis loaded", "source", s.Name(), "accounts", accounts, "took", time.Since(start))
	return a, nil
}

func (s *Source) Close() error {
	return s.repo.Close()
}
