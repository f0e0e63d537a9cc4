// Package graph loads fraud analyses from, and writes them to, Neo4j.
//
// Accounts are (:Account {account_id, flagged, suspicion_score, risk_level,
// ring_id, detected_patterns}) nodes, transfers are [:TRANSFER {amount,
// txn_count}] relationships and ring metadata lives on (:Ring) nodes.
package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"fraudnet/internal/dataset"
)

var ErrMissingURI = errors.New("neo4j uri is required")

// Options configures the Neo4j connection.
type Options struct {
	URI            string
	Username       string
	Password       string
	Database       string
	MaxConnections int
}

// Querier runs Cypher and returns rows keyed by column name.
type Querier interface {
	ExecuteCypher(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// GraphClient defines the interface for graph database operations.
type GraphClient interface {
	Querier
	Close(ctx context.Context) error
	Reset(ctx context.Context) error
	IngestAnalysis(ctx context.Context, a *dataset.Analysis) error
}

// Neo4jClient implements GraphClient for Neo4j.
type Neo4jClient struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jClient connects and verifies connectivity.
func NewNeo4jClient(ctx context.Context, opts Options) (*Neo4jClient, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth, func(c *neo4j.Config) {
		if opts.MaxConnections > 0 {
			c.MaxConnectionPoolSize = opts.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jClient{driver: driver, dbName: opts.Database}, nil
}

func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Reset deletes every account, transfer and ring.
func (c *Neo4jClient) Reset(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n) WHERE n:Account OR n:Ring DETACH DELETE n", nil)
	})
	return err
}

// IngestAnalysis writes a into the graph in one transaction. Accounts and
// rings are merged by id; transfers are appended.
func (c *Neo4jClient) IngestAnalysis(ctx context.Context, a *dataset.Analysis) error {
	if a == nil {
		return nil
	}
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, mergeAccountsCypher, map[string]any{"accounts": accountParams(a)}); err != nil {
			return nil, fmt.Errorf("merge accounts: %w", err)
		}
		if _, err := tx.Run(ctx, mergeRingsCypher, map[string]any{"rings": ringParams(a)}); err != nil {
			return nil, fmt.Errorf("merge rings: %w", err)
		}
		if _, err := tx.Run(ctx, createTransfersCypher, map[string]any{"links": linkParams(a)}); err != nil {
			return nil, fmt.Errorf("create transfers: %w", err)
		}
		return nil, nil
	})
	return err
}

func accountParams(a *dataset.Analysis) []map[string]any {
	out := make([]map[string]any, 0, len(a.SuspiciousAccounts))
	for _, acc := range a.SuspiciousAccounts {
		if acc.AccountID == "" {
			continue
		}
		var ring any
		if id := acc.Ring(); id != "" {
			ring = id
		}
		patterns := acc.DetectedPatterns
		if patterns == nil {
			patterns = []string{}
		}
		out = append(out, map[string]any{
			"account_id":        acc.AccountID,
			"suspicion_score":   acc.SuspicionScore,
			"risk_level":        acc.RiskLevel,
			"ring_id":           ring,
			"detected_patterns": patterns,
		})
	}
	return out
}

func ringParams(a *dataset.Analysis) []map[string]any {
	out := make([]map[string]any, 0, len(a.FraudRings))
	for _, r := range a.FraudRings {
		out = append(out, map[string]any{
			"ring_id":      r.RingID,
			"pattern_type": r.PatternType,
			"risk_score":   r.RiskScore,
		})
	}
	return out
}

func linkParams(a *dataset.Analysis) []map[string]any {
	if a.GraphData == nil {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(a.GraphData.Links))
	for _, l := range a.GraphData.Links {
		if l.Source == "" || l.Target == "" {
			continue
		}
		count := l.TxnCount
		if count < 1 {
			count = 1
		}
		out = append(out, map[string]any{
			"source":    l.Source,
			"target":    l.Target,
			"amount":    l.Amount,
			"txn_count": int64(count),
		})
	}
	return out
}
