package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"fraudnet/internal/dataset"
)

// Repo reads and writes analyses.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Close() error {
	return r.db.Close()
}

// Migrate creates the schema if it does not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, SchemaSQL)
	return err
}

// SaveAnalysis replaces the stored analysis with a. A nil analysis clears
// every table.
func (r *Repo) SaveAnalysis(ctx context.Context, a *dataset.Analysis) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	if a == nil {
		return tx.Commit()
	}

	if a.AnalysisID != "" || a.Summary != nil {
		var s dataset.Summary
		if a.Summary != nil {
			s = *a.Summary
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO analyses(analysis_id, created_at, total_accounts, total_txns, processing_secs) VALUES(?,?,?,?,?)`,
			a.AnalysisID, a.Timestamp, s.TotalAccountsAnalyzed, s.TotalTransactions, s.ProcessingTimeSeconds,
		); err != nil {
			return fmt.Errorf("insert analysis: %w", err)
		}
	}

	seen := make(map[string]bool, len(a.SuspiciousAccounts))
	for _, acc := range a.SuspiciousAccounts {
		if acc.AccountID == "" || seen[acc.AccountID] {
			continue
		}
		seen[acc.AccountID] = true
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO suspicious_accounts(account_id, suspicion_score, risk_level, ring_id) VALUES(?,?,?,?)`,
			acc.AccountID, acc.SuspicionScore, nullEmpty(acc.RiskLevel), nullEmpty(acc.Ring()),
		); err != nil {
			return fmt.Errorf("insert account %s: %w", acc.AccountID, err)
		}
		for _, p := range acc.DetectedPatterns {
			if _, err := tx.ExecContext(ctx, `INSERT INTO account_patterns(account_id, pattern) VALUES(?,?)`, acc.AccountID, p); err != nil {
				return fmt.Errorf("insert pattern: %w", err)
			}
		}
	}

	for _, ring := range a.FraudRings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fraud_rings(ring_id, pattern_type, risk_score) VALUES(?,?,?) ON CONFLICT DO NOTHING`,
			ring.RingID, nullEmpty(ring.PatternType), ring.RiskScore,
		); err != nil {
			return fmt.Errorf("insert ring %s: %w", ring.RingID, err)
		}
	}

	if a.GraphData != nil {
		for _, n := range a.GraphData.Nodes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO account_degrees(account_id, suspicious, in_degree, out_degree) VALUES(?,?,?,?) ON CONFLICT DO NOTHING`,
				n.ID, n.Suspicious, n.InDegree, n.OutDegree,
			); err != nil {
				return fmt.Errorf("insert degree %s: %w", n.ID, err)
			}
		}
		for _, l := range a.GraphData.Links {
			count := l.TxnCount
			if count < 1 {
				count = 1
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO transactions(source_id, target_id, amount, txn_count) VALUES(?,?,?,?)`,
				l.Source, l.Target, l.Amount, count,
			); err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
		}
	}

	return tx.Commit()
}

// LoadAnalysis reads the stored analysis. An empty database yields a nil
// analysis, the "nothing uploaded" state.
func (r *Repo) LoadAnalysis(ctx context.Context) (*dataset.Analysis, error) {
	a := &dataset.Analysis{}

	var id, created sql.NullString
	var summary dataset.Summary
	err := r.db.QueryRowContext(ctx,
		`SELECT analysis_id, created_at, total_accounts, total_txns, processing_secs FROM analyses LIMIT 1`,
	).Scan(&id, &created, &summary.TotalAccountsAnalyzed, &summary.TotalTransactions, &summary.ProcessingTimeSeconds)
	switch {
	case err == nil:
		a.AnalysisID, a.Timestamp = id.String, created.String
		a.Summary = &summary
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	accounts, err := r.accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	a.SuspiciousAccounts = accounts

	if a.FraudRings, err = r.rings(ctx, accounts); err != nil {
		return nil, err
	}
	if a.GraphData, err = r.graph(ctx); err != nil {
		return nil, err
	}
	if a.Summary != nil {
		a.Summary.SuspiciousAccountsFlagged = len(accounts)
		a.Summary.FraudRingsDetected = len(a.FraudRings)
	}
	return a, nil
}

func (r *Repo) accounts(ctx context.Context) ([]dataset.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT account_id, suspicion_score, COALESCE(risk_level, ''), ring_id
		FROM suspicious_accounts
		ORDER BY suspicion_score DESC, account_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []dataset.Account
	index := map[string]int{}
	for rows.Next() {
		var acc dataset.Account
		var ring sql.NullString
		if err := rows.Scan(&acc.AccountID, &acc.SuspicionScore, &acc.RiskLevel, &ring); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if ring.Valid && ring.String != "" {
			id := ring.String
			acc.RingID = &id
		}
		index[acc.AccountID] = len(out)
		out = append(out, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prow, err := r.db.QueryContext(ctx, `SELECT account_id, pattern FROM account_patterns ORDER BY account_id, pattern`)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer prow.Close()
	for prow.Next() {
		var id, pattern string
		if err := prow.Scan(&id, &pattern); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		if i, ok := index[id]; ok {
			out[i].DetectedPatterns = append(out[i].DetectedPatterns, pattern)
		}
	}
	return out, prow.Err()
}

func (r *Repo) rings(ctx context.Context, accounts []dataset.Account) ([]dataset.Ring, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ring_id, COALESCE(pattern_type, ''), COALESCE(risk_score, 0) FROM fraud_rings ORDER BY ring_id`)
	if err != nil {
		return nil, fmt.Errorf("query rings: %w", err)
	}
	defer rows.Close()

	members := map[string][]string{}
	for _, acc := range accounts {
		if id := acc.Ring(); id != "" {
			members[id] = append(members[id], acc.AccountID)
		}
	}

	var out []dataset.Ring
	for rows.Next() {
		var ring dataset.Ring
		if err := rows.Scan(&ring.RingID, &ring.PatternType, &ring.RiskScore); err != nil {
			return nil, fmt.Errorf("scan ring: %w", err)
		}
		ring.MemberAccounts = members[ring.RingID]
		sort.Strings(ring.MemberAccounts)
		out = append(out, ring)
	}
	return out, rows.Err()
}

func (r *Repo) graph(ctx context.Context) (*dataset.GraphData, error) {
	g := &dataset.GraphData{}

	rows, err := r.db.QueryContext(ctx, `SELECT account_id, COALESCE(suspicious, false), COALESCE(in_degree, 0), COALESCE(out_degree, 0) FROM account_degrees ORDER BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("query degrees: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n dataset.GraphNode
		if err := rows.Scan(&n.ID, &n.Suspicious, &n.InDegree, &n.OutDegree); err != nil {
			return nil, fmt.Errorf("scan degree: %w", err)
		}
		g.Nodes = append(g.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Parallel rows are aggregated here; the builder would merge them anyway.
	trows, err := r.db.QueryContext(ctx, `
		SELECT source_id, target_id, SUM(amount), CAST(SUM(txn_count) AS INTEGER)
		FROM transactions
		GROUP BY source_id, target_id
		ORDER BY source_id, target_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var l dataset.Link
		if err := trows.Scan(&l.Source, &l.Target, &l.Amount, &l.TxnCount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		g.Links = append(g.Links, l)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}

	if len(g.Nodes) == 0 && len(g.Links) == 0 {
		return nil, nil
	}
	return g, nil
}

func nullEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
