package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	mergeAccountsCypher = `
		UNWIND $accounts AS acc
		MERGE (a:Account {account_id: acc.account_id})
		SET a.flagged = true,
			a.suspicion_score = acc.suspicion_score,
			a.risk_level = acc.risk_level,
			a.ring_id = acc.ring_id,
			a.detected_patterns = acc.detected_patterns
	`

	mergeRingsCypher = `
		UNWIND $rings AS r
		MERGE (g:Ring {ring_id: r.ring_id})
		SET g.pattern_type = r.pattern_type,
			g.risk_score = r.risk_score
	`

	createTransfersCypher = `
		UNWIND $links AS l
		MERGE (s:Account {account_id: l.source})
		MERGE (d:Account {account_id: l.target})
		CREATE (s)-[:TRANSFER {amount: l.amount, txn_count: l.txn_count}]->(d)
	`

	accountsCypher = `
		MATCH (a:Account)
		WHERE a.flagged = true
		RETURN a.account_id AS account_id,
			a.suspicion_score AS suspicion_score,
			a.risk_level AS risk_level,
			a.ring_id AS ring_id,
			a.detected_patterns AS detected_patterns
		ORDER BY account_id
	`

	degreesCypher = `
		MATCH (a:Account)
		WHERE a.flagged = true OR EXISTS { (a)-[:TRANSFER]-(:Account {flagged: true}) }
		RETURN a.account_id AS id,
			coalesce(a.flagged, false) AS suspicious,
			a.ring_id AS ring_id,
			COUNT { (a)<-[:TRANSFER]-() } AS in_degree,
			COUNT { (a)-[:TRANSFER]->() } AS out_degree
		ORDER BY id
	`

	transfersCypher = `
		MATCH (s:Account)-[t:TRANSFER]->(d:Account)
		WHERE s.flagged = true OR d.flagged = true
		RETURN s.account_id AS source,
			d.account_id AS target,
			sum(t.amount) AS amount,
			sum(coalesce(t.txn_count, 1)) AS txn_count,
			(coalesce(s.flagged, false) AND coalesce(d.flagged, false)) AS suspicious
		ORDER BY source, target
	`

	ringsCypher = `
		MATCH (r:Ring)
		OPTIONAL MATCH (a:Account {ring_id: r.ring_id})
		WITH r, a ORDER BY a.account_id
		RETURN r.ring_id AS ring_id,
			r.pattern_type AS pattern_type,
			r.risk_score AS risk_score,
			collect(a.account_id) AS members
		ORDER BY ring_id
	`
)

// ExecuteCypher runs a read query and returns the rows.
func (c *Neo4jClient) ExecuteCypher(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.dbName,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		results := make([]map[string]any, 0, len(records))
		for _, record := range records {
			rowMap := make(map[string]any, len(record.Keys))
			for i, key := range record.Keys {
				rowMap[key] = convertNeo4jValue(record.Values[i])
			}
			results = append(results, rowMap)
		}
		return results, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cypher execution failed: %w", err)
	}

	return result.([]map[string]any), nil
}

// convertNeo4jValue converts Neo4j types to Go native types.
func convertNeo4jValue(val any) any {
	switch v := val.(type) {
	case neo4j.Node:
		return map[string]any{
			"labels":     v.Labels,
			"properties": v.Props,
			"id":         v.ElementId,
		}
	case neo4j.Relationship:
		return map[string]any{
			"type":       v.Type,
			"properties": v.Props,
			"startNode":  v.StartElementId,
			"endNode":    v.EndElementId,
		}
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = convertNeo4jValue(item)
		}
		return result
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, item := range v {
			result[k] = convertNeo4jValue(item)
		}
		return result
	default:
		return v
	}
}
