package relational

// SchemaSQL creates the tables an analysis is stored in. Ring membership
// lives on suspicious_accounts.ring_id; fraud_rings only holds ring
// metadata.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS analyses (
	analysis_id      VARCHAR PRIMARY KEY,
	created_at       VARCHAR,
	total_accounts   INTEGER,
	total_txns       INTEGER,
	processing_secs  DOUBLE
);

CREATE TABLE IF NOT EXISTS suspicious_accounts (
	account_id       VARCHAR PRIMARY KEY,
	suspicion_score  DOUBLE NOT NULL,
	risk_level       VARCHAR,
	ring_id          VARCHAR
);

CREATE TABLE IF NOT EXISTS account_patterns (
	account_id       VARCHAR NOT NULL,
	pattern          VARCHAR NOT NULL
);

CREATE TABLE IF NOT EXISTS fraud_rings (
	ring_id          VARCHAR PRIMARY KEY,
	pattern_type     VARCHAR,
	risk_score       DOUBLE
);

CREATE TABLE IF NOT EXISTS account_degrees (
	account_id       VARCHAR PRIMARY KEY,
	suspicious       BOOLEAN,
	in_degree        INTEGER,
	out_degree       INTEGER
);

CREATE TABLE IF NOT EXISTS transactions (
	source_id        VARCHAR NOT NULL,
	target_id        VARCHAR NOT NULL,
	amount           DOUBLE NOT NULL,
	txn_count        INTEGER DEFAULT 1
);
`

// tables lists every table SaveAnalysis replaces, children first.
var tables = []string{
	"transactions",
	"account_degrees",
	"fraud_rings",
	"account_patterns",
	"suspicious_accounts",
	"analyses",
}
