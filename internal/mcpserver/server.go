// Package mcpserver exposes the loaded fraud network to MCP clients over
// stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"fraudnet/internal/database"
	"fraudnet/internal/database/graph"
	"fraudnet/internal/dataset"
	"fraudnet/internal/interact"
	"fraudnet/internal/output"
)

// ErrNoDataset is returned by tools before any analysis has loaded.
var ErrNoDataset = errors.New("no analysis loaded")

const (
	defaultQueryLimit = 25
	maxQueryLimit     = 500
)

// Config holds configuration for the MCP server.
type Config struct {
	ServerName      string
	ServerVersion   string
	TopN            int
	RefreshInterval time.Duration // 0 loads once
	LoadTimeout     time.Duration
}

// Server wraps the MCP server with fraud network query tools.
type Server struct {
	cfg       Config
	mcpServer *mcp.Server
	refresher *database.Refresher
	graph     graph.Querier
	log       *slog.Logger
	refresh   []database.Option

	mu      sync.RWMutex
	payload *output.PipelinePayload

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
	watchWg     sync.WaitGroup
}

type Option func(*Server)

// WithGraph enables the query_graph tool.
func WithGraph(q graph.Querier) Option {
	return func(s *Server) { s.graph = q }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithRefresherOptions passes extra options, such as a store or graph
// mirror, to the background refresher.
func WithRefresherOptions(opts ...database.Option) Option {
	return func(s *Server) { s.refresh = append(s.refresh, opts...) }
}

// NewServer creates a server serving analyses from src.
func NewServer(cfg Config, src dataset.Source, opts ...Option) (*Server, error) {
	if cfg.ServerName == "" {
		cfg.ServerName = "fraudnet"
	}
	if cfg.TopN <= 0 {
		cfg.TopN = output.DefaultTopN
	}

	s := &Server{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	ropts := append([]database.Option{
		database.WithInterval(cfg.RefreshInterval),
		database.WithLoadTimeout(cfg.LoadTimeout),
		database.WithLogger(s.log),
	}, s.refresh...)
	r, err := database.NewRefresher(src, ropts...)
	if err != nil {
		return nil, fmt.Errorf("create refresher: %w", err)
	}
	s.refresher = r

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}, nil)
	s.registerTools()
	return s, nil
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "network_summary",
		Description: "Summarize the loaded fraud network: account, transfer and ring counts, accounts per risk tier (Critical >= 70, High >= 50, Medium >= 30, Low), health checks and the highest-scoring accounts.",
	}, s.handleNetworkSummary)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_accounts",
		Description: "List flagged accounts whose id contains the search text (case-insensitive) and whose tier matches the risk filter (all, critical, high, medium, low). Results are ordered by suspicion score.",
	}, s.handleQueryAccounts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ring_members",
		Description: "Show one fraud ring: its pattern type, ring risk score, member accounts and the transfers among them.",
	}, s.handleRingMembers)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "account_details",
		Description: "Show one flagged account with its ring, detected patterns and incoming and outgoing transfers to other flagged accounts.",
	}, s.handleAccountDetails)

	if s.graph != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "query_graph",
			Description: "Execute a read-only Cypher query on the Neo4j transaction graph. Nodes: Account {account_id, flagged, suspicion_score, ring_id}, Ring {ring_id, pattern_type, risk_score}. Relationships: TRANSFER {amount, txn_count}.",
		}, s.handleQueryGraph)
	}
}

// Load pulls the source once and applies the result.
func (s *Server) Load(ctx context.Context) error {
	if _, err := s.refresher.PullOnce(ctx); err != nil {
		return err
	}
	s.drain()
	return nil
}

// Start loads the initial analysis, starts background refresh when
// configured and serves MCP over stdio until ctx ends.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		s.log.Warn("initial load failed", "err", err)
	}
	if s.cfg.RefreshInterval > 0 {
		s.startWatch(ctx)
	}
	s.log.Info("serving MCP on stdio", "name", s.cfg.ServerName)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Close stops background refresh.
func (s *Server) Close() {
	s.watchMu.Lock()
	cancel := s.watchCancel
	s.watchCancel = nil
	s.watchMu.Unlock()

	if cancel != nil {
		cancel()
		s.refresher.Stop()
		s.watchWg.Wait()
	}
}

func (s *Server) startWatch(ctx context.Context) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watchCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.watchCancel = cancel
	if err := s.refresher.Start(ctx); err != nil {
		s.log.Warn("refresher start failed", "err", err)
	}

	s.watchWg.Add(1)
	go func() {
		defer s.watchWg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case u := <-s.refresher.Updates():
				s.apply(u)
			}
		}
	}()
}

// drain applies a pending update, if any.
func (s *Server) drain() {
	select {
	case u := <-s.refresher.Updates():
		s.apply(u)
	default:
	}
}

func (s *Server) apply(u database.Update) {
	if u.Err != nil {
		s.log.Warn("refresh failed; keeping previous analysis", "source", u.Source, "err", u.Err)
		return
	}
	p := output.Process(u.Analysis, s.cfg.TopN)
	s.mu.Lock()
	s.payload = p
	s.mu.Unlock()
	s.log.Info("analysis applied", "source", u.Source, "accounts", p.Model.Len())
}

func (s *Server) current() (*output.PipelinePayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.payload == nil || s.payload.Model.Empty() {
		return nil, ErrNoDataset
	}
	return s.payload, nil
}

// SummaryArgs defines the input for network_summary.
type SummaryArgs struct {
	Top int `json:"top,omitempty" jsonschema:"number of top accounts to include (default 10)"`
}

type CheckRow struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// SummaryResult is the network_summary output.
type SummaryResult struct {
	AnalysisID   string              `json:"analysis_id,omitempty"`
	Accounts     int                 `json:"accounts"`
	Transfers    int                 `json:"transfers"`
	Rings        int                 `json:"rings"`
	DroppedEdges int                 `json:"dropped_edges"`
	Tiers        map[string]int      `json:"tiers"`
	Checks       []CheckRow          `json:"checks"`
	Top          []output.AccountRow `json:"top"`
}

func (s *Server) handleNetworkSummary(ctx context.Context, _ *mcp.CallToolRequest, args SummaryArgs) (*mcp.CallToolResult, SummaryResult, error) {
	p, err := s.current()
	if err != nil {
		return nil, SummaryResult{}, err
	}
	top := args.Top
	if top <= 0 {
		top = s.cfg.TopN
	}

	res := SummaryResult{
		AnalysisID:   p.Report.AnalysisID,
		Accounts:     p.Report.Accounts,
		Transfers:    p.Report.Edges,
		Rings:        p.Report.Rings,
		DroppedEdges: p.Stats.DroppedEdges,
		Tiers:        map[string]int{},
		Top:          output.QueryAccounts(p.Model, "", interact.FilterAll, top),
	}
	for _, n := range p.Model.Nodes {
		res.Tiers[n.Tier().String()]++
	}
	for _, c := range p.Checks {
		res.Checks = append(res.Checks, CheckRow{Name: c.Name, Value: c.Value, Status: c.Status})
	}
	return nil, res, nil
}

// QueryAccountsArgs defines the input for query_accounts.
type QueryAccountsArgs struct {
	Search string `json:"search,omitempty" jsonschema:"case-insensitive substring of the account id"`
	Risk   string `json:"risk,omitempty" jsonschema:"risk filter: all, critical, high, medium or low"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum rows (default 25, max 500)"`
}

type QueryAccountsResult struct {
	Total    int                 `json:"total"`
	Accounts []output.AccountRow `json:"accounts"`
}

func (s *Server) handleQueryAccounts(ctx context.Context, _ *mcp.CallToolRequest, args QueryAccountsArgs) (*mcp.CallToolResult, QueryAccountsResult, error) {
	p, err := s.current()
	if err != nil {
		return nil, QueryAccountsResult{}, err
	}
	filter, err := interact.ParseRiskFilter(args.Risk)
	if err != nil {
		return nil, QueryAccountsResult{}, err
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	all := output.QueryAccounts(p.Model, args.Search, filter, 0)
	res := QueryAccountsResult{Total: len(all), Accounts: all}
	if len(all) > limit {
		res.Accounts = all[:limit]
	}
	if res.Accounts == nil {
		res.Accounts = []output.AccountRow{}
	}
	return nil, res, nil
}

// RingMembersArgs defines the input for ring_members.
type RingMembersArgs struct {
	RingID string `json:"ring_id" jsonschema:"fraud ring id, e.g. RING_001"`
}

func (s *Server) handleRingMembers(ctx context.Context, _ *mcp.CallToolRequest, args RingMembersArgs) (*mcp.CallToolResult, output.RingView, error) {
	p, err := s.current()
	if err != nil {
		return nil, output.RingView{}, err
	}
	ring, ok := output.RingMembers(p.Model, p.Analysis, args.RingID)
	if !ok {
		return nil, output.RingView{}, fmt.Errorf("ring %q not found", args.RingID)
	}
	return nil, ring, nil
}

// AccountDetailsArgs defines the input for account_details.
type AccountDetailsArgs struct {
	AccountID string `json:"account_id" jsonschema:"exact account id"`
}

func (s *Server) handleAccountDetails(ctx context.Context, _ *mcp.CallToolRequest, args AccountDetailsArgs) (*mcp.CallToolResult, output.AccountView, error) {
	p, err := s.current()
	if err != nil {
		return nil, output.AccountView{}, err
	}
	view, ok := output.AccountDetails(p.Model, p.Analysis, args.AccountID)
	if !ok {
		return nil, output.AccountView{}, fmt.Errorf("account %q not found", args.AccountID)
	}
	return nil, view, nil
}

// QueryGraphArgs defines the input for query_graph.
type QueryGraphArgs struct {
	Cypher string `json:"cypher" jsonschema:"Cypher query to execute"`
}

// QueryGraphResult wraps graph query results.
type QueryGraphResult struct {
	Data []map[string]any `json:"data" jsonschema:"query results"`
}

func (s *Server) handleQueryGraph(ctx context.Context, _ *mcp.CallToolRequest, args QueryGraphArgs) (*mcp.CallToolResult, QueryGraphResult, error) {
	if s.graph == nil {
		return nil, QueryGraphResult{}, errors.New("graph database not configured")
	}
	result, err := s.graph.ExecuteCypher(ctx, args.Cypher, nil)
	if err != nil {
		return nil, QueryGraphResult{}, fmt.Errorf("cypher query failed: %w", err)
	}
	return nil, QueryGraphResult{Data: result}, nil
}
