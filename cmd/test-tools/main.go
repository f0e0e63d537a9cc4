package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// check is one tool call plus the top-level keys its structured result
// must carry.
type check struct {
	tool string
	args map[string]any
	keys []string
}

func main() {
	file := flag.String("file", "internal/dataset/testdata/cycle.json", "analysis JSON served to the MCP server")
	account := flag.String("account", "A", "account id for account_details")
	ring := flag.String("ring", "RING_001", "ring id for ring_members")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	serverPath := findServerBinary()
	if serverPath == "" {
		log.Fatal("fraudnet binary not found. Run: go build -o fraudnet .")
	}

	cmd := exec.Command(serverPath, "mcp", "--file", *file)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr

	client := mcp.NewClient(&mcp.Implementation{Name: "fraudnet-smoke", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer session.Close()
	fmt.Printf("connected to %s (%s)\n", serverPath, *file)

	listed, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("list tools: %v", err)
	}
	available := map[string]bool{}
	for _, tool := range listed.Tools {
		available[tool.Name] = true
	}
	fmt.Printf("%d tools listed\n", len(listed.Tools))

	checks := []check{
		{"network_summary", map[string]any{"top": 5}, []string{"accounts", "transfers", "rings", "tiers", "top"}},
		{"query_accounts", map[string]any{"risk": "critical"}, []string{"total", "accounts"}},
		{"ring_members", map[string]any{"ring_id": *ring}, []string{"members", "transfers"}},
		{"account_details", map[string]any{"account_id": *account}, []string{"account", "incoming", "outgoing"}},
	}

	failed := 0
	for _, c := range checks {
		if !available[c.tool] {
			fmt.Printf("FAIL %-16s not registered\n", c.tool)
			failed++
			continue
		}
		if err := run(ctx, session, c); err != nil {
			fmt.Printf("FAIL %-16s %v\n", c.tool, err)
			failed++
			continue
		}
		fmt.Printf("ok   %s\n", c.tool)
	}

	if failed > 0 {
		fmt.Printf("%d of %d checks failed\n", failed, len(checks))
		os.Exit(1)
	}
	fmt.Println("all checks passed; try it interactively with: go run ./cmd/mcp-client ./fraudnet mcp --file " + *file)
}

func run(ctx context.Context, session *mcp.ClientSession, c check) error {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: c.tool, Arguments: c.args})
	if err != nil {
		return err
	}
	if result.IsError {
		return fmt.Errorf("tool error: %s", firstText(result))
	}
	fields, ok := result.StructuredContent.(map[string]any)
	if !ok {
		return fmt.Errorf("no structured content: %s", firstText(result))
	}
	for _, k := range c.keys {
		if _, ok := fields[k]; !ok {
			return fmt.Errorf("missing %q in result", k)
		}
	}
	return nil
}

func firstText(result *mcp.CallToolResult) string {
	for _, content := range result.Content {
		if t, ok := content.(*mcp.TextContent); ok {
			if len(t.Text) > 200 {
				return t.Text[:200] + "..."
			}
			return t.Text
		}
	}
	return ""
}

func findServerBinary() string {
	for _, p := range []string{"./fraudnet", "../../fraudnet"} {
		if abs, err := filepath.Abs(p); err == nil {
			if _, err := os.Stat(abs); err == nil {
				return abs
			}
		}
	}
	return ""
}
