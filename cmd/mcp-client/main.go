package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// command turns the words after a slash command into a tool call.
type command struct {
	usage string
	help  string
	tool  string
	args  func(words []string) (map[string]any, bool)
}

var commands = map[string]command{
	"/summary": {
		usage: "/summary [top]",
		help:  "network summary, health checks and top accounts",
		tool:  "network_summary",
		args: func(words []string) (map[string]any, bool) {
			args := map[string]any{}
			if len(words) > 0 {
				n, err := strconv.Atoi(words[0])
				if err != nil {
					return nil, false
				}
				args["top"] = n
			}
			return args, true
		},
	},
	"/accounts": {
		usage: "/accounts [risk] [text]",
		help:  "flagged accounts by tier (all, critical, high, medium, low) and id text",
		tool:  "query_accounts",
		args: func(words []string) (map[string]any, bool) {
			args := map[string]any{}
			if len(words) > 0 {
				args["risk"] = words[0]
			}
			if len(words) > 1 {
				args["search"] = strings.Join(words[1:], " ")
			}
			return args, true
		},
	},
	"/ring": {
		usage: "/ring <ring_id>",
		help:  "ring members and the transfers between them",
		tool:  "ring_members",
		args: func(words []string) (map[string]any, bool) {
			if len(words) != 1 {
				return nil, false
			}
			return map[string]any{"ring_id": words[0]}, true
		},
	},
	"/graph": {
		usage: "/graph <cypher>",
		help:  "read-only Cypher against the Neo4j mirror",
		tool:  "query_graph",
		args: func(words []string) (map[string]any, bool) {
			if len(words) == 0 {
				return nil, false
			}
			return map[string]any{"cypher": strings.Join(words, " ")}, true
		},
	},
}

var order = []string{"/summary", "/accounts", "/ring", "/graph"}

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client fraudnet mcp --file analysis.json")
		os.Exit(2)
	}

	ctx := context.Background()

	transport := &mcp.CommandTransport{Command: exec.Command(args[0], args[1:]...)}
	client := mcp.NewClient(&mcp.Implementation{Name: "fraudnet-client", Version: "1.0.0"}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer session.Close()

	fmt.Println("Connected to fraudnet MCP server.")
	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); scanner.Scan(); fmt.Print("> ") {
		words := strings.Fields(scanner.Text())
		if len(words) == 0 {
			continue
		}

		switch head := words[0]; head {
		case "/exit", "/quit":
			return
		case "/help":
			printHelp()
		case "/tools":
			listTools(ctx, session)
		default:
			if !strings.HasPrefix(head, "/") {
				callTool(ctx, session, "account_details", map[string]any{"account_id": head})
				continue
			}
			c, ok := commands[head]
			if !ok {
				fmt.Printf("unknown command %s, try /help\n", head)
				continue
			}
			toolArgs, ok := c.args(words[1:])
			if !ok {
				fmt.Println("usage:", c.usage)
				continue
			}
			callTool(ctx, session, c.tool, toolArgs)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Scanner error: %v", err)
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Printf("  %-26s %s\n", "/tools", "list the server's tools")
	for _, name := range order {
		c := commands[name]
		fmt.Printf("  %-26s %s\n", c.usage, c.help)
	}
	fmt.Printf("  %-26s %s\n", "<account_id>", "account details with transfers in and out")
	fmt.Printf("  %-26s %s\n", "/exit", "leave")
	fmt.Println()
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			log.Printf("Error listing tools: %v", err)
			return
		}
		fmt.Printf("  %-18s %s\n", tool.Name, tool.Description)
	}
	fmt.Println()
}

func callTool(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Printf("Error calling %s: %v", name, err)
		return
	}
	printResult(result)
}

// printResult prefers the structured output; text content is the fallback
// and carries tool errors.
func printResult(result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Print("error: ")
	} else if result.StructuredContent != nil {
		if data, err := json.MarshalIndent(result.StructuredContent, "", "  "); err == nil {
			fmt.Println(string(data))
			return
		}
	}

	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			fmt.Println(text.Text)
			continue
		}
		fmt.Printf("[%T]\n", content)
	}
	fmt.Println()
}
