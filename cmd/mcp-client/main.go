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

func main() {
	url := flag.String("url", "", "streamable HTTP endpoint of a running chatprofile --debug-addr")
	flag.Parse()
	args := flag.Args()

	var transport mcp.Transport
	switch {
	case *url != "":
		transport = &mcp.StreamableClientTransport{Endpoint: *url}
	case len(args) > 0:
		// Start the server as a subprocess
		transport = &mcp.CommandTransport{Command: exec.Command(args[0], args[1:]...)}
	default:
		fmt.Fprintln(os.Stderr, "Usage: mcp-client [-url <endpoint>] | <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client ./chatprofile mcp --peer 100")
		fmt.Fprintln(os.Stderr, "Example: mcp-client -url http://localhost:7070")
		os.Exit(2)
	}

	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "chatprofile-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer session.Close()

	fmt.Println("Connected to the chatprofile debug server!")
	fmt.Println("Available commands:")
	fmt.Println("  /tools                    - List available tools")
	fmt.Println("  /state                    - Screen offsets, page and gesture owner")
	fmt.Println("  /rows [kind]              - Rows of the primary list")
	fmt.Println("  /pages                    - Pages and their counts")
	fmt.Println("  /inject <category> <n>    - Report a count")
	fmt.Println("  /refresh                  - Re-query every tracked count")
	fmt.Println("  /peers [kind] [limit]     - Stored peers")
	fmt.Println("  /counts [peer]            - Cached counts")
	fmt.Println("  /activity [peer] [days]   - Messages per day")
	fmt.Println("  /graph <cypher>           - Execute Cypher query")
	fmt.Println("  /exit                     - Exit the client")
	fmt.Println()

	// Interactive REPL
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		parts := strings.Fields(input)

		switch parts[0] {
		case "/exit":
			fmt.Println("Goodbye!")
			return

		case "/tools":
			listTools(ctx, session)

		case "/state":
			callTool(ctx, session, "get_screen_state", map[string]any{})

		case "/rows":
			args := map[string]any{}
			if len(parts) > 1 {
				args["kind"] = parts[1]
			}
			callTool(ctx, session, "get_rows", args)

		case "/pages":
			callTool(ctx, session, "get_pages", map[string]any{})

		case "/inject":
			if len(parts) != 3 {
				fmt.Println("Usage: /inject <category> <count>")
				continue
			}
			n, err := strconv.Atoi(parts[2])
			if err != nil {
				fmt.Printf("Bad count %q\n", parts[2])
				continue
			}
			callTool(ctx, session, "inject_count", map[string]any{"category": parts[1], "count": n})

		case "/refresh":
			callTool(ctx, session, "refresh_counts", map[string]any{})

		case "/peers":
			args := map[string]any{}
			if len(parts) > 1 {
				args["kind"] = parts[1]
			}
			setInt(args, "limit", parts, 2)
			callTool(ctx, session, "list_peers", args)

		case "/counts":
			args := map[string]any{}
			setInt(args, "peer_id", parts, 1)
			callTool(ctx, session, "get_stored_counts", args)

		case "/activity":
			args := map[string]any{}
			setInt(args, "peer_id", parts, 1)
			setInt(args, "days", parts, 2)
			callTool(ctx, session, "get_activity", args)

		case "/graph":
			cypher := strings.TrimSpace(strings.TrimPrefix(input, "/graph"))
			if cypher == "" {
				fmt.Println("Usage: /graph <cypher>")
				continue
			}
			callTool(ctx, session, "query_graph", map[string]any{"cypher": cypher})

		default:
			fmt.Printf("Unknown command %q, try /tools\n", parts[0])
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Scanner error: %v", err)
	}
}

// setInt copies parts[i] into args[key] when it is present and numeric.
func setInt(args map[string]any, key string, parts []string, i int) {
	if len(parts) <= i {
		return
	}
	n, err := strconv.ParseInt(parts[i], 10, 64)
	if err != nil {
		fmt.Printf("Ignoring %s %q: not a number\n", key, parts[i])
		return
	}
	args[key] = n
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("Available Tools:")
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			log.Printf("Error listing tools: %v", err)
			return
		}
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}
	fmt.Println()
}

func callTool(ctx context.Context, session *mcp.ClientSession, toolName string, args map[string]any) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		log.Printf("Error calling tool: %v", err)
		return
	}

	printResult(result)
}

func printResult(result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Printf("❌ Error: ")
	} else {
		fmt.Printf("✅ Result: ")
	}

	if result.StructuredContent != nil && !result.IsError {
		if data, err := json.MarshalIndent(result.StructuredContent, "", "  "); err == nil {
			fmt.Println(string(data))
			fmt.Println()
			return
		}
	}
	for _, content := range result.Content {
		switch v := content.(type) {
		case *mcp.TextContent:
			fmt.Println(v.Text)
		default:
			jsonData, err := json.MarshalIndent(content, "", "  ")
			if err != nil {
				fmt.Printf("%+v\n", content)
			} else {
				fmt.Println(string(jsonData))
			}
		}
	}
	fmt.Println()
}
