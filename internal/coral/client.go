// Package coral talks to the Coral Server: an MCP endpoint reached over SSE
// that exposes the multi-agent tools (list_agents, create_thread, send_message,
// wait_for_mentions, …) and the server's diagnostic resources.
package coral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/coral-agents/coral-interface-agent/internal/retry"
	"github.com/coral-agents/coral-interface-agent/internal/schema"
)

const clientName = "coral-interface-agent"
const clientVersion = "0.1.0"

// ServerURL builds the SSE endpoint URL, registering the agent's identity and
// description as query parameters the way the server expects.
func ServerURL(base, agentID, description string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("coral: parse server url %q: %w", base, err)
	}
	q := u.Query()
	q.Set("agentId", agentID)
	q.Set("agentDescription", description)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Client is a connected MCP session with the Coral Server.
// Safe for concurrent use; the underlying MCP client serialises requests.
type Client struct {
	mcp       *mcpclient.Client
	serverURL string
	agentID   string
}

// Dial connects to the Coral Server, retrying with the bounded fixed-delay
// policy. Exhausting the retry budget returns the last connection error;
// callers treat that as fatal.
func Dial(ctx context.Context, serverURL, agentID string, rcfg retry.Config) (*Client, error) {
	var session *mcpclient.Client

	err := retry.Do(ctx, "connect to coral server", rcfg, func(ctx context.Context) error {
		c, err := mcpclient.NewSSEMCPClient(serverURL)
		if err != nil {
			return fmt.Errorf("create sse client: %w", err)
		}
		if err := c.Start(ctx); err != nil {
			c.Close()
			return fmt.Errorf("start sse stream: %w", err)
		}

		initReq := mcp.InitializeRequest{
			Params: mcp.InitializeParams{
				ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
				ClientInfo: mcp.Implementation{
					Name:    clientName,
					Version: clientVersion,
				},
				Capabilities: mcp.ClientCapabilities{},
			},
		}
		if _, err := c.Initialize(ctx, initReq); err != nil {
			c.Close()
			return fmt.Errorf("initialize: %w", err)
		}

		session = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("connected to coral server", "agent", agentID, "url", serverURL)
	return &Client{mcp: session, serverURL: serverURL, agentID: agentID}, nil
}

// AgentID returns the identity this session registered with.
func (c *Client) AgentID() string { return c.agentID }

// Tools lists the server's tools, each wrapped as a schema.Tool whose Execute
// calls back into this session.
func (c *Client) Tools(ctx context.Context) ([]schema.Tool, error) {
	result, err := c.mcp.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("coral: list tools: %w", err)
	}

	tools := make([]schema.Tool, 0, len(result.Tools))
	for _, def := range result.Tools {
		schemaBytes, err := json.Marshal(def.InputSchema)
		if err != nil {
			slog.Warn("skipping tool with unencodable schema", "tool", def.Name, "err", err)
			continue
		}
		tools = append(tools, &remoteTool{
			client:      c,
			name:        def.Name,
			description: def.Description,
			parameters:  schemaBytes,
		})
	}
	return tools, nil
}

// CallTool invokes a named tool on the server and flattens the text blocks of
// the result. A result flagged as an error by the server becomes a Go error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	result, err := c.mcp.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return "", fmt.Errorf("coral: call %s: %w", name, err)
	}

	text := flattenContent(result.Content)
	if result.IsError {
		return "", fmt.Errorf("coral: %s failed: %s", name, text)
	}
	if text == "" {
		text = "(no output)"
	}
	return text, nil
}

// Resources lists the server's resources as summarisable items.
func (c *Client) Resources(ctx context.Context) ([]ResourceItem, error) {
	result, err := c.mcp.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		return nil, fmt.Errorf("coral: list resources: %w", err)
	}

	items := make([]ResourceItem, 0, len(result.Resources))
	for _, res := range result.Resources {
		items = append(items, mcpResource{res: res})
	}
	return items, nil
}

// Close terminates the MCP session.
func (c *Client) Close() error {
	if c.mcp == nil {
		return nil
	}
	return c.mcp.Close()
}

func flattenContent(blocks []mcp.Content) string {
	var parts []string
	for _, block := range blocks {
		switch tc := block.(type) {
		case mcp.TextContent:
			if tc.Text != "" {
				parts = append(parts, tc.Text)
			}
		case *mcp.TextContent:
			if tc.Text != "" {
				parts = append(parts, tc.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// mcpResource adapts a server resource descriptor to ResourceItem.
type mcpResource struct {
	res mcp.Resource
}

func (r mcpResource) Details() (map[string]any, error) {
	if r.res.URI == "" {
		return nil, errors.New("resource has no uri")
	}
	details := map[string]any{"uri": r.res.URI}
	if r.res.Name != "" {
		details["name"] = r.res.Name
	}
	if r.res.Description != "" {
		details["description"] = r.res.Description
	}
	if r.res.MIMEType != "" {
		details["mimeType"] = r.res.MIMEType
	}
	return details, nil
}
