// Package schema contains the core contracts shared across packages.
// Concrete implementations live in their respective packages; this package is
// the single canonical source of truth for every interface definition.
package schema

import (
	"context"
	"encoding/json"
)

// Tool is the interface all LLM-callable tools must satisfy.
// Remote Coral Server tools and local tools (ask_human) both implement it, so
// the agent loop never needs to know where a tool lives.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	Execute(ctx context.Context, params map[string]any) (string, error)
}
