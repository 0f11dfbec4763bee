// Package tools holds the local tool implementations and the ToolList the
// agent loop executes against.
package tools

import (
	"encoding/json"
	"sort"

	"github.com/coral-agents/coral-interface-agent/internal/schema"
)

// ToolList holds a named set of tools and exposes them for LLM calls.
type ToolList struct {
	tools map[string]schema.Tool
}

// NewToolList creates a ToolList from the given tools.
func NewToolList(ts ...schema.Tool) *ToolList {
	list := ToolList{tools: make(map[string]schema.Tool, len(ts))}
	for _, t := range ts {
		list.tools[t.Name()] = t
	}
	return &list
}

// Get returns the tool with the given name, or nil if not found.
func (r *ToolList) Get(name string) schema.Tool {
	return r.tools[name]
}

// Add registers a new tool, replacing any existing tool with the same name.
func (r *ToolList) Add(t schema.Tool) schema.Tool {
	r.tools[t.Name()] = t
	return t
}

// Len returns the number of registered tools.
func (r *ToolList) Len() int { return len(r.tools) }

// All returns every tool sorted by name, so prompt rendering and wire
// payloads are deterministic.
func (r *ToolList) All() []schema.Tool {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]schema.Tool, 0, len(names))
	for _, name := range names {
		out = append(out, r.tools[name])
	}
	return out
}

// Definitions returns all tool definitions in OpenAI function-calling format.
func (r *ToolList) Definitions() []map[string]any {
	all := r.All()
	list := make([]map[string]any, 0, len(all))
	for _, t := range all {
		var params any
		if err := json.Unmarshal(t.Parameters(), &params); err != nil || params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  params,
			},
		})
	}
	return list
}
