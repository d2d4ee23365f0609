// Package tools defines the hosted tool and resource types plus the
// registries that back the MCP endpoints and the /info document.
package tools

import "context"

// Tool represents a callable function exposed over the MCP tool API.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Execute     func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)
}

// Resource represents a readable document exposed over the MCP
// resource API.
type Resource struct {
	URI         string
	Description string
	Fetch       func(ctx context.Context) (map[string]interface{}, error)
}
