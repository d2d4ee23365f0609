package tools

import (
	"context"
	"fmt"
	"time"
)

// GreetingTool greets a caller by name.
func GreetingTool() Tool {
	return Tool{
		Name:        "get_greeting",
		Description: "Get a personalized greeting for the given name.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The name of the person to greet",
				},
			},
			"required": []string{"name"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			name, _ := args["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("Missing required argument: 'name'")
			}
			return map[string]interface{}{
				"greeting":  fmt.Sprintf("Hello, %s! Welcome to the MCP sample service.", name),
				"timestamp": time.Now().Format(time.RFC3339),
			}, nil
		},
	}
}
