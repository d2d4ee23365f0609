package tools

import (
	"context"
	"errors"
	"fmt"
)

// CalculateTool performs basic arithmetic on two operands.
func CalculateTool() Tool {
	return Tool{
		Name:        "calculate",
		Description: "Perform a basic arithmetic calculation (add, subtract, multiply, divide).",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"operation": map[string]interface{}{
					"type":        "string",
					"description": "The operation to perform",
					"enum":        []string{"add", "subtract", "multiply", "divide"},
				},
				"a": map[string]interface{}{
					"type":        "number",
					"description": "The first operand",
				},
				"b": map[string]interface{}{
					"type":        "number",
					"description": "The second operand",
				},
			},
			"required": []string{"operation", "a", "b"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			operation, _ := args["operation"].(string)
			if operation == "" {
				return nil, fmt.Errorf("Missing required argument: 'operation'")
			}
			a, ok := numArg(args, "a")
			if !ok {
				return nil, fmt.Errorf("Missing required argument: 'a'")
			}
			b, ok := numArg(args, "b")
			if !ok {
				return nil, fmt.Errorf("Missing required argument: 'b'")
			}

			var result float64
			switch operation {
			case "add":
				result = a + b
			case "subtract":
				result = a - b
			case "multiply":
				result = a * b
			case "divide":
				if b == 0 {
					return nil, errors.New("Cannot divide by zero")
				}
				result = a / b
			default:
				return nil, fmt.Errorf("Unknown operation: %s", operation)
			}

			return map[string]interface{}{
				"result":    result,
				"operation": operation,
			}, nil
		},
	}
}

// numArg reads a numeric argument. JSON numbers decode to float64, but
// directly constructed argument maps may carry Go ints.
func numArg(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
