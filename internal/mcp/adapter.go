package mcp

import "github.com/toolbridge/toolbridge/internal/llm"

// FunctionSpecs converts tool descriptors into the function-spec format
// the model backends accept. The mapping is 1:1 and order-preserving; a
// missing input schema becomes an empty object schema. Schemas are
// passed through without validation.
func FunctionSpecs(descs []ToolDescriptor) []llm.ToolSpec {
	specs := make([]llm.ToolSpec, len(descs))
	for i, d := range descs {
		params := d.InputSchema
		if params == nil {
			params = map[string]interface{}{}
		}
		specs[i] = llm.ToolSpec{
			Type: "function",
			Function: llm.FunctionSpec{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  params,
			},
		}
	}
	return specs
}
