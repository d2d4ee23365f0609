package mcp

// ToolDescriptor is one advertised tool, exactly as the tool service
// publishes it. Descriptors are never mutated after fetch.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// infoDocument covers both /info envelope shapes:
// {"tools": [...]} and {"data": {"tools": [...]}}.
type infoDocument struct {
	Tools []ToolDescriptor `json:"tools"`
	Data  *infoData        `json:"data"`
}

type infoData struct {
	Tools []ToolDescriptor `json:"tools"`
}

// callEnvelope is the wire envelope of tool and resource invocations.
type callEnvelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   *string                `json:"error"`
}
