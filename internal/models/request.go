package models

// ProcessRequest for POST /llm/process
type ProcessRequest struct {
	Prompt        string   `json:"prompt"`
	SystemMessage *string  `json:"system_message,omitempty"`
	Temperature   *float32 `json:"temperature,omitempty"`
	MaxTokens     int      `json:"max_tokens,omitempty"`
}

func (r *ProcessRequest) SetDefaults() {
	if r.Temperature == nil {
		t := float32(0.7)
		r.Temperature = &t
	}
	if *r.Temperature < 0 {
		*r.Temperature = 0
	}
	if *r.Temperature > 2 {
		*r.Temperature = 2
	}
	if r.MaxTokens < 0 {
		r.MaxTokens = 0
	}
}
