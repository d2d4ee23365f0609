package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/toolbridge/toolbridge/internal/llm"
	"github.com/toolbridge/toolbridge/internal/mcp"
	"github.com/toolbridge/toolbridge/internal/observability"
	"github.com/toolbridge/toolbridge/internal/security"
	"golang.org/x/sync/errgroup"
)

// Request carries one prompt through a single orchestration round.
type Request struct {
	Prompt        string
	SystemMessage string
	Temperature   float32
	MaxTokens     int
}

// ToolResult records the outcome of one tool call requested by the model.
// Exactly one of Result and Error is set.
type ToolResult struct {
	ToolName  string                 `json:"tool_name"`
	Arguments map[string]interface{} `json:"arguments"`
	Result    map[string]interface{} `json:"result"`
	Error     *string                `json:"error"`
}

// Result is the combined outcome relayed back to the caller. ToolResults
// is nil when the model answered without requesting any tool calls.
type Result struct {
	Response    *string      `json:"response"`
	ToolResults []ToolResult `json:"tool_results"`
}

// Orchestrator drives the single-round tool flow: discover the tool
// catalog, run one inference, execute every requested call, relay all of
// it back. Tool failures are isolated per call; only model backend
// failures abort the round.
type Orchestrator struct {
	client   *mcp.Client
	backend  llm.Backend
	provider string
	audit    *security.AuditLogger
}

func New(client *mcp.Client, backend llm.Backend, provider string, audit *security.AuditLogger) *Orchestrator {
	if audit == nil {
		audit = security.NewAuditLogger(false)
	}
	return &Orchestrator{
		client:   client,
		backend:  backend,
		provider: provider,
		audit:    audit,
	}
}

// Process runs one orchestration round for the given request.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	res, mode, err := o.run(ctx, req)
	observability.RecordOrchestration(mode, start, err)

	toolCalls := 0
	if res != nil {
		toolCalls = len(res.ToolResults)
	}
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	o.audit.LogOrchestration(req.Prompt, o.provider, toolCalls, time.Since(start).Milliseconds(), err == nil, errMsg)

	return res, err
}

func (o *Orchestrator) run(ctx context.Context, req Request) (*Result, string, error) {
	opts := llm.Options{
		SystemMessage: req.SystemMessage,
		Temperature:   req.Temperature,
		MaxTokens:     req.MaxTokens,
	}

	catalog := o.client.Tools(ctx)
	if len(catalog) == 0 {
		log.Warn().Msg("no tools available, generating without tool support")
		text, err := o.backend.Generate(ctx, req.Prompt, opts)
		if err != nil {
			return nil, "fallback", err
		}
		return &Result{Response: &text}, "fallback", nil
	}

	gen, err := o.backend.GenerateWithTools(ctx, req.Prompt, mcp.FunctionSpecs(catalog), opts)
	if err != nil {
		return nil, "tools", err
	}

	if len(gen.ToolCalls) == 0 {
		return &Result{Response: gen.Content}, "text", nil
	}

	log.Info().
		Int("tool_calls", len(gen.ToolCalls)).
		Msg("model requested tool calls")

	results := o.executeAll(ctx, gen.ToolCalls)
	return &Result{Response: gen.Content, ToolResults: results}, "tools", nil
}

// executeAll runs every requested call concurrently. Results keep the
// order in which the model emitted the calls.
func (o *Orchestrator) executeAll(ctx context.Context, calls []llm.ToolCall) []ToolResult {
	results := make([]ToolResult, len(calls))

	g, ctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			results[i] = o.executeCall(ctx, call)
			return nil
		})
	}
	_ = g.Wait() // call failures land in their result slot, never here

	return results
}

func (o *Orchestrator) executeCall(ctx context.Context, call llm.ToolCall) ToolResult {
	out := ToolResult{ToolName: call.Name, Arguments: map[string]interface{}{}}

	args, err := decodeArguments(call.RawArguments)
	if err != nil {
		log.Warn().Err(err).Str("tool", call.Name).Msg("failed to parse tool arguments")
		msg := fmt.Sprintf("invalid tool arguments: %v", err)
		out.Error = &msg
		return out
	}
	out.Arguments = args

	result, err := o.client.CallTool(ctx, call.Name, args)
	if err != nil {
		log.Warn().Err(err).Str("tool", call.Name).Msg("tool execution error")
		msg := err.Error()
		out.Error = &msg
		return out
	}
	out.Result = result
	return out
}

// decodeArguments parses the raw JSON arguments emitted by the model.
// Empty input decodes to an empty argument map.
func decodeArguments(raw string) (map[string]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]interface{}{}, nil
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return args, nil
}
