package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs security-relevant events with hashed identifiers
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogOrchestration records one LLM orchestration round
func (a *AuditLogger) LogOrchestration(
	prompt, provider string,
	toolCalls int,
	executionTimeMs int64,
	success bool,
	errMsg string,
) {
	if !a.enabled {
		return
	}
	promptHash := hashStr(prompt)[:16]

	evt := log.Info().
		Str("event", "orchestration_audit").
		Str("prompt_hash", promptHash).
		Str("provider", provider).
		Int("tool_calls", toolCalls).
		Int64("execution_time_ms", executionTimeMs).
		Bool("success", success)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

// LogToolInvocation records a direct tool endpoint invocation
func (a *AuditLogger) LogToolInvocation(tool string, executionTimeMs int64, success bool, errMsg string) {
	if !a.enabled {
		return
	}

	evt := log.Info().
		Str("event", "tool_audit").
		Str("tool", tool).
		Int64("execution_time_ms", executionTimeMs).
		Bool("success", success)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
