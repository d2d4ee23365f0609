package mcp

import "fmt"

// InvocationError is a failure reported by the tool service itself,
// i.e. an envelope with success=false.
type InvocationError struct {
	Op      string // "tool" or "resource"
	Target  string // tool name or resource URI
	Message string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s call failed: %s", e.Op, e.Message)
}

// TransportError is a failure to reach the tool service or to decode
// its response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
