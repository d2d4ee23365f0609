package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/toolbridge/toolbridge/internal/observability"
	"golang.org/x/sync/singleflight"
)

// Client talks to an MCP tool service over HTTP. One long-lived client
// and its transport serve all requests; it is safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu        sync.RWMutex
	tools     []ToolDescriptor // nil until the first successful fetch
	fetchedAt time.Time
	sf        singleflight.Group
}

// NewClient creates a client for the tool service at baseURL. Every
// outbound call is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
	log.Info().Str("base_url", c.baseURL).Msg("initialized MCP tool client")
	return c
}

// Close releases idle connections held by the shared transport.
func (c *Client) Close() {
	c.httpc.CloseIdleConnections()
}

// CachedCatalog reports the cached snapshot: its size, the instant it
// was fetched, and whether a fetch has succeeded yet.
func (c *Client) CachedCatalog() (int, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools), c.fetchedAt, c.tools != nil
}

// Tools returns the advertised tool catalog. The first successful fetch
// is cached for the lifetime of the client; a discovery failure degrades
// to an empty catalog, leaves the cache unset and is retried on the next
// call. Concurrent first calls share one fetch via singleflight.
func (c *Client) Tools(ctx context.Context) []ToolDescriptor {
	c.mu.RLock()
	cached := c.tools
	c.mu.RUnlock()
	if cached != nil {
		return cached
	}

	v, _, _ := c.sf.Do("tools", func() (interface{}, error) {
		// Double-check inside singleflight in case another goroutine
		// populated the cache while we were waiting to enter.
		c.mu.RLock()
		cached := c.tools
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		tools, err := c.fetchTools(ctx)
		if err != nil {
			observability.RecordDiscoveryFailure()
			log.Warn().Err(err).Msg("tool discovery failed, continuing with empty catalog")
			return []ToolDescriptor{}, nil
		}

		c.mu.Lock()
		c.tools = tools
		c.fetchedAt = time.Now()
		c.mu.Unlock()
		observability.RecordCatalogSize(len(tools))
		log.Info().Int("tools", len(tools)).Msg("tool catalog cached")
		return tools, nil
	})
	return v.([]ToolDescriptor)
}

func (c *Client) fetchTools(ctx context.Context) ([]ToolDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/info", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("info returned status %d", resp.StatusCode)
	}

	var doc infoDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode info response: %w", err)
	}

	// The wrapped shape takes precedence over the flat one. A present
	// but empty tools list is a valid catalog; a missing key is not.
	switch {
	case doc.Data != nil && doc.Data.Tools != nil:
		return doc.Data.Tools, nil
	case doc.Tools != nil:
		return doc.Tools, nil
	}
	return nil, errors.New("no tools found in info response")
}

// CallTool invokes a tool with the given arguments and returns the
// envelope's data payload.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, &TransportError{Op: "call tool " + name, Err: err}
	}

	log.Debug().Str("tool", name).Interface("arguments", args).Msg("calling tool")
	start := time.Now()
	data, err := c.callEnvelope(ctx, http.MethodPost, c.baseURL+"/mcp/tool/"+url.PathEscape(name), body, "tool", name)
	observability.RecordToolInvocation(name, start, err)
	return data, err
}

// CallResource fetches a resource and returns the envelope's data
// payload. The URI is slash-prefixed if it is not already.
func (c *Client) CallResource(ctx context.Context, uri string) (map[string]interface{}, error) {
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	log.Debug().Str("uri", uri).Msg("calling resource")
	return c.callEnvelope(ctx, http.MethodGet, c.baseURL+"/mcp/resource"+uri, nil, "resource", uri)
}

// callEnvelope performs one invocation round-trip. Responses carrying
// the {success, data, error} envelope are honored whatever the HTTP
// status; anything else is a transport failure.
func (c *Client) callEnvelope(ctx context.Context, method, callURL string, body []byte, op, target string) (map[string]interface{}, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, callURL, reader)
	if err != nil {
		return nil, &TransportError{Op: op + " " + target, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op + " " + target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op + " " + target, Err: err}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &TransportError{
			Op:  op + " " + target,
			Err: fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err),
		}
	}
	if _, ok := probe["success"]; !ok {
		return nil, &TransportError{
			Op:  op + " " + target,
			Err: fmt.Errorf("unexpected response (status %d)", resp.StatusCode),
		}
	}

	var env callEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &TransportError{
			Op:  op + " " + target,
			Err: fmt.Errorf("decode envelope (status %d): %w", resp.StatusCode, err),
		}
	}

	if !env.Success {
		msg := "Unknown error"
		if env.Error != nil && *env.Error != "" {
			msg = *env.Error
		}
		log.Debug().Str(op, target).Str("error", msg).Msg("remote call reported failure")
		return nil, &InvocationError{Op: op, Target: target, Message: msg}
	}
	if env.Data == nil {
		return map[string]interface{}{}, nil
	}
	return env.Data, nil
}
