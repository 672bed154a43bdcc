// Package completion wraps a single LLM completion call and only hands back
// responses that are valid JSON for a caller supplied schema.
package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/logger"
)

const logPreviewChars = 300

// Request is one completion call.
type Request struct {
	// Name identifies the operation; it also names the agent.
	Name        string
	Instruction string
	Prompt      string
	// Schema is a JSON schema the response must satisfy.
	Schema      string
	Temperature float64
}

// Backend sends a prompt to a model and returns its raw text.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type Client struct {
	backend Backend
	logger  *zap.Logger

	mu      sync.Mutex
	schemas map[string]*gojsonschema.Schema
}

// NewClient returns a Client on backend. A nil backend yields a client whose
// every call fails with ErrNotConfigured.
func NewClient(backend Backend, log *zap.Logger) *Client {
	return &Client{
		backend: backend,
		logger:  logger.OrNop(log),
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Configured reports whether calls can reach a backend.
func (c *Client) Configured() bool {
	return c != nil && c.backend != nil
}

// Complete runs req and returns the cleaned, schema-valid JSON response.
func (c *Client) Complete(ctx context.Context, req Request) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	schema, err := c.compile(req.Schema)
	if err != nil {
		return nil, err
	}

	req.Temperature = ClampTemperature(req.Temperature)
	log := c.logger.With(zap.String("operation", req.Name))
	log.Debug("completion request", zap.String("prompt", logger.TruncateForLog(req.Prompt, logPreviewChars)))

	raw, err := c.backend.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("completion call failed: %w", err)
	}

	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	log.Debug("completion response", zap.String("response", logger.TruncateForLog(cleaned, logPreviewChars)))

	result, err := schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("completion response is not valid json: %w", err)
	}
	if !result.Valid() {
		schemaErr := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			schemaErr.Errors = append(schemaErr.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return nil, schemaErr
	}

	return json.RawMessage(cleaned), nil
}

func (c *Client) compile(schema string) (*gojsonschema.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.schemas[schema]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid completion schema: %w", err)
	}
	c.schemas[schema] = s
	return s, nil
}

// ClampTemperature bounds t to [0, 1].
func ClampTemperature(t float64) float64 {
	return min(1, max(0, t))
}

// CleanJSON strips surrounding whitespace and markdown code fences from a
// model response.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")

	return strings.TrimSpace(clean)
}
