package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/muhammadolammi/hireflow/internal/lazy"
	"github.com/muhammadolammi/hireflow/internal/logger"
)

const (
	DefaultModel = "gemini-2.5-flash"
	appName      = "hireflow"
	userID       = "hireflow-service"
)

type AgentConfig struct {
	APIKey string
	Model  string
}

// AgentBackend runs each request as a one-shot Gemini agent through the ADK
// runner on a throwaway in-memory session.
type AgentBackend struct {
	cfg      AgentConfig
	model    *lazy.Value[model.LLM]
	sessions session.Service
	logger   *zap.Logger
}

// NewAgentBackend returns ErrNotConfigured without an API key. The model
// client is created on first use.
func NewAgentBackend(cfg AgentConfig, log *zap.Logger) (*AgentBackend, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	b := &AgentBackend{
		cfg:      cfg,
		sessions: session.InMemoryService(),
		logger:   logger.OrNop(log),
	}
	b.model = lazy.New(b.newModel)
	return b, nil
}

func (b *AgentBackend) newModel(ctx context.Context) (model.LLM, error) {
	m, err := gemini.NewModel(ctx, b.cfg.Model, &genai.ClientConfig{
		APIKey: b.cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	b.logger.Debug("gemini model initialised", zap.String("model", b.cfg.Model))
	return m, nil
}

func (b *AgentBackend) Generate(ctx context.Context, req Request) (string, error) {
	m, err := b.model.Get(ctx)
	if err != nil {
		return "", err
	}

	temperature := float32(ClampTemperature(req.Temperature))
	a, err := llmagent.New(llmagent.Config{
		Name:        agentName(req.Name),
		Model:       m,
		Description: req.Name,
		Instruction: req.Instruction,
		GenerateContentConfig: &genai.GenerateContentConfig{
			Temperature:      &temperature,
			ResponseMIMEType: "application/json",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent: %w", err)
	}

	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          a,
		SessionService: b.sessions,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create runner: %w", err)
	}

	created, err := b.sessions.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	sess := created.Session
	defer func() {
		if err := b.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   sess.AppName(),
			UserID:    sess.UserID(),
			SessionID: sess.ID(),
		}); err != nil {
			b.logger.Warn("failed to delete agent session", zap.String("session_id", sess.ID()), zap.Error(err))
		}
	}()

	stream := r.Run(ctx, sess.UserID(), sess.ID(), &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}, agent.RunConfig{})

	var output strings.Builder
	for event, err := range stream {
		if err != nil {
			return "", fmt.Errorf("agent stream error: %w", err)
		}
		if event == nil || !event.IsFinalResponse() || event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			if part != nil {
				output.WriteString(part.Text)
			}
		}
	}

	if strings.TrimSpace(output.String()) == "" {
		return "", ErrEmptyResponse
	}
	return output.String(), nil
}

// agentName turns an operation name into a valid agent identifier.
func agentName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "completion"
	}
	return b.String()
}
