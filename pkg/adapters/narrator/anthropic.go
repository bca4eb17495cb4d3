package narrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const systemPrompt = "You narrate live security-operations demos for a presenter. " +
	"Given the scenario and the attack stage that just became active, reply with a single " +
	"spoken-style sentence describing what the audience is seeing. No preamble, no markdown."

// anthropicNarrator implements ports.Narrator using the Anthropic API
type anthropicNarrator struct {
	client  anthropic.Client
	model   anthropic.Model
	timeout time.Duration
	logger  *zap.Logger
}

// newAnthropicNarrator creates an Anthropic-backed narrator
func newAnthropicNarrator(cfg *Config) (*anthropicNarrator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	return &anthropicNarrator{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   anthropic.Model(cfg.Model),
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

// Narrate produces one presenter line for the active stage
func (n *anthropicNarrator) Narrate(ctx context.Context, scenario domain.Scenario, stage domain.Stage) (string, error) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(
		"Scenario: %s (%s)\nDescription: %s\nActive stage %d of %d: %s (%s)\nTechniques: %s",
		scenario.Name, scenario.Category,
		scenario.Description,
		stage.Index+1, scenario.StageCount,
		stage.TacticName, stage.TacticID,
		strings.Join(stage.TechniqueIDs, ", "))

	message, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narration request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	line := strings.TrimSpace(text.String())
	if line == "" {
		return "", fmt.Errorf("empty narration response")
	}

	n.logger.Debug("narration generated",
		zap.String("scenario", scenario.ID),
		zap.Int("stage", stage.Index))

	return line, nil
}
