package narrator

import (
	"fmt"
	"time"

	"github.com/aescanero/demoflow/pkg/ports"
	"go.uber.org/zap"
)

// Config holds narrator configuration
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewNarrator creates a narrator based on provider
func NewNarrator(cfg *Config) (ports.Narrator, error) {
	switch cfg.Provider {
	case "anthropic":
		return newAnthropicNarrator(cfg)
	default:
		return nil, fmt.Errorf("unsupported narration provider: %s", cfg.Provider)
	}
}
