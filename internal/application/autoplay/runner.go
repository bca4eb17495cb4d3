package autoplay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aescanero/demoflow/internal/application/orchestrator"
	"github.com/aescanero/demoflow/pkg/domain"
	"go.uber.org/zap"
)

// pollResolution bounds how often the runner re-checks the session, so a
// speed change takes effect without waiting out the previous hold
const pollResolution = 250 * time.Millisecond

// Runner drives a playing session forward by calling the public action
// surface on a timer: one stage advance every baseInterval/speed. It is a
// caller like any dashboard control; the orchestration core imposes no
// timing of its own. After holding the final stage for one interval the
// runner stops the session.
type Runner struct {
	manager      *orchestrator.Manager
	logger       *zap.Logger
	baseInterval time.Duration
	health       *HealthMonitor

	mu          sync.Mutex
	lastAdvance time.Time
	lastSession string

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time
}

// NewRunner creates an auto-advance runner
func NewRunner(
	manager *orchestrator.Manager,
	baseInterval time.Duration,
	healthCheckInterval time.Duration,
	logger *zap.Logger,
) *Runner {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{
		manager:      manager,
		logger:       logger,
		baseInterval: baseInterval,
		ctx:          ctx,
		cancel:       cancel,
		now:          time.Now,
	}

	r.health = NewHealthMonitor(r, healthCheckInterval, logger)

	return r
}

// Start launches the advance loop and the health monitor
func (r *Runner) Start() error {
	if r.baseInterval <= 0 {
		return fmt.Errorf("base interval must be positive: %v", r.baseInterval)
	}

	r.logger.Info("starting autoplay runner",
		zap.Duration("base_interval", r.baseInterval))

	r.wg.Add(1)
	go r.run()

	r.health.Start()

	return nil
}

// run polls the session and applies due advances until shutdown
func (r *Runner) run() {
	defer r.wg.Done()

	resolution := pollResolution
	if r.baseInterval < resolution {
		resolution = r.baseInterval
	}

	ticker := time.NewTicker(resolution)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.step(r.now())
		}
	}
}

// step applies at most one due transition. Split out from the ticker loop
// so tests can drive it with a synthetic clock.
func (r *Runner) step(now time.Time) {
	state := r.manager.State()

	r.mu.Lock()
	defer r.mu.Unlock()

	if state.PlayState != domain.PlayStatePlaying {
		r.lastAdvance = time.Time{}
		return
	}

	// Arm the hold on a fresh or resumed session
	if r.lastAdvance.IsZero() || state.SessionID != r.lastSession {
		r.lastAdvance = now
		r.lastSession = state.SessionID
		return
	}

	hold := time.Duration(float64(r.baseInterval) / state.Speed)
	if now.Sub(r.lastAdvance) < hold {
		return
	}

	if len(state.Stages) == 0 || state.CurrentStage >= len(state.Stages)-1 {
		r.logger.Info("scenario complete, stopping session",
			zap.String("session_id", state.SessionID),
			zap.Int("stages", len(state.Stages)))
		r.manager.Stop(r.ctx)
		r.lastAdvance = time.Time{}
		return
	}

	next := r.manager.AdvanceStage(r.ctx)
	r.lastAdvance = now
	r.logger.Debug("auto-advanced stage",
		zap.String("session_id", next.SessionID),
		zap.Int("current_stage", next.CurrentStage))
}

// Shutdown stops the runner and waits for the loop to exit
func (r *Runner) Shutdown(ctx context.Context) error {
	r.logger.Info("shutting down autoplay runner")

	r.health.Stop()
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("autoplay runner shut down complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout")
	}
}
