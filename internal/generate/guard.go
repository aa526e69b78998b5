package generate

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/product-compare/internal/resilience"
)

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithRateLimit caps outbound calls per second. A non-positive rps removes
// the limit.
func WithRateLimit(rps float64) GuardOption {
	return func(g *Guard) {
		if rps > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			g.limiter = nil
		}
	}
}

// WithTimeout bounds each call. Zero means no bound beyond the caller's
// context.
func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) {
		g.timeout = d
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *resilience.Breaker) GuardOption {
	return func(g *Guard) {
		g.breaker = b
	}
}

// Guard wraps a Generator with a rate limiter, a per-call timeout and a
// circuit breaker. It never retries. It is safe for concurrent use.
type Guard struct {
	next     Generator
	provider string
	limiter  *rate.Limiter
	breaker  *resilience.Breaker
	timeout  time.Duration
}

// NewGuard wraps next. provider names the service in logs.
func NewGuard(provider string, next Generator, opts ...GuardOption) *Guard {
	g := &Guard{next: next, provider: provider}
	for _, o := range opts {
		o(g)
	}
	if g.breaker == nil {
		g.breaker = NewBreaker(provider, resilience.DefaultBreakerConfig())
	}
	return g
}

// NewBreaker creates a breaker that logs its transitions for provider.
func NewBreaker(provider string, cfg resilience.BreakerConfig) *resilience.Breaker {
	cfg.OnStateChange = func(from, to resilience.State) {
		zap.L().Warn("generate: circuit state changed",
			zap.String("provider", provider),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	return resilience.NewBreaker(cfg)
}

// Generate waits for the limiter, then makes one call through the breaker.
func (g *Guard) Generate(ctx context.Context, text string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "generate: rate limit wait")
		}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := resilience.Call(ctx, g.breaker, func(ctx context.Context) (string, error) {
		return g.next.Generate(ctx, text)
	})
	if err != nil {
		return "", eris.Wrapf(err, "generate: %s", g.provider)
	}
	zap.L().Debug("generate: call complete",
		zap.String("provider", g.provider),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_chars", len(out)),
	)
	return out, nil
}

// State reports the breaker state.
func (g *Guard) State() resilience.State {
	return g.breaker.State()
}
