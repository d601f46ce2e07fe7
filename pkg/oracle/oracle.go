package oracle

import (
	"context"
	"errors"
	"strings"
	"time"

	"StokAsistan/pkg/metrics"
	"StokAsistan/pkg/retry"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// IOracle is the soft dependency on a remote text generator. Ask never
// reports an error: every failure is an empty, false answer.
type IOracle interface {
	Ask(ctx context.Context, text string) (string, bool)
}

type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	Provider       string        `env:"ORACLE_PROVIDER" envDefault:"gemini"`
	Timeout        time.Duration `env:"ORACLE_TIMEOUT" envDefault:"10s"`
	MaxAttempts    int           `env:"ORACLE_MAX_ATTEMPTS" envDefault:"3"`
	InitialBackoff time.Duration `env:"ORACLE_INITIAL_BACKOFF" envDefault:"500ms"`
	MaxBackoff     time.Duration `env:"ORACLE_MAX_BACKOFF" envDefault:"4s"`
	RatePerSec     float64       `env:"ORACLE_RATE_PER_SEC" envDefault:"2"`
	Burst          int           `env:"ORACLE_BURST" envDefault:"4"`
}

type oracle struct {
	log         *logrus.Logger
	backend     string
	gen         TextGenerator
	isRateLimit func(error) bool
	limiter     *rate.Limiter
	cfg         Config
}

func New(log *logrus.Logger, backend string, gen TextGenerator, isRateLimit func(error) bool, cfg Config) IOracle {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if isRateLimit == nil {
		isRateLimit = func(error) bool { return false }
	}

	return &oracle{
		log:         log,
		backend:     backend,
		gen:         gen,
		isRateLimit: isRateLimit,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		cfg:         cfg,
	}
}

// Ask bounds the whole exchange, retries included, by cfg.Timeout.
func (o *oracle) Ask(ctx context.Context, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.OracleDuration.WithLabelValues(o.backend).Observe(time.Since(start).Seconds())
	}()

	if err := o.limiter.Wait(ctx); err != nil {
		o.fail(err, "oracle rate limiter wait failed")
		return "", false
	}

	prompt := BuildPrompt(text)
	var answer string
	err := retry.Do(ctx, retry.Config{
		MaxAttempts:  o.cfg.MaxAttempts,
		InitialDelay: o.cfg.InitialBackoff,
		MaxDelay:     o.cfg.MaxBackoff,
		ShouldRetry:  o.isRateLimit,
	}, func() error {
		var err error
		answer, err = o.gen.GenerateText(ctx, prompt)
		return err
	})
	if err != nil {
		o.fail(err, "oracle request failed")
		return "", false
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		metrics.OracleRequests.WithLabelValues(o.backend, metrics.OutcomeEmpty).Inc()
		return "", false
	}

	metrics.OracleRequests.WithLabelValues(o.backend, metrics.OutcomeSuccess).Inc()
	return answer, true
}

func (o *oracle) fail(err error, msg string) {
	outcome := metrics.OutcomeFailure
	if errors.Is(err, context.DeadlineExceeded) {
		outcome = metrics.OutcomeTimeout
	}
	metrics.OracleRequests.WithLabelValues(o.backend, outcome).Inc()

	o.log.WithFields(logrus.Fields{
		"backend": o.backend,
		"error":   err.Error(),
	}).Warn(msg)
}

type nop struct{}

// NewNop is used when no oracle credentials are configured.
func NewNop() IOracle {
	return nop{}
}

func (nop) Ask(context.Context, string) (string, bool) {
	return "", false
}
