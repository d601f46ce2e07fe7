package nlp

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// HighConfidenceThreshold is the minimum oracle confidence accepted without
// consulting the local catalog.
const HighConfidenceThreshold = 0.8

// OracleIntent is a remote classification answer.
type OracleIntent struct {
	Domain     string  `json:"domain"`
	Action     string  `json:"action"`
	Target     string  `json:"target,omitempty"`
	Confidence float64 `json:"confidence"`
}

type IntentOracle interface {
	ClassifyIntent(ctx context.Context, text string) (*OracleIntent, error)
}

type IClassifier interface {
	Classify(ctx context.Context, text string) *Intent
}

type Classifier struct {
	log           *logrus.Logger
	catalog       *Catalog
	oracle        IntentOracle
	oracleTimeout time.Duration
}

type ClassifierOption func(*Classifier)

// WithIntentOracle enables the remote classification step. A nil oracle is ignored.
func WithIntentOracle(oracle IntentOracle) ClassifierOption {
	return func(c *Classifier) {
		c.oracle = oracle
	}
}

func WithOracleTimeout(d time.Duration) ClassifierOption {
	return func(c *Classifier) {
		if d > 0 {
			c.oracleTimeout = d
		}
	}
}

func NewClassifier(log *logrus.Logger, catalog *Catalog, opts ...ClassifierOption) IClassifier {
	c := &Classifier{
		log:           log,
		catalog:       catalog,
		oracleTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Classifier) Classify(ctx context.Context, text string) *Intent {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if intent := c.askOracle(ctx, text); intent != nil {
		return intent
	}

	intent, ok := c.catalog.Match(Lower(text))
	if !ok {
		return nil
	}

	return intent
}

func (c *Classifier) askOracle(ctx context.Context, text string) *Intent {
	if c.oracle == nil {
		return nil
	}

	oracleCtx, cancel := context.WithTimeout(ctx, c.oracleTimeout)
	defer cancel()

	answer, err := c.oracle.ClassifyIntent(oracleCtx, text)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("intent oracle failed, falling back to patterns")
		return nil
	}
	if answer == nil || answer.Confidence < HighConfidenceThreshold {
		return nil
	}

	domain, action := Domain(answer.Domain), Action(answer.Action)
	if !c.catalog.Supports(domain, action) {
		c.log.WithFields(logrus.Fields{
			"domain": answer.Domain,
			"action": answer.Action,
		}).Debug("intent oracle returned unsupported pair")
		return nil
	}

	target := strings.TrimSpace(answer.Target)
	if (domain == DomainNavigation || domain == DomainModal) && target == "" {
		return nil
	}

	return &Intent{
		Domain:      domain,
		Action:      action,
		MatchedText: text,
		Target:      Lower(target),
		Confidence:  answer.Confidence,
		Source:      SourceOracle,
	}
}
