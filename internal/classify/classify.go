// Package classify produces a boolean moderation verdict for extracted text
// by querying a chat-completion provider with a fixed instruction.
package classify

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"imagemod/internal/config"
	"imagemod/pkg/llm"
	"imagemod/pkg/logger"
)

// affirmativeToken is the substring (matched case-insensitively) that makes a
// model reply count as a flagged verdict.
const affirmativeToken = "YES"

// instruction is the fixed system prompt sent with every classification. The
// theme list is closed; the model is asked for a single-token answer so the
// verdict can be derived by substring match.
const instruction = "You are a strict content moderation assistant. " +
	"Decide whether the given text refers to any of these sensitive themes: " +
	"explicit sexual content, abuse, substance use, violence, self-harm, " +
	"discriminatory or polarizing topics, or health-policy controversy. " +
	"Answer with a single word: YES if it refers to any of them, otherwise NO."

// Options configure the degradation policy applied when the provider call
// fails.
type Options struct {
	// BackoffDelay is waited exactly once after a failed call before the
	// degraded verdict is returned. The request is not retried.
	BackoffDelay time.Duration
	// FailClosed makes a failed call degrade to a flagged verdict
	// (quarantine-on-uncertainty) instead of the default fail-open "not
	// flagged".
	FailClosed bool
	// Sleep overrides how the backoff wait is performed. Nil means a real,
	// context-aware sleep; tests inject a recorder to avoid waiting.
	Sleep func(ctx context.Context, d time.Duration)
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		BackoffDelay: cfg.Classifier.BackoffDelay,
		FailClosed:   cfg.Classifier.FailClosed,
	}
}

// Classifier is the concrete moderation classifier. It holds no per-call
// state and performs no caching: identical text is classified again on every
// call.
type Classifier struct {
	options Options
	client  llm.Client
}

// New creates a Classifier backed by the provided chat-completion client.
func New(client llm.Client, options Options) *Classifier {
	if options.BackoffDelay <= 0 {
		options.BackoffDelay = 15 * time.Second
	}
	if options.Sleep == nil {
		options.Sleep = sleepContext
	}

	return &Classifier{
		options: options,
		client:  client,
	}
}

// Classify returns true when the text trips any of the sensitive themes. On
// any provider failure it waits the configured backoff once and returns the
// degraded verdict; a transient outage must not halt the whole batch.
func (c *Classifier) Classify(ctx context.Context, text string) bool {
	reply, err := c.client.Complete(ctx, instruction, text)
	if err != nil {
		verdict := c.options.FailClosed
		logger.Warn(ctx, "classification call failed, degrading verdict after backoff",
			zap.Error(err),
			zap.Duration("backoff", c.options.BackoffDelay),
			zap.Bool("degradedVerdict", verdict))
		c.options.Sleep(ctx, c.options.BackoffDelay)

		return verdict
	}

	return strings.Contains(strings.ToUpper(reply), affirmativeToken)
}

// sleepContext waits for d or until the context is canceled, whichever comes
// first.
func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
