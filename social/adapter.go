package social

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Drafter produces one social post draft for a channel. *content.Generator
// satisfies it.
type Drafter interface {
	SocialDraft(ctx context.Context, channel, mainContent string) (string, error)
}

// RetryPolicy bounds draft generation attempts for a single channel.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy retries each channel up to 3 times, 5 seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay:       5 * time.Second,
	}
}

// Adapter generates per-channel posts with bounded retry. A channel whose
// attempts are exhausted gets an error string entry instead of content, so
// one bad channel never sinks the batch.
type Adapter struct {
	drafter Drafter
	policy  RetryPolicy
	logger  *zap.SugaredLogger
}

// NewAdapter creates an Adapter with the given retry policy. MaxAttempts
// below 1 is raised to 1; a negative Delay becomes 0. A nil logger disables
// logging.
func NewAdapter(drafter Drafter, policy RetryPolicy, logger *zap.SugaredLogger) *Adapter {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Delay < 0 {
		policy.Delay = 0
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Adapter{
		drafter: drafter,
		policy:  policy,
		logger:  logger,
	}
}

// GenerateForChannels produces a post for every requested channel,
// sequentially. The returned mapping always contains exactly one entry per
// requested channel: cancelling ctx abandons further attempts, and the
// interrupted channel plus every channel not yet attempted receive error
// entries.
func (a *Adapter) GenerateForChannels(ctx context.Context, mainContent string, channels []Channel) map[Channel]string {
	posts := make(map[Channel]string, len(channels))
	for _, ch := range channels {
		posts[ch] = a.generateOne(ctx, ch, mainContent)
	}
	return posts
}

func (a *Adapter) generateOne(ctx context.Context, ch Channel, mainContent string) string {
	var lastErr error

	for attempt := 1; attempt <= a.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return errorEntry(ctx.Err())
			case <-time.After(a.policy.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return errorEntry(err)
		}

		draft, err := a.drafter.SocialDraft(ctx, string(ch), mainContent)
		if err == nil {
			post := Limit(draft, ch)
			a.logger.Debugw("social post generated",
				"channel", ch,
				"attempt", attempt,
				"length", len([]rune(post)),
			)
			return post
		}

		lastErr = err
		a.logger.Warnw("social draft attempt failed",
			"channel", ch,
			"attempt", attempt,
			"max_attempts", a.policy.MaxAttempts,
			"error", err,
		)
	}

	return errorEntry(lastErr)
}

func errorEntry(err error) string {
	return fmt.Sprintf("Error generating content: %v", err)
}
