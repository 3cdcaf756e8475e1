// Package agent wires content generation, social adaptation, and publishing
// into the operations the CLI, the HTTP API, and the scheduled controller
// call. It owns the run history and emits run lifecycle events.
package agent

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/postforge/postforge/content"
	"github.com/postforge/postforge/errors"
	"github.com/postforge/postforge/social"
	"github.com/postforge/postforge/wordpress"
)

// ContentGenerator is the slice of *content.Generator the agent needs.
type ContentGenerator interface {
	Title(ctx context.Context, topic string, keywords []string) string
	Body(ctx context.Context, title, topic string, keywords []string) (string, error)
	WeeklyPlan(ctx context.Context, businessPlan string) string
}

// Publisher is the slice of *wordpress.Client the agent needs.
type Publisher interface {
	CreatePost(ctx context.Context, post wordpress.Post) (*wordpress.PostResponse, error)
	Publish(ctx context.Context, title, body string) bool
}

// SocialAdapter is the slice of *social.Adapter the agent needs.
type SocialAdapter interface {
	GenerateForChannels(ctx context.Context, mainContent string, channels []social.Channel) map[social.Channel]string
}

// Config assembles an Agent's collaborators.
type Config struct {
	Generator ContentGenerator
	Publisher Publisher
	Social    SocialAdapter

	// HistorySize caps the run history ring. Zero means DefaultHistorySize.
	HistorySize int

	// Notifier receives run events. Nil means no events.
	Notifier Notifier

	// Logger for run outcomes. Nil disables logging.
	Logger *zap.SugaredLogger
}

// Agent executes the content operations behind every entry point.
type Agent struct {
	generator ContentGenerator
	publisher Publisher
	social    SocialAdapter
	history   *History
	notifier  Notifier
	logger    *zap.SugaredLogger
}

// New creates an Agent from cfg.
func New(cfg Config) *Agent {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Agent{
		generator: cfg.Generator,
		publisher: cfg.Publisher,
		social:    cfg.Social,
		history:   NewHistory(cfg.HistorySize),
		notifier:  notifier,
		logger:    log,
	}
}

// SetNotifier replaces the run notifier. The agent is constructed before
// the server that listens to it, so the server binds itself here during
// wiring. Call before any runs start; it is not synchronized against them.
func (a *Agent) SetNotifier(n Notifier) {
	if n == nil {
		n = NopNotifier{}
	}
	a.notifier = n
}

// GenerateBlog produces a complete post for a job spec. The title falls back
// to content.FallbackTitle on backend failure; a body failure aborts with
// the backend error, since there is nothing safe to publish.
func (a *Agent) GenerateBlog(ctx context.Context, spec JobSpec) (*GeneratedPost, error) {
	if strings.TrimSpace(spec.Topic) == "" {
		return nil, errors.NewValidationf("topic is required")
	}

	title := a.generator.Title(ctx, spec.Topic, spec.Keywords)

	body, err := a.generator.Body(ctx, title, spec.Topic, spec.Keywords)
	if err != nil {
		return nil, errors.Wrap(err, "generate blog content")
	}

	return &GeneratedPost{Title: title, Body: body}, nil
}

// PublishPost publishes a generated post and reports the outcome as a
// boolean; errors never escape. The attempt is recorded as a manual run.
// A nil or empty-bodied post is refused without contacting the site.
func (a *Agent) PublishPost(ctx context.Context, post *GeneratedPost) bool {
	if post == nil || strings.TrimSpace(post.Body) == "" {
		a.logger.Warnw("refusing to publish post without content")
		return false
	}

	start := time.Now()
	published := a.publisher.Publish(ctx, post.Title, post.Body)

	rec := RunRecord{
		ID:         uuid.New().String(),
		Trigger:    TriggerManual,
		StartedAt:  start,
		DurationMs: time.Since(start).Milliseconds(),
		Title:      post.Title,
		Published:  published,
	}
	if !published {
		rec.Err = "publish failed"
	}
	a.history.Add(rec)
	a.notifier.RunFinished(rec)

	return published
}

// SocialPosts generates one post per requested channel from the blog
// metadata. The mapping always has an entry per channel; failed channels
// carry error strings rather than failing the batch.
func (a *Agent) SocialPosts(ctx context.Context, title, topic string, keywords []string, channels []social.Channel) (map[social.Channel]string, error) {
	if len(channels) == 0 {
		return nil, errors.NewValidationf("at least one channel is required")
	}

	mainContent := content.MainContent(title, topic, keywords)
	return a.social.GenerateForChannels(ctx, mainContent, channels), nil
}

// Plan generates a weekly content plan from a business plan description.
func (a *Agent) Plan(ctx context.Context, businessPlan string) (string, error) {
	if strings.TrimSpace(businessPlan) == "" {
		return "", errors.NewValidationf("business plan is required")
	}
	return a.generator.WeeklyPlan(ctx, businessPlan), nil
}

// RunScheduled executes one scheduled iteration: generate a post, publish
// it if a body was produced, and record the outcome. It never returns an
// error; a failed iteration is logged and the schedule continues.
func (a *Agent) RunScheduled(ctx context.Context, spec JobSpec) {
	start := time.Now()
	rec := RunRecord{
		ID:        uuid.New().String(),
		Trigger:   TriggerScheduled,
		StartedAt: start,
	}

	a.notifier.RunStarted(rec.ID, spec)
	a.logger.Infow("scheduled run started",
		"run_id", rec.ID,
		"topic", spec.Topic,
	)

	post, err := a.GenerateBlog(ctx, spec)
	switch {
	case err != nil:
		rec.Err = err.Error()
		a.logger.Errorw("scheduled run produced no content",
			"run_id", rec.ID,
			"topic", spec.Topic,
			"error", err,
		)

	case strings.TrimSpace(post.Body) == "":
		rec.Title = post.Title
		rec.Err = "no content generated"
		a.logger.Warnw("scheduled run skipped publish of empty content",
			"run_id", rec.ID,
			"title", post.Title,
		)

	default:
		rec.Title = post.Title
		created, err := a.publisher.CreatePost(ctx, wordpress.Post{
			Title:   post.Title,
			Content: post.Body,
			Status:  wordpress.StatusPublish,
		})
		if err != nil {
			rec.Err = err.Error()
			a.logger.Errorw("scheduled run failed to publish",
				"run_id", rec.ID,
				"title", post.Title,
				"error", err,
			)
		} else {
			rec.Published = true
			rec.PostID = created.ID
			a.logger.Infow("scheduled run published post",
				"run_id", rec.ID,
				"post_id", created.ID,
				"title", post.Title,
			)
		}
	}

	rec.DurationMs = time.Since(start).Milliseconds()
	a.history.Add(rec)
	a.notifier.RunFinished(rec)
}

// History returns a snapshot of recorded runs, newest first.
func (a *Agent) History() []RunRecord {
	return a.history.Snapshot()
}
