// Package content generates the text the agent publishes: blog titles and
// bodies, weekly content plans, and per-channel social drafts. Each operation
// sends a single prompt to an injected chat backend. Recovery policy differs
// per operation and is documented on each method; callers depend on it.
package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/postforge/postforge/ai/textgen"
	"github.com/postforge/postforge/errors"
)

// FallbackTitle is the title used when title generation fails. The run
// continues with it instead of aborting.
const FallbackTitle = "Untitled Blog Post"

// ChatClient is the slice of *textgen.Client the generator needs. Tests
// substitute a fake.
type ChatClient interface {
	Chat(ctx context.Context, req textgen.ChatRequest) (*textgen.ChatResponse, error)
}

// Generator produces publishable text from topic metadata.
type Generator struct {
	client ChatClient
	logger *zap.SugaredLogger
}

// NewGenerator creates a Generator over the given chat backend. A nil logger
// disables logging.
func NewGenerator(client ChatClient, logger *zap.SugaredLogger) *Generator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{
		client: client,
		logger: logger,
	}
}

// Title generates a blog post title for the topic and keywords. It never
// fails: on backend error (or an empty response) the failure is logged and
// FallbackTitle is returned. Surrounding whitespace and double quotes are
// stripped from the response.
func (g *Generator) Title(ctx context.Context, topic string, keywords []string) string {
	resp, err := g.client.Chat(ctx, textgen.ChatRequest{UserPrompt: titlePrompt(topic, keywords)})
	if err != nil {
		g.logger.Warnw("blog title generation failed, using fallback",
			"topic", topic,
			"error", err,
		)
		return FallbackTitle
	}

	title := strings.TrimSpace(resp.Content)
	title = strings.Trim(title, `"`)
	title = strings.TrimSpace(title)
	if title == "" {
		g.logger.Warnw("blog title generation returned empty content, using fallback", "topic", topic)
		return FallbackTitle
	}

	g.logger.Debugw("generated blog title", "topic", topic, "title", title)
	return title
}

// Body generates the full blog post body as HTML. Backend failures are
// returned to the caller: a post is never published with substituted body
// content.
func (g *Generator) Body(ctx context.Context, title, topic string, keywords []string) (string, error) {
	start := time.Now()
	resp, err := g.client.Chat(ctx, textgen.ChatRequest{UserPrompt: bodyPrompt(title, topic, keywords)})
	if err != nil {
		return "", errors.Wrap(err, "generate blog body")
	}

	g.logger.Debugw("generated blog body",
		"title", title,
		"content_length", len(resp.Content),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.Content, nil
}

// SocialDraft generates a post promoting mainContent on the named channel.
// Drafts are sampled at temperature 0. Failures are propagated unmodified;
// the caller owns retry policy.
func (g *Generator) SocialDraft(ctx context.Context, channel, mainContent string) (string, error) {
	zero := 0.0
	resp, err := g.client.Chat(ctx, textgen.ChatRequest{
		UserPrompt:  socialPrompt(channel, mainContent),
		Temperature: &zero,
	})
	if err != nil {
		return "", errors.Wrapf(err, "generate %s draft", channel)
	}
	return resp.Content, nil
}

// WeeklyPlan generates a weekly content plan from a business plan. It never
// fails: on backend error the returned string embeds the error description
// and is displayed as-is.
func (g *Generator) WeeklyPlan(ctx context.Context, businessPlan string) string {
	start := time.Now()
	resp, err := g.client.Chat(ctx, textgen.ChatRequest{UserPrompt: weeklyPlanPrompt(businessPlan)})
	if err != nil {
		g.logger.Warnw("weekly content plan generation failed", "error", err)
		return fmt.Sprintf("Error generating weekly content plan: %v", err)
	}

	g.logger.Debugw("generated weekly content plan",
		"plan_length", len(resp.Content),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.Content
}

// MainContent formats the blog summary block social drafts are generated
// from.
func MainContent(title, topic string, keywords []string) string {
	return fmt.Sprintf("Blog Title: %s\nBlog Topic: %s\nKeywords: %s", title, topic, strings.Join(keywords, ", "))
}
