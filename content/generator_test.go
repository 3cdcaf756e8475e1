package content

import (
	"context"
	"strings"
	"testing"

	"github.com/postforge/postforge/ai/textgen"
	"github.com/postforge/postforge/errors"
)

// fakeChat is a scripted ChatClient that records the last request.
type fakeChat struct {
	content string
	err     error
	calls   int
	lastReq textgen.ChatRequest
}

func (f *fakeChat) Chat(ctx context.Context, req textgen.ChatRequest) (*textgen.ChatResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &textgen.ChatResponse{Content: f.content}, nil
}

func backendErr(msg string) error {
	return errors.Mark(errors.New(msg), errors.ErrBackend)
}

func TestGenerator_Title(t *testing.T) {
	t.Run("sends topic and keywords in the prompt", func(t *testing.T) {
		fake := &fakeChat{content: "AI Diagnosis at Scale: How Automation Is Reshaping Healthcare Workflows"}
		gen := NewGenerator(fake, nil)

		title := gen.Title(context.Background(), "AI in healthcare", []string{"diagnosis", "automation"})

		if title != fake.content {
			t.Errorf("expected generated title, got %q", title)
		}
		prompt := fake.lastReq.UserPrompt
		if !strings.Contains(prompt, "'AI in healthcare'") {
			t.Errorf("prompt missing topic: %q", prompt)
		}
		if !strings.Contains(prompt, "diagnosis, automation") {
			t.Errorf("prompt missing joined keywords: %q", prompt)
		}
		if !strings.Contains(prompt, "between 10-20 words") {
			t.Errorf("prompt missing length guidance: %q", prompt)
		}
	})

	t.Run("strips surrounding whitespace and quotes", func(t *testing.T) {
		fake := &fakeChat{content: "  \"The Future of Edge Computing\"  "}
		gen := NewGenerator(fake, nil)

		title := gen.Title(context.Background(), "edge computing", []string{"latency"})
		if title != "The Future of Edge Computing" {
			t.Errorf("expected stripped title, got %q", title)
		}
	})

	t.Run("falls back on backend error", func(t *testing.T) {
		fake := &fakeChat{err: backendErr("connection refused")}
		gen := NewGenerator(fake, nil)

		title := gen.Title(context.Background(), "AI in healthcare", []string{"diagnosis", "automation"})
		if title != "Untitled Blog Post" {
			t.Errorf("expected fallback title, got %q", title)
		}
	})

	t.Run("falls back on empty content", func(t *testing.T) {
		fake := &fakeChat{content: "\"\""}
		gen := NewGenerator(fake, nil)

		title := gen.Title(context.Background(), "observability", nil)
		if title != FallbackTitle {
			t.Errorf("expected fallback title, got %q", title)
		}
	})
}

func TestGenerator_Body(t *testing.T) {
	t.Run("sends title, topic, and keywords in the prompt", func(t *testing.T) {
		fake := &fakeChat{content: "<h1>Rate Limiting</h1><p>...</p>"}
		gen := NewGenerator(fake, nil)

		body, err := gen.Body(context.Background(), "Rate Limiting in Practice", "API design", []string{"throttling", "budgets"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != fake.content {
			t.Errorf("expected body content, got %q", body)
		}

		prompt := fake.lastReq.UserPrompt
		for _, want := range []string{
			"'Rate Limiting in Practice'",
			"'API design'",
			"throttling, budgets",
			"15-minute read",
			"<h1>",
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt missing %q: %q", want, prompt)
			}
		}
	})

	t.Run("propagates backend errors", func(t *testing.T) {
		fake := &fakeChat{err: backendErr("model overloaded")}
		gen := NewGenerator(fake, nil)

		body, err := gen.Body(context.Background(), "Title", "topic", nil)
		if err == nil {
			t.Fatal("expected error from body generation")
		}
		if !errors.IsBackend(err) {
			t.Errorf("expected backend error kind, got: %v", err)
		}
		if body != "" {
			t.Errorf("expected empty body on error, got %q", body)
		}
	})
}

func TestGenerator_SocialDraft(t *testing.T) {
	t.Run("sends channel and content at temperature zero", func(t *testing.T) {
		fake := &fakeChat{content: "New on the blog: rate limiting done right."}
		gen := NewGenerator(fake, nil)

		draft, err := gen.SocialDraft(context.Background(), "LinkedIn", "Blog Title: Rate Limiting\nBlog Topic: API design\nKeywords: throttling")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if draft != fake.content {
			t.Errorf("expected draft content, got %q", draft)
		}

		prompt := fake.lastReq.UserPrompt
		if !strings.Contains(prompt, "Generate a LinkedIn post") {
			t.Errorf("prompt missing channel: %q", prompt)
		}
		if !strings.Contains(prompt, "Blog Title: Rate Limiting") {
			t.Errorf("prompt missing main content: %q", prompt)
		}
		if !strings.Contains(prompt, "do not include any emojis") {
			t.Errorf("prompt missing emoji instruction: %q", prompt)
		}
		if fake.lastReq.Temperature == nil || *fake.lastReq.Temperature != 0 {
			t.Errorf("expected temperature 0 override, got %v", fake.lastReq.Temperature)
		}
	})

	t.Run("propagates backend errors for caller retry", func(t *testing.T) {
		fake := &fakeChat{err: backendErr("timeout")}
		gen := NewGenerator(fake, nil)

		_, err := gen.SocialDraft(context.Background(), "X", "content")
		if err == nil {
			t.Fatal("expected error from draft generation")
		}
		if !errors.IsBackend(err) {
			t.Errorf("expected backend error kind, got: %v", err)
		}
	})
}

func TestGenerator_WeeklyPlan(t *testing.T) {
	t.Run("sends business plan to the strategist prompt", func(t *testing.T) {
		fake := &fakeChat{content: "Monday: ship a post on connection pooling..."}
		gen := NewGenerator(fake, nil)

		plan := gen.WeeklyPlan(context.Background(), "We sell managed Postgres to startups.")
		if plan != fake.content {
			t.Errorf("expected plan content, got %q", plan)
		}

		prompt := fake.lastReq.UserPrompt
		if !strings.Contains(prompt, "experienced content strategist") {
			t.Errorf("prompt missing strategist framing: %q", prompt)
		}
		if !strings.Contains(prompt, "Business Plan: We sell managed Postgres to startups.") {
			t.Errorf("prompt missing business plan: %q", prompt)
		}
	})

	t.Run("embeds error description on failure", func(t *testing.T) {
		fake := &fakeChat{err: backendErr("quota exceeded")}
		gen := NewGenerator(fake, nil)

		plan := gen.WeeklyPlan(context.Background(), "plan text")
		if !strings.HasPrefix(plan, "Error generating weekly content plan:") {
			t.Errorf("expected embedded error string, got %q", plan)
		}
		if !strings.Contains(plan, "quota exceeded") {
			t.Errorf("expected error description in plan, got %q", plan)
		}
	})
}

func TestMainContent(t *testing.T) {
	got := MainContent("Rate Limiting in Practice", "API design", []string{"throttling", "budgets"})
	want := "Blog Title: Rate Limiting in Practice\nBlog Topic: API design\nKeywords: throttling, budgets"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
