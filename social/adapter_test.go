package social

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/postforge/postforge/errors"
)

// stubDrafter fails a configured number of attempts per channel, then
// succeeds with a fixed draft.
type stubDrafter struct {
	failures map[string]int
	draft    string
	attempts map[string]int
	lastMain string
}

func newStubDrafter(draft string) *stubDrafter {
	return &stubDrafter{
		failures: make(map[string]int),
		draft:    draft,
		attempts: make(map[string]int),
	}
}

func (s *stubDrafter) SocialDraft(ctx context.Context, channel, mainContent string) (string, error) {
	s.attempts[channel]++
	s.lastMain = mainContent
	if s.attempts[channel] <= s.failures[channel] {
		return "", errors.Newf("backend unavailable for %s", channel)
	}
	return s.draft, nil
}

func noDelayPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 0}
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	if policy.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", policy.MaxAttempts)
	}
	if policy.Delay != 5*time.Second {
		t.Errorf("expected 5s delay, got %v", policy.Delay)
	}
}

func TestNewAdapter_ClampsPolicy(t *testing.T) {
	adapter := NewAdapter(newStubDrafter("x"), RetryPolicy{MaxAttempts: 0, Delay: -time.Second}, nil)
	if adapter.policy.MaxAttempts != 1 {
		t.Errorf("expected MaxAttempts raised to 1, got %d", adapter.policy.MaxAttempts)
	}
	if adapter.policy.Delay != 0 {
		t.Errorf("expected Delay raised to 0, got %v", adapter.policy.Delay)
	}
}

func TestGenerateForChannels(t *testing.T) {
	t.Run("retries until success", func(t *testing.T) {
		drafter := newStubDrafter("New on the blog: caching strategies.")
		drafter.failures[string(ChannelX)] = 2
		adapter := NewAdapter(drafter, noDelayPolicy(), nil)

		posts := adapter.GenerateForChannels(context.Background(), "Blog Title: Caching", []Channel{ChannelX})

		if posts[ChannelX] != drafter.draft {
			t.Errorf("expected draft after retries, got %q", posts[ChannelX])
		}
		if drafter.attempts[string(ChannelX)] != 3 {
			t.Errorf("expected 3 attempts, got %d", drafter.attempts[string(ChannelX)])
		}
		if drafter.lastMain != "Blog Title: Caching" {
			t.Errorf("expected main content passed through, got %q", drafter.lastMain)
		}
	})

	t.Run("exhausted retries produce error entry", func(t *testing.T) {
		drafter := newStubDrafter("unused")
		drafter.failures[string(ChannelX)] = 99
		adapter := NewAdapter(drafter, noDelayPolicy(), nil)

		posts := adapter.GenerateForChannels(context.Background(), "content", []Channel{ChannelX})

		entry := posts[ChannelX]
		if !strings.HasPrefix(entry, "Error generating content:") {
			t.Errorf("expected error entry, got %q", entry)
		}
		if !strings.Contains(entry, "backend unavailable") {
			t.Errorf("expected underlying error in entry, got %q", entry)
		}
		if drafter.attempts[string(ChannelX)] != 3 {
			t.Errorf("expected exactly 3 attempts, got %d", drafter.attempts[string(ChannelX)])
		}
	})

	t.Run("one entry per requested channel", func(t *testing.T) {
		drafter := newStubDrafter("A fine post.")
		drafter.failures[string(ChannelLinkedIn)] = 99
		adapter := NewAdapter(drafter, noDelayPolicy(), nil)

		channels := []Channel{ChannelFacebook, ChannelX, ChannelLinkedIn}
		posts := adapter.GenerateForChannels(context.Background(), "content", channels)

		if len(posts) != len(channels) {
			t.Fatalf("expected %d entries, got %d", len(channels), len(posts))
		}
		if posts[ChannelFacebook] != drafter.draft || posts[ChannelX] != drafter.draft {
			t.Error("expected successful channels to carry the draft")
		}
		if !strings.HasPrefix(posts[ChannelLinkedIn], "Error generating content:") {
			t.Errorf("expected error entry for failed channel, got %q", posts[ChannelLinkedIn])
		}
	})

	t.Run("applies channel limit to drafts", func(t *testing.T) {
		drafter := newStubDrafter(strings.Repeat("a", 400))
		adapter := NewAdapter(drafter, noDelayPolicy(), nil)

		posts := adapter.GenerateForChannels(context.Background(), "content", []Channel{ChannelTikTok})

		if n := len([]rune(posts[ChannelTikTok])); n != 150 {
			t.Errorf("expected draft cut to 150 characters, got %d", n)
		}
	})

	t.Run("cancelled context fills all channels with error entries", func(t *testing.T) {
		drafter := newStubDrafter("unused")
		adapter := NewAdapter(drafter, noDelayPolicy(), nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		channels := []Channel{ChannelFacebook, ChannelX}
		posts := adapter.GenerateForChannels(ctx, "content", channels)

		if len(posts) != len(channels) {
			t.Fatalf("expected %d entries, got %d", len(channels), len(posts))
		}
		for ch, entry := range posts {
			if !strings.Contains(entry, "context canceled") {
				t.Errorf("expected cancellation entry for %s, got %q", ch, entry)
			}
		}
		if len(drafter.attempts) != 0 {
			t.Errorf("expected no draft attempts after cancellation, got %v", drafter.attempts)
		}
	})

	t.Run("cancellation during retry delay stops the channel", func(t *testing.T) {
		drafter := newStubDrafter("unused")
		drafter.failures[string(ChannelX)] = 99
		adapter := NewAdapter(drafter, RetryPolicy{MaxAttempts: 3, Delay: time.Second}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		start := time.Now()
		posts := adapter.GenerateForChannels(ctx, "content", []Channel{ChannelX, ChannelFacebook})
		elapsed := time.Since(start)

		if elapsed >= time.Second {
			t.Errorf("expected cancellation to interrupt the delay, took %v", elapsed)
		}
		if !strings.Contains(posts[ChannelX], "context canceled") {
			t.Errorf("expected cancellation entry for interrupted channel, got %q", posts[ChannelX])
		}
		if !strings.Contains(posts[ChannelFacebook], "context canceled") {
			t.Errorf("expected cancellation entry for unattempted channel, got %q", posts[ChannelFacebook])
		}
		if drafter.attempts[string(ChannelX)] != 1 {
			t.Errorf("expected a single attempt before cancellation, got %d", drafter.attempts[string(ChannelX)])
		}
		if drafter.attempts[string(ChannelFacebook)] != 0 {
			t.Errorf("expected no attempts for unattempted channel, got %d", drafter.attempts[string(ChannelFacebook)])
		}
	})
}
