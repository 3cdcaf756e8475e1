package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// TestMinimalEncoderNeverDiscardsFields ensures the minimal encoder never
// silently discards log fields: known fields get special formatting, every
// other field must still appear as key=value.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "test",
		Message:    "Testing field preservation",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		// Arbitrary fields must appear as key=value
		{zap.String("endpoint", "/api/generate"), "endpoint=/api/generate"},
		{zap.Int("keywords", 3), "keywords=3"},
		{zap.Bool("dry_run", true), "dry_run=true"},
		{zap.Float64("temperature", 0.2), "temperature=0.2"},
		{zap.Strings("channels", []string{"X", "LinkedIn"}), "channels"},
		{zap.Duration("elapsed", 5 * time.Second), "elapsed=5s"},
		{zap.Error(nil), ""}, // nil error must not crash

		// Domain fields with special compact formatting
		{zap.String(FieldRunID, "01HX3F"), "01HX3F"},
		{zap.String(FieldChannel, "LinkedIn"), "LinkedIn"},
		{zap.Int(FieldDurationMS, 2841), "2841ms"},
		{zap.Int(FieldAttempt, 2), "attempt 2"},
		{zap.Bool(FieldPublished, true), "published"},
		{zap.String(FieldError, "connection refused"), "error=connection refused"},
	}

	var allFields []zapcore.Field
	for _, tf := range testFields {
		allFields = append(allFields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, allFields)
	if err != nil {
		t.Fatalf("Failed to encode entry: %v", err)
	}

	cleanOutput := stripANSI(buf.String())

	for _, tf := range testFields {
		if tf.mustFind != "" && !strings.Contains(cleanOutput, tf.mustFind) {
			t.Errorf("Field was discarded from log output: %s\nOutput: %s", tf.mustFind, cleanOutput)
		}
	}
}

func TestMinimalEncoderEntryShape(t *testing.T) {
	encoder := newMinimalEncoder()

	ts := time.Date(2025, 8, 25, 13, 4, 35, 0, time.UTC)
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       ts,
		LoggerName: "agent.schedule",
		Message:    "Run finished",
	}

	buf, err := encoder.EncodeEntry(entry, []zapcore.Field{
		zap.String(FieldRunID, "01HX3F"),
		zap.Bool(FieldPublished, false),
	})
	if err != nil {
		t.Fatalf("Failed to encode entry: %v", err)
	}

	clean := stripANSI(buf.String())

	if !strings.HasPrefix(clean, "13:04:35") {
		t.Errorf("Expected HH:MM:SS timestamp prefix, got: %q", clean)
	}
	if !strings.Contains(clean, "a.schedule") {
		t.Errorf("Expected abbreviated component name a.schedule, got: %q", clean)
	}
	if !strings.Contains(clean, "Run finished") {
		t.Errorf("Expected message in output, got: %q", clean)
	}
	if !strings.Contains(clean, "not published") {
		t.Errorf("Expected published=false rendered as 'not published', got: %q", clean)
	}
	if !strings.HasSuffix(clean, "\n") {
		t.Errorf("Expected trailing newline")
	}
	// INFO entries carry no level tag
	if strings.Contains(clean, "INFO") {
		t.Errorf("Info level should not be labeled, got: %q", clean)
	}
}

func TestMinimalEncoderLevelTags(t *testing.T) {
	encoder := newMinimalEncoder()

	for _, tc := range []struct {
		level zapcore.Level
		tag   string
	}{
		{zapcore.WarnLevel, "WARN"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.FatalLevel, "FATAL"},
	} {
		entry := zapcore.Entry{
			Level:   tc.level,
			Time:    time.Now(),
			Message: "something",
		}
		buf, err := encoder.EncodeEntry(entry, nil)
		if err != nil {
			t.Fatalf("Failed to encode %s entry: %v", tc.tag, err)
		}
		if clean := stripANSI(buf.String()); !strings.Contains(clean, tc.tag) {
			t.Errorf("Expected %s tag in output, got: %q", tc.tag, clean)
		}
	}
}

func TestColorizeMessageBrackets(t *testing.T) {
	msg := "꩜ Scheduled run starting [run:01HX3F] for [LinkedIn]"
	colorized := colorizeMessage(msg)

	// Colorization must not alter the visible text
	if clean := stripANSI(colorized); clean != msg {
		t.Errorf("Colorization changed message text:\n got: %q\nwant: %q", clean, msg)
	}
	// Run brackets and channel brackets get different colors
	p := colors()
	if !strings.Contains(colorized, p.id+"[run:01HX3F]") {
		t.Errorf("Expected run bracket in ID color")
	}
	if !strings.Contains(colorized, p.compAlt+"[LinkedIn]") {
		t.Errorf("Expected channel bracket in alternate component color")
	}
	if !strings.Contains(colorized, p.comp+symSchedule) {
		t.Errorf("Expected schedule glyph colorized")
	}
}

func TestAbbreviateName(t *testing.T) {
	for name, want := range map[string]string{
		"server":         "server",
		"agent.schedule": "a.schedule",
		"social.adapter": "s.adapter",
		"ai.textgen":     "a.textgen",
	} {
		if got := abbreviateName(name); got != want {
			t.Errorf("abbreviateName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestSetTheme(t *testing.T) {
	orig := currentTheme
	defer SetTheme(orig)

	SetTheme("gruvbox")
	if currentTheme != "gruvbox" {
		t.Errorf("Expected gruvbox theme, got %s", currentTheme)
	}

	// Unknown themes are ignored
	SetTheme("solarized")
	if currentTheme != "gruvbox" {
		t.Errorf("Unknown theme should be ignored, got %s", currentTheme)
	}

	SetTheme("everforest")
	if currentTheme != "everforest" {
		t.Errorf("Expected everforest theme, got %s", currentTheme)
	}
}
