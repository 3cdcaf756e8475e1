package logger

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Schedule glyph used by the recurring-loop logs; colorized by the encoder.
const symSchedule = "꩜"

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI colors one theme uses for each entry part.
type palette struct {
	fg       string // base message text
	time     string // timestamp
	comp     string // component names, rotated with compAlt
	compAlt  string
	id       string // run/client/request IDs
	number   string // counts, durations, sizes
	yellow   string // warnings
	red      string // errors
	yellowBg string
	redBg    string
}

// Gruvbox Dark (warm, muted, easy on eyes)
var gruvbox = palette{
	fg:       "\x1b[38;5;223m", // Soft cream (#ebdbb2)
	time:     "\x1b[38;5;108m", // Muted cyan-green (#8ec07c)
	comp:     "\x1b[38;5;208m", // Warm orange (#fe8019)
	compAlt:  "\x1b[38;5;214m", // Soft yellow (#fabd2f)
	id:       "\x1b[38;5;109m", // Soft blue (#83a598)
	number:   "\x1b[38;5;175m", // Muted purple (#d3869b)
	yellow:   "\x1b[38;5;214m",
	red:      "\x1b[38;5;167m", // Warm red (#fb4934)
	yellowBg: "\x1b[48;5;58m",
	redBg:    "\x1b[48;5;88m",
}

// Everforest Dark (natural forest greens)
var everforest = palette{
	fg:       "\x1b[38;5;223m", // Soft beige (#d3c6aa)
	time:     "\x1b[38;5;107m", // Mid green (#83c092)
	comp:     "\x1b[38;5;108m", // Bright green (#a7c080)
	compAlt:  "\x1b[38;5;208m", // Autumn orange (#e69875)
	id:       "\x1b[38;5;109m", // Blue-green (#7fbbb3)
	number:   "\x1b[38;5;108m",
	yellow:   "\x1b[38;5;179m", // Soft yellow (#dbbc7f)
	red:      "\x1b[38;5;167m", // Warm red (#e67e80)
	yellowBg: "\x1b[48;5;58m",
	redBg:    "\x1b[48;5;52m",
}

// Current active theme (set by logger.Initialize from the environment)
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

// colorComponent picks a stable color per component name so related lines
// group visually.
func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	p := colors()
	if hash%2 == 0 {
		return p.comp
	}
	return p.compAlt
}

// Bracketed contexts in messages: [run:01HX...], [LinkedIn], [plan], etc.
var bracketPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// colorizeMessage applies context-aware colorization to a log message:
// run-ID brackets get the ID color, other brackets (channel and stage
// markers) the alternate component color, and the schedule glyph the
// component color.
func colorizeMessage(msg string) string {
	p := colors()

	result := strings.Builder{}
	lastIndex := 0

	for _, match := range bracketPattern.FindAllStringSubmatchIndex(msg, -1) {
		if textBefore := msg[lastIndex:match[0]]; textBefore != "" {
			result.WriteString(p.fg)
			result.WriteString(colorizeGlyphs(textBefore, p.comp))
			result.WriteString(colorReset)
		}

		content := msg[match[2]:match[3]]
		color := p.compAlt
		if strings.HasPrefix(content, "run:") {
			color = p.id
		}

		result.WriteString(color)
		result.WriteString(msg[match[0]:match[1]])
		result.WriteString(colorReset)

		lastIndex = match[1]
	}

	if remaining := msg[lastIndex:]; remaining != "" {
		result.WriteString(p.fg)
		result.WriteString(colorizeGlyphs(remaining, p.comp))
		result.WriteString(colorReset)
	}

	return result.String()
}

func colorizeGlyphs(text string, glyphColor string) string {
	return strings.ReplaceAll(text, symSchedule, glyphColor+symSchedule+colorReset)
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  s.agent  Run finished  01HX3F (published, 2841ms)"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	buf             *buffer.Buffer
}

func newMinimalEncoder() *minimalEncoder {
	// Create a base JSON encoder for field serialization (internal use only)
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()
	p := colors()

	// Time
	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for WARN/ERROR with bold + background
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	// Component name (abbreviated) for visual grouping
	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	// Message: context-aware colorization of brackets, glyphs, and content
	final.AppendString("  ")
	final.AppendString(colorizeMessage(ent.Message))

	// Fields: extract and color values
	if len(fields) > 0 {
		if vals := extractFieldValues(fields); vals != "" {
			final.AppendString("  ")
			final.AppendString(vals)
		}
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	p := colors()

	switch level {
	case zapcore.WarnLevel:
		return colorBold + p.yellowBg + p.yellow + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + p.redBg + p.red + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + p.redBg + p.red + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: server -> server, agent.schedule -> a.schedule
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type,
		zapcore.UintptrType:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.Float64Type:
		return strconv.FormatFloat(math.Float64frombits(uint64(field.Integer)), 'g', -1, 64)
	case zapcore.Float32Type:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(field.Integer))), 'g', -1, 32)
	case zapcore.DurationType:
		return time.Duration(field.Integer).String()
	case zapcore.TimeType:
		if field.Interface != nil {
			if loc, ok := field.Interface.(*time.Location); ok {
				return time.Unix(0, field.Integer).In(loc).Format(time.RFC3339)
			}
		}
		return time.Unix(0, field.Integer).Format(time.RFC3339)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
		return ""
	case zapcore.SkipType:
		return ""
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	if field.String != "" {
		return field.String
	}
	if field.Integer != 0 {
		return fmt.Sprintf("%d", field.Integer)
	}
	return ""
}

// extractFieldValues renders structured fields with theme-aware colors.
// Fields the operator scans for constantly (run IDs, channels, durations)
// get compact special formatting; every other field is rendered key=value
// so no field is ever silently dropped from the console output.
// Input: {"run_id": "01HX3F", "channel": "LinkedIn", "duration_ms": 2841}
// Output: "01HX3F LinkedIn 2841ms" (IDs blue, channels orange, numbers colored)
func extractFieldValues(fields []zapcore.Field) string {
	p := colors()
	var values []string

	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch field.Key {
		case FieldRunID, FieldClientID, FieldRequestID:
			values = append(values, p.id+val+colorReset)
		case FieldChannel:
			values = append(values, p.compAlt+val+colorReset)
		case FieldPostID, FieldCount, FieldTokens:
			values = append(values, p.number+val+colorReset)
		case FieldDurationMS:
			values = append(values, p.number+val+colorReset+"ms")
		case FieldAttempt:
			values = append(values, p.fg+"attempt "+colorReset+p.number+val+colorReset)
		case FieldPublished:
			if val == "true" {
				values = append(values, p.comp+"published"+colorReset)
			} else {
				values = append(values, p.yellow+"not published"+colorReset)
			}
		case FieldError:
			values = append(values, p.red+"error="+val+colorReset)
		default:
			values = append(values, p.fg+field.Key+"="+val+colorReset)
		}
	}

	return strings.Join(values, " ")
}
