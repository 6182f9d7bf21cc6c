package fault

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"
)

// MetaStyle selects how the human-readable context block is rendered on the
// second log line.
type MetaStyle int

const (
	// MetaKVBlock renders one aligned "key : value" line per entry.
	MetaKVBlock MetaStyle = iota
	// MetaPrettyJSON renders the context as indented JSON.
	MetaPrettyJSON
)

const (
	defaultMetaMaxLen = 200
	maxKeyWidth       = 40
)

// reservedAttrKeys collide with slog record fields. Context keys matching one
// are prefixed before being attached as structured attrs.
var reservedAttrKeys = map[string]struct{}{
	slog.TimeKey:    {},
	slog.LevelKey:   {},
	slog.MessageKey: {},
	slog.SourceKey:  {},
}

// contextLogger emits a per-failure log context through a two-line
// human/machine format: the summary message with the context attached as
// structured attrs, then a readable rendering of the same context.
type contextLogger struct {
	logger *slog.Logger
	style  MetaStyle
	maxLen int

	// level, when set, overrides the logger's own level for verbosity
	// gating (full stack dumps).
	level *slog.Level
}

// debugEnabled reports whether the effective verbosity is at or below debug.
func (l *contextLogger) debugEnabled(ctx context.Context) bool {
	if l.level != nil {
		return *l.level <= slog.LevelDebug
	}
	return l.logger.Enabled(ctx, slog.LevelDebug)
}

// logWithMeta writes the summary line with the sanitized context attached,
// then a second, human-readable rendering of the same context.
func (l *contextLogger) logWithMeta(ctx context.Context, level slog.Level, msg string, meta map[string]any) {
	if len(meta) == 0 {
		l.logger.Log(ctx, level, msg)
		return
	}

	l.logger.LogAttrs(ctx, level, msg, sanitizeAttrs(meta)...)
	l.logger.Log(ctx, level, "meta:\n"+l.formatMeta(meta))
}

// sanitizeAttrs converts the context into slog attrs, renaming keys that
// collide with reserved record fields.
func sanitizeAttrs(meta map[string]any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(meta))
	for _, k := range sortedKeys(meta) {
		key := k
		if _, reserved := reservedAttrKeys[key]; reserved {
			key = "meta_" + key
		}
		attrs = append(attrs, slog.Any(key, meta[k]))
	}
	return attrs
}

func (l *contextLogger) formatMeta(meta map[string]any) string {
	if l.style == MetaPrettyJSON {
		return prettyJSON(meta)
	}
	return l.kvBlock(meta)
}

// kvBlock renders the context as an aligned block, one entry per line, with
// over-long values truncated.
func (l *contextLogger) kvBlock(meta map[string]any) string {
	keys := sortedKeys(meta)

	width := 0
	for _, k := range keys {
		if len(k) > width {
			width = len(k)
		}
	}
	if width > maxKeyWidth {
		width = maxKeyWidth
	}

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("│ %-*s : %s", width, k, l.shorten(stringify(meta[k]))))
	}
	return strings.Join(lines, "\n")
}

func prettyJSON(meta map[string]any) string {
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		safe := make(map[string]string, len(meta))
		for k, v := range meta {
			safe[k] = fmt.Sprint(v)
		}
		b, _ = json.MarshalIndent(safe, "", "  ")
	}
	return string(b)
}

// shorten truncates a single value to the configured limit with an ellipsis
// marker.
func (l *contextLogger) shorten(s string) string {
	limit := l.maxLen
	if limit <= 0 {
		limit = defaultMetaMaxLen
	}
	if len(s) <= limit {
		return s
	}
	cut := limit - 3
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func stringify(v any) string {
	switch v.(type) {
	case map[string]any, []any, []string:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprint(v)
	}
}

func sortedKeys(meta map[string]any) []string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sanitizePayload JSON-checks every value of a structured log payload,
// stringifying the ones that cannot be serialized.
func sanitizePayload(payload map[string]any) map[string]any {
	safe := make(map[string]any, len(payload))
	for k, v := range payload {
		if _, err := json.Marshal(v); err != nil {
			safe[k] = fmt.Sprint(v)
			continue
		}
		safe[k] = v
	}
	return safe
}
