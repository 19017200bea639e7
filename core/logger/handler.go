package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type logFormat int

const (
	formatJSON logFormat = iota
	formatKV
)

type lineWriter interface {
	Write(p []byte) error
}

type handlerConfig struct {
	level    slog.Leveler
	writer   lineWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders records as single lines with a fixed key order.
// KV output compacts the rid; JSON output keeps both compact and full forms
// plus a nanosecond timestamp for machine consumers.
type structuredHandler struct {
	cfg    handlerConfig
	rank   map[string]int
	preset []slog.Attr
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	rank := make(map[string]int, len(cfg.keyOrder))
	for i, k := range cfg.keyOrder {
		rank[k] = i
	}
	return &structuredHandler{cfg: cfg, rank: rank}
}

// Enabled reports whether records at the given level should be handled.
func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.cfg.level != nil {
		min = h.cfg.level.Level()
	}
	return level >= min
}

// WithAttrs returns a handler that prepends the given attributes to every record.
func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.preset = append(append([]slog.Attr(nil), h.preset...), attrs...)
	return &clone
}

// WithGroup is accepted but flattened; grouped output is not used here.
func (h *structuredHandler) WithGroup(string) slog.Handler {
	return h
}

type field struct {
	key string
	val slog.Value
}

// Handle renders and enqueues a single record. Correlation metadata stored in
// the context by the middleware layer is folded in when the record itself does
// not carry it.
func (h *structuredHandler) Handle(ctx context.Context, rec slog.Record) error {
	fields := make([]field, 0, rec.NumAttrs()+len(h.preset)+4)
	fields = append(fields,
		field{"ts", slog.StringValue(rec.Time.Format(time.RFC3339))},
		field{"level", slog.StringValue(normalizeLevel(rec.Level.String()))},
	)
	for _, a := range h.preset {
		fields = appendAttr(fields, a)
	}
	if rec.Message != "" {
		fields = append(fields, field{"msg", slog.StringValue(rec.Message)})
	}
	rec.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, a)
		return true
	})

	if rid := RIDFrom(ctx); rid != "" && !hasField(fields, "rid") {
		fields = append(fields, field{"rid", slog.StringValue(rid)})
	}

	fields = h.expandRID(fields, rec.Time)
	fields = h.order(fields)

	var line []byte
	if h.cfg.format == formatKV {
		line = renderKV(fields)
	} else {
		line = renderJSON(fields)
	}
	if h.cfg.writer == nil {
		return nil
	}
	return h.cfg.writer.Write(line)
}

func hasField(fields []field, key string) bool {
	for _, f := range fields {
		if f.key == key {
			return true
		}
	}
	return false
}

func appendAttr(fields []field, a slog.Attr) []field {
	if a.Key == "" {
		return fields
	}
	return append(fields, field{a.Key, a.Value.Resolve()})
}

// expandRID compacts the rid field and, for JSON output, preserves the raw
// rid and stamps the record with a nanosecond timestamp.
func (h *structuredHandler) expandRID(fields []field, ts time.Time) []field {
	for i, f := range fields {
		if f.key != "rid" {
			continue
		}
		raw := f.val.String()
		fields[i].val = slog.StringValue(CompactRID(raw))
		if h.cfg.format == formatJSON {
			fields = append(fields,
				field{"rid_full", slog.StringValue(raw)},
				field{"ts_unix_nano", slog.Int64Value(ts.UnixNano())},
			)
		}
		break
	}
	return fields
}

// order sorts known keys by schema position; unknown keys keep insertion order.
func (h *structuredHandler) order(fields []field) []field {
	known := make([]field, 0, len(fields))
	var rest []field
	for _, k := range h.cfg.keyOrder {
		for _, f := range fields {
			if f.key == k {
				known = append(known, f)
			}
		}
	}
	for _, f := range fields {
		if _, ok := h.rank[f.key]; !ok {
			rest = append(rest, f)
		}
	}
	return append(known, rest...)
}

func renderKV(fields []field) []byte {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(kvValue(f.val))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func kvValue(v slog.Value) string {
	s := plainValue(v)
	if s == "" || strings.ContainsAny(s, " =\"") {
		return strconv.Quote(s)
	}
	return s
}

func renderJSON(fields []field) []byte {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(f.key)
		b.Write(key)
		b.WriteByte(':')
		b.Write(jsonValue(f.val))
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

func jsonValue(v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.AppendInt(nil, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(nil, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(nil, v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(nil, v.Bool())
	default:
		out, err := json.Marshal(plainValue(v))
		if err != nil {
			out, _ = json.Marshal(fmt.Sprintf("%v", v.Any()))
		}
		return out
	}
}

func plainValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v.Any())
	}
}
