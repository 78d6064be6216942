package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const componentKey = "component"

// CompactHandler writes one line per record:
//
//	[LEVEL] HH:MM:SS component: message | key=value key=value
type CompactHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	out    io.Writer
	attrs  []slog.Attr
	prefix string // group prefix for attribute keys
}

// NewCompactHandler returns a handler writing to w
func NewCompactHandler(w io.Writer, opts *slog.HandlerOptions) *CompactHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &CompactHandler{opts: *opts, mu: &sync.Mutex{}, out: w}
}

func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	buf = append(buf, levelLabel(r.Level)...)
	buf = append(buf, r.Time.Format("15:04:05")...)
	buf = append(buf, ' ')

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix != "" && a.Key != componentKey {
			a.Key = h.prefix + a.Key
		}
		attrs = append(attrs, a)
		return true
	})

	component := ""
	rest := attrs[:0]
	for _, a := range attrs {
		if a.Key == componentKey {
			component = a.Value.String()
			continue
		}
		if a.Equal(slog.Attr{}) {
			continue
		}
		rest = append(rest, a)
	}

	if component != "" {
		buf = append(buf, component...)
		buf = append(buf, ": "...)
	}
	buf = append(buf, r.Message...)

	for i, a := range rest {
		if i == 0 {
			buf = append(buf, " |"...)
		}
		buf = append(buf, ' ')
		buf = appendAttr(buf, a)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func levelLabel(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "[TRACE] "
	case level < slog.LevelInfo:
		return "[DEBUG] "
	case level < slog.LevelWarn:
		return "[INFO]  "
	case level < slog.LevelError:
		return "[WARN]  "
	}
	return "[ERROR] "
}

func appendAttr(buf []byte, a slog.Attr) []byte {
	switch a.Key {
	case "requestID":
		if s := a.Value.String(); len(s) > 8 {
			return append(buf, "req="+s[:8]...)
		}
	case "durationMs":
		return append(buf, "duration="+a.Value.String()+"ms"...)
	case "error":
		return append(buf, fmt.Sprintf("error=%q", a.Value.Any())...)
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		if s := v.String(); needsQuoting(s) {
			buf = append(buf, fmt.Sprintf("%q", s)...)
		} else {
			buf = append(buf, s...)
		}
	case slog.KindTime:
		buf = append(buf, v.Time().Format(time.RFC3339)...)
	case slog.KindGroup:
		buf = append(buf, '{')
		for i, ga := range v.Group() {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = appendAttr(buf, ga)
		}
		buf = append(buf, '}')
	default:
		buf = append(buf, v.String()...)
	}
	return buf
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '"' || r == '=' {
			return true
		}
	}
	return false
}

func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" && a.Key != componentKey {
			a.Key = h.prefix + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *CompactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}
