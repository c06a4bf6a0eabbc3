// Package console is the dependency-free logging backend: one line per entry,
// either logfmt-style text or JSON.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "LEVEL(" + strconv.Itoa(int(l)) + ")"
}

// ParseLevel accepts level names in any case, plus "warning". An empty
// label means info.
func ParseLevel(label string) (Level, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	switch label {
	case "":
		return LevelInfo, nil
	case "WARNING":
		return LevelWarn, nil
	}
	if i := slices.Index(levelNames[:], label); i >= 0 {
		return Level(i), nil
	}
	return LevelInfo, fmt.Errorf("console: unknown log level %q", label)
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options for NewProvider. Zero values mean stderr, time.Now, debug and text.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
	Format   Format
}

type sink struct {
	mu     sync.Mutex
	out    io.Writer
	now    func() time.Time
	min    Level
	encode func(buf *bytes.Buffer, e entry)
}

func NewProvider(opts Options) interfaces.LoggerProvider {
	s := &sink{out: opts.Writer, now: opts.TimeFunc, min: LevelDebug, encode: encodeText}
	if s.out == nil {
		s.out = os.Stderr
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.MinLevel != nil {
		s.min = *opts.MinLevel
	}
	if opts.Format == FormatJSON {
		s.encode = encodeJSON
	}
	return s
}

func (s *sink) GetLogger(name string) interfaces.Logger {
	return &logger{sink: s, fields: map[string]any{"logger": name}}
}

func (s *sink) write(e entry) {
	var buf bytes.Buffer
	s.encode(&buf, e)
	buf.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(buf.Bytes())
}

type logger struct {
	sink   *sink
	fields map[string]any
	ctx    context.Context
}

var _ interfaces.FieldsLogger = (*logger)(nil)

func (l *logger) Trace(msg string, args ...any) { l.emit(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.emit(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.emit(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.emit(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.emit(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.emit(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	next := maps.Clone(l.fields)
	maps.Copy(next, fields)
	return &logger{sink: l.sink, fields: next, ctx: l.ctx}
}

// WithContext binds ctx; fields stored with logging.ContextWithFields are
// read when an entry is written.
func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{sink: l.sink, fields: l.fields, ctx: ctx}
}

func (l *logger) emit(level Level, msg string, args []any) {
	if level < l.sink.min {
		return
	}
	fields := maps.Clone(l.fields)
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		pos := "field_" + strconv.Itoa(i/2)
		key, isKey := args[i].(string)
		switch {
		case i+1 == len(args):
			fields[pos] = args[i]
		case !isKey || key == "":
			fields[pos] = args[i+1]
		default:
			fields[key] = args[i+1]
		}
	}
	l.sink.write(entry{time: l.sink.now().UTC(), level: level, msg: msg, fields: fields})
}

type entry struct {
	time   time.Time
	level  Level
	msg    string
	fields map[string]any
}

func (e entry) keys() []string {
	return slices.Sorted(maps.Keys(e.fields))
}

// encodeText writes "<time> <LEVEL> <msg> k=v ..." with keys sorted.
func encodeText(buf *bytes.Buffer, e entry) {
	fmt.Fprintf(buf, "%s %s %s", e.time.Format(time.RFC3339Nano), e.level, e.msg)
	for _, key := range e.keys() {
		buf.WriteByte(' ')
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(textValue(e.fields[key]))
	}
}

// encodeJSON writes time, level and msg first, then the sorted fields.
func encodeJSON(buf *bytes.Buffer, e entry) {
	buf.WriteString(`{"time":`)
	writeJSON(buf, e.time.Format(time.RFC3339Nano))
	buf.WriteString(`,"level":`)
	writeJSON(buf, e.level.String())
	buf.WriteString(`,"msg":`)
	writeJSON(buf, e.msg)
	for _, key := range e.keys() {
		buf.WriteByte(',')
		writeJSON(buf, key)
		buf.WriteByte(':')
		writeJSON(buf, plain(e.fields[key]))
	}
	buf.WriteByte('}')
}

func writeJSON(buf *bytes.Buffer, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(fmt.Sprint(v))
	}
	buf.Write(data)
}

// plain reduces errors, times and Stringers to strings.
func plain(v any) any {
	switch t := v.(type) {
	case error:
		return t.Error()
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	}
	return v
}

func textValue(v any) string {
	var s string
	switch t := plain(v).(type) {
	case nil:
		return "null"
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		s = fmt.Sprint(t)
	}
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
