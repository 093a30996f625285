// Package extract pulls structured JSON out of free-form model replies.
//
// Models are asked for "JSON only" but routinely wrap it in a markdown fence
// or add prose. JSON locates the payload, decodes it into the caller's type,
// and returns a caller-supplied fallback when anything goes wrong:
//
//	analysis := extract.JSON(reply, Analysis{Score: 80}, extract.WithLabel("compare_identity"))
//
// JSON never panics and never returns an error; use Parse when the cause matters.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/minju-kim98/personal-ai-hub/internal/metrics"
	"github.com/xeipuuv/gojsonschema"
)

const (
	jsonFence    = "```json"
	genericFence = "```"
)

// ErrEmpty is returned by Parse when no payload is left after fence removal,
// or when the payload is the JSON literal null.
var ErrEmpty = errors.New("extract: empty payload")

// SchemaError lists the schema violations of a decoded document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "extract: schema violation: " + strings.Join(e.Violations, "; ")
}

type options struct {
	label    string
	schema   string
	logger   *slog.Logger
	open     byte
	close    byte
	brackets bool
}

// Option configures an extraction.
type Option func(*options)

// WithLabel names the extraction in logs and the fallback metric.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithSchema validates the decoded document against a JSON Schema.
func WithSchema(schema string) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithBrackets narrows unfenced replies to the span from the first open to the
// last close byte, e.g. '[' and ']' for a bare array surrounded by prose.
func WithBrackets(open, close byte) Option {
	return func(o *options) {
		o.open, o.close, o.brackets = open, close, true
	}
}

func apply(opts []Option) *options {
	o := &options{label: "unlabeled"}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Block returns the candidate payload in raw. A ```json fence wins over a
// generic fence; an unterminated fence runs to the end of the text. Text
// without fences is returned whole. The result is trimmed.
func Block(raw string) string {
	block, _ := block(raw)
	return block
}

func block(raw string) (string, bool) {
	if _, after, ok := strings.Cut(raw, jsonFence); ok {
		inner, _, _ := strings.Cut(after, genericFence)
		return strings.TrimSpace(inner), true
	}
	if _, after, ok := strings.Cut(raw, genericFence); ok {
		inner, _, _ := strings.Cut(after, genericFence)
		return strings.TrimSpace(inner), true
	}
	return strings.TrimSpace(raw), false
}

// Bracketed returns raw from the first open byte through the last close byte.
// It returns raw unchanged when either is missing or they are out of order.
func Bracketed(raw string, open, close byte) string {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}

// Parse decodes the payload in raw into T.
func Parse[T any](raw string, opts ...Option) (T, error) {
	return parse[T](raw, apply(opts))
}

func parse[T any](raw string, o *options) (T, error) {
	var out T

	payload, fenced := block(raw)
	if !fenced && o.brackets {
		payload = Bracketed(payload, o.open, o.close)
	}
	if payload = strings.TrimSpace(payload); payload == "" || payload == "null" {
		return out, ErrEmpty
	}

	if o.schema != "" {
		if err := validate(o.schema, payload); err != nil {
			return out, err
		}
	}

	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		var zero T
		return zero, fmt.Errorf("extract: decode: %w", err)
	}
	return out, nil
}

// JSON decodes the payload in raw into T, returning fallback on any failure.
func JSON[T any](raw string, fallback T, opts ...Option) T {
	o := apply(opts)
	out, err := parse[T](raw, o)
	if err != nil {
		metrics.ExtractFallbacks.WithLabelValues(o.label).Inc()
		o.logger.Warn("model reply not decodable, using fallback",
			"label", o.label,
			"error", err,
			"reply_len", len(raw),
		)
		return fallback
	}
	return out
}

var schemas sync.Map // string -> *gojsonschema.Schema

func compiled(schema string) (*gojsonschema.Schema, error) {
	if s, ok := schemas.Load(schema); ok {
		return s.(*gojsonschema.Schema), nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("extract: compile schema: %w", err)
	}
	actual, _ := schemas.LoadOrStore(schema, s)
	return actual.(*gojsonschema.Schema), nil
}

func validate(schema, payload string) error {
	s, err := compiled(schema)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		// payload is not JSON at all
		return fmt.Errorf("extract: decode: %w", err)
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return &SchemaError{Violations: violations}
}
