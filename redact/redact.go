// Package redact applies denylist-driven field redaction to payloads before
// they are persisted or logged.
//
// Redaction behavior is an explicit, immutable Config passed to each
// Redactor — never process-global state — so every invocation is
// reproducible and testable in isolation. Apply always returns a new
// structure and never mutates its input.
package redact

import (
	"regexp"
	"strings"

	"github.com/autopilot-ai/sdk"
)

// DefaultReplacement is the token substituted for redacted values.
const DefaultReplacement = "[REDACTED]"

// Config describes what gets redacted. Treat a Config as immutable once a
// Redactor has been built from it.
type Config struct {
	// Keys is the denylist of mapping keys whose values are redacted
	// wherever they appear, at any depth. Matching is case-insensitive.
	Keys []string `yaml:"keys"`

	// ValuePatterns is a list of regular expressions; any string value
	// matching one of them is redacted regardless of its key.
	ValuePatterns []string `yaml:"value_patterns,omitempty"`

	// Replacement is the token substituted for redacted values. Empty
	// means DefaultReplacement.
	Replacement string `yaml:"replacement,omitempty"`
}

// DefaultConfig returns the baseline denylist applied by the pipeline when
// a tenant supplies no redaction config of its own.
func DefaultConfig() Config {
	return Config{
		Keys: []string{
			"password",
			"passphrase",
			"secret",
			"token",
			"api_key",
			"apikey",
			"authorization",
			"private_key",
			"credential",
			"session",
		},
	}
}

// Redactor applies a fixed redaction config to payloads. Build with New;
// a Redactor is immutable and safe for concurrent use.
type Redactor struct {
	keys        map[string]struct{}
	patterns    []*regexp.Regexp
	replacement string
}

// New compiles a config into a Redactor. It returns a configuration error
// if any value pattern fails to compile.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{
		keys:        make(map[string]struct{}, len(cfg.Keys)),
		replacement: cfg.Replacement,
	}
	if r.replacement == "" {
		r.replacement = DefaultReplacement
	}
	for _, k := range cfg.Keys {
		r.keys[strings.ToLower(k)] = struct{}{}
	}
	for _, p := range cfg.ValuePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, sdk.NewConfigurationError("redact.New", err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// Apply returns a copy of the payload with every denylisted field replaced
// by the replacement token, recursing through nested mappings and
// sequences. The input is never mutated.
func (r *Redactor) Apply(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if r.keyDenied(k) {
			out[k] = r.replacement
			continue
		}
		out[k] = r.applyValue(v)
	}
	return out
}

// ApplyString redacts a bare string value: if it matches any value pattern
// the replacement token is returned, otherwise the string is unchanged.
func (r *Redactor) ApplyString(s string) string {
	if r.valueDenied(s) {
		return r.replacement
	}
	return s
}

func (r *Redactor) applyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return r.Apply(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = r.applyValue(elem)
		}
		return out
	case string:
		return r.ApplyString(t)
	default:
		return v
	}
}

func (r *Redactor) keyDenied(key string) bool {
	_, ok := r.keys[strings.ToLower(key)]
	return ok
}

func (r *Redactor) valueDenied(s string) bool {
	for _, re := range r.patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
