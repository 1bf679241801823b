package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aretw0/kanban/pkg/ports"
)

// Mask replaces every redacted value.
const Mask = "***"

type redactionMiddleware struct {
	next     ports.BoardStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a write-side middleware that masks the value
// of every JSON key matching one of the patterns. Intended for exports:
// a redacted board cannot be loaded back into its original form.
func NewRedactionMiddleware(patternStrings []string) (Middleware, error) {
	patterns, err := compilePatterns(patternStrings)
	if err != nil {
		return nil, err
	}
	return func(next ports.BoardStore) ports.BoardStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, data []byte) error {
	masked, err := redact(data, m.patterns)
	if err != nil {
		return err
	}
	return m.next.Save(ctx, masked)
}

func (m *redactionMiddleware) Load(ctx context.Context) ([]byte, error) {
	return m.next.Load(ctx)
}

func (m *redactionMiddleware) Clear(ctx context.Context) error {
	return m.next.Clear(ctx)
}

// Redact masks matching keys anywhere in a JSON document.
func Redact(data []byte, patternStrings []string) ([]byte, error) {
	patterns, err := compilePatterns(patternStrings)
	if err != nil {
		return nil, err
	}
	return redact(data, patterns)
}

func redact(data []byte, patterns []*regexp.Regexp) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("redact: %w", err)
	}
	return json.Marshal(maskValue(doc, patterns))
}

func compilePatterns(patternStrings []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redact pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return patterns, nil
}

// maskValue works on the freshly decoded document, so it may modify it in place.
func maskValue(v any, patterns []*regexp.Regexp) any {
	switch t := v.(type) {
	case map[string]any:
		for k, sub := range t {
			if matchesAny(k, patterns) {
				t[k] = Mask
				continue
			}
			t[k] = maskValue(sub, patterns)
		}
	case []any:
		for i, sub := range t {
			t[i] = maskValue(sub, patterns)
		}
	}
	return v
}

func matchesAny(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
