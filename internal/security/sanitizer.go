// Package security strips markup from user-submitted text before it is stored.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes HTML from free-text input.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text strips every tag from s, decodes the entities bluemonday escapes, and
// trims surrounding space. The result is plain text, not HTML.
func (s *Sanitizer) Text(in string) string {
	if in == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

// Strings applies Text to each pointer target, skipping nil.
func (s *Sanitizer) Strings(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = s.Text(*f)
		}
	}
}

// List applies Text to every element and drops the ones left empty.
func (s *Sanitizer) List(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = s.Text(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
