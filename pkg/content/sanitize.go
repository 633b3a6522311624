package content

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Sanitizer cleans a string value before it is placed into markup.
type Sanitizer interface {
	Sanitize(s string) string
}

// MarkupPolicy returns the shared policy used for content values. It allows
// the inline markup editors put in copy (emphasis, links, line breaks, spans
// with classes) and strips scripts, event handlers and unknown elements.
func MarkupPolicy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("style").OnElements("img", "span", "div", "p")
		markupPolicy = policy
	})
	return markupPolicy
}

// Sanitize returns a copy of the document with every string leaf passed
// through sanitizer. A nil sanitizer uses MarkupPolicy.
func (d Document) Sanitize(sanitizer Sanitizer) Document {
	if sanitizer == nil {
		sanitizer = MarkupPolicy()
	}
	root, _ := sanitizeValue(d.root, sanitizer).(map[string]any)
	return Document{source: d.source, root: root}
}

// SanitizeString cleans a single value with MarkupPolicy.
func SanitizeString(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	return MarkupPolicy().Sanitize(raw)
}

func sanitizeValue(value any, sanitizer Sanitizer) any {
	switch v := value.(type) {
	case string:
		return sanitizer.Sanitize(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = sanitizeValue(item, sanitizer)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = sanitizeValue(item, sanitizer)
		}
		return out
	default:
		return v
	}
}
