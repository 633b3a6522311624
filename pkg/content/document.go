package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MissingFieldError reports a required content field that is absent.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("content: missing field %q", e.Path)
}

// Document is an immutable tree of named fields and lists. Branches are
// map[string]any and []any; leaves are string, int64, float64, bool or nil.
type Document struct {
	source string
	root   map[string]any
}

// New wraps an already decoded tree. Values are normalised and deep-copied so
// later mutation of root does not leak into the document.
func New(source string, root map[string]any) Document {
	normalised, _ := normalise(root).(map[string]any)
	if normalised == nil {
		normalised = map[string]any{}
	}
	return Document{source: source, root: normalised}
}

// Parse decodes JSON or YAML content. JSON is attempted first; YAML is the
// fallback. The root must be a mapping.
func Parse(data []byte, source string) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, fmt.Errorf("content: %s is empty", source)
	}

	var decoded any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	jsonErr := dec.Decode(&decoded)
	if jsonErr == nil {
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			jsonErr = errors.New("trailing data after JSON value")
		}
	}
	if jsonErr != nil {
		decoded = nil
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			return Document{}, fmt.Errorf("content: parse %s: invalid JSON or YAML: %w", source, errors.Join(jsonErr, err))
		}
	}

	root, ok := normalise(decoded).(map[string]any)
	if !ok {
		return Document{}, fmt.Errorf("content: %s root must be an object, got %T", source, decoded)
	}
	return Document{source: source, root: root}, nil
}

// Source returns where the document was loaded from.
func (d Document) Source() string {
	return d.source
}

// Root returns a deep copy of the document tree.
func (d Document) Root() map[string]any {
	copied, _ := normalise(d.root).(map[string]any)
	return copied
}

// Lookup resolves a dotted path such as "hero.title" or "intro.blocks.0.id".
// Numeric segments index into lists.
func (d Document) Lookup(path string) (any, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("content: path is required")
	}

	var current any = d.root
	for _, segment := range strings.Split(trimmed, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, &MissingFieldError{Path: trimmed}
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, &MissingFieldError{Path: trimmed}
			}
			current = node[idx]
		default:
			return nil, &MissingFieldError{Path: trimmed}
		}
	}
	return current, nil
}

// Has reports whether path resolves to a value.
func (d Document) Has(path string) bool {
	_, err := d.Lookup(path)
	return err == nil
}

// Present reports whether path resolves to a non-empty value: not nil, not an
// empty string, list or mapping.
func (d Document) Present(path string) bool {
	value, err := d.Lookup(path)
	if err != nil {
		return false
	}
	return !IsEmpty(value)
}

// String resolves path to a scalar formatted as text. Branch values are an
// error because they have no single textual form.
func (d Document) String(path string) (string, error) {
	value, err := d.Lookup(path)
	if err != nil {
		return "", err
	}
	switch value.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("content: field %q is not a scalar", path)
	}
	return Stringify(value), nil
}

// StringOr is String with a fallback for missing fields.
func (d Document) StringOr(path, fallback string) string {
	value, err := d.String(path)
	if err != nil {
		return fallback
	}
	return value
}

// List resolves path to a list.
func (d Document) List(path string) ([]any, error) {
	value, err := d.Lookup(path)
	if err != nil {
		return nil, err
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("content: field %q is not a list", path)
	}
	return list, nil
}

// Map resolves path to a mapping.
func (d Document) Map(path string) (map[string]any, error) {
	value, err := d.Lookup(path)
	if err != nil {
		return nil, err
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("content: field %q is not an object", path)
	}
	return m, nil
}

// Stringify formats a scalar leaf as text. nil becomes the empty string.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// IsEmpty reports whether value is nil, "", an empty list or an empty mapping.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// normalise deep-copies a decoded tree, collapsing the number and mapping
// types produced by encoding/json and yaml.v3 into the document leaf types.
func normalise(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalise(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalise(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalise(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return float64(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}
