package assemble

import (
	"fmt"
	"iter"
	"strings"
)

// ItemRenderer renders one record of a list. index is the zero-based position
// of the record in the input slice.
type ItemRenderer[T any] func(index int, record T) (string, error)

// Fragments returns a lazy sequence yielding one rendered fragment per record
// in input order. Rendering of a record happens only when the sequence is
// advanced to it. A render error is yielded alongside an empty fragment and
// ends the sequence.
func Fragments[T any](records []T, render ItemRenderer[T]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if render == nil {
			if len(records) > 0 {
				yield("", fmt.Errorf("assemble: item renderer is required"))
			}
			return
		}
		for i, record := range records {
			fragment, err := render(i, record)
			if err != nil {
				yield("", fmt.Errorf("assemble: render item %d: %w", i, err))
				return
			}
			if !yield(fragment, nil) {
				return
			}
		}
	}
}

// RenderList drains Fragments and joins the fragments with sep. An empty
// records slice yields an empty string.
func RenderList[T any](records []T, render ItemRenderer[T], sep string) (string, error) {
	var b strings.Builder
	n := 0
	for fragment, err := range Fragments(records, render) {
		if err != nil {
			return "", err
		}
		if n > 0 {
			b.WriteString(sep)
		}
		b.WriteString(fragment)
		n++
	}
	return b.String(), nil
}
