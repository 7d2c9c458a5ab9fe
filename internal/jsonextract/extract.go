// Package jsonextract pulls a JSON object out of free-form model output.
package jsonextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	jsonFence = regexp.MustCompile("(?is)```\\s*json\\s*(.*?)\\s*```")
	anyFence  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ErrEmpty is returned by Decode when the model produced no text.
var ErrEmpty = errors.New("empty model output")

// SyntaxError reports text that did not parse as JSON after extraction.
type SyntaxError struct {
	Extracted string
	Err       error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse extracted JSON: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Extract returns the best JSON candidate in text. It prefers a ```json
// fenced block, then any fenced block, then the span from the first '{'
// to the last '}', and finally the whole trimmed text.
func Extract(text string) string {
	m := jsonFence.FindStringSubmatch(text)
	if m == nil {
		m = anyFence.FindStringSubmatch(text)
	}
	if m != nil && m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first != -1 && last > first {
		return strings.TrimSpace(text[first : last+1])
	}
	return strings.TrimSpace(text)
}

// Decode extracts JSON from text and strictly decodes it into v.
// Blank text yields ErrEmpty; anything unparsable yields *SyntaxError.
func Decode(text string, v any) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmpty
	}
	raw := Extract(text)
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return &SyntaxError{Extracted: raw, Err: err}
	}
	if dec.More() {
		return &SyntaxError{Extracted: raw, Err: errors.New("trailing data after JSON value")}
	}
	return nil
}

// Raw extracts JSON from text and checks that it is syntactically valid,
// returning it unchanged.
func Raw(text string) (json.RawMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}
	raw := Extract(text)
	if !json.Valid([]byte(raw)) {
		var probe any
		err := json.Unmarshal([]byte(raw), &probe)
		return nil, &SyntaxError{Extracted: raw, Err: err}
	}
	return json.RawMessage(raw), nil
}
