package util

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrValidation is matched by every error returned from the Dedent family.
var ErrValidation = errors.New("there must be only whitespace after the last line-feed")

// ValidationError reports a block whose last line is not blank.
type ValidationError struct {
	LastLine string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v (found %q)", ErrValidation, e.LastLine)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Dedent strips the leading whitespace of the first non-blank line from every
// line of text. It is meant for indented raw string literals:
//
//	util.Dedent(`
//		first line
//		second line
//	`)
//
// returns "first line\nsecond line\n". Text after the last line-feed must be
// whitespace only.
func Dedent(text string) (string, error) {
	return dedent(text, nil)
}

// DedentPrefix is like Dedent but strips the given prefix instead of
// inferring one. Lines that don't start with prefix are kept as they are.
func DedentPrefix(text, prefix string) (string, error) {
	return dedent(text, &prefix)
}

// DedentOptional is the nil-aware form. A nil text yields a nil result and no
// error, a nil prefix is inferred.
func DedentOptional(text, prefix *string) (*string, error) {
	if text == nil {
		return nil, nil
	}

	out, err := dedent(*text, prefix)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MustDedent is like Dedent but panics if text is malformed. Use it for
// string literals known at compile time.
func MustDedent(text string) string {
	out, err := Dedent(text)
	if err != nil {
		panic(err)
	}
	return out
}

// InferPrefix returns the prefix Dedent would strip from text.
func InferPrefix(text string) (string, error) {
	lines, err := splitBlock(text)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	return inferPrefix(lines[:len(lines)-1]), nil
}

func dedent(text string, prefix *string) (string, error) {
	lines, err := splitBlock(text)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}

	// The last line only holds the closing indentation.
	body := lines[:len(lines)-1]

	var strip string
	if prefix != nil {
		strip = *prefix
	} else {
		strip = inferPrefix(body)
	}

	var sb strings.Builder
	for _, line := range body {
		sb.WriteString(strings.TrimPrefix(line, strip))
		sb.WriteByte('\n')
	}
	if len(body) == 0 {
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

// splitBlock splits text into lines, dropping an empty first line and checking
// that the last line is blank.
func splitBlock(text string) ([]string, error) {
	lines := strings.Split(text, "\n")
	if lines[0] == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return nil, nil
	}

	last := lines[len(lines)-1]
	if !isBlank(last) {
		return nil, &ValidationError{LastLine: last}
	}

	return lines, nil
}

func inferPrefix(lines []string) string {
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		rest := strings.TrimLeftFunc(line, unicode.IsSpace)
		return line[:len(line)-len(rest)]
	}
	return ""
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
