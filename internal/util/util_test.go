package util

import (
	"errors"
	"strings"
	"testing"

	lithammer "github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "leading blank line",
			in:   "\n  foo\n  bar\n",
			want: "foo\nbar\n",
		},
		{
			name: "raw literal",
			in: `
				hello
				world
			`,
			want: "hello\nworld\n",
		},
		{
			name: "nested indentation kept",
			in: `
				line1
					indented
				line3
			`,
			want: "line1\n\tindented\nline3\n",
		},
		{
			name: "line without prefix passed through",
			in:   "\n  foo\nbar\n",
			want: "foo\nbar\n",
		},
		{
			name: "shorter indentation passed through",
			in:   "\n    foo\n  bar\n",
			want: "foo\n  bar\n",
		},
		{
			name: "blank lines inside",
			in:   "\n\ta\n\n\tb\n",
			want: "a\n\nb\n",
		},
		{
			name: "first non-blank line sets prefix",
			in:   "\n\n   \n  foo\n    bar\n",
			want: "\n \nfoo\n  bar\n",
		},
		{
			name: "all blank",
			in:   "\n\n",
			want: "\n",
		},
		{
			name: "only closing indentation",
			in:   "   ",
			want: "\n",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "single line feed",
			in:   "\n",
			want: "\n",
		},
		{
			name: "no leading line feed",
			in:   "  foo\n  bar\n  ",
			want: "foo\nbar\n",
		},
		{
			name: "only the first empty line is dropped",
			in:   "\n\n  foo\n",
			want: "\nfoo\n",
		},
		{
			name: "trailing whitespace on closing line",
			in:   "\n\t\thello\n\t \t",
			want: "hello\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dedent(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDedentPrefix(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		prefix string
		want   string
	}{
		{
			name:   "explicit prefix overrides inference",
			in:     "\n    foo\n  bar\n",
			prefix: "  ",
			want:   "  foo\nbar\n",
		},
		{
			name:   "empty prefix is identity on the body",
			in:     "\n  foo\n\tbar\n",
			prefix: "",
			want:   "  foo\n\tbar\n",
		},
		{
			name:   "literal match only",
			in:     "\n\tfoo\n    bar\n",
			prefix: "    ",
			want:   "\tfoo\nbar\n",
		},
		{
			name:   "non-whitespace prefix",
			in:     "\n# foo\n# bar\nbaz\n",
			prefix: "# ",
			want:   "foo\nbar\nbaz\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DedentPrefix(tt.in, tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDedentValidation(t *testing.T) {
	for _, in := range []string{
		"abc\ndef",
		"abc",
		"\n  foo\n  bar",
		"\n  foo\n  bar  ",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Dedent(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, in[strings.LastIndex(in, "\n")+1:], verr.LastLine)

			_, err = DedentPrefix(in, "  ")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestDedentOptional(t *testing.T) {
	t.Run("nil text", func(t *testing.T) {
		got, err := DedentOptional(nil, nil)
		require.NoError(t, err)
		assert.Nil(t, got)

		prefix := "  "
		got, err = DedentOptional(nil, &prefix)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("inferred prefix", func(t *testing.T) {
		text := "\n  foo\n  bar\n"
		got, err := DedentOptional(&text, nil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "foo\nbar\n", *got)
	})

	t.Run("explicit prefix", func(t *testing.T) {
		text, prefix := "\n    foo\n  bar\n", "  "
		got, err := DedentOptional(&text, &prefix)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "  foo\nbar\n", *got)
	})

	t.Run("invalid", func(t *testing.T) {
		text := "abc\ndef"
		got, err := DedentOptional(&text, nil)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, got)
	})
}

func TestDedentIdempotent(t *testing.T) {
	for _, in := range []string{
		"\n  foo\n  bar\n",
		"\n\t\ta\n\t\t\tb\n\n\t\tc\n\t",
		"\n    x\n  y\n    z\n",
	} {
		prefix, err := InferPrefix(in)
		require.NoError(t, err)

		once, err := Dedent(in)
		require.NoError(t, err)

		twice, err := DedentPrefix(once, prefix)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestDedentSingleTrailingLineFeed(t *testing.T) {
	for _, in := range []string{"\n", "\n\n", "\n  a\n", "a\n  ", "\n\n\n\t", "\n  a\n\n\n"} {
		got, err := Dedent(in)
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(got, "\n"), "%q", got)
		if len(got) > 1 {
			// One line-feed per body line, nothing extra.
			assert.Equal(t, strings.Count(in, "\n")-boolToInt(strings.HasPrefix(in, "\n")), strings.Count(got, "\n"))
		}
	}
}

// For uniformly indented blocks the result matches lithammer/dedent, minus
// the leading line-feed it keeps.
func TestDedentMatchesUniformIndent(t *testing.T) {
	for _, in := range []string{
		"\n  foo\n  bar\n",
		"\n\t\tfoo\n\t\t\tbar\n\t",
		"\n    a\n\n    b\n      c\n  ",
	} {
		got, err := Dedent(in)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimPrefix(lithammer.Dedent(in), "\n"), got)
	}
}

func TestInferPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"\n  foo\n", "  "},
		{"\n\n\t\tfoo\n\t", "\t\t"},
		{"\nfoo\n", ""},
		{"\n \n \n", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := InferPrefix(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q", tt.in)
	}

	_, err := InferPrefix("  foo")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMustDedent(t *testing.T) {
	assert.Equal(t, "a\nb\n", MustDedent("\n  a\n  b\n"))
	assert.Panics(t, func() { MustDedent("abc\ndef") })
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
