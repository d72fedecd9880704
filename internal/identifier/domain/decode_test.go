package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCandidates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "empty input yields nothing",
			in:   "",
			want: nil,
		},
		{
			name: "plain string is its own only variant",
			in:   "hello world",
			want: []string{"hello world"},
		},
		{
			name: "entity escaped url",
			in:   "https://example.com/?a=1&amp;b=2",
			want: []string{
				"https://example.com/?a=1&amp;b=2",
				"https://example.com/?a=1&b=2",
			},
		},
		{
			name: "single percent encoding",
			in:   "https%3A%2F%2Fwww.walmart.ca%2Fen%2Forders%2F123456",
			want: []string{
				"https%3A%2F%2Fwww.walmart.ca%2Fen%2Forders%2F123456",
				"https://www.walmart.ca/en/orders/123456",
			},
		},
		{
			name: "double percent encoding resolves within the round cap",
			in:   "https%253A%252F%252Fwww.walmart.ca%252Fen%252Forders%252F42",
			want: []string{
				"https%253A%252F%252Fwww.walmart.ca%252Fen%252Forders%252F42",
				"https%3A%2F%2Fwww.walmart.ca%2Fen%2Forders%2F42",
				"https://www.walmart.ca/en/orders/42",
			},
		},
		{
			name: "entity escaping stacked on percent encoding",
			in:   "track%3Furl%3Dhttps%253A%252F%252Fshop%26x=1",
			want: []string{
				"track%3Furl%3Dhttps%253A%252F%252Fshop%26x=1",
				"track?url=https%3A%2F%2Fshop&x=1",
				"track?url=https://shop&x=1",
			},
		},
		{
			name: "malformed escape keeps the collected variants",
			in:   "50%zz off",
			want: []string{"50%zz off"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeCandidates(tt.in))
		})
	}
}

func TestDecodeCandidatesIdempotenceBound(t *testing.T) {
	decoded := "https://www.walmart.ca/en/orders/123456"

	first := DecodeCandidates(decoded)
	require.Contains(t, first, decoded)
	assert.LessOrEqual(t, len(first), 5, "fully decoded input must stay within the variant cap")

	// Re-running on any produced variant reaches a fixed point: no variant
	// beyond those already known.
	for _, v := range first {
		again := DecodeCandidates(v)
		for _, w := range again {
			assert.Contains(t, first, w)
		}
	}
}

func TestDecodeCandidatesHasNoDuplicates(t *testing.T) {
	inputs := []string{
		"plain",
		"https%3A%2F%2Fa%2Fb",
		"a&amp;b",
		"%2525",
	}
	for _, in := range inputs {
		variants := DecodeCandidates(in)
		seen := make(map[string]struct{}, len(variants))
		for _, v := range variants {
			_, dup := seen[v]
			assert.Falsef(t, dup, "input %q produced duplicate variant %q", in, v)
			seen[v] = struct{}{}
		}
	}
}
