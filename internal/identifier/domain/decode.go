package domain

import (
	"html"
	"net/url"
)

// maxDecodeRounds bounds iterative percent-decoding. Mail redirect wrappers
// double- and sometimes triple-encode their targets; three rounds covers the
// nesting observed in practice while keeping the variant set small.
const maxDecodeRounds = 3

// DecodeCandidates returns the plausible decoded renderings of s, in order:
// s itself, its entity-unescaped form when that differs, then up to three
// successive rounds of percent-decoding, each kept only when it produces a
// string not collected yet. It never fails; a malformed escape simply stops
// further rounds and the variants gathered so far are returned.
func DecodeCandidates(s string) []string {
	if s == "" {
		return nil
	}
	variants := []string{s}

	h := html.UnescapeString(s)
	if h != s {
		variants = append(variants, h)
	}

	cur := h
	for i := 0; i < maxDecodeRounds; i++ {
		u, err := url.PathUnescape(cur)
		if err != nil {
			break
		}
		if !containsString(variants, u) {
			variants = append(variants, u)
		}
		cur = u
	}
	return variants
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
