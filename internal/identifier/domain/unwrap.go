package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var urlRe = regexp.MustCompile(`https?://\S+`)

// safelinkHost is the mail-safety rewriter that wraps outbound links and
// carries the real destination in its "url" query parameter.
const safelinkHost = "safelinks.protection.outlook.com"

// trailingJunk holds closing characters that commonly trail a URL in prose
// or markup but are not part of it.
const trailingJunk = `').,>\"]`

// ExtractTargetURLs scans s for URLs and returns them with safelink
// wrappers resolved to their fully percent-decoded targets. Wrapper URLs
// without a "url" parameter are dropped; everything else passes through
// as-is. Partial results are returned when a URL cannot be parsed.
func ExtractTargetURLs(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, raw := range urlRe.FindAllString(s, -1) {
		u := strings.TrimRight(raw, trailingJunk)
		parsed, err := url.Parse(u)
		if err != nil {
			continue
		}
		if strings.Contains(parsed.Host, safelinkHost) {
			target := parsed.Query().Get("url")
			if target == "" {
				continue
			}
			out = append(out, percentDecode(target, maxDecodeRounds))
		} else {
			out = append(out, u)
		}
	}
	return out
}

// percentDecode applies up to n rounds of percent-decoding, stopping at the
// first malformed escape.
func percentDecode(s string, n int) string {
	for i := 0; i < n; i++ {
		u, err := url.PathUnescape(s)
		if err != nil {
			return s
		}
		s = u
	}
	return s
}
