package domain

import (
	"regexp"
	"sort"
	"strings"
)

// Message is one mail item as the extractor sees it. Accessors may fail
// independently of each other; a body that cannot be read is treated as
// empty and a subject that cannot be read skips the message.
type Message interface {
	Subject() (string, error)
	HTMLBody() (string, error)
	TextBody() (string, error)
}

// orderRe captures the digit identifier from an order page URL path.
var orderRe = regexp.MustCompile(`(?i)/orders/(\d+)`)

// ExtractIdentifiers collects the unique order identifiers reachable from
// the given messages. When subjectFilter is non-empty, only messages whose
// trimmed subject equals it case-insensitively are scanned. Both bodies of
// a matching message are decoded into variants, every variant is scanned
// for URLs (safelink wrappers resolved), the resulting URLs are decoded
// again, and the identifier pattern runs over the whole accumulated pool.
// The result is sorted ascending with no duplicates; a failure on one
// message never aborts the scan.
func ExtractIdentifiers(msgs []Message, subjectFilter string) []string {
	seen := make(map[string]struct{})

	for _, m := range msgs {
		if m == nil {
			continue
		}
		if subjectFilter != "" {
			sub, err := m.Subject()
			if err != nil {
				continue
			}
			if !strings.EqualFold(strings.TrimSpace(sub), strings.TrimSpace(subjectFilter)) {
				continue
			}
		}

		pool := decodeBodies(m)

		var urls []string
		for _, v := range pool {
			urls = append(urls, ExtractTargetURLs(v)...)
		}
		for _, u := range urls {
			pool = append(pool, DecodeCandidates(u)...)
		}

		for _, v := range pool {
			for _, match := range orderRe.FindAllStringSubmatch(v, -1) {
				seen[match[1]] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func decodeBodies(m Message) []string {
	htmlBody, err := m.HTMLBody()
	if err != nil {
		htmlBody = ""
	}
	textBody, err := m.TextBody()
	if err != nil {
		textBody = ""
	}
	return append(DecodeCandidates(htmlBody), DecodeCandidates(textBody)...)
}
