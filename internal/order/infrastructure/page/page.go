// Package page pulls structure out of captured order-page markup: the
// flattened visible text the field parser works on, the item tiles, and the
// address-adjacent contact name. Everything here is a pure function of the
// markup string, so it runs the same against a live capture or a fixture.
package page

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/orderdesk/walmart-importer/internal/order/domain"
)

var (
	reQty   = regexp.MustCompile(`(?i)\bQty\s*([0-9]+)\b`)
	rePrice = regexp.MustCompile(`\$([0-9]+(?:\.[0-9]{2}))`)
)

// Flatten renders markup to the visible-text substrate used for label
// matching: script/style bodies dropped, text nodes trimmed and joined with
// single spaces. Unparseable markup flattens to an empty string.
func Flatten(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	doc.Find("script,style,noscript").Remove()

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// Items extracts the order's line items from the item tiles in captured
// markup. A tile without a readable title or price is dropped; a quantity
// that cannot be read defaults to 1.
func Items(markup string) []domain.OrderItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	var items []domain.OrderItem
	doc.Find(`div[data-testid="itemtile-stack"]`).Each(func(_ int, tile *goquery.Selection) {
		title := strings.TrimSpace(tile.Find(`[data-testid="productName"]`).First().Text())

		qty := 1
		qtyText := strings.TrimSpace(tile.Find(".bill-item-quantity").First().Text())
		if qtyText == "" {
			// Some tiles drop the quantity class but still spell out "Qty N".
			qtyText = tile.Text()
		}
		if m := reQty.FindStringSubmatch(qtyText); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				qty = n
			}
		}

		var price float64
		priceText := tile.Find(`[data-testid="line-price"]`).First().Text()
		if m := rePrice.FindStringSubmatch(priceText); m != nil {
			price = domain.MoneyToFloat(m[1])
		} else if m := rePrice.FindStringSubmatch(tile.Text()); m != nil {
			// Last resort: any dollar amount anywhere in the tile.
			price = domain.MoneyToFloat(m[1])
		}

		if title != "" && price != 0 {
			items = append(items, domain.OrderItem{Title: title, Qty: qty, PriceEach: price})
		}
	})
	return items
}

// FirstNameAfterAddress finds the contact's first name in the element that
// follows an "Address" heading. Returns "" when no plausible name is there.
func FirstNameAfterAddress(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	name := ""
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != "Address" {
			return true
		}
		// The heading may be wrapped; climb until a following sibling with
		// content shows up.
		for cur := s; cur.Length() > 0; cur = cur.Parent() {
			text := strings.TrimSpace(cur.Next().Text())
			if text == "" || strings.EqualFold(text, "Address") {
				continue
			}
			fields := strings.Fields(text)
			if len(fields) == 0 {
				return false
			}
			if first := fields[0]; len([]rune(first)) > 1 && isAlpha(first) {
				name = first
			}
			return false
		}
		return true
	})
	return name
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
