package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// The order page carries no reliable DOM contract, so every field comes out
// of the flattened visible text through a label-anchored pattern cascade.
// Horizontal whitespace is collapsed before matching; newlines stay, they
// act as field boundaries for the multi-line delivery pattern.
var (
	reHorizWS = regexp.MustCompile(`[ \t]+`)

	reDateDelivered = regexp.MustCompile(`(?i)Delivered on\s+([A-Za-z]{3,9}\s+\d{1,2})`)
	reDateHeader    = regexp.MustCompile(`(?is)\b([A-Za-z][a-z]{2}\s+\d{1,2},\s+\d{4})\b.*?\bOrder#`)
	reHeaderSimple  = regexp.MustCompile(`\b([A-Z][a-z]{2})\s+(\d{1,2}),\s*(\d{4})\b`)

	reSubtotal = regexp.MustCompile(`(?i)\bSubtotal\b\s*\$?\s*([0-9]+\.[0-9]{2})`)
	reTaxes    = regexp.MustCompile(`(?i)\bTaxes\b\s*\$?\s*([0-9]+\.[0-9]{2})`)
	reTotal    = regexp.MustCompile(`(?i)\bTotal\b\s*\$?\s*([0-9]+\.[0-9]{2})`)

	// Discount labels vary ("Savings", "Multisave Discount", "<x> Discount");
	// the magnitude may be printed with or without its minus sign and with
	// fewer than two decimals.
	reDiscount = regexp.MustCompile(`(?i)\b(?:Savings|Multisave\s*Discount|[\w\s]*Discount)\b\s*-?\s*\$?\s*([0-9]+(?:\.[0-9]{1,2})?)`)

	// Delivery amounts can sit several lines below their label.
	reDelivery = regexp.MustCompile(`(?is)\b(?:Delivery(?:\s*fee)?|Shipping(?:\s*fee)?|Free Delivery From Store)\b.*?\$?\s*([0-9]+\.[0-9]{2})`)

	reEndingIn    = regexp.MustCompile(`(?i)Ending in\s*(\d{4})`)
	reAddressName = regexp.MustCompile(`(?i)Address\s+([A-Z][A-Za-zÀ-ÖØ-öø-ÿ' -]+(?:\s+[A-Z][A-Za-zÀ-ÖØ-öø-ÿ' -]+)*)`)
	reNameToken   = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ'-]+$`)

	reCollapseWS = regexp.MustCompile(`\s+`)

	// Ordered: first brand to match inside the payment window wins.
	paymentBrands = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Apple\s*Pay`),
		regexp.MustCompile(`(?i)Google\s*Pay`),
		regexp.MustCompile(`(?i)PayPal`),
		regexp.MustCompile(`(?i)Visa`),
		regexp.MustCompile(`(?i)Master\s*Card|Mastercard`),
		regexp.MustCompile(`(?i)American\s*Express|Amex`),
		regexp.MustCompile(`(?i)Discover`),
		regexp.MustCompile(`(?i)Debit(?:\s*Card)?`),
		regexp.MustCompile(`(?i)Credit\s*Card`),
		regexp.MustCompile(`(?i)Gift\s*Card|Walmart\s*Gift\s*Card`),
	}
)

// paymentWindow bounds the search for payment details after the
// "Payment method" label.
const paymentWindow = 500

// ParseOrderPage extracts the typed summary from a page's flattened visible
// text. The parser never fails: every absent or malformed field falls back
// to its default (empty string or zero), and the returned record is always
// complete. The item list is always empty here; items come from the
// captured markup, which is the caller's concern.
func ParseOrderPage(text, orderNo, pageURL string) OrderSummary {
	norm := reHorizWS.ReplaceAllString(text, " ")

	brand, last4 := parsePayment(norm)

	s := OrderSummary{
		OrderNo:      orderNo,
		URL:          pageURL,
		Date:         parseDate(norm),
		Payment:      paymentDisplay(last4),
		PaymentBrand: brand,
		Name:         parseName(norm),
	}

	if m := reSubtotal.FindStringSubmatch(norm); m != nil {
		s.Subtotal = MoneyToFloat(m[1])
	}
	if m := reDiscount.FindStringSubmatch(norm); m != nil {
		// Stored non-positive whatever the page printed; a matched zero
		// stays plain zero rather than negative zero.
		if v := MoneyToFloat(m[1]); v != 0 {
			s.Discount = -math.Abs(v)
		}
	}
	if m := reDelivery.FindStringSubmatch(norm); m != nil {
		s.Delivery = MoneyToFloat(m[1])
	}
	if m := reTaxes.FindStringSubmatch(norm); m != nil {
		s.Taxes = MoneyToFloat(m[1])
	}
	if m := reTotal.FindStringSubmatch(norm); m != nil {
		s.Total = MoneyToFloat(m[1])
	}
	return s
}

// parseDate prefers the "Delivered on <Month> <Day>" line, then the
// "<Month> <Day>, <Year> ... Order#" header. A date found without a year
// gets the year spliced in from any full date elsewhere in the text.
func parseDate(text string) string {
	var date string
	if m := reDateDelivered.FindStringSubmatch(text); m != nil {
		date = strings.TrimSpace(m[1])
	} else if m := reDateHeader.FindStringSubmatch(text); m != nil {
		date = strings.TrimSpace(m[1])
	}

	if date != "" && !strings.Contains(date, ",") {
		if m := reHeaderSimple.FindStringSubmatch(text); m != nil {
			parts := strings.Fields(date)
			if len(parts) >= 2 {
				date = fmt.Sprintf("%s %s, %s", parts[0], parts[1], m[3])
			}
		}
	}
	return date
}

// parsePayment scans the window after the "Payment method" label (the whole
// text when the label is absent) for a card brand and an "Ending in" last-4.
// The last-4 search falls back to the whole text when the window misses.
func parsePayment(text string) (brand, last4 string) {
	window := text
	if idx := strings.Index(strings.ToLower(text), "payment method"); idx != -1 {
		end := min(idx+paymentWindow, len(text))
		window = text[idx:end]
	}

	for _, re := range paymentBrands {
		if m := re.FindString(window); m != "" {
			brand = strings.TrimSpace(reCollapseWS.ReplaceAllString(m, " "))
			brand = strings.ReplaceAll(brand, "Master Card", "Mastercard")
			brand = strings.ReplaceAll(brand, "American Express", "Amex")
			break
		}
	}

	if m := reEndingIn.FindStringSubmatch(window); m != nil {
		last4 = m[1]
	} else if m := reEndingIn.FindStringSubmatch(text); m != nil {
		last4 = m[1]
	}
	return brand, last4
}

// paymentDisplay renders the payment field: the masked last-4 when one was
// found, "N/A" otherwise. A brand alone does not identify the instrument on
// file, so it never reaches the display.
func paymentDisplay(last4 string) string {
	if last4 != "" {
		return "****" + last4
	}
	return "N/A"
}

// parseName pulls the customer's first name from the phrase after the
// "Address" label: the first whitespace-delimited token made up solely of
// letters, apostrophes and hyphens.
func parseName(text string) string {
	m := reAddressName.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, tok := range strings.Fields(strings.TrimSpace(m[1])) {
		if reNameToken.MatchString(tok) {
			return tok
		}
	}
	return ""
}
