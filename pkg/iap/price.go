package iap

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatDisplayPrice renders a localized price string for records whose
// native payload omitted one. Native-provided display prices always win
// over this fallback because the storefront formats them for the user's
// own locale; this formatter defaults to English formatting.
func FormatDisplayPrice(amount float64, currencyCode string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return ""
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.NarrowSymbol(unit.Amount(amount)))
}
