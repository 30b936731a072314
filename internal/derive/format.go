package derive

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatMarketCap abbreviates a market capitalization: billions as "B",
// millions as "MM" and thousands as "M", each with three decimals. Smaller
// values are returned as is.
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.3f B", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.3f MM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.3f M", v/1e3)
	default:
		return formatNumber(v)
	}
}

// FormatFullDate turns an ISO timestamp such as "2022-03-05T00:00:00.000Z"
// into "March 05, 2022". Only the date part is read.
func FormatFullDate(raw string) (string, error) {
	date, _, _ := strings.Cut(raw, "T")
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", fmt.Errorf("invalid publish date %q: %w", raw, err)
	}
	return t.Format("January 02, 2006"), nil
}

// PurchaseReturn is the percent change from purchase to price, or 0 when
// there is no purchase price.
func PurchaseReturn(price, purchase float64) float64 {
	if purchase == 0 {
		return 0
	}
	return (price - purchase) / purchase * 100
}

// shortDate formats t as "Jan 15th, 2024".
func shortDate(t time.Time) string {
	return fmt.Sprintf("%s %s, %d", t.Format("Jan"), humanize.Ordinal(t.Day()), t.Year())
}

// titleCase splits s into words on anything that is not a letter or digit
// and capitalizes each word: "ELECTRONIC COMPUTERS" becomes
// "Electronic Computers".
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
