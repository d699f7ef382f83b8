// Package rates holds a USD-based exchange-rate table and the
// conversion math between two currency codes. Rates come from a remote
// feed when available, with a static fallback table otherwise.
package rates

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// fallbackRates are the approximate USD-based rates used when the feed
// is unreachable.
var fallbackRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.85,
	"GBP": 0.73,
	"JPY": 110.0,
	"CAD": 1.25,
	"AUD": 1.35,
	"CHF": 0.92,
	"CNY": 6.45,
	"INR": 74.0,
	"BRL": 5.2,
}

// Table is an immutable set of USD-based exchange rates.
type Table struct {
	rates   map[string]float64
	updated time.Time
	// fallback marks a table built from the static rates rather than a
	// live feed.
	fallback bool
}

// Fallback returns the static rate table.
func Fallback() *Table {
	return &Table{rates: fallbackRates, updated: time.Now(), fallback: true}
}

// NewTable builds a table from USD-based rates fetched at the given
// time. Non-positive rates are dropped.
func NewTable(usdRates map[string]float64, updated time.Time) *Table {
	m := make(map[string]float64, len(usdRates))
	for code, r := range usdRates {
		if r > 0 {
			m[strings.ToUpper(code)] = r
		}
	}
	return &Table{rates: m, updated: updated}
}

// Rate returns the USD-based rate for a currency code.
func (t *Table) Rate(code string) (float64, bool) {
	r, ok := t.rates[strings.ToUpper(code)]
	return r, ok
}

// Codes returns the known currency codes sorted ascending.
func (t *Table) Codes() []string {
	out := make([]string, 0, len(t.rates))
	for c := range t.rates {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Updated returns when the table's rates were obtained.
func (t *Table) Updated() time.Time { return t.updated }

// IsFallback reports whether the table holds the static rates.
func (t *Table) IsFallback() bool { return t.fallback }

// Conversion is the outcome of converting an amount between two
// currencies. Rate is expressed as units of To per one unit of From.
type Conversion struct {
	Input  float64
	From   string
	To     string
	Amount float64
	Rate   float64
}

// Convert converts amount from one currency to another through the USD
// pivot. The amount must be positive and the currencies distinct and
// known to the table.
func (t *Table) Convert(amount float64, from, to string) (Conversion, error) {
	if math.IsNaN(amount) || amount <= 0 {
		return Conversion{}, fmt.Errorf("rates: amount must be positive (got %v)", amount)
	}

	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return Conversion{}, fmt.Errorf("rates: source and target currency are both %s", from)
	}

	fromRate, ok := t.rates[from]
	if !ok {
		return Conversion{}, fmt.Errorf("rates: no rate for %s", from)
	}
	toRate, ok := t.rates[to]
	if !ok {
		return Conversion{}, fmt.Errorf("rates: no rate for %s", to)
	}

	usd := amount / fromRate
	return Conversion{
		Input:  amount,
		From:   from,
		To:     to,
		Amount: usd * toRate,
		Rate:   toRate / fromRate,
	}, nil
}

// FormatAmount renders an amount with its currency symbol and the
// locale's digit grouping, e.g. "$1,234.56".
func FormatAmount(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(code))
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.NarrowSymbol(unit.Amount(amount)))
}

// String renders the conversion the way the result panel shows it.
func (c Conversion) String() string {
	return fmt.Sprintf("%s = %s (1 %s = %s)",
		FormatAmount(c.Input, c.From),
		FormatAmount(c.Amount, c.To),
		c.From,
		FormatAmount(c.Rate, c.To),
	)
}
