// Package freq tokenizes free text and counts token frequency.
//
// Tokens are whitespace-delimited units, counted case-sensitively with
// no normalization. The sort contract consumers rely on: descending by
// count, ties broken by ascending locale-aware comparison of the token
// string, stable and deterministic for equal inputs.
package freq

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Result holds the counted tokens of one analysis call. The original
// token sequence is retained for verification.
type Result struct {
	Items  []string
	Counts map[string]int
}

// Entry is one token with its occurrence count.
type Entry struct {
	Token string
	Count int
}

// Count splits text on runs of whitespace and counts each distinct
// token. Empty or whitespace-only input yields an empty result, not an
// error.
func Count(text string) Result {
	items := strings.Fields(text)
	counts := make(map[string]int, len(items))
	for _, it := range items {
		counts[it]++
	}
	return Result{Items: items, Counts: counts}
}

// Total returns the token sequence length (equals the sum of counts).
func (r Result) Total() int { return len(r.Items) }

// Unique returns the number of distinct tokens.
func (r Result) Unique() int { return len(r.Counts) }

// Sorted returns the entries under the sort contract: count descending,
// ties ascending by collated token comparison, with byte order as the
// final tie-break for tokens the collator cannot distinguish. The
// collation is pinned to the language-neutral root collator so the
// order does not depend on the host locale.
func (r Result) Sorted() []Entry {
	entries := make([]Entry, 0, len(r.Counts))
	for tok, n := range r.Counts {
		entries = append(entries, Entry{Token: tok, Count: n})
	}

	c := collate.New(language.Und)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		if r := c.CompareString(entries[i].Token, entries[j].Token); r != 0 {
			return r < 0
		}
		// Distinct tokens the collator treats as equal (ignorable
		// code points) still need a total order; byte order breaks
		// the tie so the slice never inherits map iteration order.
		return entries[i].Token < entries[j].Token
	})
	return entries
}

// Percent returns a token count as a percentage of the total, rendered
// with the given number of decimal places (1 for display, 2 for
// export). A zero total renders as "0".
func (r Result) Percent(count, decimals int) string {
	if r.Total() == 0 {
		return "0"
	}
	return fmt.Sprintf("%.*f", decimals, float64(count)/float64(r.Total())*100)
}

// Mismatch reports one token whose stored count disagrees with a linear
// recount of the token sequence. A correct counting step never produces
// mismatches; this is a self-check, not a second algorithm.
type Mismatch struct {
	Token  string
	Stored int
	Manual int
}

// Verify independently recounts every token by scanning the original
// sequence and returns any disagreements.
func (r Result) Verify() []Mismatch {
	var out []Mismatch
	for _, e := range r.Sorted() {
		manual := 0
		for _, it := range r.Items {
			if it == e.Token {
				manual++
			}
		}
		if manual != e.Count {
			out = append(out, Mismatch{Token: e.Token, Stored: e.Count, Manual: manual})
		}
	}
	return out
}

// Positions returns the 1-based positions of token in the original
// sequence.
func (r Result) Positions(token string) []int {
	var out []int
	for i, it := range r.Items {
		if it == token {
			out = append(out, i+1)
		}
	}
	return out
}
