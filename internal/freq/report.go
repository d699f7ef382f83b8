package freq

import (
	"fmt"
	"strings"
)

// Report renders the spreadsheet-paste block: tab-separated
// Item/Count/Percentage lines followed by total and unique summary
// lines. Percentages carry two decimals (export precision).
func (r Result) Report() string {
	var b strings.Builder
	b.WriteString("Item\tCount\tPercentage\n")

	for _, e := range r.Sorted() {
		fmt.Fprintf(&b, "%s\t%d\t%s%%\n", e.Token, e.Count, r.Percent(e.Count, 2))
	}

	fmt.Fprintf(&b, "\nTotal Items\t%d\t100%%\n", r.Total())
	fmt.Fprintf(&b, "Unique Items\t%d\t%s%%\n", r.Unique(), r.Percent(r.Unique(), 2))
	return b.String()
}

// VerificationReport renders the audit artifact: header stats, a
// per-token PASS/FAIL table comparing stored counts against a manual
// recount, and the raw token sequence for hand-checking.
func (r Result) VerificationReport() string {
	mismatches := r.Verify()
	status := "PASSED"
	if len(mismatches) > 0 {
		status = "FAILED"
	}

	var b strings.Builder
	b.WriteString("VERIFICATION REPORT\n")
	b.WriteString("==================\n\n")
	fmt.Fprintf(&b, "Original Items Count: %d\n", r.Total())
	fmt.Fprintf(&b, "Parsed Items Count: %d\n", r.Total())
	fmt.Fprintf(&b, "Verification Status: %s\n\n", status)

	b.WriteString("FREQUENCY ANALYSIS:\n")
	b.WriteString("Item\tAlgorithm Count\tManual Count\tStatus\n")
	b.WriteString("----\t---------------\t-------------\t------\n")

	bad := make(map[string]Mismatch, len(mismatches))
	for _, m := range mismatches {
		bad[m.Token] = m
	}
	for _, e := range r.Sorted() {
		manual := e.Count
		result := "PASS"
		if m, ok := bad[e.Token]; ok {
			manual = m.Manual
			result = "FAIL"
		}
		fmt.Fprintf(&b, "%s\t%d\t%d\t%s\n", e.Token, e.Count, manual, result)
	}

	b.WriteString("\nRAW DATA:\n")
	b.WriteString("Parsed Items:\n")
	for i, it := range r.Items {
		fmt.Fprintf(&b, "%d. %q\n", i+1, it)
	}
	return b.String()
}
