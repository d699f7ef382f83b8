package table

import "fmt"

// ItemError records a failure isolated to one input item of a batch.
type ItemError struct {
	Index int // 0-based position in the source collection
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// BatchOutcome accumulates the per-item results of building a table:
// how many items projected successfully and which ones failed. Item
// failures never abort the batch; the caller surfaces the counts as a
// completion summary.
type BatchOutcome struct {
	Processed int
	Errors    []ItemError
}

// Record notes one successfully processed item.
func (b *BatchOutcome) Record() { b.Processed++ }

// Fail notes one failed item.
func (b *BatchOutcome) Fail(index int, err error) {
	b.Errors = append(b.Errors, ItemError{Index: index, Err: err})
}

// ErrorCount returns the number of failed items.
func (b *BatchOutcome) ErrorCount() int { return len(b.Errors) }

// Summary renders the completion line shown after a conversion.
func (b *BatchOutcome) Summary() string {
	if len(b.Errors) == 0 {
		return fmt.Sprintf("processed %d records", b.Processed)
	}
	return fmt.Sprintf("processed %d records, %d errors", b.Processed, len(b.Errors))
}
