package flatten

import (
	"errors"
	"fmt"

	"datatools/internal/table"
)

// ErrNoData is returned when the input holds no records to flatten.
var ErrNoData = errors.New("flatten: no valid data found to process")

// Table flattens a decoded JSON input (object or array of objects) into
// a generic table whose header is the sorted union of all row keys.
// An empty array is a terminal ErrNoData; non-object array elements are
// rejected up front. The caller validates JSON well-formedness before
// this point.
func Table(input any, opts Options) (*table.Table, error) {
	tbl := table.New(table.SortedUnion)

	switch v := input.(type) {
	case []any:
		if len(v) == 0 {
			return nil, ErrNoData
		}
		for i, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("flatten: element %d is not an object", i)
			}
			tbl.Append(Record(obj, opts, i))
		}
	case map[string]any:
		tbl.Append(Record(v, opts, 0))
	default:
		return nil, fmt.Errorf("flatten: input must be an object or array of objects")
	}

	return tbl, nil
}
