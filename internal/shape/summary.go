package shape

import (
	"fmt"
	"time"

	"datatools/internal/table"
)

// Tallies counts records per detected shape during a conversion.
type Tallies struct {
	Users       int
	Reports     int
	ReportNotes int
	Unknown     int
}

// Add counts one record of shape s.
func (t *Tallies) Add(s Shape) {
	switch s {
	case Users:
		t.Users++
	case Reports:
		t.Reports++
	case ReportNotes:
		t.ReportNotes++
	default:
		t.Unknown++
	}
}

// summedFields is the fixed list of numeric columns totaled into the
// summary row.
var summedFields = []string{
	"Missions_Completed",
	"Missions_In_Progress",
	"Flashing_Intersections",
	"Single_Flash_Intersections",
	"Total_Signal_Poles",
	"Total_Pedestrian_Signals",
	"Three_Color_Intersections",
	"Total_Controllers",
	"Image_Count",
	"Total_Image_Size",
	"Answer_Count",
	"File_Count",
}

// now is a test seam for the summary row's processing-time column.
var now = time.Now

// Summarize reduces projected rows into one totals row with the
// SUMMARY sentinel identity. Each summed field appears only when its
// total is nonzero or at least one row defined it; per-shape counts
// appear only when positive. Summary construction is non-fatal for the
// caller: on error the table simply proceeds without a summary row.
func Summarize(rows []*table.Row, tallies Tallies) (*table.Row, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("shape: nothing to summarize")
	}

	row := table.NewRow()
	row.Set("Record_Index", table.SummaryIndex)
	row.Set("User_Path", table.SummaryPath)

	for _, field := range summedFields {
		total := 0.0
		defined := false
		for _, r := range rows {
			v, ok := r.Get(field)
			if !ok {
				continue
			}
			defined = true
			if n, ok := asFloat(v); ok {
				total += n
			}
		}
		if total > 0 || defined {
			row.Set(field, total)
		}
	}

	if tallies.Users > 0 {
		row.Set("User_Records", tallies.Users)
	}
	if tallies.Reports > 0 {
		row.Set("Report_Records", tallies.Reports)
	}
	if tallies.ReportNotes > 0 {
		row.Set("Note_Records", tallies.ReportNotes)
	}
	if tallies.Unknown > 0 {
		row.Set("Unknown_Records", tallies.Unknown)
	}

	row.Set("Total_Records", len(rows))
	row.Set("Processing_Time", now().Format("3:04:05 PM"))
	return row, nil
}
