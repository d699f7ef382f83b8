package shape

import (
	"fmt"
	"strings"

	"datatools/internal/flatten"
	"datatools/internal/table"
)

// Project turns one source record into its tabular rows according to
// the detected shape. Report-notes expand one row per note; every other
// shape yields a single row. idx is the record's 0-based position in
// the overall input.
//
// Projection is tolerant: a record that does not fit its shape's layout
// (e.g. a report-notes record without a usable notes array) falls back
// to the generic projection instead of failing.
func Project(record any, s Shape, opts Options, idx int) ([]*table.Row, error) {
	m, ok := record.(map[string]any)
	if !ok || m == nil {
		return nil, fmt.Errorf("shape: record %d is not an object", idx)
	}

	switch s {
	case Users:
		return []*table.Row{projectUser(m, opts, idx)}, nil
	case Reports:
		return []*table.Row{projectReport(m, opts, idx)}, nil
	case ReportNotes:
		return projectReportNotes(m, opts, idx), nil
	default:
		return []*table.Row{projectGeneric(m, opts, idx)}, nil
	}
}

func projectUser(m map[string]any, opts Options, idx int) *table.Row {
	env := unwrap(m, Users)
	row := table.NewRow()
	addIndex(row, opts, idx)
	addMetadata(row, "User_Path", env, opts)

	u := env.payload
	// uid first, id wins: both map to the same column.
	setStr(row, "User_ID", u["uid"])
	setStr(row, "User_ID", u["id"])
	setStr(row, "Email", u["email"])
	setStr(row, "Display_Name", u["displayName"])
	setStr(row, "Role", u["role"])
	setPresent(row, u, "missionsCompleted", "Missions_Completed")
	setPresent(row, u, "missionsInProgress", "Missions_In_Progress")
	setTimestamp(row, "Created_At", u["createdAt"], opts)
	setTimestamp(row, "Updated_At", u["updatedAt"], opts)

	if stats, ok := u["statistics"].(map[string]any); ok {
		if opts.FlattenStatistics {
			setPresent(row, stats, "flashingIntersections", "Flashing_Intersections")
			setPresent(row, stats, "singleFlashIntersections", "Single_Flash_Intersections")
			setPresent(row, stats, "totalSignalPoles", "Total_Signal_Poles")
			setPresent(row, stats, "totalPedestrianSignals", "Total_Pedestrian_Signals")
			setPresent(row, stats, "threeColorIntersections", "Three_Color_Intersections")
			setPresent(row, stats, "totalControllers", "Total_Controllers")
		} else {
			row.Set("Statistics", jsonCell(stats))
		}
	}
	return row
}

func projectReport(m map[string]any, opts Options, idx int) *table.Row {
	env := unwrap(m, Reports)
	row := table.NewRow()
	addIndex(row, opts, idx)
	addMetadata(row, "Report_Path", env, opts)

	r := env.payload
	setStr(row, "Report_ID", r["id"])
	setStr(row, "Created_By", r["createdBy"])
	setStr(row, "Creator_Display_Name", r["displayName"])
	setStr(row, "Intersection_Name", r["intersectionName"])
	setStr(row, "Intersection_ID", r["intersectionId"])
	setStr(row, "Survey_Date", r["surveyDate"])
	setStr(row, "Inspector_Code", r["inspectorCode"])
	setStr(row, "Status", r["status"])
	setStr(row, "Title", r["title"])
	setStr(row, "Description", r["description"])
	setTimestamp(row, "Created_At", r["createdAt"], opts)
	setTimestamp(row, "Updated_At", r["updatedAt"], opts)

	if answers, ok := r["answers"].([]any); ok {
		row.Set("Answer_Count", len(answers))
		if opts.FlattenStatistics {
			for _, a := range answers {
				am, ok := a.(map[string]any)
				if !ok {
					continue
				}
				qid, _ := am["questionId"].(string)
				if qid == "" {
					continue
				}
				val := am["value"]
				if val == nil {
					val = ""
				}
				row.Set("Answer_"+qid, val)
			}
		} else {
			row.Set("Answers", jsonCell(answers))
		}
	}

	if files, ok := r["files"].([]any); ok {
		row.Set("File_Count", len(files))
	}
	if tags, ok := r["tags"].([]any); ok {
		row.Set("Tags", joinStrings(tags))
	}
	if regions, ok := r["regionIds"].([]any); ok {
		row.Set("Region_IDs", joinStrings(regions))
	}
	return row
}

// projectReportNotes expands one output row per note. Invalid notes are
// skipped; a record with no usable notes falls back to the generic
// projection so the record still surfaces.
func projectReportNotes(m map[string]any, opts Options, idx int) []*table.Row {
	env := unwrap(m, ReportNotes)
	n := env.payload

	notes, ok := n["notes"].([]any)
	if !ok {
		return []*table.Row{projectGeneric(m, opts, idx)}
	}

	var rows []*table.Row
	for noteIdx, raw := range notes {
		note, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		row := table.NewRow()
		addIndex(row, opts, idx)
		row.Set("Note_Index", noteIdx+1)
		addMetadata(row, "Report_Notes_Path", env, opts)

		setStr(row, "Report_ID", n["reportId"])
		setStr(row, "User_ID", n["userId"])
		setTimestamp(row, "Report_Created_At", n["createdAt"], opts)
		setTimestamp(row, "Report_Updated_At", n["updatedAt"], opts)

		setStr(row, "Question_ID", note["questionId"])
		setStr(row, "Note_Text", note["text"])
		setTimestamp(row, "Note_Created_At", note["createdAt"], opts)
		setTimestamp(row, "Note_Updated_At", note["updatedAt"], opts)

		count, size, urls := summarizeImages(note["images"])
		row.Set("Image_Count", count)
		row.Set("Total_Image_Size", size)
		row.Set("Image_URLs", urls)

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return []*table.Row{projectGeneric(m, opts, idx)}
	}
	return rows
}

// summarizeImages reduces a note's image list to count, total byte size
// (non-numeric sizes count as zero) and a "; "-joined URL list
// preferring url over preview.
func summarizeImages(v any) (count int, size float64, urls string) {
	images, ok := v.([]any)
	if !ok {
		return 0, 0, ""
	}

	var parts []string
	for _, raw := range images {
		img, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := asFloat(img["size"]); ok {
			size += n
		}
		u, _ := img["url"].(string)
		if u == "" {
			u, _ = img["preview"].(string)
		}
		if u != "" {
			parts = append(parts, u)
		}
	}
	return len(images), size, strings.Join(parts, "; ")
}

// projectGeneric carries metadata plus a full recursive flatten of the
// payload under no prefix.
func projectGeneric(m map[string]any, opts Options, idx int) *table.Row {
	row := table.NewRow()
	addIndex(row, opts, idx)

	if opts.IncludeMetadata {
		if path, ok := m["path"].(string); ok && path != "" {
			row.Set("Path", path)
		}
		if rt := m["readTime"]; rt != nil {
			row.Set("Read_Time", formatTimestamp(rt, opts.FormatTimestamps))
		}
	}

	payload := m
	if data, ok := m["data"].(map[string]any); ok {
		payload = data
	}
	flatten.Flatten(payload, "", flatten.Options{
		FlattenNested:    opts.FlattenStatistics,
		IncludeEmptyRows: true,
		ConvertDates:     opts.FormatTimestamps,
	}, row)
	return row
}

func addIndex(row *table.Row, opts Options, idx int) {
	if opts.MultiRecord {
		row.Set("Record_Index", idx+1)
	}
}

func addMetadata(row *table.Row, pathCol string, env envelope, opts Options) {
	if !opts.IncludeMetadata {
		return
	}
	row.Set(pathCol, env.path)
	if env.readTime != nil {
		row.Set("Read_Time", formatTimestamp(env.readTime, opts.FormatTimestamps))
	}
}

// setStr stores a non-empty string field.
func setStr(row *table.Row, col string, v any) {
	if s, ok := v.(string); ok && s != "" {
		row.Set(col, s)
	}
}

// setPresent stores a field whenever the source map carries it, numeric
// zero included.
func setPresent(row *table.Row, m map[string]any, key, col string) {
	if v, ok := m[key]; ok && v != nil {
		row.Set(col, v)
	}
}

func setTimestamp(row *table.Row, col string, v any, opts Options) {
	if v == nil {
		return
	}
	row.Set(col, formatTimestamp(v, opts.FormatTimestamps))
}

func joinStrings(arr []any) string {
	parts := make([]string, 0, len(arr))
	for _, v := range arr {
		parts = append(parts, table.CellString(v))
	}
	return strings.Join(parts, ", ")
}
