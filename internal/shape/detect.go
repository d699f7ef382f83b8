package shape

import "strings"

// Detect classifies a record into a Shape. It never fails: malformed or
// non-object input yields Unknown.
//
// Canonical precedence (the source carried two detector variants that
// disagreed on ambiguous records; this order is the one implemented):
//
//  1. Envelope path prefix, checked report-notes/ -> reports/ -> users/.
//  2. Structural field combinations on the unwrapped payload, checked
//     users -> reports -> report-notes. No id/uid field is required,
//     so enveloped payloads lacking an id still classify.
//  3. Otherwise Unknown.
func Detect(record any) Shape {
	m, ok := record.(map[string]any)
	if !ok || m == nil {
		return Unknown
	}

	if path, ok := m["path"].(string); ok {
		switch {
		case strings.HasPrefix(path, "report-notes/"):
			return ReportNotes
		case strings.HasPrefix(path, "reports/"):
			return Reports
		case strings.HasPrefix(path, "users/"):
			return Users
		}
	}

	payload := m
	if data, ok := m["data"].(map[string]any); ok {
		payload = data
	}

	switch {
	case has(payload, "email") && has(payload, "role") && has(payload, "statistics"):
		return Users
	case has(payload, "intersectionName") && has(payload, "answers") && has(payload, "createdBy"):
		return Reports
	case has(payload, "reportId") && has(payload, "userId") && has(payload, "notes"):
		return ReportNotes
	default:
		return Unknown
	}
}
