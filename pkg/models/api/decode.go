package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnmarshalJSON requires a JSON object but never fails on a field. A value of
// the wrong type is dropped as if the backend had not sent it, so one odd
// metric cannot hide the records or the error message.
func (r *ReportResponse) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("report response is not a JSON object: %w", err)
	}

	*r = ReportResponse{
		Error:          decodeMessage(fields["error"]),
		CalculatedData: decodeArray(fields["calculated_data"]),
		AvgPayin:       decodeFloat(fields["avg_payin"]),
		UniqueSegments: decodeInt(fields["unique_segments"]),
		FormulaSummary: decodeCounts(fields["formula_summary"]),
		Metrics:        decodeMetrics(fields["metrics"]),
		ExtractedText:  decodeString(fields["extracted_text"]),
		FormulaData:    decodeArray(fields["formula_data"]),
		ParsedData:     decodeRaw(fields["parsed_data"]),
		ExcelData:      decodeString(fields["excel_data"]),
		JSONData:       decodeString(fields["json_data"]),
	}
	if s, ok := stringValue(fields["csv_data"]); ok {
		r.CSVData = &s
	}
	return nil
}

func (m *ReportMetrics) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("metrics is not a JSON object: %w", err)
	}

	*m = ReportMetrics{
		TotalRecords:   decodeInt(fields["total_records"]),
		AvgPayin:       decodeFloat(fields["avg_payin"]),
		UniqueSegments: decodeInt(fields["unique_segments"]),
		CompanyName:    decodeString(fields["company_name"]),
		FormulaSummary: decodeCounts(fields["formula_summary"]),
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func stringValue(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeString(raw json.RawMessage) string {
	s, _ := stringValue(raw)
	return s
}

// decodeMessage keeps a non-string error value as its JSON text.
func decodeMessage(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	if s, ok := stringValue(raw); ok {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	return buf.String()
}

func decodeRaw(raw json.RawMessage) json.RawMessage {
	if isNull(raw) {
		return nil
	}
	return raw
}

func decodeArray(raw json.RawMessage) []json.RawMessage {
	if isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// decodeFloat accepts a JSON number or a numeric string such as "12.5" or "12.5%".
func decodeFloat(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if f, err := n.Float64(); err == nil {
			return &f
		}
	}
	s, ok := stringValue(raw)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// decodeInt accepts integral values only, so 3.0 is 3 and 3.5 is dropped.
func decodeInt(raw json.RawMessage) *int {
	f := decodeFloat(raw)
	if f == nil || *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt32 {
		return nil
	}
	i := int(*f)
	return &i
}

func decodeCounts(raw json.RawMessage) map[string]int {
	if isNull(raw) {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	counts := make(map[string]int, len(fields))
	for name, v := range fields {
		if n := decodeInt(v); n != nil {
			counts[name] = *n
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}

func decodeMetrics(raw json.RawMessage) *ReportMetrics {
	if isNull(raw) {
		return nil
	}
	var m ReportMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return &m
}
