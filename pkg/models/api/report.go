package api

import "encoding/json"

// ReportResponse is the body returned by the policy processing backend.
// Summary metrics are accepted both at the top level and nested under "metrics".
// Decoding is lenient, see UnmarshalJSON.
type ReportResponse struct {
	CalculatedData []json.RawMessage `json:"calculated_data"`
	AvgPayin       *float64          `json:"avg_payin,omitempty"`
	UniqueSegments *int              `json:"unique_segments,omitempty"`
	FormulaSummary map[string]int    `json:"formula_summary,omitempty"`
	Metrics        *ReportMetrics    `json:"metrics,omitempty"`
	ExtractedText  string            `json:"extracted_text"`
	FormulaData    []json.RawMessage `json:"formula_data"`
	ParsedData     json.RawMessage   `json:"parsed_data,omitempty"`
	ExcelData      string            `json:"excel_data"`
	// CSVData is nil when the backend sent no csv_data at all.
	CSVData  *string `json:"csv_data,omitempty"`
	JSONData string  `json:"json_data,omitempty"`
	Error    string  `json:"error,omitempty"`
}

type ReportMetrics struct {
	TotalRecords   *int           `json:"total_records,omitempty"`
	AvgPayin       *float64       `json:"avg_payin,omitempty"`
	UniqueSegments *int           `json:"unique_segments,omitempty"`
	CompanyName    string         `json:"company_name,omitempty"`
	FormulaSummary map[string]int `json:"formula_summary,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
