package domain

import "encoding/json"

const (
	NotAvailable = "N/A"
)

// Report is the decoded result of one processing request.
type Report struct {
	CompanyName    string
	Records        []PolicyRecord
	Metrics        Metrics
	FormulaSummary []FormulaCount
	FormulaRules   []FormulaRule
	ExtractedText  string
	ParsedData     json.RawMessage
	ExcelData      string
	// CSVData is nil when the backend sent no CSV. An empty string is a valid,
	// empty download.
	CSVData *string
}

// PolicyRecord is one calculated policy row. Absent fields already carry
// their display fallback.
type PolicyRecord struct {
	Segment          string
	Location         string
	PolicyType       string
	Payin            string
	Remark           string
	CalculatedPayout string
	FormulaUsed      string
	RuleExplanation  string

	// Raw is the record exactly as the backend sent it.
	Raw json.RawMessage
}

type Metrics struct {
	TotalRecords   int
	AvgPayin       *float64
	UniqueSegments int
}

type FormulaCount struct {
	Formula string
	Count   int
}

type FormulaRule struct {
	LOB     string `json:"lob"`
	Segment string `json:"segment"`
	Insurer string `json:"insurer"`
	PO      string `json:"po"`
	Remarks string `json:"remarks"`
}
