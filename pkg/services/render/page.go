package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/de-tools/policy-report/pkg/models/domain"
)

const (
	jsonIndent     = "  "
	defaultPayin   = "0.0%"
	nullJSONOutput = "null"
)

// Page is the full set of display regions produced for one report.
type Page struct {
	Results        []ResultRow          `json:"results"`
	Metrics        Metrics              `json:"metrics"`
	FormulaSummary []string             `json:"formula_summary"`
	ExtractedText  string               `json:"extracted_text"`
	FormulaRules   []domain.FormulaRule `json:"formula_rules"`
	ParsedJSON     string               `json:"parsed_json"`
	CalculatedJSON string               `json:"calculated_json"`
	Explanations   []Explanation        `json:"explanations"`
}

type ResultRow struct {
	Segment          string `json:"segment"`
	Location         string `json:"location"`
	PolicyType       string `json:"policy_type"`
	Payin            string `json:"payin"`
	Remark           string `json:"remark"`
	CalculatedPayout string `json:"calculated_payout"`
	FormulaUsed      string `json:"formula_used"`
}

type Metrics struct {
	TotalRecords   int    `json:"total_records"`
	AvgPayin       string `json:"avg_payin"`
	UniqueSegments int    `json:"unique_segments"`
	CompanyName    string `json:"company_name"`
}

type Explanation struct {
	Index            int    `json:"index"`
	Segment          string `json:"segment"`
	Payin            string `json:"payin"`
	CalculatedPayout string `json:"calculated_payout"`
	FormulaUsed      string `json:"formula_used"`
	RuleExplanation  string `json:"rule_explanation"`
}

// Render projects a report onto the display regions. It has no side effects
// and each region is computed independently of the others.
func Render(report *domain.Report) Page {
	if report == nil {
		report = &domain.Report{}
	}

	return Page{
		Results:        resultRows(report.Records),
		Metrics:        metrics(report),
		FormulaSummary: FormulaSummaryLines(report.FormulaSummary),
		ExtractedText:  report.ExtractedText,
		FormulaRules:   report.FormulaRules,
		ParsedJSON:     PrettyJSON(report.ParsedData),
		CalculatedJSON: PrettyJSON(CalculatedJSON(report.Records)),
		Explanations:   explanations(report.Records),
	}
}

func resultRows(records []domain.PolicyRecord) []ResultRow {
	rows := make([]ResultRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, ResultRow{
			Segment:          r.Segment,
			Location:         r.Location,
			PolicyType:       r.PolicyType,
			Payin:            r.Payin,
			Remark:           r.Remark,
			CalculatedPayout: r.CalculatedPayout,
			FormulaUsed:      r.FormulaUsed,
		})
	}
	return rows
}

func metrics(report *domain.Report) Metrics {
	return Metrics{
		TotalRecords:   len(report.Records),
		AvgPayin:       FormatPayin(report.Metrics.AvgPayin),
		UniqueSegments: report.Metrics.UniqueSegments,
		CompanyName:    report.CompanyName,
	}
}

func explanations(records []domain.PolicyRecord) []Explanation {
	out := make([]Explanation, 0, len(records))
	for i, r := range records {
		out = append(out, Explanation{
			Index:            i + 1,
			Segment:          r.Segment,
			Payin:            r.Payin,
			CalculatedPayout: r.CalculatedPayout,
			FormulaUsed:      r.FormulaUsed,
			RuleExplanation:  r.RuleExplanation,
		})
	}
	return out
}

// FormatPayin renders the average payin as a percentage.
func FormatPayin(avg *float64) string {
	if avg == nil {
		return defaultPayin
	}
	return fmt.Sprintf("%.1f%%", *avg)
}

func FormulaSummaryLines(counts []domain.FormulaCount) []string {
	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%s: Applied to %d record(s)", c.Formula, c.Count))
	}
	return lines
}

// CalculatedJSON joins the raw backend records into a JSON array.
func CalculatedJSON(records []domain.PolicyRecord) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		if len(r.Raw) == 0 {
			buf.WriteString(nullJSONOutput)
			continue
		}
		buf.Write(r.Raw)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// PrettyJSON indents raw JSON with two spaces. Absent or undecodable input
// renders as null.
func PrettyJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nullJSONOutput
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", jsonIndent); err != nil {
		return nullJSONOutput
	}
	return buf.String()
}
