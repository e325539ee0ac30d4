package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	avg := 12.345
	return &domain.Report{
		CompanyName: "Acme",
		Records: []domain.PolicyRecord{
			{
				Segment: "Motor", Location: "Delhi", PolicyType: "Comp", Payin: "12%",
				Remark: "", CalculatedPayout: "10%", FormulaUsed: "-2%", RuleExplanation: "LOB rule",
				Raw: json.RawMessage(`{"segment":"Motor"}`),
			},
			{
				Segment: "TW", Location: domain.NotAvailable, PolicyType: domain.NotAvailable,
				Payin: domain.NotAvailable, CalculatedPayout: domain.NotAvailable,
				FormulaUsed: domain.NotAvailable, RuleExplanation: domain.NotAvailable,
				Raw: json.RawMessage(`{"segment":"TW"}`),
			},
		},
		Metrics: domain.Metrics{TotalRecords: 2, AvgPayin: &avg, UniqueSegments: 2},
		FormulaSummary: []domain.FormulaCount{
			{Formula: "-2%", Count: 1},
			{Formula: "90% of Payin", Count: 3},
		},
		FormulaRules:  []domain.FormulaRule{{LOB: "Motor", PO: "-2%"}},
		ExtractedText: "raw text",
		ParsedData:    json.RawMessage(`{"a":1}`),
	}
}

func TestRender(t *testing.T) {
	page := Render(sampleReport())

	require.Len(t, page.Results, 2)
	assert.Equal(t, ResultRow{
		Segment: "Motor", Location: "Delhi", PolicyType: "Comp", Payin: "12%",
		CalculatedPayout: "10%", FormulaUsed: "-2%",
	}, page.Results[0])
	assert.Equal(t, domain.NotAvailable, page.Results[1].Location)

	assert.Equal(t, Metrics{
		TotalRecords:   2,
		AvgPayin:       "12.3%",
		UniqueSegments: 2,
		CompanyName:    "Acme",
	}, page.Metrics)

	assert.Equal(t, []string{
		"-2%: Applied to 1 record(s)",
		"90% of Payin: Applied to 3 record(s)",
	}, page.FormulaSummary)

	assert.Equal(t, "raw text", page.ExtractedText)
	assert.Equal(t, "{\n  \"a\": 1\n}", page.ParsedJSON)
	assert.Equal(t, "[\n  {\n    \"segment\": \"Motor\"\n  },\n  {\n    \"segment\": \"TW\"\n  }\n]", page.CalculatedJSON)

	require.Len(t, page.Explanations, 2)
	assert.Equal(t, Explanation{
		Index: 1, Segment: "Motor", Payin: "12%", CalculatedPayout: "10%",
		FormulaUsed: "-2%", RuleExplanation: "LOB rule",
	}, page.Explanations[0])
	assert.Equal(t, 2, page.Explanations[1].Index)
}

func TestRender_EmptyReport(t *testing.T) {
	for _, report := range []*domain.Report{nil, {}} {
		page := Render(report)

		assert.Empty(t, page.Results)
		assert.NotNil(t, page.Results)
		assert.Equal(t, 0, page.Metrics.TotalRecords)
		assert.Equal(t, "0.0%", page.Metrics.AvgPayin)
		assert.Empty(t, page.FormulaSummary)
		assert.Equal(t, "null", page.ParsedJSON)
		assert.Equal(t, "[]", page.CalculatedJSON)
		assert.Empty(t, page.ExtractedText)
	}
}

func TestFormatPayin(t *testing.T) {
	v := 7.0
	assert.Equal(t, "7.0%", FormatPayin(&v))
	assert.Equal(t, "0.0%", FormatPayin(nil))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "null", PrettyJSON(nil))
	assert.Equal(t, "null", PrettyJSON(json.RawMessage("  ")))
	assert.Equal(t, "null", PrettyJSON(json.RawMessage("{broken")))
	assert.Equal(t, "[\n  1,\n  2\n]", PrettyJSON(json.RawMessage("[1,2]")))
}

func TestCalculatedJSON_MissingRaw(t *testing.T) {
	raw := CalculatedJSON([]domain.PolicyRecord{{}, {Raw: json.RawMessage(`{"x":1}`)}})
	assert.JSONEq(t, `[null,{"x":1}]`, string(raw))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(Render(sampleReport()), &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWritePDF_EmptyPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(Render(nil), &buf))
	assert.NotZero(t, buf.Len())
}
