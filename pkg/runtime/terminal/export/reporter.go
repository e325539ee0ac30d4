package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/policy-report/pkg/services/render"
)

type TableConfig struct {
	SegmentWidth    int
	LocationWidth   int
	PolicyTypeWidth int
	PayinWidth      int
	RemarkWidth     int
	PayoutWidth     int
	FormulaWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		SegmentWidth:    26,
		LocationWidth:   20,
		PolicyTypeWidth: 11,
		PayinWidth:      8,
		RemarkWidth:     24,
		PayoutWidth:     8,
		FormulaWidth:    24,
	}
}

func (c TableConfig) widths() []int {
	return []int{
		c.SegmentWidth, c.LocationWidth, c.PolicyTypeWidth, c.PayinWidth,
		c.RemarkWidth, c.PayoutWidth, c.FormulaWidth,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
	tmpl   *template.Template
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	r := &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
	r.tmpl = template.Must(template.New("page").Funcs(r.funcMap()).Parse(tableTemplate))
	return r
}

func (c *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(cells ...string) string {
			return formatRow(c.config.widths(), cells)
		},
		"separator": func() string {
			return separator(c.config.widths())
		},
		"formatRule": func(cells ...string) string {
			return formatRow([]int{10, 28, 12, 14, 20}, cells)
		},
		"ruleSeparator": func() string {
			return separator([]int{10, 28, 12, 14, 20})
		},
	}
}

const tableTemplate = `
{{define "results"}}
=== Results ===

{{separator}}
{{formatRow "Segment" "Location" "Policy Type" "Payin" "Remark" "Payout" "Formula Used"}}
{{separator}}
{{range .Results}}{{formatRow .Segment .Location .PolicyType .Payin .Remark .CalculatedPayout .FormulaUsed}}
{{end}}{{separator}}
{{end}}
{{define "metrics"}}
=== Metrics ===
Total Records: {{.Metrics.TotalRecords}}
Average Payin: {{.Metrics.AvgPayin}}
Unique Segments: {{.Metrics.UniqueSegments}}
Company: {{.Metrics.CompanyName}}
{{end}}
{{define "formulas"}}
=== Formula Summary ===
{{range .FormulaSummary}}{{.}}
{{end}}
{{ruleSeparator}}
{{formatRule "LOB" "Segment" "Insurer" "PO" "Remarks"}}
{{ruleSeparator}}
{{range .FormulaRules}}{{formatRule .LOB .Segment .Insurer .PO .Remarks}}
{{end}}{{ruleSeparator}}
{{end}}
{{define "extracted"}}
=== Extracted Text ===
{{.ExtractedText}}
{{end}}
{{define "parsed"}}
=== Parsed Data ===
{{.ParsedJSON}}
{{end}}
{{define "calculated"}}
=== Calculated Data ===
{{.CalculatedJSON}}
{{end}}
{{define "explanations"}}
=== Rule Explanations ===
{{range .Explanations}}
Record {{.Index}}: {{.Segment}}
  Payin: {{.Payin}}
  Calculated Payout: {{.CalculatedPayout}}
  Formula Used: {{.FormulaUsed}}
  Explanation: {{.RuleExplanation}}
{{end}}{{end}}`

func (c *Reporter) Handle(page *render.Page, tab render.Tab) error {
	tabs := render.AllTabs()
	if tab != "" {
		tabs = []render.Tab{tab}
	}
	for _, t := range tabs {
		if err := c.tmpl.ExecuteTemplate(c.writer, string(t), page); err != nil {
			return fmt.Errorf("failed to render %s panel: %w", t, err)
		}
	}
	return nil
}

func formatRow(widths []int, cells []string) string {
	var b strings.Builder
	b.WriteString("|")
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = fit(cells[i], w)
		}
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(cell)))
		b.WriteString(" |")
	}
	return b.String()
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteString("+")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("+")
	}
	return b.String()
}

// fit cuts s to width runes, marking the cut with "~".
func fit(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "~"
}
