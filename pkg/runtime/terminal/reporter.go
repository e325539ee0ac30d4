package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/policy-report/pkg/services/render"
)

// PageReporter prints a rendered page, either whole or a single panel.
type PageReporter interface {
	Handle(page *render.Page, tab render.Tab) error
}

const panelsTemplate = `
{{define "results"}}
=== Results ===
{{range .Results}}
- {{.Segment}} | {{.Location}} | {{.PolicyType}} | payin {{.Payin}} | payout {{.CalculatedPayout}} | {{.FormulaUsed}}{{if .Remark}}
  remark: {{.Remark}}{{end}}
{{else}}
(no records)
{{end}}{{end}}
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
=== Formula Rules ===
{{range .FormulaRules}}- {{.LOB}} | {{.Segment}} | {{.Insurer}} | {{.PO}} | {{.Remarks}}
{{end}}{{end}}
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

// Reporter outputs pages to the console in a formatted text form
type Reporter struct {
	writer io.Writer
	tmpl   *template.Template
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		tmpl:   template.Must(template.New("page").Parse(panelsTemplate)),
	}
}

// Handle prints the panel for tab, or every panel when tab is empty.
func (c *Reporter) Handle(page *render.Page, tab render.Tab) error {
	return executePanels(c.tmpl, c.writer, page, tab)
}

func executePanels(tmpl *template.Template, w io.Writer, page *render.Page, tab render.Tab) error {
	tabs := render.AllTabs()
	if tab != "" {
		tabs = []render.Tab{tab}
	}
	for _, t := range tabs {
		if err := tmpl.ExecuteTemplate(w, string(t), page); err != nil {
			return fmt.Errorf("failed to render %s panel: %w", t, err)
		}
	}
	return nil
}
