package render

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 297.0
	marginLeft   = 10.0
	marginRight  = 10.0
	marginTop    = 12.0
	marginBottom = 15.0
	contentWidth = pageWidth - marginLeft - marginRight
)

var resultHeaders = []string{
	"Segment", "Location", "Policy Type", "Payin", "Remark", "Calculated Payout", "Formula Used",
}

var resultWidths = []float64{48, 38, 24, 20, 60, 30, 57}

type pdfPrinter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// WritePDF writes a landscape print view of the results table, metrics and
// formula summary.
func WritePDF(page Page, w io.Writer) error {
	p := &pdfPrinter{pdf: fpdf.New("L", "mm", "A4", "")}
	// core fonts are cp1252; translate UTF-8 input
	p.tr = p.pdf.UnicodeTranslatorFromDescriptor("")

	p.pdf.SetMargins(marginLeft, marginTop, marginRight)
	p.pdf.SetAutoPageBreak(true, marginBottom)
	p.pdf.AddPage()

	p.drawTitle(page.Metrics)
	p.drawSectionHeader("Metrics")
	p.drawMetrics(page.Metrics)

	p.drawSectionHeader("Processed Policies")
	p.drawTableHeader(resultHeaders, resultWidths)
	for _, row := range page.Results {
		p.drawTableRow([]string{
			row.Segment, row.Location, row.PolicyType, row.Payin,
			row.Remark, row.CalculatedPayout, row.FormulaUsed,
		}, resultWidths)
	}

	if len(page.FormulaSummary) > 0 {
		p.pdf.Ln(4)
		p.drawSectionHeader("Formula Summary")
		p.pdf.SetFont("Arial", "", 10)
		for _, line := range page.FormulaSummary {
			p.pdf.CellFormat(contentWidth, 6, p.tr(line), "", 1, "L", false, 0, "")
		}
	}

	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func (p *pdfPrinter) drawTitle(m Metrics) {
	title := "Policy Report"
	if m.CompanyName != "" {
		title = fmt.Sprintf("%s - Policy Report", m.CompanyName)
	}
	p.pdf.SetFont("Arial", "B", 18)
	p.pdf.SetTextColor(0, 51, 102)
	p.pdf.CellFormat(contentWidth, 10, p.tr(title), "", 1, "C", false, 0, "")

	p.pdf.SetFont("Arial", "I", 9)
	p.pdf.SetTextColor(80, 80, 80)
	p.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")),
		"", 1, "C", false, 0, "")
	p.pdf.Ln(4)
}

func (p *pdfPrinter) drawMetrics(m Metrics) {
	p.pdf.SetFont("Arial", "", 10)
	p.pdf.SetTextColor(50, 50, 50)
	lines := []string{
		fmt.Sprintf("Total Records: %d", m.TotalRecords),
		fmt.Sprintf("Average Payin: %s", m.AvgPayin),
		fmt.Sprintf("Unique Segments: %d", m.UniqueSegments),
		fmt.Sprintf("Company: %s", m.CompanyName),
	}
	for _, line := range lines {
		p.pdf.CellFormat(contentWidth, 6, p.tr(line), "", 1, "L", false, 0, "")
	}
	p.pdf.Ln(3)
}

func (p *pdfPrinter) drawSectionHeader(title string) {
	p.pdf.SetFont("Arial", "B", 13)
	p.pdf.SetTextColor(0, 51, 102)
	p.pdf.CellFormat(contentWidth, 8, p.tr(title), "", 1, "L", false, 0, "")
	p.pdf.SetDrawColor(0, 51, 102)
	p.pdf.Line(marginLeft, p.pdf.GetY(), marginLeft+contentWidth, p.pdf.GetY())
	p.pdf.Ln(3)
}

func (p *pdfPrinter) drawTableHeader(headers []string, widths []float64) {
	p.pdf.SetFillColor(0, 51, 102)
	p.pdf.SetTextColor(255, 255, 255)
	p.pdf.SetFont("Arial", "B", 8)

	for i, header := range headers {
		p.pdf.CellFormat(widths[i], 6, header, "1", 0, "L", true, 0, "")
	}
	p.pdf.Ln(-1)
}

func (p *pdfPrinter) drawTableRow(cells []string, widths []float64) {
	p.pdf.SetFillColor(250, 250, 250)
	p.pdf.SetTextColor(50, 50, 50)
	p.pdf.SetFont("Arial", "", 8)

	for i, cell := range cells {
		text := truncate(p.tr(cell), widths[i], p.pdf)
		p.pdf.CellFormat(widths[i], 5, text, "1", 0, "L", true, 0, "")
	}
	p.pdf.Ln(-1)
}

// truncate shortens s until it fits in width, leaving room for the cell padding.
// s is already in the single-byte font encoding, so it is cut by bytes.
func truncate(s string, width float64, pdf *fpdf.Fpdf) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}
