package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 14.0
	pdfTitleY     = 15.0
	pdfTableY     = 20.0
	pdfRowHeight  = 7.0
	pdfFontSize   = 9.0
	pdfTitleSize  = 16.0
	pdfCellPad    = 2.0
	pdfFontFamily = "Helvetica"
)

// Title and header colour (dark slate) used by the console's printed listings.
var headerRGB = [3]int{44, 62, 80}

// WritePDF renders table as an A4 portrait document with a centred title and
// a grid whose header row is filled and set in white.
func WritePDF(w io.Writer, table Table) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfTableY, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin

	pdf.AddPage()
	pdf.SetTextColor(headerRGB[0], headerRGB[1], headerRGB[2])
	pdf.SetFont(pdfFontFamily, "B", pdfTitleSize)
	pdf.SetXY(pdfMargin, pdfTitleY-6)
	pdf.CellFormat(usable, 8, tr(table.Title), "", 1, "C", false, 0, "")

	pdf.SetY(pdfTableY)
	widths := columnWidths(pdf, tr, table, usable)
	drawHeader(pdf, tr, table.Headers, widths)

	pdf.SetFont(pdfFontFamily, "", pdfFontSize)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range table.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			pdf.SetY(pdfTableY)
			drawHeader(pdf, tr, table.Headers, widths)
			pdf.SetFont(pdfFontFamily, "", pdfFontSize)
			pdf.SetTextColor(0, 0, 0)
		}
		for i, width := range widths {
			text := ""
			if i < len(row) {
				text = fit(pdf, tr(row[i].Text), width-pdfCellPad)
			}
			pdf.CellFormat(width, pdfRowHeight, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, headers []string, widths []float64) {
	pdf.SetFont(pdfFontFamily, "B", pdfFontSize)
	pdf.SetFillColor(headerRGB[0], headerRGB[1], headerRGB[2])
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetTextColor(255, 255, 255)
	for i, header := range headers {
		pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(header), widths[i]-pdfCellPad), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// columnWidths sizes columns by their widest cell, scaled to fill the page.
func columnWidths(pdf *fpdf.Fpdf, tr func(string) string, table Table, usable float64) []float64 {
	widths := make([]float64, len(table.Headers))
	if len(widths) == 0 {
		return widths
	}
	pdf.SetFont(pdfFontFamily, "B", pdfFontSize)
	for i, header := range table.Headers {
		widths[i] = pdf.GetStringWidth(tr(header)) + 2*pdfCellPad
	}
	pdf.SetFont(pdfFontFamily, "", pdfFontSize)
	for _, row := range table.Rows {
		for i := range widths {
			if i >= len(row) {
				continue
			}
			if width := pdf.GetStringWidth(tr(row[i].Text)) + 2*pdfCellPad; width > widths[i] {
				widths[i] = width
			}
		}
	}
	total := 0.0
	for _, width := range widths {
		total += width
	}
	for i := range widths {
		widths[i] = widths[i] / total * usable
	}
	return widths
}

// fit trims text from the right until it fits in width.
func fit(pdf *fpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	b := []byte(text)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > width {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}
