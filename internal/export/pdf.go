package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/ternarybob/tickerscope/internal/models"
)

const (
	pdfFont   = "Arial"
	pdfMargin = 10.0
	pdfLine   = 5.0
)

// summaryColumns are the overview table columns and their widths in mm
var summaryColumns = []struct {
	title string
	width float64
}{
	{"Ticker", 25},
	{"Recommendation", 40},
	{"Change", 30},
	{"Confidence", 35},
	{"Sentiment", 35},
}

// PDF renders set as an A4 document: an overview table, then one section per ticker
func PDF(set *models.ReportSet) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(Title(set), true)
	pdf.SetCreator("tickerscope", true)
	pdf.AddPage()

	// Core fonts are cp1252; model text may carry any unicode
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 14)
	pdf.MultiCell(0, 7, tr(Title(set)), "", "L", false)
	pdf.Ln(3)

	pdf.SetFont(pdfFont, "B", 9)
	for _, col := range summaryColumns {
		pdf.CellFormat(col.width, 6, col.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 9)
	for _, r := range set.Reports {
		cells := []string{
			r.Ticker,
			string(r.Recommendation),
			fmt.Sprintf("%+.2f%%", r.EstimatedChangePercentage),
			string(r.ConfidenceLevel),
			string(r.MarketSentiment),
		}
		for i, col := range summaryColumns {
			pdf.CellFormat(col.width, 6, tr(cells[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	for _, r := range set.Reports {
		pdf.SetFont(pdfFont, "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s: %s (%+.2f%%, %s)", r.Ticker, r.Recommendation, r.EstimatedChangePercentage, direction(r))), "", "L", false)

		pdf.SetFont(pdfFont, "", 9)
		pdf.MultiCell(0, pdfLine, tr(r.ShortSummary), "", "L", false)
		for _, f := range r.KeyFactors {
			pdf.MultiCell(0, pdfLine, tr("- "+f), "", "L", false)
		}

		pdf.SetFont(pdfFont, "I", 8)
		pdf.MultiCell(0, pdfLine, tr("Updated "+r.LastUpdate), "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return buf.Bytes(), nil
}
