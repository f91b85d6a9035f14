// File path: internal/report/pdf.go
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Document is the content of a printable consultation report.
type Document struct {
	SessionID   string
	PatientName string
	Symptoms    []string
	Diagnosis   string
	Treatment   string
	Remarks     string
	Date        time.Time
}

// WritePDF renders the report as a single-page-or-more PDF: a centered title
// header, patient and session lines, then Symptoms, Diagnosis, Treatment and
// Remarks sections, with a page-number footer.
func WritePDF(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, "Medical Diagnosis Report", "", 1, "C", false, 0, "")
		pdf.Ln(10)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	date := doc.Date
	if date.IsZero() {
		date = time.Now()
	}

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, "Patient Name: "+doc.PatientName, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 10, "Session ID: "+doc.SessionID, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 10, "Date: "+date.Format("02-01-2006 15:04"), "", 1, "", false, 0, "")
	pdf.Ln(10)

	section(pdf, "Symptoms:", strings.Join(doc.Symptoms, ", "))
	section(pdf, "Diagnosis:", doc.Diagnosis)
	section(pdf, "Treatment:", doc.Treatment)
	section(pdf, "Doctor's Remarks:", doc.Remarks)

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, heading, body string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, heading, "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, body, "", "", false)
}
