package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"tripguide-service/internal/ports"
)

// PDFRenderer implements the DocumentRenderer port with native PDF
// drawing: a plan header, then one section per stage with the stop
// table, fresh totals and the stage's route map when one was fetched.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (r *PDFRenderer) RenderPDF(view *ports.PlanView) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(view.Name, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, view.Name, "", 1, "L", false, 0, "")

	if view.Description != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, view.Description, "", "L", false)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", view.Status), "", 1, "L", false, 0, "")

	for _, warning := range view.Warnings {
		pdf.SetTextColor(180, 80, 0)
		pdf.CellFormat(0, 5, fmt.Sprintf("Note: %s", warning), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	for i, stage := range view.Stages {
		r.renderStage(pdf, &view.Stages[i], stage.Sequence)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: plan %d: %w", view.PlanID, err)
	}

	return buf.Bytes(), nil
}

func (r *PDFRenderer) renderStage(pdf *fpdf.Fpdf, stage *ports.StageView, seq int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, stage.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if stage.StartAddress != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Start: %s", stage.StartAddress), "", 1, "L", false, 0, "")
	}

	totals := fmt.Sprintf(
		"Visits: %d min   Travel: %d min   Total: %d min",
		stage.Totals.VisitMinutes, stage.Totals.TravelMinutes, stage.Totals.TotalMinutes(),
	)
	if stage.RouteMissing {
		totals += "   (route data unavailable, estimated travel times)"
	}
	pdf.CellFormat(0, 5, totals, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(stage.MapImage) > 0 {
		name := fmt.Sprintf("stage-map-%d", seq)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(stage.MapImage))
		if pdf.Ok() {
			pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), 180, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			pdf.Ln(2)
		}
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(10, 6, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 6, "Attraction", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 6, "Arrival", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 6, "Visit (min)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 6, "Travel (min)", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, stop := range stage.Stops {
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", stop.Sequence), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, stop.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, stop.VisitStart.Format("Mon 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", stop.VisitMinutes), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", stop.TravelMinutes), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(6)
}
