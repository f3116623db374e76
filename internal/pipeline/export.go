package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/lumen-bio/leadscout/internal/model"
)

var exportHeader = []string{
	"name", "title", "company", "location", "email",
	"role_fit_score", "company_intent_score", "technographic_score",
	"location_score", "scientific_intent_score", "total_score",
	"category", "publication_count", "source", "created_at",
}

func exportRow(lead model.Lead) []string {
	return []string{
		lead.Name,
		lead.Title,
		lead.Company,
		lead.PersonLocation,
		lead.Email,
		formatScore(lead.Scores.RoleFit),
		formatScore(lead.Scores.CompanyIntent),
		formatScore(lead.Scores.Technographic),
		formatScore(lead.Scores.Location),
		formatScore(lead.Scores.ScientificIntent),
		formatScore(lead.Scores.Total),
		model.ScoreCategory(lead.Scores.Total),
		fmt.Sprintf("%d", len(lead.Publications)),
		lead.DataSource,
		lead.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// ExportCSV writes leads to a CSV file with a header row.
func ExportCSV(leads []model.Lead, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, lead := range leads {
		if err := w.Write(exportRow(lead)); err != nil {
			return eris.Wrapf(err, "export: write row %s", lead.Name)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	return eris.Wrap(f.Close(), "export: close")
}

// ExportXLSX writes leads to an XLSX workbook with a single sheet.
func ExportXLSX(leads []model.Lead, path string) error {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range exportHeader {
		header.AddCell().SetString(col)
	}
	for _, lead := range leads {
		row := sheet.AddRow()
		for _, val := range exportRow(lead) {
			row.AddCell().SetString(val)
		}
	}

	return eris.Wrapf(wb.Save(path), "export: save %s", path)
}
