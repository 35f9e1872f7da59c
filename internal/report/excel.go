package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const breakdownSheet = "Breakdown"

// WriteXLSX writes the score breakdown as a one-sheet workbook: a header row,
// one row per section, and an overall row.
func WriteXLSX(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", breakdownSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := []any{"Part", "Raw", "Max", "Score (0..15)", "Weight", "Contribution", "Stage", "Stage name"}
	if err := f.SetSheetRow(breakdownSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for i, ss := range rep.Breakdown {
		title, stageName := ss.SectionID, ""
		if i < len(rep.Sections) {
			title = rep.Sections[i].Title
			stageName = rep.Sections[i].StageName
		}
		cells := []any{title, ss.Raw, ss.Max, ss.Normalized, ss.Weight, ss.Contribution, ss.Stage, stageName}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(breakdownSheet, cell, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		row++
	}

	overall := []any{"Overall", nil, nil, rep.Score, nil, nil, rep.Stage, rep.StageName}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(breakdownSheet, cell, &overall); err != nil {
		return fmt.Errorf("writing overall row: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
