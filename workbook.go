package goalfolio

import (
	"fmt"
	"io"
	"slices"

	"github.com/etnz/goalfolio/date"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	InvestmentsSheet = "Investments"
	GoalsSheet       = "Goals"
)

// numeric columns are written as numbers so that the workbook can be used for computations.
var numericColumns = []string{ColEntryPrice, ColShares, ColTotalAmount, ColTargetAmount}

// ExportWorkbook writes holdings and goals as an xlsx workbook with one sheet each.
func ExportWorkbook(w io.Writer, holdings []Holding, goals []Goal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InvestmentsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(GoalsSheet); err != nil {
		return err
	}
	if err := writeSheet(f, InvestmentsSheet, holdingColumns, holdingRecords(holdings)); err != nil {
		return err
	}
	records, err := goalRecords(goals)
	if err != nil {
		return err
	}
	if err := writeSheet(f, GoalsSheet, goalColumns, records); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, header []string, records [][]string) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, record := range records {
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
			if slices.Contains(numericColumns, header[j]) {
				if d, err := parseDecimal(v); err == nil {
					row[j] = d.InexactFloat64()
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// ImportWorkbook reads a workbook written by [ExportWorkbook].
// A missing sheet imports as a nil list.
func ImportWorkbook(r io.Reader, currency string, on date.Date) ([]Holding, []Goal, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()

	var holdings []Holding
	var goals []Goal
	sheets := f.GetSheetList()
	if slices.Contains(sheets, InvestmentsSheet) {
		rows, err := f.GetRows(InvestmentsSheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, nil, err
		}
		if holdings, err = holdingsFromRecords(rows, currency, on); err != nil {
			return nil, nil, fmt.Errorf("sheet %s: %w", InvestmentsSheet, err)
		}
	}
	if slices.Contains(sheets, GoalsSheet) {
		rows, err := f.GetRows(GoalsSheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, nil, err
		}
		if goals, err = goalsFromRecords(rows, currency, on); err != nil {
			return nil, nil, fmt.Errorf("sheet %s: %w", GoalsSheet, err)
		}
	}
	return holdings, goals, nil
}
