package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/sleekspend/sleekspend/internal/aggregate"
	"github.com/sleekspend/sleekspend/internal/model"
)

// Sheet names.
const (
	SheetExpenses = "Expenses"
	SheetSummary  = "Summary"
)

var (
	expenseHeaders = []any{"ID", "Date", "Amount", "Category", "Description"}
	summaryHeaders = []any{"Category", "Amount", "Percentage"}
	expenseWidths  = []float64{38, 18, 12, 16, 40}
	summaryWidths  = []float64{18, 12, 12}
	moneyFormat    = "#,##0.00"
	percentFormat  = "0.0\"%\""
)

// WriteXLSX writes a workbook with an Expenses sheet listing every expense and a Summary
// sheet with the category breakdown of totals.
func WriteXLSX(w io.Writer, expenses []model.Expense, totals aggregate.Totals) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetExpenses); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}
	if err := writeExpenses(f, styles, expenses); err != nil {
		return err
	}
	if err := writeSummary(f, styles, totals); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

type sheetStyles struct {
	header  int
	money   int
	percent int
	total   int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("creating header style: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat}); err != nil {
		return s, fmt.Errorf("creating money style: %w", err)
	}
	if s.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &percentFormat}); err != nil {
		return s, fmt.Errorf("creating percent style: %w", err)
	}
	if s.total, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &moneyFormat}); err != nil {
		return s, fmt.Errorf("creating total style: %w", err)
	}
	return s, nil
}

func writeExpenses(f *excelize.File, styles sheetStyles, expenses []model.Expense) error {
	if err := writeHeader(f, SheetExpenses, expenseHeaders, expenseWidths, styles.header); err != nil {
		return err
	}

	for i, e := range expenses {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{e.ID, e.Date.Local().Format(DateFormat), e.Amount.InexactFloat64(), e.Category, e.Description}
		if err := f.SetSheetRow(SheetExpenses, cell, &row); err != nil {
			return fmt.Errorf("writing expense row %d: %w", i+2, err)
		}
	}
	if len(expenses) > 0 {
		last := fmt.Sprintf("C%d", len(expenses)+1)
		if err := f.SetCellStyle(SheetExpenses, "C2", last, styles.money); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, styles sheetStyles, totals aggregate.Totals) error {
	if err := writeHeader(f, SheetSummary, summaryHeaders, summaryWidths, styles.header); err != nil {
		return err
	}

	rows := aggregate.CategoryBreakdown(totals.PerCategory, totals.Total)
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{r.Category, r.Amount.InexactFloat64(), r.Percentage}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+2, err)
		}
	}
	if len(rows) > 0 {
		end := len(rows) + 1
		if err := f.SetCellStyle(SheetSummary, "B2", fmt.Sprintf("B%d", end), styles.money); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
		if err := f.SetCellStyle(SheetSummary, "C2", fmt.Sprintf("C%d", end), styles.percent); err != nil {
			return fmt.Errorf("styling percentages: %w", err)
		}
	}

	totalRow := len(rows) + 2
	row := []any{"Total", totals.Total.InexactFloat64()}
	if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", totalRow), &row); err != nil {
		return fmt.Errorf("writing total row: %w", err)
	}
	if err := f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("B%d", totalRow), styles.total); err != nil {
		return fmt.Errorf("styling total row: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []any, widths []float64, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("sizing %s column %s: %w", sheet, col, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	return nil
}
