// Package export renders reports as spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the files WriteReport produces
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names in workbook order
const (
	SheetMonthly    = "Monthly"
	SheetCategories = "Categories"
	SheetBudgets    = "Budgets"
	SheetSummary    = "Summary"
)

const colorPrimary = "#2D6A4F"

type styles struct {
	title  int
	header int
	money  int
}

// Filename is the download name for a report generated on the given day
func Filename(report *domain.Report) string {
	return fmt.Sprintf("pennywise-report-%s-%s.xlsx", report.Period, report.EndDate.Format(time.DateOnly))
}

// WriteReport writes report to w as an XLSX workbook with one sheet per section
func WriteReport(w io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SheetMonthly); err != nil {
		return err
	}
	for _, name := range []string{SheetCategories, SheetBudgets, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	writeMonthly(f, st, report)
	writeCategories(f, st, report)
	writeBudgets(f, st, report)
	writeSummary(f, st, report)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: colorPrimary},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return st, err
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorPrimary}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return st, err
	}
	st.money, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
		NumFmt:    4, // #,##0.00
	})
	return st, err
}

// header writes a title in row 1 and column headers in row 3; data starts at row 4
func header(f *excelize.File, st styles, sheet, title string, columns ...string) {
	f.SetCellValue(sheet, "A1", title)
	f.SetCellStyle(sheet, "A1", "A1", st.title)
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, col)
		f.SetCellStyle(sheet, cell, cell, st.header)
	}
	last, _ := excelize.ColumnNumberToName(len(columns))
	f.SetColWidth(sheet, "A", last, 18)
}

func setMoney(f *excelize.File, st styles, sheet string, col, row int, d decimal.Decimal) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	f.SetCellValue(sheet, cell, d.Round(2).InexactFloat64())
	f.SetCellStyle(sheet, cell, cell, st.money)
}

func setText(f *excelize.File, sheet string, col, row int, v string) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	f.SetCellValue(sheet, cell, v)
}

func periodTitle(report *domain.Report, section string) string {
	return fmt.Sprintf("%s: %s to %s", section,
		report.StartDate.Format(time.DateOnly), report.EndDate.Format(time.DateOnly))
}

func writeMonthly(f *excelize.File, st styles, report *domain.Report) {
	header(f, st, SheetMonthly, periodTitle(report, "Monthly totals"), "Month", "Income", "Expenses", "Savings")
	for i, p := range report.MonthlyData {
		row := 4 + i
		setText(f, SheetMonthly, 1, row, fmt.Sprintf("%s %d", p.Month, p.Start.Year()))
		setMoney(f, st, SheetMonthly, 2, row, p.Income)
		setMoney(f, st, SheetMonthly, 3, row, p.Expenses)
		setMoney(f, st, SheetMonthly, 4, row, p.Savings)
	}
}

func writeCategories(f *excelize.File, st styles, report *domain.Report) {
	header(f, st, SheetCategories, periodTitle(report, "Spending by category"), "Category", "Amount", "Share %")
	for i, c := range report.CategoryExpenses {
		row := 4 + i
		setText(f, SheetCategories, 1, row, c.Category)
		setMoney(f, st, SheetCategories, 2, row, c.Amount)
		setText(f, SheetCategories, 3, row, c.Percentage)
	}
}

func writeBudgets(f *excelize.File, st styles, report *domain.Report) {
	header(f, st, SheetBudgets, periodTitle(report, "Budget comparison"), "Category", "Budgeted", "Spent", "Remaining")
	for i, b := range report.BudgetComparison {
		row := 4 + i
		setText(f, SheetBudgets, 1, row, b.Category)
		setMoney(f, st, SheetBudgets, 2, row, b.Budgeted)
		setMoney(f, st, SheetBudgets, 3, row, b.Spent)
		setMoney(f, st, SheetBudgets, 4, row, b.Remaining)
	}
}

func writeSummary(f *excelize.File, st styles, report *domain.Report) {
	header(f, st, SheetSummary, periodTitle(report, "Summary"), "Metric", "Value")
	m := report.Metrics
	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total income", m.TotalIncome},
		{"Total expenses", m.TotalExpenses},
		{"Total savings", m.TotalSavings},
		{"Average monthly expenses", m.AvgMonthlyExpenses},
		{"Savings rate %", m.SavingsRate},
	}
	for i, r := range rows {
		setText(f, SheetSummary, 1, 4+i, r.label)
		setMoney(f, st, SheetSummary, 2, 4+i, r.value)
	}
}
