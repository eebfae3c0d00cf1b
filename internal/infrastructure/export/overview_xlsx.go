// Package export renders report read models as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/m77ag/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the banker overview workbook
const (
	SheetBalance    = "Balance Sheet"
	SheetCashFlow   = "Cash Flow"
	SheetDebt       = "Debt Schedule"
	SheetCollateral = "Collateral"
	SheetAging      = "AR Aging"
)

// XLSXContentType is the MIME type of the generated workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type workbook struct {
	f      *excelize.File
	header int
	money  int
	err    error
}

// WriteBankerOverview writes the overview as an XLSX workbook to w
func WriteBankerOverview(w io.Writer, o report.BankerOverview) error {
	f := excelize.NewFile()
	defer f.Close()

	wb := &workbook{f: f}
	wb.header, wb.err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if wb.err == nil {
		wb.money, wb.err = f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	}
	if wb.err == nil {
		wb.err = f.SetSheetName("Sheet1", SheetBalance)
	}

	wb.balanceSheet(o)
	wb.cashFlow(o.CashFlow)
	wb.debtSchedule(o.DebtSchedule)
	wb.collateral(o.Collateral)
	wb.aging(o.ARAging)
	if wb.err != nil {
		return fmt.Errorf("build overview workbook: %w", wb.err)
	}
	return f.Write(w)
}

func (wb *workbook) sheet(name string, header []any, widths ...float64) {
	if wb.err != nil {
		return
	}
	if name != SheetBalance {
		if _, wb.err = wb.f.NewSheet(name); wb.err != nil {
			return
		}
	}
	wb.row(name, 1, header...)
	last, _ := excelize.ColumnNumberToName(len(header))
	if wb.err == nil {
		wb.err = wb.f.SetCellStyle(name, "A1", last+"1", wb.header)
	}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if wb.err == nil {
			wb.err = wb.f.SetColWidth(name, col, col, width)
		}
	}
}

func (wb *workbook) row(sheet string, n int, values ...any) {
	if wb.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(1, n)
	wb.err = wb.f.SetSheetRow(sheet, cell, &values)
}

func (wb *workbook) moneyColumns(sheet string, firstRow, lastRow int, cols ...string) {
	for _, col := range cols {
		if wb.err != nil || lastRow < firstRow {
			return
		}
		wb.err = wb.f.SetCellStyle(sheet, fmt.Sprintf("%s%d", col, firstRow), fmt.Sprintf("%s%d", col, lastRow), wb.money)
	}
}

func (wb *workbook) balanceSheet(o report.BankerOverview) {
	wb.sheet(SheetBalance, []any{"Line", "Amount"}, 34, 18)
	rows := [][]any{
		{"Year", o.Year},
		{"As of", o.AsOf.Format("2006-01-02")},
		{"Cash", money(o.Assets.Cash)},
		{"Accounts receivable", money(o.Assets.AccountsReceivable)},
		{"Total current assets", money(o.Assets.TotalCurrent)},
		{"Land", money(o.Assets.Land)},
		{"Buildings", money(o.Assets.Buildings)},
		{"Infrastructure", money(o.Assets.Infrastructure)},
		{"Equipment", money(o.Assets.Equipment)},
		{"Livestock", money(o.Assets.Livestock)},
		{"Total fixed assets", money(o.Assets.TotalFixed)},
		{"Total assets", money(o.Assets.TotalAssets)},
		{"Current liabilities", money(o.Liabilities.Current)},
		{"Long-term liabilities", money(o.Liabilities.LongTerm)},
		{"Total liabilities", money(o.Liabilities.TotalLiabilities)},
		{"Net worth", money(o.NetWorth)},
		{"DSCR", optional(o.Ratios.DSCR)},
		{"Debt to asset (%)", optional(o.Ratios.DebtToAsset)},
		{"Current ratio", optional(o.Ratios.CurrentRatio)},
		{"Loan to value (%)", optional(o.Ratios.LoanToValue)},
		{"Net operating income", money(o.Ratios.NetOperatingIncome)},
		{"Annual debt service", money(o.Ratios.AnnualDebtService)},
	}
	for i, r := range rows {
		wb.row(SheetBalance, i+2, r...)
	}
	wb.moneyColumns(SheetBalance, 4, len(rows)+1, "B")
}

func (wb *workbook) cashFlow(months []report.MonthlyCashFlow) {
	wb.sheet(SheetCashFlow, []any{"Month", "Income", "Expenses", "Debt service", "Net cash flow"}, 12, 16, 16, 16, 16)
	for i, m := range months {
		wb.row(SheetCashFlow, i+2, time.Month(m.Month).String(),
			money(m.Income), money(m.Expenses), money(m.DebtService), money(m.NetCashFlow))
	}
	wb.moneyColumns(SheetCashFlow, 2, len(months)+1, "B", "C", "D", "E")
}

func (wb *workbook) debtSchedule(rows []report.DebtScheduleRow) {
	wb.sheet(SheetDebt, []any{"Lender", "Type", "Balance", "Rate (%)", "Annual debt service",
		"Maturity", "Months to maturity", "Current portion", "Long-term portion"}, 24, 16, 16, 10, 18, 12, 18, 16, 18)
	for i, r := range rows {
		maturity, months := "", any("")
		if r.MaturityDate != nil {
			maturity = r.MaturityDate.Format("2006-01-02")
		}
		if r.MonthsToMaturity != nil {
			months = *r.MonthsToMaturity
		}
		wb.row(SheetDebt, i+2, r.Lender, r.LoanType, money(r.Balance), money(r.InterestRate),
			money(r.AnnualDebtService), maturity, months, money(r.CurrentPortion), money(r.LongTermPortion))
	}
	wb.moneyColumns(SheetDebt, 2, len(rows)+1, "C", "E", "H", "I")
}

func (wb *workbook) collateral(rows []report.CollateralCoverage) {
	wb.sheet(SheetCollateral, []any{"Lender", "Collateral", "Description", "Value", "Balance", "LTV (%)", "Equity"},
		24, 16, 30, 16, 16, 10, 16)
	for i, r := range rows {
		wb.row(SheetCollateral, i+2, r.Lender, r.CollateralType, r.Description,
			money(r.CollateralValue), money(r.Balance), optional(r.LTV), money(r.Equity))
	}
	wb.moneyColumns(SheetCollateral, 2, len(rows)+1, "D", "E", "G")
}

func (wb *workbook) aging(a report.ARAging) {
	wb.sheet(SheetAging, []any{"Invoice", "Customer", "Balance due", "Days past due", "Bucket"}, 16, 28, 16, 14, 12)
	for i, inv := range a.Invoices {
		wb.row(SheetAging, i+2, inv.InvoiceNumber, inv.Customer, money(inv.BalanceDue), inv.DaysPastDue, inv.Bucket)
	}
	n := len(a.Invoices) + 3
	totals := [][]any{
		{"Current", "", money(a.Current)},
		{"1-30", "", money(a.Days1To30)},
		{"31-60", "", money(a.Days31To60)},
		{"61-90", "", money(a.Days61To90)},
		{"90+", "", money(a.Over90)},
		{"Total", "", money(a.Total)},
	}
	for i, r := range totals {
		wb.row(SheetAging, n+i, r...)
	}
	wb.moneyColumns(SheetAging, 2, n+len(totals)-1, "C")
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optional(d *decimal.Decimal) any {
	if d == nil {
		return "n/a"
	}
	return money(*d)
}
