package report

import (
	"time"

	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/herd"
	"github.com/shopspring/decimal"
)

// AR aging bucket labels
const (
	BucketCurrent = "current"
	Bucket1To30   = "1-30"
	Bucket31To60  = "31-60"
	Bucket61To90  = "61-90"
	BucketOver90  = "90+"
)

const monthsPerYear = 12

var hundred = decimal.NewFromInt(100)

// OverviewInputs are the collections the overview is computed from
type OverviewInputs struct {
	Year               int
	AsOf               time.Time
	BankAccounts       []finance.BankAccount
	Invoices           []finance.Invoice
	CapitalInvestments []finance.CapitalInvestment
	Equipment          []assets.Equipment
	Cattle             []herd.Cattle
	Loans              []finance.Loan
	Transactions       []finance.Transaction
}

// AsOfDate returns the reporting date for a year: now for the current or a
// future year, December 31 for a past year
func AsOfDate(year int, now time.Time) time.Time {
	if year < now.Year() {
		return time.Date(year, 12, 31, 23, 59, 59, 0, now.Location())
	}
	return now
}

// BuildOverview computes the banker overview. It only reads its inputs.
func BuildOverview(in OverviewInputs) BankerOverview {
	activeLoans := make([]finance.Loan, 0, len(in.Loans))
	for _, l := range in.Loans {
		if l.Status == finance.LoanStatusActive {
			activeLoans = append(activeLoans, l)
		}
	}

	o := BankerOverview{Year: in.Year, AsOf: in.AsOf}
	o.Assets = buildAssets(in)
	o.ARAging = BuildARAging(in.Invoices, in.AsOf)
	o.Liabilities, o.DebtSchedule = buildLiabilities(activeLoans, in.AsOf)
	o.NetWorth = o.Assets.TotalAssets.Sub(o.Liabilities.TotalLiabilities)

	debtService := decimal.Zero
	for i := range activeLoans {
		debtService = debtService.Add(activeLoans[i].AnnualDebtService())
	}
	noi := netOperatingIncome(in.Transactions, in.Year, in.AsOf)
	o.Ratios = Ratios{
		DSCR:               ratio(noi, debtService, decimal.NewFromInt(1)),
		DebtToAsset:        ratio(o.Liabilities.TotalLiabilities, o.Assets.TotalAssets, hundred),
		CurrentRatio:       ratio(o.Assets.TotalCurrent, o.Liabilities.Current, decimal.NewFromInt(1)),
		NetOperatingIncome: noi,
		AnnualDebtService:  debtService,
	}
	o.Collateral, o.Ratios.LoanToValue = buildCollateral(activeLoans)
	o.CashFlow = buildCashFlow(in.Transactions, in.Year, debtService)
	return o
}

func buildAssets(in OverviewInputs) AssetSection {
	a := AssetSection{
		Cash:               decimal.Zero,
		AccountsReceivable: decimal.Zero,
		Land:               decimal.Zero,
		Buildings:          decimal.Zero,
		Infrastructure:     decimal.Zero,
		Equipment:          decimal.Zero,
		Livestock:          decimal.Zero,
	}
	for _, acct := range in.BankAccounts {
		if acct.IsActive {
			a.Cash = a.Cash.Add(acct.CurrentBalance)
		}
	}
	for _, inv := range in.Invoices {
		if inv.Status.IsOutstanding() {
			a.AccountsReceivable = a.AccountsReceivable.Add(inv.BalanceDue)
		}
	}
	for i := range in.CapitalInvestments {
		ci := &in.CapitalInvestments[i]
		if !ci.IsActive() {
			continue
		}
		value := ci.CurrentValue.EstimatedValue
		switch ci.Type {
		case finance.InvestmentLand:
			a.Land = a.Land.Add(value)
		case finance.InvestmentBuilding:
			a.Buildings = a.Buildings.Add(value)
		case finance.InvestmentInfrastructure:
			a.Infrastructure = a.Infrastructure.Add(value)
		}
	}
	for i := range in.Equipment {
		if in.Equipment[i].Counts() {
			a.Equipment = a.Equipment.Add(in.Equipment[i].Valuation.CurrentValue)
		}
	}
	for i := range in.Cattle {
		if in.Cattle[i].Status == herd.StatusActive {
			a.Livestock = a.Livestock.Add(in.Cattle[i].MarketValue())
		}
	}
	a.TotalCurrent = a.Cash.Add(a.AccountsReceivable)
	a.TotalFixed = a.Land.Add(a.Buildings).Add(a.Infrastructure).Add(a.Equipment).Add(a.Livestock)
	a.TotalAssets = a.TotalCurrent.Add(a.TotalFixed)
	return a
}

func buildLiabilities(loans []finance.Loan, asOf time.Time) (LiabilitySection, []DebtScheduleRow) {
	l := LiabilitySection{Current: decimal.Zero, LongTerm: decimal.Zero, TotalLiabilities: decimal.Zero, LoanCount: len(loans)}
	rows := make([]DebtScheduleRow, 0, len(loans))
	for i := range loans {
		loan := &loans[i]
		current := loan.CurrentPortion(asOf)
		longTerm := loan.CurrentBalance.Sub(current)
		l.Current = l.Current.Add(current)
		l.LongTerm = l.LongTerm.Add(longTerm)
		l.TotalLiabilities = l.TotalLiabilities.Add(loan.CurrentBalance)

		row := DebtScheduleRow{
			LoanID:            loan.ID,
			Lender:            loan.Lender,
			LoanType:          string(loan.LoanType),
			Balance:           loan.CurrentBalance,
			InterestRate:      loan.InterestRate,
			AnnualDebtService: loan.AnnualDebtService(),
			MaturityDate:      loan.MaturityDate,
			CurrentPortion:    current,
			LongTermPortion:   longTerm,
		}
		if loan.MaturityDate != nil {
			months := loan.MonthsToMaturity(asOf)
			row.MonthsToMaturity = &months
		}
		rows = append(rows, row)
	}
	return l, rows
}

// netOperatingIncome is realised income less expense dated in year up to asOf
func netOperatingIncome(txns []finance.Transaction, year int, asOf time.Time) decimal.Decimal {
	noi := decimal.Zero
	for i := range txns {
		t := &txns[i]
		if !t.IsRealized() || t.Date.Year() != year || t.Date.After(asOf) {
			continue
		}
		noi = noi.Add(t.SignedAmount())
	}
	return noi
}

func buildCashFlow(txns []finance.Transaction, year int, annualDebtService decimal.Decimal) []MonthlyCashFlow {
	monthlyDebt := annualDebtService.Div(decimal.NewFromInt(monthsPerYear))
	rows := make([]MonthlyCashFlow, monthsPerYear)
	for m := range rows {
		rows[m] = MonthlyCashFlow{Month: m + 1, Income: decimal.Zero, Expenses: decimal.Zero, DebtService: monthlyDebt.Round(2)}
	}
	for i := range txns {
		t := &txns[i]
		if !t.IsRealized() || t.Date.Year() != year {
			continue
		}
		row := &rows[int(t.Date.Month())-1]
		if t.Type == finance.TransactionIncome {
			row.Income = row.Income.Add(t.Amount)
		} else {
			row.Expenses = row.Expenses.Add(t.Amount)
		}
	}
	for m := range rows {
		rows[m].NetCashFlow = rows[m].Income.Sub(rows[m].Expenses).Sub(monthlyDebt).Round(2)
	}
	return rows
}

func buildCollateral(loans []finance.Loan) ([]CollateralCoverage, *decimal.Decimal) {
	out := make([]CollateralCoverage, 0)
	totalValue := decimal.Zero
	totalBalance := decimal.Zero
	for i := range loans {
		loan := &loans[i]
		if loan.Collateral == nil {
			continue
		}
		value := loan.Collateral.EstimatedValue
		out = append(out, CollateralCoverage{
			LoanID:          loan.ID,
			Lender:          loan.Lender,
			CollateralType:  loan.Collateral.Type,
			Description:     loan.Collateral.Description,
			CollateralValue: value,
			Balance:         loan.CurrentBalance,
			LTV:             loan.LTV(),
			Equity:          value.Sub(loan.CurrentBalance),
		})
		totalValue = totalValue.Add(value)
		totalBalance = totalBalance.Add(loan.CurrentBalance)
	}
	return out, ratio(totalBalance, totalValue, hundred)
}

// BuildARAging buckets outstanding invoices by calendar days past due
func BuildARAging(invoices []finance.Invoice, now time.Time) ARAging {
	ag := ARAging{
		Current:    decimal.Zero,
		Days1To30:  decimal.Zero,
		Days31To60: decimal.Zero,
		Days61To90: decimal.Zero,
		Over90:     decimal.Zero,
		Total:      decimal.Zero,
		Invoices:   make([]AgedInvoice, 0),
	}
	for i := range invoices {
		inv := &invoices[i]
		if !inv.Status.IsOutstanding() || !inv.BalanceDue.IsPositive() {
			continue
		}
		days := inv.DaysPastDue(now)
		var bucket string
		switch {
		case days == 0:
			bucket = BucketCurrent
			ag.Current = ag.Current.Add(inv.BalanceDue)
		case days <= 30:
			bucket = Bucket1To30
			ag.Days1To30 = ag.Days1To30.Add(inv.BalanceDue)
		case days <= 60:
			bucket = Bucket31To60
			ag.Days31To60 = ag.Days31To60.Add(inv.BalanceDue)
		case days <= 90:
			bucket = Bucket61To90
			ag.Days61To90 = ag.Days61To90.Add(inv.BalanceDue)
		default:
			bucket = BucketOver90
			ag.Over90 = ag.Over90.Add(inv.BalanceDue)
		}
		ag.Total = ag.Total.Add(inv.BalanceDue)
		ag.Invoices = append(ag.Invoices, AgedInvoice{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Customer:      inv.Customer.Name,
			BalanceDue:    inv.BalanceDue,
			DaysPastDue:   days,
			Bucket:        bucket,
		})
	}
	return ag
}

// ratio returns num/den*scale rounded to cents, nil when den is zero
func ratio(num, den, scale decimal.Decimal) *decimal.Decimal {
	if den.IsZero() {
		return nil
	}
	r := num.Mul(scale).Div(den).Round(2)
	return &r
}
