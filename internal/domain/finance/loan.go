package finance

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LoanStatus represents the status of a loan
type LoanStatus string

const (
	LoanStatusActive     LoanStatus = "active"
	LoanStatusPaidOff    LoanStatus = "paid_off"
	LoanStatusDefaulted  LoanStatus = "defaulted"
	LoanStatusRefinanced LoanStatus = "refinanced"
)

// IsValid checks if the status is a valid LoanStatus
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusActive, LoanStatusPaidOff, LoanStatusDefaulted, LoanStatusRefinanced:
		return true
	}
	return false
}

// IsTerminal returns true if no further payments may be recorded
func (s LoanStatus) IsTerminal() bool {
	return s != LoanStatusActive
}

// LoanType classifies the loan
type LoanType string

const (
	LoanTypeOperating    LoanType = "operating"
	LoanTypeRealEstate   LoanType = "real_estate"
	LoanTypeEquipment    LoanType = "equipment"
	LoanTypeLivestock    LoanType = "livestock"
	LoanTypeLineOfCredit LoanType = "line_of_credit"
	LoanTypeOther        LoanType = "other"
)

// IsValid checks if the loan type is known
func (t LoanType) IsValid() bool {
	switch t {
	case LoanTypeOperating, LoanTypeRealEstate, LoanTypeEquipment,
		LoanTypeLivestock, LoanTypeLineOfCredit, LoanTypeOther:
		return true
	}
	return false
}

// PaymentFrequency is how often a scheduled payment falls due
type PaymentFrequency string

const (
	FrequencyMonthly    PaymentFrequency = "monthly"
	FrequencyQuarterly  PaymentFrequency = "quarterly"
	FrequencySemiAnnual PaymentFrequency = "semi_annual"
	FrequencyAnnual     PaymentFrequency = "annual"
)

// PeriodsPerYear returns the annualisation multiplier, 0 for unknown values
func (f PaymentFrequency) PeriodsPerYear() int64 {
	switch f {
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencySemiAnnual:
		return 2
	case FrequencyAnnual:
		return 1
	}
	return 0
}

// IsValid checks if the frequency is known
func (f PaymentFrequency) IsValid() bool {
	return f.PeriodsPerYear() > 0
}

// Collateral pledged against a loan
type Collateral struct {
	Type           string          `json:"type"`
	Description    string          `json:"description,omitempty"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}

// Value implements driver.Valuer for JSONB storage
func (c Collateral) Value() (driver.Value, error) {
	return shared.JSONValue(c)
}

// Scan implements sql.Scanner for JSONB storage
func (c *Collateral) Scan(value interface{}) error {
	*c = Collateral{}
	return shared.ScanJSON(value, c)
}

// LoanPayment is one payment against a loan
type LoanPayment struct {
	ID           uuid.UUID       `json:"id"`
	PaidOn       time.Time       `json:"paid_on"`
	Amount       decimal.Decimal `json:"amount"`
	Principal    decimal.Decimal `json:"principal"`
	Interest     decimal.Decimal `json:"interest"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Remark       string          `json:"remark,omitempty"`
}

// LoanPayments is a slice of LoanPayment stored as JSONB
type LoanPayments []LoanPayment

// Value implements driver.Valuer for JSONB storage
func (p LoanPayments) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return shared.JSONValue(p)
}

// Scan implements sql.Scanner for JSONB storage
func (p *LoanPayments) Scan(value interface{}) error {
	*p = LoanPayments{}
	return shared.ScanJSON(value, p)
}

// Loan is the authoritative record of a debt. Capital investments do not
// hold loan copies; they see the loans whose CapitalInvestmentID points at them.
type Loan struct {
	shared.BaseAggregateRoot
	LoanNumber          string
	Lender              string
	LoanType            LoanType
	Entity              string
	OriginalAmount      decimal.Decimal
	CurrentBalance      decimal.Decimal
	InterestRate        decimal.Decimal // annual percent
	PaymentAmount       decimal.Decimal
	PaymentFrequency    PaymentFrequency
	OriginationDate     time.Time
	MaturityDate        *time.Time
	Collateral          *Collateral
	CapitalInvestmentID *uuid.UUID
	Payments            LoanPayments
	YTDPrincipalPaid    decimal.Decimal
	YTDInterestPaid     decimal.Decimal
	YTDYear             int
	Status              LoanStatus
	PaidOffAt           *time.Time
	Notes               string
}

// NewLoanParams holds the fields needed to open a loan
type NewLoanParams struct {
	LoanNumber          string
	Lender              string
	LoanType            LoanType
	Entity              string
	OriginalAmount      decimal.Decimal
	CurrentBalance      *decimal.Decimal
	InterestRate        decimal.Decimal
	PaymentAmount       decimal.Decimal
	PaymentFrequency    PaymentFrequency
	OriginationDate     time.Time
	MaturityDate        *time.Time
	Collateral          *Collateral
	CapitalInvestmentID *uuid.UUID
	Notes               string
}

// NewLoan validates and opens an active loan
func NewLoan(p NewLoanParams) (*Loan, error) {
	if strings.TrimSpace(p.Lender) == "" {
		return nil, shared.NewValidationError("lender is required")
	}
	if !p.LoanType.IsValid() {
		return nil, shared.NewValidationError("unknown loan type %q", p.LoanType)
	}
	if !p.OriginalAmount.IsPositive() {
		return nil, shared.NewValidationError("original amount must be positive")
	}
	if p.InterestRate.IsNegative() {
		return nil, shared.NewValidationError("interest rate cannot be negative")
	}
	if p.PaymentAmount.IsNegative() {
		return nil, shared.NewValidationError("payment amount cannot be negative")
	}
	if !p.PaymentFrequency.IsValid() {
		return nil, shared.NewValidationError("unknown payment frequency %q", p.PaymentFrequency)
	}
	balance := p.OriginalAmount
	if p.CurrentBalance != nil {
		balance = *p.CurrentBalance
	}
	if balance.IsNegative() {
		return nil, shared.NewValidationError("current balance cannot be negative")
	}
	if p.MaturityDate != nil && p.MaturityDate.Before(p.OriginationDate) {
		return nil, shared.NewValidationError("maturity date cannot be before origination")
	}
	if p.Collateral != nil && p.Collateral.EstimatedValue.IsNegative() {
		return nil, shared.NewValidationError("collateral value cannot be negative")
	}

	loan := &Loan{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		LoanNumber:          strings.TrimSpace(p.LoanNumber),
		Lender:              strings.TrimSpace(p.Lender),
		LoanType:            p.LoanType,
		Entity:              strings.TrimSpace(p.Entity),
		OriginalAmount:      p.OriginalAmount,
		CurrentBalance:      balance,
		InterestRate:        p.InterestRate,
		PaymentAmount:       p.PaymentAmount,
		PaymentFrequency:    p.PaymentFrequency,
		OriginationDate:     p.OriginationDate,
		MaturityDate:        p.MaturityDate,
		Collateral:          p.Collateral,
		CapitalInvestmentID: p.CapitalInvestmentID,
		Payments:            LoanPayments{},
		YTDPrincipalPaid:    decimal.Zero,
		YTDInterestPaid:     decimal.Zero,
		Status:              LoanStatusActive,
		Notes:               p.Notes,
	}
	if balance.IsZero() {
		loan.markPaidOff(p.OriginationDate)
	}
	return loan, nil
}

// LoanPaymentInput describes a payment. Principal and Interest are optional;
// when both are nil the split is derived from the rate and frequency.
type LoanPaymentInput struct {
	Amount    decimal.Decimal
	Principal *decimal.Decimal
	Interest  *decimal.Decimal
	PaidOn    time.Time
	Remark    string
}

// ScheduledInterest is one period's interest on the current balance
func (l *Loan) ScheduledInterest() decimal.Decimal {
	periods := l.PaymentFrequency.PeriodsPerYear()
	if periods == 0 || l.InterestRate.IsZero() {
		return decimal.Zero
	}
	return shared.RoundCents(l.CurrentBalance.Mul(l.InterestRate).
		Div(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(periods)))
}

// splitPayment resolves the principal/interest split for a payment
func (l *Loan) splitPayment(in LoanPaymentInput) (principal, interest decimal.Decimal, err error) {
	switch {
	case in.Principal != nil && in.Interest != nil:
		principal, interest = *in.Principal, *in.Interest
		if !principal.Add(interest).Equal(in.Amount) {
			return decimal.Zero, decimal.Zero, shared.NewValidationError("principal plus interest must equal the payment amount")
		}
	case in.Principal != nil:
		principal = *in.Principal
		interest = in.Amount.Sub(principal)
	case in.Interest != nil:
		interest = *in.Interest
		principal = in.Amount.Sub(interest)
	default:
		interest = decimal.Min(l.ScheduledInterest(), in.Amount)
		principal = in.Amount.Sub(interest)
	}
	if principal.IsNegative() || interest.IsNegative() {
		return decimal.Zero, decimal.Zero, shared.NewValidationError("principal and interest cannot be negative")
	}
	return principal, interest, nil
}

// RecordPayment applies a payment. The balance only decreases and never
// goes below zero; reaching zero marks the loan paid_off, after which
// further payments are rejected.
func (l *Loan) RecordPayment(in LoanPaymentInput) (*LoanPayment, error) {
	if l.Status.IsTerminal() {
		return nil, shared.NewValidationError("loan is %s and accepts no further payments", l.Status)
	}
	if !in.Amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be positive")
	}
	principal, interest, err := l.splitPayment(in)
	if err != nil {
		return nil, err
	}
	if principal.GreaterThan(l.CurrentBalance) {
		return nil, shared.NewValidationError("principal %s exceeds the outstanding balance %s",
			principal.StringFixed(2), l.CurrentBalance.StringFixed(2))
	}

	paidOn := in.PaidOn
	if paidOn.IsZero() {
		paidOn = time.Now()
	}
	if paidOn.Year() > l.YTDYear {
		l.YTDYear = paidOn.Year()
		l.YTDPrincipalPaid = decimal.Zero
		l.YTDInterestPaid = decimal.Zero
	}

	l.CurrentBalance = l.CurrentBalance.Sub(principal)
	// a back-dated payment from an earlier year only moves the balance
	if paidOn.Year() == l.YTDYear {
		l.YTDPrincipalPaid = l.YTDPrincipalPaid.Add(principal)
		l.YTDInterestPaid = l.YTDInterestPaid.Add(interest)
	}

	payment := LoanPayment{
		ID:           uuid.New(),
		PaidOn:       paidOn,
		Amount:       in.Amount,
		Principal:    principal,
		Interest:     interest,
		BalanceAfter: l.CurrentBalance,
		Remark:       in.Remark,
	}
	l.Payments = append(l.Payments, payment)
	l.AddDomainEvent(NewLoanPaymentRecordedEvent(l, payment))

	if l.CurrentBalance.IsZero() {
		l.markPaidOff(paidOn)
		l.AddDomainEvent(NewLoanPaidOffEvent(l))
	}

	l.Touch()
	l.IncrementVersion()
	return &payment, nil
}

func (l *Loan) markPaidOff(at time.Time) {
	l.Status = LoanStatusPaidOff
	l.PaidOffAt = &at
}

// Close ends an active loan as refinanced or defaulted
func (l *Loan) Close(status LoanStatus, note string) error {
	if status != LoanStatusRefinanced && status != LoanStatusDefaulted {
		return shared.NewValidationError("a loan can only be closed as refinanced or defaulted")
	}
	if l.Status.IsTerminal() {
		return shared.NewValidationError("loan is already %s", l.Status)
	}
	l.Status = status
	if note != "" {
		l.Notes = strings.TrimSpace(l.Notes + "\n" + note)
	}
	l.Touch()
	l.IncrementVersion()
	return nil
}

// AnnualDebtService annualises the scheduled payment
func (l *Loan) AnnualDebtService() decimal.Decimal {
	return l.PaymentAmount.Mul(decimal.NewFromInt(l.PaymentFrequency.PeriodsPerYear()))
}

// MonthsToMaturity counts whole months from asOf to maturity; -1 when no maturity is set
func (l *Loan) MonthsToMaturity(asOf time.Time) int {
	if l.MaturityDate == nil {
		return -1
	}
	m := l.MaturityDate
	months := (m.Year()-asOf.Year())*12 + int(m.Month()) - int(asOf.Month())
	if m.Day() < asOf.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// MaturesWithin reports whether the loan matures within the given number of months
func (l *Loan) MaturesWithin(asOf time.Time, months int) bool {
	if l.MaturityDate == nil {
		return false
	}
	return !l.MaturityDate.After(asOf.AddDate(0, months, 0))
}

// CurrentPortion estimates the part of the balance due within twelve months.
// A loan maturing within the year is entirely current; otherwise the
// principal paid so far this year stands in for next year's principal.
func (l *Loan) CurrentPortion(asOf time.Time) decimal.Decimal {
	if l.MaturesWithin(asOf, 12) {
		return l.CurrentBalance
	}
	ytd := l.YTDPrincipalPaid
	if l.YTDYear != asOf.Year() {
		ytd = decimal.Zero
	}
	return decimal.Min(ytd, l.CurrentBalance)
}

// LTV returns balance/collateral value as a percentage, nil when there is no collateral value
func (l *Loan) LTV() *decimal.Decimal {
	if l.Collateral == nil || !l.Collateral.EstimatedValue.IsPositive() {
		return nil
	}
	ltv := l.CurrentBalance.Div(l.Collateral.EstimatedValue).Mul(decimal.NewFromInt(100)).Round(2)
	return &ltv
}
