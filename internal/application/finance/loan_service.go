package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LoanService handles loans and their payments
type LoanService struct {
	loanRepo       finance.LoanRepository
	investmentRepo finance.CapitalInvestmentRepository
	entities       shared.LegalEntities
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLoanService creates a new LoanService
func NewLoanService(
	loanRepo finance.LoanRepository,
	investmentRepo finance.CapitalInvestmentRepository,
	entities shared.LegalEntities,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:       loanRepo,
		investmentRepo: investmentRepo,
		entities:       entities,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LoanService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a loan. A linked capital investment must exist.
func (s *LoanService) Create(ctx context.Context, req CreateLoanRequest) (*LoanResponse, error) {
	if err := s.entities.Validate(req.Entity); err != nil {
		return nil, err
	}
	if req.CapitalInvestmentID != nil {
		if _, err := s.investmentRepo.FindByID(ctx, *req.CapitalInvestmentID); err != nil {
			if shared.IsNotFound(err) {
				return nil, shared.NewValidationError("capital investment %s does not exist", req.CapitalInvestmentID)
			}
			return nil, err
		}
	}

	var collateral *finance.Collateral
	if req.Collateral != nil {
		collateral = &finance.Collateral{
			Type:           req.Collateral.Type,
			Description:    req.Collateral.Description,
			EstimatedValue: req.Collateral.EstimatedValue,
		}
	}
	loan, err := finance.NewLoan(finance.NewLoanParams{
		LoanNumber:          req.LoanNumber,
		Lender:              req.Lender,
		LoanType:            finance.LoanType(req.LoanType),
		Entity:              req.Entity,
		OriginalAmount:      req.OriginalAmount,
		CurrentBalance:      req.CurrentBalance,
		InterestRate:        req.InterestRate,
		PaymentAmount:       req.PaymentAmount,
		PaymentFrequency:    finance.PaymentFrequency(req.PaymentFrequency),
		OriginationDate:     req.OriginationDate,
		MaturityDate:        req.MaturityDate,
		Collateral:          collateral,
		CapitalInvestmentID: req.CapitalInvestmentID,
		Notes:               req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	s.logger.Info("Loan opened",
		zap.String("loan_id", loan.ID.String()),
		zap.String("lender", loan.Lender),
		zap.String("balance", loan.CurrentBalance.StringFixed(2)),
	)
	resp := ToLoanResponse(loan)
	return &resp, nil
}

// GetByID returns one loan
func (s *LoanService) GetByID(ctx context.Context, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToLoanResponse(loan)
	return &resp, nil
}

// List returns a page of loans
func (s *LoanService) List(ctx context.Context, f LoanListFilter) (shared.Paginated[LoanResponse], error) {
	filter := finance.LoanFilter{
		Filter:              f.PageQuery.Filter("maturity_date"),
		Entity:              f.Entity,
		CapitalInvestmentID: f.CapitalInvestmentID,
	}
	if f.PageQuery.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	if f.Status != "" {
		status := finance.LoanStatus(f.Status)
		filter.Status = &status
	}

	loans, err := s.loanRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[LoanResponse]{}, err
	}
	total, err := s.loanRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[LoanResponse]{}, err
	}
	items := make([]LoanResponse, len(loans))
	for i := range loans {
		items[i] = ToLoanResponse(&loans[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// RecordPayment applies a payment with a version check. Two payments
// racing on the same loan cannot both succeed.
func (s *LoanService) RecordPayment(ctx context.Context, id uuid.UUID, req LoanPaymentRequest) (*LoanResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "loan", "record_payment",
		telemetry.SpanAttrLoanID, id.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)
	defer span.End()

	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	payment, err := loan.RecordPayment(finance.LoanPaymentInput{
		Amount:    req.Amount,
		Principal: req.Principal,
		Interest:  req.Interest,
		PaidOn:    req.PaidOn,
		Remark:    req.Remark,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.loanRepo.SaveWithLock(ctx, loan); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Loan payment recorded",
		zap.String("loan_id", loan.ID.String()),
		zap.String("principal", payment.Principal.StringFixed(2)),
		zap.String("interest", payment.Interest.StringFixed(2)),
		zap.String("balance", loan.CurrentBalance.StringFixed(2)),
	)
	if err := shared.PublishAndClear(ctx, s.eventPublisher, loan); err != nil {
		s.logger.Warn("Failed to publish loan events", zap.String("loan_id", loan.ID.String()), zap.Error(err))
	}
	resp := ToLoanResponse(loan)
	return &resp, nil
}

// Close ends an active loan as refinanced or defaulted
func (s *LoanService) Close(ctx context.Context, id uuid.UUID, req CloseLoanRequest) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := loan.Close(finance.LoanStatus(req.Status), req.Note); err != nil {
		return nil, err
	}
	if err := s.loanRepo.SaveWithLock(ctx, loan); err != nil {
		return nil, err
	}
	s.logger.Info("Loan closed", zap.String("loan_id", loan.ID.String()), zap.String("status", req.Status))
	resp := ToLoanResponse(loan)
	return &resp, nil
}
