package cropping

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpenseService allocates crop expenses to fields and keeps the field cost
// buckets in step. Every write and its rollup fan-out share one transaction.
type ExpenseService struct {
	expenseRepo cropping.ExpenseRepository
	txScope     common.TransactionScope
	storage     ReceiptStorage
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo cropping.ExpenseRepository,
	txScope common.TransactionScope,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// SetReceiptStorage enables receipt uploads
func (s *ExpenseService) SetReceiptStorage(storage ReceiptStorage) {
	s.storage = storage
}

// Create records an expense, allocates it and recomputes the affected fields
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "crop_expense", "create",
		telemetry.SpanAttrCropCode, req.CropCode)
	defer span.End()

	code, err := cropping.ParseCropCode(req.CropCode)
	if err != nil {
		return nil, err
	}

	var expense *cropping.Expense
	err = s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		fields, err := resolveFields(ctx, repos.Fields(), code, req.FieldIDs)
		if err != nil {
			return err
		}
		expense, err = cropping.NewExpense(req.params(), fields)
		if err != nil {
			return err
		}
		if err := repos.Expenses().Save(ctx, expense); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		return NewCostRollup(repos.Fields(), repos.Expenses()).RecomputeAll(ctx, targetsOf(expense))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Crop expense recorded",
		zap.String("expense_id", expense.ID.String()),
		zap.String("crop_code", expense.CropCode),
		zap.Int("fields", len(expense.Fields)),
		zap.String("total_cost", expense.TotalCost().StringFixed(2)),
	)
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Update replaces an expense's attributes. Fields are re-resolved when
// field ids are given or the crop code changes; otherwise the stored
// snapshot is kept. Both the old and the new allocation are recomputed.
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "crop_expense", "update",
		telemetry.SpanAttrCropCode, req.CropCode)
	defer span.End()

	var expense *cropping.Expense
	err := s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		var err error
		expense, err = repos.Expenses().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := targetsOf(expense)
		previousCode := expense.CropCode

		if err := expense.Update(req.params()); err != nil {
			return err
		}

		// the acreage snapshot is only retaken when the field set changes
		var fields []cropping.Field
		switch {
		case len(req.FieldIDs) > 0:
			fields, err = repos.Fields().FindByIDs(ctx, req.FieldIDs)
		case expense.CropCode != previousCode:
			code, _ := cropping.ParseCropCode(expense.CropCode)
			fields, err = resolveFields(ctx, repos.Fields(), code, nil)
		}
		if err != nil {
			return err
		}
		if fields != nil {
			if err := expense.Allocate(fields); err != nil {
				return err
			}
		}
		if err := repos.Expenses().Save(ctx, expense); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		return NewCostRollup(repos.Fields(), repos.Expenses()).
			RecomputeAll(ctx, append(before, targetsOf(expense)...))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Delete removes an expense and zeroes its contribution to the field costs
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	var receiptKey string
	err := s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		expense, err := repos.Expenses().FindByID(ctx, id)
		if err != nil {
			return err
		}
		receiptKey = expense.ReceiptKey
		if err := repos.Expenses().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		return NewCostRollup(repos.Fields(), repos.Expenses()).RecomputeAll(ctx, targetsOf(expense))
	})
	if err != nil {
		return err
	}

	if receiptKey != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, receiptKey); err != nil {
			s.logger.Warn("Failed to delete receipt of removed expense",
				zap.String("expense_id", id.String()),
				zap.String("key", receiptKey),
				zap.Error(err))
		}
	}
	return nil
}

// GetByID returns one expense
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// List returns a page of expenses
func (s *ExpenseService) List(ctx context.Context, f ExpenseListFilter) (shared.Paginated[ExpenseResponse], error) {
	filter := cropping.ExpenseFilter{
		Filter:   f.PageQuery.Filter("date"),
		CropCode: strings.ToUpper(strings.TrimSpace(f.CropCode)),
		Year:     f.Year,
		Category: cropping.ExpenseCategory(f.Category),
		FieldID:  f.FieldID,
	}

	expenses, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ExpenseResponse]{}, err
	}
	total, err := s.expenseRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ExpenseResponse]{}, err
	}
	items := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		items[i] = ToExpenseResponse(&expenses[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// SummaryByCropCode totals every expense of a crop code by category
func (s *ExpenseService) SummaryByCropCode(ctx context.Context, cropCode string) (*CropSummaryResponse, error) {
	code, err := cropping.ParseCropCode(cropCode)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindAll(ctx, cropping.ExpenseFilter{
		Filter:   shared.Unpaged(),
		CropCode: strings.ToUpper(code.Raw),
	})
	if err != nil {
		return nil, err
	}

	summary := cropping.SummarizeExpenses(code.Raw, expenses)
	byCategory := make(map[string]decimal.Decimal, len(summary.ByCategory))
	for c, v := range summary.ByCategory {
		byCategory[string(c)] = v
	}
	return &CropSummaryResponse{
		CropCode:     summary.CropCode,
		ExpenseCount: summary.ExpenseCount,
		TotalCost:    summary.TotalCost,
		ByCategory:   byCategory,
	}, nil
}

// AttachReceipt uploads a receipt file and links it to the expense
func (s *ExpenseService) AttachReceipt(ctx context.Context, id uuid.UUID, filename, contentType string, data []byte) (*ReceiptResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Receipt storage is not configured")
	}
	if len(data) == 0 {
		return nil, shared.NewValidationError("receipt file is empty")
	}

	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("receipts/%d/%s/%s%s", expense.Year, expense.ID, uuid.New(), strings.ToLower(path.Ext(filename)))
	stored, err := s.storage.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}

	previous := expense.ReceiptKey
	expense.AttachReceipt(stored)
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		_ = s.storage.Delete(ctx, stored)
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	if previous != "" {
		if err := s.storage.Delete(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete replaced receipt", zap.String("key", previous), zap.Error(err))
		}
	}

	url, err := s.storage.DownloadURL(ctx, stored)
	if err != nil {
		s.logger.Warn("Failed to presign receipt link", zap.String("key", stored), zap.Error(err))
	}
	return &ReceiptResponse{ExpenseID: expense.ID, Key: stored, DownloadURL: url}, nil
}

// resolveFields picks the fields an expense applies to: the given ids, or
// every field planted with the code's crop in the code's year.
func resolveFields(ctx context.Context, repo cropping.FieldRepository, code cropping.CropCode, ids []uuid.UUID) ([]cropping.Field, error) {
	if len(ids) > 0 {
		return repo.FindByIDs(ctx, ids)
	}
	all, err := repo.FindAll(ctx, shared.Unpaged())
	if err != nil {
		return nil, fmt.Errorf("failed to load fields: %w", err)
	}
	matched := make([]cropping.Field, 0, len(all))
	for i := range all {
		if code.Matches(all[i].CropFor(code.Year)) {
			matched = append(matched, all[i])
		}
	}
	if len(matched) == 0 {
		return nil, shared.NewValidationError("no fields are planted with %s in %d", code.CropName, code.Year)
	}
	return matched, nil
}
