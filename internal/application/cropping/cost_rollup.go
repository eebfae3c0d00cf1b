package cropping

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
)

// RollupTarget is one field and crop year whose cost buckets need rebuilding
type RollupTarget struct {
	FieldID uuid.UUID
	Year    int
}

// CostRollup maintains the per-field cost buckets. The buckets are a
// materialized view of the expenses allocated to a field in a year and are
// only ever written here.
type CostRollup struct {
	fields   cropping.FieldRepository
	expenses cropping.ExpenseRepository
}

// NewCostRollup creates a CostRollup over the given repositories, normally
// the transactional ones of the unit of work that changed the expenses.
func NewCostRollup(fields cropping.FieldRepository, expenses cropping.ExpenseRepository) *CostRollup {
	return &CostRollup{fields: fields, expenses: expenses}
}

// Recompute rebuilds Costs[year] of one field from every expense of that
// year referencing it. A field with no remaining expenses gets zeroed buckets;
// a field that no longer exists has nothing to rebuild.
func (r *CostRollup) Recompute(ctx context.Context, fieldID uuid.UUID, year int) (cropping.CostBuckets, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cost_rollup", "recompute",
		telemetry.SpanAttrFieldID, fieldID.String(), telemetry.SpanAttrYear, year)
	defer span.End()

	field, err := r.fields.FindByID(ctx, fieldID)
	if shared.IsNotFound(err) {
		return cropping.CostBuckets{}, nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return cropping.CostBuckets{}, err
	}
	expenses, err := r.expenses.FindByFieldAndYear(ctx, fieldID, year)
	if err != nil {
		telemetry.RecordError(span, err)
		return cropping.CostBuckets{}, fmt.Errorf("failed to load expenses of field %s: %w", fieldID, err)
	}

	buckets := cropping.RollupCosts(fieldID, expenses)
	field.ReplaceCosts(year, buckets)
	if err := r.fields.UpdateCosts(ctx, fieldID, field.Costs); err != nil {
		telemetry.RecordError(span, err)
		return cropping.CostBuckets{}, fmt.Errorf("failed to store costs of field %s: %w", fieldID, err)
	}
	return buckets, nil
}

// RecomputeAll rebuilds every distinct target once, in a stable order
func (r *CostRollup) RecomputeAll(ctx context.Context, targets []RollupTarget) error {
	for _, t := range dedupeTargets(targets) {
		if _, err := r.Recompute(ctx, t.FieldID, t.Year); err != nil {
			return err
		}
	}
	return nil
}

// targetsOf lists the fields an expense is allocated to, for its year
func targetsOf(e *cropping.Expense) []RollupTarget {
	targets := make([]RollupTarget, 0, len(e.Fields))
	for _, id := range e.Fields.FieldIDs() {
		targets = append(targets, RollupTarget{FieldID: id, Year: e.Year})
	}
	return targets
}

func dedupeTargets(targets []RollupTarget) []RollupTarget {
	seen := make(map[RollupTarget]bool, len(targets))
	out := make([]RollupTarget, 0, len(targets))
	for _, t := range targets {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].FieldID.String() < out[j].FieldID.String()
	})
	return out
}
