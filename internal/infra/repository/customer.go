package repository

import (
	"context"
	"time"

	"clubops/internal/infra"
	"clubops/internal/infra/db"

	"github.com/google/uuid"
)

type CustomerRepository struct{}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{}
}

// SettlePastDue zeroes the outstanding balance after a successful payment
// outcome at the lane.
func (r *CustomerRepository) SettlePastDue(ctx context.Context, dbtx db.DBTX, customerID uuid.UUID, settledAt time.Time) error {
	const query = `
		UPDATE customers
		SET past_due_cents = 0, updated_at = $2
		WHERE id = $1`

	tag, err := dbtx.Exec(ctx, query, customerID, settledAt)
	if err != nil {
		return infra.WrapRepoErr("failed to settle past-due balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("customer not found", nil, infra.KindNotFound)
	}
	return nil
}
