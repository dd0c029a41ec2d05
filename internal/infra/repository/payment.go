package repository

import (
	"context"
	"encoding/json"
	"errors"

	"clubops/internal/domain/payment"
	"clubops/internal/infra"
	"clubops/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

func (r *PaymentRepository) Create(ctx context.Context, dbtx db.DBTX, i *payment.Intent) error {
	quote, err := json.Marshal(i.Quote)
	if err != nil {
		return infra.WrapRepoErr("failed to encode quote", err)
	}

	const query = `
		INSERT INTO payment_intents (
			id, kind, session_id, waitlist_id, quote, status,
			failure_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = dbtx.Exec(ctx, query,
		i.ID, string(i.Kind), i.SessionID, i.WaitlistID, quote, i.Status.String(),
		i.FailureReason, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("payment intent already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create payment intent", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*payment.Intent, error) {
	const query = `
		SELECT id, kind, session_id, waitlist_id, quote, status,
			failure_reason, created_at, updated_at
		FROM payment_intents WHERE id = $1`

	var (
		i      payment.Intent
		kind   string
		quote  []byte
		status string
	)
	err := dbtx.QueryRow(ctx, query, id).Scan(
		&i.ID, &kind, &i.SessionID, &i.WaitlistID, &quote, &status,
		&i.FailureReason, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("payment intent not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan payment intent", err)
	}
	if err := json.Unmarshal(quote, &i.Quote); err != nil {
		return nil, infra.WrapRepoErr("failed to decode quote", err)
	}
	i.Kind = payment.Kind(kind)
	i.Status = payment.Status(status)
	return &i, nil
}

func (r *PaymentRepository) Update(ctx context.Context, dbtx db.DBTX, i *payment.Intent) error {
	const query = `
		UPDATE payment_intents
		SET status = $2, failure_reason = $3, updated_at = $4
		WHERE id = $1`

	tag, err := dbtx.Exec(ctx, query, i.ID, i.Status.String(), i.FailureReason, i.UpdatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment intent", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment intent not found", nil, infra.KindNotFound)
	}
	return nil
}
