package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const txColumns = `id, seq, item_id, type, quantity, balance_after, unit_cost,
	total_cost, purpose, reason, notes, module_ref, tank_id, po_number, actor, created_at`

// TransactionRepo PostgreSQL implementation of TransactionRepository. The
// table is append-only: no UPDATE or DELETE statement exists here, and the
// schema revokes them as well.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository builds the transaction adapter. Pass pool or tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func scanTransaction(row pgx.Row) (*entity.StockTransaction, error) {
	var t entity.StockTransaction
	var purpose, reason, notes, moduleRef, tankID, poNumber, actor *string
	err := row.Scan(
		&t.ID, &t.Seq, &t.ItemID, &t.Type, &t.Quantity, &t.BalanceAfter,
		&t.UnitCost, &t.TotalCost, &purpose, &reason, &notes,
		&moduleRef, &tankID, &poNumber, &actor, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	t.Purpose = deref(purpose)
	t.Reason = deref(reason)
	t.Notes = deref(notes)
	t.ModuleRef = deref(moduleRef)
	t.TankID = deref(tankID)
	t.PONumber = deref(poNumber)
	t.Actor = deref(actor)
	return &t, nil
}

// Create appends one transaction; seq comes back from the store and totals
// the audit order.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, item_id, type, quantity, balance_after,
			unit_cost, total_cost, purpose, reason, notes, module_ref, tank_id,
			po_number, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		tx.ID, tx.ItemID, tx.Type, tx.Quantity, tx.BalanceAfter,
		tx.UnitCost, tx.TotalCost, nullable(tx.Purpose), nullable(tx.Reason),
		nullable(tx.Notes), nullable(tx.ModuleRef), nullable(tx.TankID),
		nullable(tx.PONumber), nullable(tx.Actor), tx.CreatedAt,
	).Scan(&tx.Seq)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// GetByID fetches one transaction.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.StockTransaction, error) {
	query := `SELECT ` + txColumns + ` FROM stock_transactions WHERE id = $1`
	return scanTransaction(r.q.QueryRow(ctx, query, id))
}

// List returns the audit trail newest first, filtered by item, type and date.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + txColumns + ` FROM stock_transactions WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
