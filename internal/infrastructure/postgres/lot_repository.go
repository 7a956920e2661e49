package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, item_id, seq, original_qty, remaining_qty, unit_cost,
	acquired_at, batch_number, expiry_date, supplier, po_number, created_at`

// LotRepo PostgreSQL implementation of LotRepository (usable with pool or tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository builds the lot adapter. Pass pool or tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	var batch, supplier, poNumber *string
	err := row.Scan(
		&l.ID, &l.ItemID, &l.Seq, &l.OriginalQty, &l.RemainingQty, &l.UnitCost,
		&l.AcquiredAt, &batch, &l.ExpiryDate, &supplier, &poNumber, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan lot: %w", err)
	}
	if batch != nil {
		l.BatchNumber = *batch
	}
	if supplier != nil {
		l.Supplier = *supplier
	}
	if poNumber != nil {
		l.PONumber = *poNumber
	}
	return &l, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create persists a new lot; seq comes back from the store and fixes the
// lot's place in the FIFO order.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lots (id, item_id, original_qty, remaining_qty, unit_cost,
			acquired_at, batch_number, expiry_date, supplier, po_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		lot.ID, lot.ItemID, lot.OriginalQty, lot.RemainingQty, lot.UnitCost,
		lot.AcquiredAt, nullable(lot.BatchNumber), lot.ExpiryDate,
		nullable(lot.Supplier), nullable(lot.PONumber), lot.CreatedAt,
	).Scan(&lot.Seq)
	if err != nil {
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetByID fetches one lot.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	return scanLot(r.q.QueryRow(ctx, query, id))
}

// ListOpen returns the item's open lots in FIFO order: oldest acquisition
// first, insertion sequence as the tie-break.
func (r *LotRepo) ListOpen(ctx context.Context, itemID string) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE item_id = $1 AND remaining_qty > 0
		ORDER BY acquired_at ASC, seq ASC`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list open lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Decrement subtracts amount from remaining_qty. The WHERE guard makes the
// subtraction conditional on sufficiency, so a stale plan can never drive a
// lot negative.
func (r *LotRepo) Decrement(ctx context.Context, lotID string, amount decimal.Decimal) error {
	query := `
		UPDATE lots SET remaining_qty = remaining_qty - $2
		WHERE id = $1 AND remaining_qty >= $2`
	tag, err := r.q.Exec(ctx, query, lotID, amount)
	if err != nil {
		return fmt.Errorf("decrement lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientLotQuantity
	}
	return nil
}

// SetRemaining rewrites remaining_qty, bounded to [0, original_qty].
func (r *LotRepo) SetRemaining(ctx context.Context, lotID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrValidation
	}
	query := `
		UPDATE lots SET remaining_qty = $2
		WHERE id = $1 AND original_qty >= $2`
	tag, err := r.q.Exec(ctx, query, lotID, amount)
	if err != nil {
		return fmt.Errorf("set lot remaining: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrValidation
	}
	return nil
}

// SumOpen is the live lot sum for an item.
func (r *LotRepo) SumOpen(ctx context.Context, itemID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(remaining_qty), 0) FROM lots WHERE item_id = $1`, itemID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum open lots: %w", err)
	}
	return sum, nil
}

// ListExpiring returns open lots expiring in [now, until], soonest first.
// itemID empty means all items.
func (r *LotRepo) ListExpiring(ctx context.Context, itemID string, until time.Time) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE remaining_qty > 0 AND expiry_date IS NOT NULL
			AND expiry_date >= now() AND expiry_date <= $1`
	args := []any{until}
	if itemID != "" {
		query += " AND item_id = $2"
		args = append(args, itemID)
	}
	query += " ORDER BY expiry_date ASC, seq ASC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expiring lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
