package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo PostgreSQL implementation of PurchaseOrderRepository
// (usable with pool or tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository builds the PO adapter. Pass pool or tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persists an order with its lines.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_orders (id, po_number, supplier, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.PONumber, po.Supplier, po.Status, nullable(po.Notes),
		nullable(po.CreatedBy), po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	for _, l := range po.Lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.POID = po.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO po_lines (id, po_id, item_id, ordered_qty, received_qty, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, l.POID, l.ItemID, l.OrderedQty, l.ReceivedQty, l.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("create po line: %w", err)
		}
	}
	return nil
}

// GetByID fetches one order with its lines.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := r.scanPO(r.q.QueryRow(ctx, `
		SELECT id, po_number, supplier, status, notes, created_by, created_at, updated_at
		FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// GetForUpdate fetches one order with its lines, locking the order row.
// Receipts take this lock first so their status rollups serialize per order.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := r.scanPO(r.q.QueryRow(ctx, `
		SELECT id, po_number, supplier, status, notes, created_by, created_at, updated_at
		FROM purchase_orders WHERE id = $1
		FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *PurchaseOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, po_number, supplier, status, notes, created_by, created_at, updated_at
		FROM purchase_orders`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := r.scanPO(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range list {
		if err := r.loadLines(ctx, po); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// GetLineForUpdate fetches a PO line and locks its row so concurrent receipts
// of the same line serialize.
func (r *PurchaseOrderRepo) GetLineForUpdate(ctx context.Context, lineID string) (*entity.POLine, error) {
	var l entity.POLine
	err := r.q.QueryRow(ctx, `
		SELECT id, po_id, item_id, ordered_qty, received_qty, unit_cost
		FROM po_lines WHERE id = $1
		FOR UPDATE`, lineID,
	).Scan(&l.ID, &l.POID, &l.ItemID, &l.OrderedQty, &l.ReceivedQty, &l.UnitCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get po line for update: %w", err)
	}
	return &l, nil
}

// UpdateLineReceived advances the line's received quantity. The guard keeps
// it inside [0, ordered_qty] even under races.
func (r *PurchaseOrderRepo) UpdateLineReceived(ctx context.Context, lineID string, received decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE po_lines SET received_qty = $2
		WHERE id = $1 AND ordered_qty >= $2 AND $2 >= 0`, lineID, received)
	if err != nil {
		return fmt.Errorf("update po line received: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrValidation
	}
	return nil
}

// UpdateStatus rewrites the order status.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, poID, status string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`, poID, status)
	if err != nil {
		return fmt.Errorf("update po status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) scanPO(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var notes, createdBy *string
	err := row.Scan(&po.ID, &po.PONumber, &po.Supplier, &po.Status, &notes, &createdBy, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan purchase order: %w", err)
	}
	po.Notes = deref(notes)
	po.CreatedBy = deref(createdBy)
	return &po, nil
}

func (r *PurchaseOrderRepo) loadLines(ctx context.Context, po *entity.PurchaseOrder) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, po_id, item_id, ordered_qty, received_qty, unit_cost
		FROM po_lines WHERE po_id = $1
		ORDER BY id`, po.ID)
	if err != nil {
		return fmt.Errorf("load po lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.POLine
		if err := rows.Scan(&l.ID, &l.POID, &l.ItemID, &l.OrderedQty, &l.ReceivedQty, &l.UnitCost); err != nil {
			return fmt.Errorf("scan po line: %w", err)
		}
		po.Lines = append(po.Lines, &l)
	}
	return rows.Err()
}
