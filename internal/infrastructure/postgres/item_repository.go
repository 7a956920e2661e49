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

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, unit, category, default_supplier, reorder_threshold,
	min_stock_level, default_price, current_qty, active, created_at, updated_at`

// ItemRepo PostgreSQL implementation of ItemRepository (usable with pool or tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository builds the item adapter. Pass pool or tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Unit, &it.Category, &it.DefaultSupplier,
		&it.ReorderThreshold, &it.MinStockLevel, &it.DefaultPrice,
		&it.CurrentQty, &it.Active, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &it, nil
}

// Create persists a new item.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Unit, item.Category, item.DefaultSupplier,
		item.ReorderThreshold, item.MinStockLevel, item.DefaultPrice,
		item.CurrentQty, item.Active, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID fetches one item.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return scanItem(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate fetches the item and locks its row (SELECT FOR UPDATE). Every
// mutating ledger operation takes this lock first, serializing per item.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return scanItem(r.q.QueryRow(ctx, query, id))
}

// List returns items filtered by active flag and category, ordered by name.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Active != nil {
		query += fmt.Sprintf(" AND active = $%d", pos)
		args = append(args, *filter.Active)
		pos++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	query += " ORDER BY name"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Update rewrites item master data. current_qty is deliberately excluded;
// only UpdateCachedQty moves it.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items
		SET name = $2, unit = $3, category = $4, default_supplier = $5,
			reorder_threshold = $6, min_stock_level = $7, default_price = $8,
			updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Unit, item.Category, item.DefaultSupplier,
		item.ReorderThreshold, item.MinStockLevel, item.DefaultPrice, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive toggles the soft-delete flag.
func (r *ItemRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set item active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCachedQty rewrites the cached balance, always inside the same
// transaction as the lot mutation and the audit append.
func (r *ItemRepo) UpdateCachedQty(ctx context.Context, id string, qty decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET current_qty = $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		return fmt.Errorf("update cached qty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListBelowReorder returns active items at or under their reorder threshold,
// most deficient first.
func (r *ItemRepo) ListBelowReorder(ctx context.Context) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE active = true AND current_qty <= reorder_threshold
		ORDER BY (reorder_threshold - current_qty) DESC, name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list below reorder: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
