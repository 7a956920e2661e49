// Package memory implements the ledger's persistence ports in process memory.
// It backs the demo storage driver and the usecase/handler tests: one mutex
// serializes units of work, which satisfies the per-item mutual exclusion the
// ledger requires, and a pre-commit snapshot gives all-or-nothing semantics.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/domain"
	"github.com/farmerp/stockledger-api/internal/domain/entity"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// Store holds all ledger state. Zero value is not usable; call NewStore.
type Store struct {
	mu     sync.Mutex
	items  map[string]*entity.Item
	lots   map[string]*entity.Lot
	lotSeq int64
	txs    []*entity.StockTransaction
	txSeq  int64
	pos    map[string]*entity.PurchaseOrder
}

// NewStore builds an empty in-memory store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]*entity.Item),
		lots:  make(map[string]*entity.Lot),
		pos:   make(map[string]*entity.PurchaseOrder),
	}
}

// Items returns a pool-equivalent (self-locking) item repository.
func (s *Store) Items() repository.ItemRepository { return &itemRepo{s: s, locking: true} }

// Lots returns a pool-equivalent lot repository.
func (s *Store) Lots() repository.LotRepository { return &lotRepo{s: s, locking: true} }

// Transactions returns a pool-equivalent transaction repository.
func (s *Store) Transactions() repository.TransactionRepository {
	return &txRepo{s: s, locking: true}
}

// PurchaseOrders returns a pool-equivalent purchase-order repository.
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository {
	return &poRepo{s: s, locking: true}
}

// Reports returns a pool-equivalent report repository.
func (s *Store) Reports() repository.ReportRepository { return &reportRepo{s: s, locking: true} }

// Runner implements ledger.TxRunner over the store: it locks the store,
// snapshots it, runs fn with non-locking repositories bound to the "tx", and
// restores the snapshot if fn fails.
type Runner struct {
	s *Store
}

// NewRunner builds the runner.
func NewRunner(s *Store) *Runner { return &Runner{s: s} }

// Run executes fn as one atomic unit of work.
func (r *Runner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	txRepo repository.TransactionRepository,
	poRepo repository.PurchaseOrderRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.snapshot()
	err := fn(
		&itemRepo{s: r.s},
		&lotRepo{s: r.s},
		&txRepo{s: r.s},
		&poRepo{s: r.s},
	)
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ── snapshot / restore ────────────────────────────────────────────────────────

type snapshot struct {
	items  map[string]*entity.Item
	lots   map[string]*entity.Lot
	lotSeq int64
	txs    []*entity.StockTransaction
	txSeq  int64
	pos    map[string]*entity.PurchaseOrder
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		items:  make(map[string]*entity.Item, len(s.items)),
		lots:   make(map[string]*entity.Lot, len(s.lots)),
		lotSeq: s.lotSeq,
		txs:    make([]*entity.StockTransaction, len(s.txs)),
		txSeq:  s.txSeq,
		pos:    make(map[string]*entity.PurchaseOrder, len(s.pos)),
	}
	for id, it := range s.items {
		snap.items[id] = cloneItem(it)
	}
	for id, l := range s.lots {
		snap.lots[id] = cloneLot(l)
	}
	copy(snap.txs, s.txs) // transactions are append-only, never mutated
	for id, po := range s.pos {
		snap.pos[id] = clonePO(po)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.items = snap.items
	s.lots = snap.lots
	s.lotSeq = snap.lotSeq
	s.txs = snap.txs
	s.txSeq = snap.txSeq
	s.pos = snap.pos
}

func cloneItem(i *entity.Item) *entity.Item {
	c := *i
	return &c
}

func cloneLot(l *entity.Lot) *entity.Lot {
	c := *l
	if l.ExpiryDate != nil {
		d := *l.ExpiryDate
		c.ExpiryDate = &d
	}
	return &c
}

func cloneTx(t *entity.StockTransaction) *entity.StockTransaction {
	c := *t
	return &c
}

func clonePO(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *po
	c.Lines = make([]*entity.POLine, 0, len(po.Lines))
	for _, l := range po.Lines {
		lc := *l
		c.Lines = append(c.Lines, &lc)
	}
	return &c
}

// lockIf locks the store for pool-equivalent repositories; repositories bound
// to a running unit of work skip it (the runner already holds the mutex).
func (s *Store) lockIf(locking bool) func() {
	if !locking {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ── item repository ───────────────────────────────────────────────────────────

type itemRepo struct {
	s       *Store
	locking bool
}

var _ repository.ItemRepository = (*itemRepo)(nil)

func (r *itemRepo) Create(_ context.Context, item *entity.Item) error {
	defer r.s.lockIf(r.locking)()
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	defer r.s.lockIf(r.locking)()
	item, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneItem(item), nil
}

// GetForUpdate is identical to GetByID here: the runner's mutex already
// excludes every other writer.
func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) List(_ context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	defer r.s.lockIf(r.locking)()
	out := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if filter.Active != nil && it.Active != *filter.Active {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(it.Category, filter.Category) {
			continue
		}
		out = append(out, cloneItem(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *itemRepo) Update(_ context.Context, item *entity.Item) error {
	defer r.s.lockIf(r.locking)()
	stored, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := cloneItem(item)
	c.CurrentQty = stored.CurrentQty // cached balance is ledger-owned
	r.s.items[item.ID] = c
	return nil
}

func (r *itemRepo) SetActive(_ context.Context, id string, active bool) error {
	defer r.s.lockIf(r.locking)()
	item, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.Active = active
	item.UpdatedAt = time.Now()
	return nil
}

func (r *itemRepo) UpdateCachedQty(_ context.Context, id string, qty decimal.Decimal) error {
	defer r.s.lockIf(r.locking)()
	item, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.CurrentQty = qty
	item.UpdatedAt = time.Now()
	return nil
}

func (r *itemRepo) ListBelowReorder(_ context.Context) ([]*entity.Item, error) {
	defer r.s.lockIf(r.locking)()
	out := make([]*entity.Item, 0)
	for _, it := range r.s.items {
		if it.Active && it.BelowReorder() {
			out = append(out, cloneItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Deficit().GreaterThan(out[j].Deficit())
	})
	return out, nil
}

// ── lot repository ────────────────────────────────────────────────────────────

type lotRepo struct {
	s       *Store
	locking bool
}

var _ repository.LotRepository = (*lotRepo)(nil)

func (r *lotRepo) Create(_ context.Context, lot *entity.Lot) error {
	defer r.s.lockIf(r.locking)()
	if lot.RemainingQty.IsNegative() || lot.RemainingQty.GreaterThan(lot.OriginalQty) {
		return domain.ErrValidation
	}
	r.s.lotSeq++
	lot.Seq = r.s.lotSeq
	r.s.lots[lot.ID] = cloneLot(lot)
	return nil
}

func (r *lotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	defer r.s.lockIf(r.locking)()
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneLot(lot), nil
}

func (r *lotRepo) ListOpen(_ context.Context, itemID string) ([]*entity.Lot, error) {
	defer r.s.lockIf(r.locking)()
	out := make([]*entity.Lot, 0)
	for _, l := range r.s.lots {
		if l.ItemID == itemID && l.Open() {
			out = append(out, cloneLot(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AcquiredAt.Equal(out[j].AcquiredAt) {
			return out[i].AcquiredAt.Before(out[j].AcquiredAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (r *lotRepo) Decrement(_ context.Context, lotID string, amount decimal.Decimal) error {
	defer r.s.lockIf(r.locking)()
	lot, ok := r.s.lots[lotID]
	if !ok {
		return domain.ErrNotFound
	}
	if amount.GreaterThan(lot.RemainingQty) {
		return domain.ErrInsufficientLotQuantity
	}
	lot.RemainingQty = lot.RemainingQty.Sub(amount)
	return nil
}

func (r *lotRepo) SetRemaining(_ context.Context, lotID string, amount decimal.Decimal) error {
	defer r.s.lockIf(r.locking)()
	lot, ok := r.s.lots[lotID]
	if !ok {
		return domain.ErrNotFound
	}
	if amount.IsNegative() || amount.GreaterThan(lot.OriginalQty) {
		return domain.ErrValidation
	}
	lot.RemainingQty = amount
	return nil
}

func (r *lotRepo) SumOpen(_ context.Context, itemID string) (decimal.Decimal, error) {
	defer r.s.lockIf(r.locking)()
	total := decimal.Zero
	for _, l := range r.s.lots {
		if l.ItemID == itemID && l.Open() {
			total = total.Add(l.RemainingQty)
		}
	}
	return total, nil
}

func (r *lotRepo) ListExpiring(_ context.Context, itemID string, until time.Time) ([]*entity.Lot, error) {
	defer r.s.lockIf(r.locking)()
	now := time.Now()
	out := make([]*entity.Lot, 0)
	for _, l := range r.s.lots {
		if itemID != "" && l.ItemID != itemID {
			continue
		}
		if l.Open() && l.ExpiresWithin(now, until) {
			out = append(out, cloneLot(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiryDate.Before(*out[j].ExpiryDate)
	})
	return out, nil
}

// ── transaction repository ────────────────────────────────────────────────────

type txRepo struct {
	s       *Store
	locking bool
}

var _ repository.TransactionRepository = (*txRepo)(nil)

func (r *txRepo) Create(_ context.Context, tx *entity.StockTransaction) error {
	defer r.s.lockIf(r.locking)()
	r.s.txSeq++
	tx.Seq = r.s.txSeq
	r.s.txs = append(r.s.txs, cloneTx(tx))
	return nil
}

func (r *txRepo) GetByID(_ context.Context, id string) (*entity.StockTransaction, error) {
	defer r.s.lockIf(r.locking)()
	for _, tx := range r.s.txs {
		if tx.ID == id {
			return cloneTx(tx), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *txRepo) List(_ context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	defer r.s.lockIf(r.locking)()
	matched := make([]*entity.StockTransaction, 0)
	for _, tx := range r.s.txs {
		if filter.ItemID != "" && tx.ItemID != filter.ItemID {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.From != nil && tx.CreatedAt.Before(*filter.From) {
			continue
		}
		matched = append(matched, cloneTx(tx))
	}
	// Newest first: seq descending.
	sort.Slice(matched, func(i, j int) bool { return matched[i].Seq > matched[j].Seq })

	if filter.Offset >= len(matched) {
		return []*entity.StockTransaction{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// ── purchase order repository ─────────────────────────────────────────────────

type poRepo struct {
	s       *Store
	locking bool
}

var _ repository.PurchaseOrderRepository = (*poRepo)(nil)

func (r *poRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	defer r.s.lockIf(r.locking)()
	for _, existing := range r.s.pos {
		if existing.PONumber == po.PONumber {
			return domain.ErrDuplicate
		}
	}
	r.s.pos[po.ID] = clonePO(po)
	return nil
}

func (r *poRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	defer r.s.lockIf(r.locking)()
	po, ok := r.s.pos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePO(po), nil
}

// GetForUpdate is identical to GetByID here: the runner's mutex already
// serializes transactional work.
func (r *poRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *poRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	defer r.s.lockIf(r.locking)()
	out := make([]*entity.PurchaseOrder, 0, len(r.s.pos))
	for _, po := range r.s.pos {
		if status != "" && po.Status != status {
			continue
		}
		out = append(out, clonePO(po))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []*entity.PurchaseOrder{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *poRepo) GetLineForUpdate(_ context.Context, lineID string) (*entity.POLine, error) {
	defer r.s.lockIf(r.locking)()
	for _, po := range r.s.pos {
		for _, l := range po.Lines {
			if l.ID == lineID {
				lc := *l
				return &lc, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (r *poRepo) UpdateLineReceived(_ context.Context, lineID string, received decimal.Decimal) error {
	defer r.s.lockIf(r.locking)()
	for _, po := range r.s.pos {
		for _, l := range po.Lines {
			if l.ID == lineID {
				if received.IsNegative() || received.GreaterThan(l.OrderedQty) {
					return domain.ErrValidation
				}
				l.ReceivedQty = received
				po.UpdatedAt = time.Now()
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *poRepo) UpdateStatus(_ context.Context, poID, status string) error {
	defer r.s.lockIf(r.locking)()
	po, ok := r.s.pos[poID]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status = status
	po.UpdatedAt = time.Now()
	return nil
}

// ── report repository ─────────────────────────────────────────────────────────

type reportRepo struct {
	s       *Store
	locking bool
}

var _ repository.ReportRepository = (*reportRepo)(nil)

func (r *reportRepo) StockValuation(_ context.Context) ([]repository.ValuationRow, error) {
	defer r.s.lockIf(r.locking)()
	rows := make(map[string]*repository.ValuationRow)
	for _, item := range r.s.items {
		if !item.Active {
			continue
		}
		rows[item.ID] = &repository.ValuationRow{
			ItemID:   item.ID,
			Name:     item.Name,
			Unit:     item.Unit,
			Category: item.Category,
		}
	}
	for _, l := range r.s.lots {
		row, ok := rows[l.ItemID]
		if !ok || !l.Open() {
			continue
		}
		row.QtyOnHand = row.QtyOnHand.Add(l.RemainingQty)
		row.TotalValue = row.TotalValue.Add(l.RemainingQty.Mul(l.UnitCost))
		if l.UnitCost.IsZero() {
			row.ZeroCostQty = row.ZeroCostQty.Add(l.RemainingQty)
		}
	}
	out := make([]repository.ValuationRow, 0, len(rows))
	for _, row := range rows {
		// Average over costed quantity only; zero-cost remainders would
		// drag the average down without representing real spend.
		costed := row.QtyOnHand.Sub(row.ZeroCostQty)
		if costed.GreaterThan(decimal.Zero) {
			row.AvgUnitCost = row.TotalValue.Div(costed)
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
