package inventory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

// Service defines inventory and stock log business logic.
type Service interface {
	ListInventories(ctx context.Context) ([]Inventory, error)
	GetInventory(ctx context.Context, id int) (Inventory, error)
	CreateInventory(ctx context.Context, inv Inventory) (Inventory, error)
	UpdateInventory(ctx context.Context, id int, inv Inventory) error
	DeleteInventory(ctx context.Context, id int) error

	ListStockLogs(ctx context.Context) ([]StockLog, error)
	GetStockLog(ctx context.Context, timestamp string) (StockLog, error)
	CreateStockLog(ctx context.Context, sl StockLog) (StockLog, error)
	UpdateStockLog(ctx context.Context, timestamp string, sl StockLog) error
	DeleteStockLog(ctx context.Context, timestamp string) error
}

type service struct {
	inventories storage.Collection[Inventory]
	stockLogs   storage.Collection[StockLog]
	rec         audit.Recorder
}

// NewService creates a new inventory service.
func NewService(inventories storage.Collection[Inventory], stockLogs storage.Collection[StockLog], rec audit.Recorder) Service {
	return &service{inventories: inventories, stockLogs: stockLogs, rec: rec}
}

// recompute refreshes the aggregate counters: on-hand follows the
// per-location counts when present, and available = on_hand + expected
// - allocated always holds after a write.
func recompute(inv Inventory) Inventory {
	if len(inv.Locations) > 0 {
		sum := 0
		for _, qty := range inv.Locations {
			sum += qty
		}
		inv.TotalOnHand = sum
	}
	inv.TotalAvailable = inv.TotalOnHand + inv.TotalExpected - inv.TotalAllocated
	return inv
}

func (s *service) ListInventories(ctx context.Context) ([]Inventory, error) {
	return s.inventories.List(ctx)
}

func (s *service) GetInventory(ctx context.Context, id int) (Inventory, error) {
	return s.inventories.Get(ctx, strconv.Itoa(id))
}

func (s *service) CreateInventory(ctx context.Context, inv Inventory) (Inventory, error) {
	if inv.ItemID == "" {
		return Inventory{}, web.Invalid("item_id is required")
	}

	now := time.Now().UTC()
	inv.CreatedAt, inv.UpdatedAt = now, now
	inv = recompute(inv)

	if inv.ID > 0 {
		if err := s.inventories.Create(ctx, strconv.Itoa(inv.ID), inv); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Inventory{}, web.Invalid("inventory id %d is already in use", inv.ID)
			}
			return Inventory{}, err
		}
	} else {
		created, err := s.inventories.CreateWithNextID(ctx, func(id int) (string, Inventory) {
			inv.ID = id
			return strconv.Itoa(id), inv
		})
		if err != nil {
			return Inventory{}, err
		}
		inv = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "inventories", strconv.Itoa(inv.ID))); err != nil {
		return Inventory{}, err
	}
	return inv, nil
}

func (s *service) UpdateInventory(ctx context.Context, id int, inv Inventory) error {
	if inv.ItemID == "" {
		return web.Invalid("item_id is required")
	}
	old, err := s.inventories.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	inv.ID = id
	inv.CreatedAt = old.CreatedAt
	inv.UpdatedAt = time.Now().UTC()
	inv = recompute(inv)
	if err := s.inventories.Put(ctx, strconv.Itoa(id), inv); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "inventories", strconv.Itoa(id)))
}

func (s *service) DeleteInventory(ctx context.Context, id int) error {
	if err := s.inventories.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "inventories", strconv.Itoa(id)))
}

func (s *service) ListStockLogs(ctx context.Context) ([]StockLog, error) {
	return s.stockLogs.List(ctx)
}

func (s *service) GetStockLog(ctx context.Context, timestamp string) (StockLog, error) {
	return s.stockLogs.Get(ctx, timestamp)
}

func (s *service) CreateStockLog(ctx context.Context, sl StockLog) (StockLog, error) {
	if sl.PerformedBy == "" {
		return StockLog{}, web.Invalid("performed_by is required")
	}
	if sl.Timestamp == "" {
		sl.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	} else if _, err := time.Parse(time.RFC3339Nano, sl.Timestamp); err != nil {
		return StockLog{}, web.Invalid("timestamp must be RFC3339, got %q", sl.Timestamp)
	}
	if err := s.stockLogs.Create(ctx, sl.Timestamp, sl); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return StockLog{}, web.Invalid("stock log %s already exists", sl.Timestamp)
		}
		return StockLog{}, err
	}
	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "stocklogs", sl.Timestamp)); err != nil {
		return StockLog{}, err
	}
	return sl, nil
}

func (s *service) UpdateStockLog(ctx context.Context, timestamp string, sl StockLog) error {
	if sl.PerformedBy == "" {
		return web.Invalid("performed_by is required")
	}
	sl.Timestamp = timestamp
	if err := s.stockLogs.Put(ctx, timestamp, sl); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "stocklogs", timestamp))
}

func (s *service) DeleteStockLog(ctx context.Context, timestamp string) error {
	if err := s.stockLogs.Delete(ctx, timestamp); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "stocklogs", timestamp))
}
