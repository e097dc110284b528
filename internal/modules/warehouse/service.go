package warehouse

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

// Service defines warehouse and location business logic.
type Service interface {
	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	GetWarehouse(ctx context.Context, id int) (Warehouse, error)
	CreateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error)
	UpdateWarehouse(ctx context.Context, id int, w Warehouse) error
	DeleteWarehouse(ctx context.Context, id int) error
	WarehouseLocations(ctx context.Context, warehouseID int) ([]Location, error)

	ListLocations(ctx context.Context) ([]Location, error)
	GetLocation(ctx context.Context, id int) (Location, error)
	CreateLocation(ctx context.Context, l Location) (Location, error)
	UpdateLocation(ctx context.Context, id int, l Location) error
	DeleteLocation(ctx context.Context, id int) error
}

type service struct {
	warehouses storage.Collection[Warehouse]
	locations  storage.Collection[Location]
	rec        audit.Recorder
}

// NewService creates a new warehouse service.
func NewService(warehouses storage.Collection[Warehouse], locations storage.Collection[Location], rec audit.Recorder) Service {
	return &service{warehouses: warehouses, locations: locations, rec: rec}
}

func (s *service) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	return s.warehouses.List(ctx)
}

func (s *service) GetWarehouse(ctx context.Context, id int) (Warehouse, error) {
	return s.warehouses.Get(ctx, strconv.Itoa(id))
}

func (s *service) CreateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error) {
	if w.Code == "" {
		return Warehouse{}, web.Invalid("code is required")
	}
	if w.Name == "" {
		return Warehouse{}, web.Invalid("name is required")
	}

	now := time.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now

	if w.ID > 0 {
		if err := s.warehouses.Create(ctx, strconv.Itoa(w.ID), w); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Warehouse{}, web.Invalid("warehouse id %d is already in use", w.ID)
			}
			return Warehouse{}, err
		}
	} else {
		created, err := s.warehouses.CreateWithNextID(ctx, func(id int) (string, Warehouse) {
			w.ID = id
			return strconv.Itoa(id), w
		})
		if err != nil {
			return Warehouse{}, err
		}
		w = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "warehouses", strconv.Itoa(w.ID))); err != nil {
		return Warehouse{}, err
	}
	return w, nil
}

func (s *service) UpdateWarehouse(ctx context.Context, id int, w Warehouse) error {
	if w.Code == "" {
		return web.Invalid("code is required")
	}
	if w.Name == "" {
		return web.Invalid("name is required")
	}
	old, err := s.warehouses.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	w.ID = id
	w.CreatedAt = old.CreatedAt
	w.UpdatedAt = time.Now().UTC()
	if err := s.warehouses.Put(ctx, strconv.Itoa(id), w); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "warehouses", strconv.Itoa(id)))
}

func (s *service) DeleteWarehouse(ctx context.Context, id int) error {
	if err := s.warehouses.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "warehouses", strconv.Itoa(id)))
}

func (s *service) WarehouseLocations(ctx context.Context, warehouseID int) ([]Location, error) {
	if _, err := s.warehouses.Get(ctx, strconv.Itoa(warehouseID)); err != nil {
		return nil, err
	}
	all, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []Location{}
	for _, l := range all {
		if l.WarehouseID == warehouseID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *service) ListLocations(ctx context.Context) ([]Location, error) {
	return s.locations.List(ctx)
}

func (s *service) GetLocation(ctx context.Context, id int) (Location, error) {
	return s.locations.Get(ctx, strconv.Itoa(id))
}

func (s *service) CreateLocation(ctx context.Context, l Location) (Location, error) {
	if l.WarehouseID <= 0 {
		return Location{}, web.Invalid("warehouse_id is required")
	}
	if l.Code == "" {
		return Location{}, web.Invalid("code is required")
	}

	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now

	if l.ID > 0 {
		if err := s.locations.Create(ctx, strconv.Itoa(l.ID), l); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Location{}, web.Invalid("location id %d is already in use", l.ID)
			}
			return Location{}, err
		}
	} else {
		created, err := s.locations.CreateWithNextID(ctx, func(id int) (string, Location) {
			l.ID = id
			return strconv.Itoa(id), l
		})
		if err != nil {
			return Location{}, err
		}
		l = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "locations", strconv.Itoa(l.ID))); err != nil {
		return Location{}, err
	}
	return l, nil
}

func (s *service) UpdateLocation(ctx context.Context, id int, l Location) error {
	if l.WarehouseID <= 0 {
		return web.Invalid("warehouse_id is required")
	}
	if l.Code == "" {
		return web.Invalid("code is required")
	}
	old, err := s.locations.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	l.ID = id
	l.CreatedAt = old.CreatedAt
	l.UpdatedAt = time.Now().UTC()
	if err := s.locations.Put(ctx, strconv.Itoa(id), l); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "locations", strconv.Itoa(id)))
}

func (s *service) DeleteLocation(ctx context.Context, id int) error {
	if err := s.locations.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "locations", strconv.Itoa(id)))
}
