package shipment

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

// Service defines shipment business logic.
type Service interface {
	List(ctx context.Context) ([]Shipment, error)
	Get(ctx context.Context, id int) (Shipment, error)
	Create(ctx context.Context, sh Shipment) (Shipment, error)
	Update(ctx context.Context, id int, sh Shipment) error
	Delete(ctx context.Context, id int) error
}

type service struct {
	shipments storage.Collection[Shipment]
	rec       audit.Recorder
}

// NewService creates a new shipment service.
func NewService(shipments storage.Collection[Shipment], rec audit.Recorder) Service {
	return &service{shipments: shipments, rec: rec}
}

func (s *service) List(ctx context.Context) ([]Shipment, error) {
	return s.shipments.List(ctx)
}

func (s *service) Get(ctx context.Context, id int) (Shipment, error) {
	return s.shipments.Get(ctx, strconv.Itoa(id))
}

func validate(sh Shipment) error {
	if sh.Items == nil {
		return web.Invalid("items is required")
	}
	for _, li := range sh.Items {
		if li.ItemID == "" {
			return web.Invalid("items[].item_id is required")
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, sh Shipment) (Shipment, error) {
	if err := validate(sh); err != nil {
		return Shipment{}, err
	}
	if sh.ShipmentStatus == "" {
		sh.ShipmentStatus = StatusPending
	}

	now := time.Now().UTC()
	sh.CreatedAt, sh.UpdatedAt = now, now

	if sh.ID > 0 {
		if err := s.shipments.Create(ctx, strconv.Itoa(sh.ID), sh); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Shipment{}, web.Invalid("shipment id %d is already in use", sh.ID)
			}
			return Shipment{}, err
		}
	} else {
		created, err := s.shipments.CreateWithNextID(ctx, func(id int) (string, Shipment) {
			sh.ID = id
			return strconv.Itoa(id), sh
		})
		if err != nil {
			return Shipment{}, err
		}
		sh = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "shipments", strconv.Itoa(sh.ID))); err != nil {
		return Shipment{}, err
	}
	return sh, nil
}

func (s *service) Update(ctx context.Context, id int, sh Shipment) error {
	if err := validate(sh); err != nil {
		return err
	}
	old, err := s.shipments.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	sh.ID = id
	sh.CreatedAt = old.CreatedAt
	sh.UpdatedAt = time.Now().UTC()
	if err := s.shipments.Put(ctx, strconv.Itoa(id), sh); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "shipments", strconv.Itoa(id)))
}

func (s *service) Delete(ctx context.Context, id int) error {
	if err := s.shipments.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "shipments", strconv.Itoa(id)))
}
