package order

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

// Service defines order business logic.
type Service interface {
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id int) (Order, error)
	Create(ctx context.Context, o Order) (Order, error)
	Update(ctx context.Context, id int, o Order) error
	Delete(ctx context.Context, id int) error
}

type service struct {
	orders storage.Collection[Order]
	rec    audit.Recorder
}

// NewService creates a new order service.
func NewService(orders storage.Collection[Order], rec audit.Recorder) Service {
	return &service{orders: orders, rec: rec}
}

func (s *service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

func (s *service) Get(ctx context.Context, id int) (Order, error) {
	return s.orders.Get(ctx, strconv.Itoa(id))
}

func validate(o Order) error {
	if o.Items == nil {
		return web.Invalid("items is required")
	}
	for _, li := range o.Items {
		if li.ItemID == "" {
			return web.Invalid("items[].item_id is required")
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, o Order) (Order, error) {
	if err := validate(o); err != nil {
		return Order{}, err
	}
	if o.OrderStatus == "" {
		o.OrderStatus = StatusPending
	}

	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now

	if o.ID > 0 {
		if err := s.orders.Create(ctx, strconv.Itoa(o.ID), o); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Order{}, web.Invalid("order id %d is already in use", o.ID)
			}
			return Order{}, err
		}
	} else {
		created, err := s.orders.CreateWithNextID(ctx, func(id int) (string, Order) {
			o.ID = id
			return strconv.Itoa(id), o
		})
		if err != nil {
			return Order{}, err
		}
		o = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "orders", strconv.Itoa(o.ID))); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (s *service) Update(ctx context.Context, id int, o Order) error {
	if err := validate(o); err != nil {
		return err
	}
	old, err := s.orders.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	o.ID = id
	o.CreatedAt = old.CreatedAt
	o.UpdatedAt = time.Now().UTC()
	if err := s.orders.Put(ctx, strconv.Itoa(id), o); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "orders", strconv.Itoa(id)))
}

func (s *service) Delete(ctx context.Context, id int) error {
	if err := s.orders.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "orders", strconv.Itoa(id)))
}
