package partner

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

// Service defines supplier and client business logic.
type Service interface {
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	GetSupplier(ctx context.Context, id int) (Supplier, error)
	CreateSupplier(ctx context.Context, sp Supplier) (Supplier, error)
	UpdateSupplier(ctx context.Context, id int, sp Supplier) error
	DeleteSupplier(ctx context.Context, id int) error

	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id int) (Client, error)
	CreateClient(ctx context.Context, c Client) (Client, error)
	UpdateClient(ctx context.Context, id int, c Client) error
	DeleteClient(ctx context.Context, id int) error
}

type service struct {
	suppliers storage.Collection[Supplier]
	clients   storage.Collection[Client]
	rec       audit.Recorder
}

// NewService creates a new partner service.
func NewService(suppliers storage.Collection[Supplier], clients storage.Collection[Client], rec audit.Recorder) Service {
	return &service{suppliers: suppliers, clients: clients, rec: rec}
}

func (s *service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *service) GetSupplier(ctx context.Context, id int) (Supplier, error) {
	return s.suppliers.Get(ctx, strconv.Itoa(id))
}

func (s *service) CreateSupplier(ctx context.Context, sp Supplier) (Supplier, error) {
	if sp.Code == "" {
		return Supplier{}, web.Invalid("code is required")
	}
	if sp.Name == "" {
		return Supplier{}, web.Invalid("name is required")
	}

	now := time.Now().UTC()
	sp.CreatedAt, sp.UpdatedAt = now, now

	if sp.ID > 0 {
		if err := s.suppliers.Create(ctx, strconv.Itoa(sp.ID), sp); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Supplier{}, web.Invalid("supplier id %d is already in use", sp.ID)
			}
			return Supplier{}, err
		}
	} else {
		created, err := s.suppliers.CreateWithNextID(ctx, func(id int) (string, Supplier) {
			sp.ID = id
			return strconv.Itoa(id), sp
		})
		if err != nil {
			return Supplier{}, err
		}
		sp = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "suppliers", strconv.Itoa(sp.ID))); err != nil {
		return Supplier{}, err
	}
	return sp, nil
}

func (s *service) UpdateSupplier(ctx context.Context, id int, sp Supplier) error {
	if sp.Code == "" {
		return web.Invalid("code is required")
	}
	if sp.Name == "" {
		return web.Invalid("name is required")
	}
	old, err := s.suppliers.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	sp.ID = id
	sp.CreatedAt = old.CreatedAt
	sp.UpdatedAt = time.Now().UTC()
	if err := s.suppliers.Put(ctx, strconv.Itoa(id), sp); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "suppliers", strconv.Itoa(id)))
}

func (s *service) DeleteSupplier(ctx context.Context, id int) error {
	if err := s.suppliers.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "suppliers", strconv.Itoa(id)))
}

func (s *service) ListClients(ctx context.Context) ([]Client, error) {
	return s.clients.List(ctx)
}

func (s *service) GetClient(ctx context.Context, id int) (Client, error) {
	return s.clients.Get(ctx, strconv.Itoa(id))
}

func (s *service) CreateClient(ctx context.Context, c Client) (Client, error) {
	if c.Name == "" {
		return Client{}, web.Invalid("name is required")
	}

	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	if c.ID > 0 {
		if err := s.clients.Create(ctx, strconv.Itoa(c.ID), c); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Client{}, web.Invalid("client id %d is already in use", c.ID)
			}
			return Client{}, err
		}
	} else {
		created, err := s.clients.CreateWithNextID(ctx, func(id int) (string, Client) {
			c.ID = id
			return strconv.Itoa(id), c
		})
		if err != nil {
			return Client{}, err
		}
		c = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "clients", strconv.Itoa(c.ID))); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *service) UpdateClient(ctx context.Context, id int, c Client) error {
	if c.Name == "" {
		return web.Invalid("name is required")
	}
	old, err := s.clients.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	c.ID = id
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	if err := s.clients.Put(ctx, strconv.Itoa(id), c); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "clients", strconv.Itoa(id)))
}

func (s *service) DeleteClient(ctx context.Context, id int) error {
	if err := s.clients.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "clients", strconv.Itoa(id)))
}
