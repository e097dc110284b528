package transfer

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

// Service defines transfer business logic.
type Service interface {
	List(ctx context.Context) ([]Transfer, error)
	Get(ctx context.Context, id int) (Transfer, error)
	Create(ctx context.Context, t Transfer) (Transfer, error)
	Update(ctx context.Context, id int, t Transfer) error
	Delete(ctx context.Context, id int) error
	// Commit moves a scheduled transfer to Processed.
	Commit(ctx context.Context, id int) (Transfer, error)
}

type service struct {
	transfers storage.Collection[Transfer]
	rec       audit.Recorder
}

// NewService creates a new transfer service.
func NewService(transfers storage.Collection[Transfer], rec audit.Recorder) Service {
	return &service{transfers: transfers, rec: rec}
}

func (s *service) List(ctx context.Context) ([]Transfer, error) {
	return s.transfers.List(ctx)
}

func (s *service) Get(ctx context.Context, id int) (Transfer, error) {
	return s.transfers.Get(ctx, strconv.Itoa(id))
}

func (s *service) Create(ctx context.Context, t Transfer) (Transfer, error) {
	if t.Reference == "" {
		return Transfer{}, web.Invalid("reference is required")
	}
	if t.TransferTo <= 0 {
		return Transfer{}, web.Invalid("transfer_to is required")
	}
	if t.TransferStatus == "" {
		t.TransferStatus = StatusScheduled
	}

	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	if t.ID > 0 {
		if err := s.transfers.Create(ctx, strconv.Itoa(t.ID), t); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Transfer{}, web.Invalid("transfer id %d is already in use", t.ID)
			}
			return Transfer{}, err
		}
	} else {
		created, err := s.transfers.CreateWithNextID(ctx, func(id int) (string, Transfer) {
			t.ID = id
			return strconv.Itoa(id), t
		})
		if err != nil {
			return Transfer{}, err
		}
		t = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "transfers", strconv.Itoa(t.ID))); err != nil {
		return Transfer{}, err
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, id int, t Transfer) error {
	if t.Reference == "" {
		return web.Invalid("reference is required")
	}
	if t.TransferTo <= 0 {
		return web.Invalid("transfer_to is required")
	}
	old, err := s.transfers.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	t.ID = id
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	if err := s.transfers.Put(ctx, strconv.Itoa(id), t); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "transfers", strconv.Itoa(id)))
}

func (s *service) Delete(ctx context.Context, id int) error {
	if err := s.transfers.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "transfers", strconv.Itoa(id)))
}

func (s *service) Commit(ctx context.Context, id int) (Transfer, error) {
	t, err := s.transfers.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return Transfer{}, err
	}
	t.TransferStatus = StatusProcessed
	t.UpdatedAt = time.Now().UTC()
	if err := s.transfers.Put(ctx, strconv.Itoa(id), t); err != nil {
		return Transfer{}, err
	}
	e := audit.NewEntry(ctx, "commit", "transfers", strconv.Itoa(id))
	e.Details = map[string]string{"status": StatusProcessed}
	if err := s.rec.Append(ctx, e); err != nil {
		return Transfer{}, err
	}
	return t, nil
}
