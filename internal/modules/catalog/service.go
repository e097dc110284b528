package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

var uidPattern = regexp.MustCompile(`^P\d+$`)

// Service defines item and taxonomy business logic.
type Service interface {
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, uid string) (Item, error)
	CreateItem(ctx context.Context, it Item) (Item, error)
	UpdateItem(ctx context.Context, uid string, it Item) error
	DeleteItem(ctx context.Context, uid string) error

	ListTaxonomies(ctx context.Context, kind string) ([]Taxonomy, error)
	GetTaxonomy(ctx context.Context, kind string, id int) (Taxonomy, error)
	CreateTaxonomy(ctx context.Context, kind string, t Taxonomy) (Taxonomy, error)
	UpdateTaxonomy(ctx context.Context, kind string, id int, t Taxonomy) error
	DeleteTaxonomy(ctx context.Context, kind string, id int) error
}

type service struct {
	items      storage.Collection[Item]
	taxonomies map[string]storage.Collection[Taxonomy]
	rec        audit.Recorder
}

// NewService creates a new catalog service. taxonomies maps the three
// kind names onto their collections.
func NewService(items storage.Collection[Item], taxonomies map[string]storage.Collection[Taxonomy], rec audit.Recorder) Service {
	return &service{items: items, taxonomies: taxonomies, rec: rec}
}

func (s *service) ListItems(ctx context.Context) ([]Item, error) {
	return s.items.List(ctx)
}

func (s *service) GetItem(ctx context.Context, uid string) (Item, error) {
	return s.items.Get(ctx, uid)
}

func (s *service) CreateItem(ctx context.Context, it Item) (Item, error) {
	if it.Code == "" {
		return Item{}, web.Invalid("code is required")
	}
	if it.Description == "" {
		return Item{}, web.Invalid("description is required")
	}
	if it.SupplierID <= 0 {
		return Item{}, web.Invalid("supplier_id is required")
	}
	if it.UID != "" && !uidPattern.MatchString(it.UID) {
		return Item{}, web.Invalid("uid must match P<digits>, got %q", it.UID)
	}

	now := time.Now().UTC()
	it.CreatedAt, it.UpdatedAt = now, now

	if it.UID != "" {
		if err := s.items.Create(ctx, it.UID, it); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Item{}, web.Invalid("item uid %s is already in use", it.UID)
			}
			return Item{}, err
		}
	} else {
		created, err := s.items.CreateWithNextID(ctx, func(id int) (string, Item) {
			it.UID = fmt.Sprintf("P%06d", id)
			return it.UID, it
		})
		if err != nil {
			return Item{}, err
		}
		it = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "items", it.UID)); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *service) UpdateItem(ctx context.Context, uid string, it Item) error {
	if it.Code == "" {
		return web.Invalid("code is required")
	}
	if it.Description == "" {
		return web.Invalid("description is required")
	}
	if it.SupplierID <= 0 {
		return web.Invalid("supplier_id is required")
	}
	old, err := s.items.Get(ctx, uid)
	if err != nil {
		return err
	}
	it.UID = uid
	it.CreatedAt = old.CreatedAt
	it.UpdatedAt = time.Now().UTC()
	if err := s.items.Put(ctx, uid, it); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "items", uid))
}

func (s *service) DeleteItem(ctx context.Context, uid string) error {
	if err := s.items.Delete(ctx, uid); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "items", uid))
}

func (s *service) collection(kind string) (storage.Collection[Taxonomy], error) {
	c, ok := s.taxonomies[kind]
	if !ok {
		return nil, fmt.Errorf("unknown taxonomy kind %q", kind)
	}
	return c, nil
}

func (s *service) ListTaxonomies(ctx context.Context, kind string) ([]Taxonomy, error) {
	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	return c.List(ctx)
}

func (s *service) GetTaxonomy(ctx context.Context, kind string, id int) (Taxonomy, error) {
	c, err := s.collection(kind)
	if err != nil {
		return Taxonomy{}, err
	}
	return c.Get(ctx, strconv.Itoa(id))
}

func (s *service) CreateTaxonomy(ctx context.Context, kind string, t Taxonomy) (Taxonomy, error) {
	c, err := s.collection(kind)
	if err != nil {
		return Taxonomy{}, err
	}
	if t.Name == "" {
		return Taxonomy{}, web.Invalid("name is required")
	}

	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	if t.ID > 0 {
		if err := c.Create(ctx, strconv.Itoa(t.ID), t); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Taxonomy{}, web.Invalid("%s id %d is already in use", kind, t.ID)
			}
			return Taxonomy{}, err
		}
	} else {
		created, err := c.CreateWithNextID(ctx, func(id int) (string, Taxonomy) {
			t.ID = id
			return strconv.Itoa(id), t
		})
		if err != nil {
			return Taxonomy{}, err
		}
		t = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", kind, strconv.Itoa(t.ID))); err != nil {
		return Taxonomy{}, err
	}
	return t, nil
}

func (s *service) UpdateTaxonomy(ctx context.Context, kind string, id int, t Taxonomy) error {
	c, err := s.collection(kind)
	if err != nil {
		return err
	}
	if t.Name == "" {
		return web.Invalid("name is required")
	}
	old, err := c.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	t.ID = id
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	if err := c.Put(ctx, strconv.Itoa(id), t); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", kind, strconv.Itoa(id)))
}

func (s *service) DeleteTaxonomy(ctx context.Context, kind string, id int) error {
	c, err := s.collection(kind)
	if err != nil {
		return err
	}
	if err := c.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", kind, strconv.Itoa(id)))
}
