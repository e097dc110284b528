package shipment

import (
	"context"
	"errors"
	"testing"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

func TestShipmentDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewMemory[Shipment](), audit.NewMemoryRecorder())

	sh, err := s.Create(ctx, Shipment{
		OrderID: []int{1, 2},
		Items:   []LineItem{{ItemID: "P000001", Amount: 20}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sh.ID != 1 {
		t.Errorf("id = %d, want 1", sh.ID)
	}
	if sh.ShipmentStatus != StatusPending {
		t.Errorf("status = %q, want %q", sh.ShipmentStatus, StatusPending)
	}
	if len(sh.OrderID) != 2 {
		t.Errorf("order_id = %v, want two orders", sh.OrderID)
	}

	// an explicit status survives
	sh2, err := s.Create(ctx, Shipment{
		ShipmentStatus: StatusDelivered,
		Items:          []LineItem{{ItemID: "P000002", Amount: 1}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sh2.ShipmentStatus != StatusDelivered {
		t.Errorf("status = %q, want %q", sh2.ShipmentStatus, StatusDelivered)
	}
}

func TestShipmentValidation(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewMemory[Shipment](), audit.NewMemoryRecorder())

	if _, err := s.Create(ctx, Shipment{}); !web.IsValidation(err) {
		t.Errorf("missing items: got %v, want validation error", err)
	}
	if _, err := s.Create(ctx, Shipment{Items: []LineItem{{Amount: 3}}}); !web.IsValidation(err) {
		t.Errorf("item without id: got %v, want validation error", err)
	}

	// an empty list is a valid, deliberately empty shipment
	if _, err := s.Create(ctx, Shipment{Items: []LineItem{}}); err != nil {
		t.Errorf("empty items list: %v", err)
	}

	if err := s.Update(ctx, 99, Shipment{Items: []LineItem{}}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("update unknown: got %v, want ErrNotFound", err)
	}
}
