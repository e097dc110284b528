package crossdock

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/modules/order"
	"github.com/cargohub/cargohub-api/internal/modules/shipment"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fixture struct {
	shipments *storage.Memory[shipment.Shipment]
	orders    *storage.Memory[order.Order]
	service   Service
}

func newFixture() *fixture {
	f := &fixture{
		shipments: storage.NewMemory[shipment.Shipment](),
		orders:    storage.NewMemory[order.Order](),
	}
	f.service = NewService(f.shipments, f.orders, audit.NewMemoryRecorder(), zap.NewNop())
	return f
}

func (f *fixture) addShipment(t *testing.T, sh shipment.Shipment) {
	t.Helper()
	if err := f.shipments.Create(context.Background(), strconv.Itoa(sh.ID), sh); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) addOrder(t *testing.T, o order.Order) {
	t.Helper()
	if err := f.orders.Create(context.Background(), strconv.Itoa(o.ID), o); err != nil {
		t.Fatal(err)
	}
}

func intp(v int) *int { return &v }

func TestMatchPairsLines(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addShipment(t, shipment.Shipment{
		ID: 1,
		Items: []shipment.LineItem{
			{ItemID: "P000001", Amount: 10},
			{ItemID: "P000002", Amount: 4},
			{ItemID: "P000003", Amount: 6},
		},
	})
	f.addOrder(t, order.Order{
		ID:         1,
		ShipmentID: intp(1),
		Items: []order.LineItem{
			{ItemID: "P000001", Amount: 7}, // less ordered than shipped
			{ItemID: "P000002", Amount: 9}, // more ordered than shipped
		},
	})

	result, err := f.service.Match(ctx, nil)
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if len(result.Matches) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(result.Matches), result.Matches)
	}
	byItem := map[string]Match{}
	for _, m := range result.Matches {
		byItem[m.ItemID] = m
	}
	// matched amount is the smaller of the two sides
	if m := byItem["P000001"]; m.MatchedAmount != 7 || m.RemainingOrderAmount != 0 {
		t.Errorf("P000001 match = %+v, want matched 7 remaining 0", m)
	}
	if m := byItem["P000002"]; m.MatchedAmount != 4 || m.RemainingOrderAmount != 5 {
		t.Errorf("P000002 match = %+v, want matched 4 remaining 5", m)
	}

	if len(result.Pending) != 1 || result.Pending[0].ItemID != "P000003" {
		t.Errorf("pending = %+v, want only P000003", result.Pending)
	}
}

func TestMatchFilterAndIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addShipment(t, shipment.Shipment{ID: 1, Items: []shipment.LineItem{{ItemID: "P000001", Amount: 5}}})
	f.addShipment(t, shipment.Shipment{ID: 2, Items: []shipment.LineItem{{ItemID: "P000001", Amount: 5}}})
	// order points at shipment 2 only
	f.addOrder(t, order.Order{ID: 1, ShipmentID: intp(2), Items: []order.LineItem{{ItemID: "P000001", Amount: 5}}})

	result, err := f.service.Match(ctx, intp(1))
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(result.Matches) != 0 {
		t.Errorf("shipment 1 matched against an order for shipment 2: %+v", result.Matches)
	}
	if len(result.Pending) != 1 {
		t.Errorf("pending = %+v, want the full shipment 1 line", result.Pending)
	}

	result, err = f.service.Match(ctx, intp(2))
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(result.Matches) != 1 || result.Matches[0].OrderID != 1 {
		t.Errorf("matches = %+v, want one against order 1", result.Matches)
	}
}

func TestMatchIsReadOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addShipment(t, shipment.Shipment{ID: 1, ShipmentStatus: shipment.StatusPending,
		Items: []shipment.LineItem{{ItemID: "P000001", Amount: 5}}})
	f.addOrder(t, order.Order{ID: 1, ShipmentID: intp(1),
		Items: []order.LineItem{{ItemID: "P000001", Amount: 5}}})

	if _, err := f.service.Match(ctx, nil); err != nil {
		t.Fatalf("match: %v", err)
	}
	sh, _ := f.shipments.Get(ctx, "1")
	if sh.ShipmentStatus != shipment.StatusPending {
		t.Errorf("match mutated shipment status to %q", sh.ShipmentStatus)
	}
	o, _ := f.orders.Get(ctx, "1")
	if o.Items[0].CrossDockingStatus != "" {
		t.Errorf("match mutated order line status to %q", o.Items[0].CrossDockingStatus)
	}
}

func TestReceiveAndShip(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addShipment(t, shipment.Shipment{ID: 1, ShipmentStatus: shipment.StatusPending,
		Items: []shipment.LineItem{{ItemID: "P000001", Amount: 5}}})

	// shipping before receiving is a workflow conflict
	if _, err := f.service.Ship(ctx, 1); !errors.Is(err, ErrNotReceived) {
		t.Fatalf("ship before receive: got %v, want ErrNotReceived", err)
	}

	if _, err := f.service.Receive(ctx, 1); err != nil {
		t.Fatalf("receive: %v", err)
	}
	sh, _ := f.shipments.Get(ctx, "1")
	if sh.ShipmentStatus != shipment.StatusTransit {
		t.Errorf("status after receive = %q, want %q", sh.ShipmentStatus, shipment.StatusTransit)
	}
	if sh.Items[0].CrossDockingStatus != shipment.StatusTransit {
		t.Errorf("line status after receive = %q, want %q", sh.Items[0].CrossDockingStatus, shipment.StatusTransit)
	}

	if _, err := f.service.Ship(ctx, 1); err != nil {
		t.Fatalf("ship: %v", err)
	}
	sh, _ = f.shipments.Get(ctx, "1")
	if sh.ShipmentStatus != shipment.StatusShipped {
		t.Errorf("status after ship = %q, want %q", sh.ShipmentStatus, shipment.StatusShipped)
	}

	if _, err := f.service.Receive(ctx, 99); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("receive unknown: got %v, want ErrNotFound", err)
	}
}

func TestShipSettlesLinkedOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addShipment(t, shipment.Shipment{ID: 1, ShipmentStatus: shipment.StatusTransit,
		Items: []shipment.LineItem{{ItemID: "P000001", Amount: 10}}})
	// two orders share the shipment; the second only partly covered
	f.addOrder(t, order.Order{ID: 1, ShipmentID: intp(1), OrderStatus: order.StatusPending,
		Items: []order.LineItem{{ItemID: "P000001", Amount: 7}}})
	f.addOrder(t, order.Order{ID: 2, ShipmentID: intp(1), OrderStatus: order.StatusPending,
		Items: []order.LineItem{{ItemID: "P000001", Amount: 5}}})
	// unrelated order must not move
	f.addOrder(t, order.Order{ID: 3, ShipmentID: intp(9), OrderStatus: order.StatusPending,
		Items: []order.LineItem{{ItemID: "P000001", Amount: 5}}})

	if _, err := f.service.Ship(ctx, 1); err != nil {
		t.Fatalf("ship: %v", err)
	}

	first, _ := f.orders.Get(ctx, "1")
	if first.OrderStatus != order.StatusFulfilled {
		t.Errorf("order 1 status = %q, want %q", first.OrderStatus, order.StatusFulfilled)
	}
	if first.Items[0].Amount != 0 {
		t.Errorf("order 1 open amount = %d, want 0", first.Items[0].Amount)
	}
	if first.Items[0].CrossDockingStatus != shipment.StatusShipped {
		t.Errorf("order 1 line status = %q, want %q", first.Items[0].CrossDockingStatus, shipment.StatusShipped)
	}

	// only 3 shipped units remained for order 2
	second, _ := f.orders.Get(ctx, "2")
	if second.OrderStatus != order.StatusPartiallyFulfilled {
		t.Errorf("order 2 status = %q, want %q", second.OrderStatus, order.StatusPartiallyFulfilled)
	}
	if second.Items[0].Amount != 2 {
		t.Errorf("order 2 open amount = %d, want 2", second.Items[0].Amount)
	}

	third, _ := f.orders.Get(ctx, "3")
	if third.OrderStatus != order.StatusPending || third.Items[0].Amount != 5 {
		t.Errorf("unrelated order mutated: %+v", third)
	}
}

func TestDeliveredIsImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addShipment(t, shipment.Shipment{ID: 1, ShipmentStatus: shipment.StatusDelivered,
		Items: []shipment.LineItem{{ItemID: "P000001", Amount: 5}}})

	if _, err := f.service.Receive(ctx, 1); !errors.Is(err, ErrAlreadyDelivered) {
		t.Errorf("receive delivered: got %v, want ErrAlreadyDelivered", err)
	}
	if _, err := f.service.Ship(ctx, 1); !errors.Is(err, ErrAlreadyDelivered) {
		t.Errorf("ship delivered: got %v, want ErrAlreadyDelivered", err)
	}
	sh, _ := f.shipments.Get(ctx, "1")
	if sh.ShipmentStatus != shipment.StatusDelivered {
		t.Errorf("delivered shipment mutated to %q", sh.ShipmentStatus)
	}
}

func TestHandlerStatusCodes(t *testing.T) {
	f := newFixture()
	f.addShipment(t, shipment.Shipment{ID: 1, ShipmentStatus: shipment.StatusDelivered,
		Items: []shipment.LineItem{{ItemID: "P000001", Amount: 5}}})
	f.addShipment(t, shipment.Shipment{ID: 2, ShipmentStatus: shipment.StatusPending,
		Items: []shipment.LineItem{{ItemID: "P000002", Amount: 3}}})

	r := chi.NewRouter()
	NewHandler(f.service).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	post := func(path, body string) int {
		resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader([]byte(body)))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	get := func(path string) int {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := get("/cross-docking/match"); got != http.StatusOK {
		t.Errorf("match = %d, want 200", got)
	}
	if got := get("/cross-docking/match?shipment_id=abc"); got != http.StatusBadRequest {
		t.Errorf("match bad filter = %d, want 400", got)
	}
	if got := post("/cross-docking/receive", `{"shipment_id":2}`); got != http.StatusOK {
		t.Errorf("receive = %d, want 200", got)
	}
	if got := post("/cross-docking/receive", `{"shipment_id":1}`); got != http.StatusConflict {
		t.Errorf("receive delivered = %d, want 409", got)
	}
	if got := post("/cross-docking/ship", `{"shipment_id":1}`); got != http.StatusConflict {
		t.Errorf("ship delivered = %d, want 409", got)
	}
	if got := post("/cross-docking/receive", `{"shipment_id":99}`); got != http.StatusNotFound {
		t.Errorf("receive unknown = %d, want 404", got)
	}
}
