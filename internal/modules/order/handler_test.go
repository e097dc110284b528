package order

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/go-chi/chi/v5"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewService(storage.NewMemory[Order](), audit.NewMemoryRecorder())
	r := chi.NewRouter()
	NewHandler(s).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body string) (*http.Response, []byte) {
	t.Helper()
	var buf io.Reader
	if body != "" {
		buf = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, raw
}

func TestOrderCreateDefaults(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/orders",
		`{"warehouse_id":1,"items":[{"item_id":"P000001","amount":20}]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d, body %s", resp.StatusCode, body)
	}
	var o Order
	if err := json.Unmarshal(body, &o); err != nil {
		t.Fatal(err)
	}
	if o.ID != 1 {
		t.Errorf("id = %d, want 1", o.ID)
	}
	if o.OrderStatus != "Pending" {
		t.Errorf("order_status = %q, want Pending", o.OrderStatus)
	}
	if o.ShipmentID != nil {
		t.Errorf("shipment_id = %v, want null", *o.ShipmentID)
	}
	if !o.TotalAmount.IsZero() {
		t.Errorf("total_amount = %s, want 0", o.TotalAmount)
	}
}

func TestOrderMoneyFields(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/orders",
		`{"items":[{"item_id":"P000001","amount":2}],"total_amount":"9905.13","total_tax":"372.72"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d, body %s", resp.StatusCode, body)
	}
	var o Order
	if err := json.Unmarshal(body, &o); err != nil {
		t.Fatal(err)
	}
	if o.TotalAmount.String() != "9905.13" {
		t.Errorf("total_amount = %s, want 9905.13", o.TotalAmount)
	}
	if o.TotalTax.String() != "372.72" {
		t.Errorf("total_tax = %s, want 372.72", o.TotalTax)
	}
}

func TestOrderValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing items", `{"warehouse_id":1}`},
		{"item without id", `{"items":[{"amount":3}]}`},
		{"malformed body", `{"items":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, http.MethodPost, srv.URL+"/orders", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("create = %d, want 400", resp.StatusCode)
			}
		})
	}

	resp, body := do(t, http.MethodGet, srv.URL+"/orders", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list = %d", resp.StatusCode)
	}
	var all []Order
	json.Unmarshal(body, &all)
	if len(all) != 0 {
		t.Errorf("list has %d orders after rejected creates, want 0", len(all))
	}
}

func TestOrderFullReplacementUpdate(t *testing.T) {
	srv := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/orders",
		`{"id":1,"reference":"ORD00001","notes":"keep cold","items":[{"item_id":"P000001","amount":2}]}`)

	// the update body is the complete new document; omitted fields reset
	resp, _ := do(t, http.MethodPut, srv.URL+"/orders/1",
		`{"reference":"ORD00001-v2","items":[{"item_id":"P000002","amount":9}]}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("update = %d", resp.StatusCode)
	}

	_, body := do(t, http.MethodGet, srv.URL+"/orders/1", "")
	var o Order
	json.Unmarshal(body, &o)
	if o.Reference != "ORD00001-v2" {
		t.Errorf("reference = %q, want ORD00001-v2", o.Reference)
	}
	if o.Notes != "" {
		t.Errorf("notes = %q, want cleared by full replacement", o.Notes)
	}
	if len(o.Items) != 1 || o.Items[0].ItemID != "P000002" {
		t.Errorf("items = %+v, want the replacement line", o.Items)
	}

	resp, _ = do(t, http.MethodPut, srv.URL+"/orders/99",
		`{"items":[{"item_id":"P000001","amount":1}]}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("update unknown = %d, want 404", resp.StatusCode)
	}
}

func TestOrderPagination(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 5; i++ {
		do(t, http.MethodPost, srv.URL+"/orders", `{"items":[{"item_id":"P000001","amount":1}]}`)
	}

	_, body := do(t, http.MethodGet, srv.URL+"/orders?page=2&page_size=2", "")
	var page []Order
	json.Unmarshal(body, &page)
	if len(page) != 2 {
		t.Fatalf("page = %d orders, want 2", len(page))
	}
	if page[0].ID != 3 || page[1].ID != 4 {
		t.Errorf("page ids = %d, %d; want 3, 4", page[0].ID, page[1].ID)
	}
}
