package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
)

func TestTransferDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewMemory[Transfer](), audit.NewMemoryRecorder())

	tr, err := s.Create(ctx, Transfer{Reference: "TR00001", TransferTo: 9229})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tr.TransferStatus != StatusScheduled {
		t.Errorf("status = %q, want %q", tr.TransferStatus, StatusScheduled)
	}
	if tr.TransferFrom != nil {
		t.Errorf("transfer_from = %v, want null for an inbound transfer", *tr.TransferFrom)
	}

	if _, err := s.Create(ctx, Transfer{TransferTo: 1}); !web.IsValidation(err) {
		t.Errorf("missing reference: got %v, want validation error", err)
	}
	if _, err := s.Create(ctx, Transfer{Reference: "TR00002"}); !web.IsValidation(err) {
		t.Errorf("missing transfer_to: got %v, want validation error", err)
	}
}

func TestTransferCommit(t *testing.T) {
	ctx := context.Background()
	rec := audit.NewMemoryRecorder()
	s := NewService(storage.NewMemory[Transfer](), rec)

	tr, err := s.Create(ctx, Transfer{Reference: "TR00001", TransferTo: 9229})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	committed, err := s.Commit(ctx, tr.ID)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if committed.TransferStatus != StatusProcessed {
		t.Errorf("status = %q, want %q", committed.TransferStatus, StatusProcessed)
	}

	got, err := s.Get(ctx, tr.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TransferStatus != StatusProcessed {
		t.Errorf("stored status = %q, want %q", got.TransferStatus, StatusProcessed)
	}

	entries, err := rec.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	last := entries[len(entries)-1]
	if last.Action != "commit" || last.Resource != "transfers" {
		t.Errorf("audit entry = %s/%s, want commit/transfers", last.Action, last.Resource)
	}
	if last.Details["status"] != StatusProcessed {
		t.Errorf("audit details = %v, want status=%s", last.Details, StatusProcessed)
	}

	if _, err := s.Commit(ctx, 99); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("commit unknown: got %v, want ErrNotFound", err)
	}
}
