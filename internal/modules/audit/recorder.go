package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Recorder is the append-only sink mutating operations write to. Entries
// are never mutated or deleted through the public contract.
type Recorder interface {
	Append(ctx context.Context, e Entry) error
	Entries(ctx context.Context) ([]Entry, error)
}

// ---- memory sink ----

type memoryRecorder struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryRecorder() Recorder { return &memoryRecorder{} }

func (m *memoryRecorder) Append(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryRecorder) Entries(ctx context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// ---- file sink ----

// fileRecorder appends pipe-delimited lines:
// timestamp=... | action=... | performedBy=... | apiKey=... | resource=... | resourceId=... | details={...}
type fileRecorder struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
}

func NewFileRecorder(path string, log *zap.Logger) Recorder {
	return &fileRecorder{path: path, log: log}
}

func (f *fileRecorder) Append(ctx context.Context, e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer fh.Close()

	_, err = fmt.Fprintln(fh, formatLine(e))
	return err
}

func (f *fileRecorder) Entries(ctx context.Context) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var entries []Entry
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		e, err := parseLine(sc.Text())
		if err != nil {
			f.log.Warn("skipping unparseable audit line", zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

func formatLine(e Entry) string {
	parts := []string{
		"timestamp=" + e.Timestamp.Format(time.RFC3339Nano),
		"action=" + e.Action,
		"performedBy=" + e.PerformedBy,
		"apiKey=" + e.APIKey,
		"resource=" + e.Resource,
		"resourceId=" + e.ResourceID,
	}
	if len(e.Details) > 0 {
		raw, _ := json.Marshal(e.Details)
		parts = append(parts, "details="+string(raw))
	}
	return strings.Join(parts, " | ")
}

func parseLine(line string) (Entry, error) {
	var e Entry
	for _, part := range strings.Split(line, " | ") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return e, fmt.Errorf("bad field %q", part)
		}
		switch kv[0] {
		case "timestamp":
			ts, err := time.Parse(time.RFC3339Nano, kv[1])
			if err != nil {
				return e, err
			}
			e.Timestamp = ts
		case "action":
			e.Action = kv[1]
		case "performedBy":
			e.PerformedBy = kv[1]
		case "apiKey":
			e.APIKey = kv[1]
		case "resource":
			e.Resource = kv[1]
		case "resourceId":
			e.ResourceID = kv[1]
		case "details":
			if err := json.Unmarshal([]byte(kv[1]), &e.Details); err != nil {
				return e, err
			}
		}
	}
	if e.Timestamp.IsZero() {
		return e, fmt.Errorf("line missing timestamp: %q", line)
	}
	return e, nil
}
