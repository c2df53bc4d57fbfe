package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	auditFileName = "audit.jsonl"
	auditFileMode = 0644
	auditDirMode  = 0755
)

// Event types written by the module.
const (
	TypeLeaveDenied  = "leave_denied"
	TypeDeactivation = "deactivation"
)

// Event is one audit record written as a single JSON line.
type Event struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Type   string    `json:"type"`
	RoomID string    `json:"room_id,omitempty"`
	UserID string    `json:"user_id,omitempty"`
	Result string    `json:"result,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// Writer appends audit events to <dir>/audit.jsonl.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter creates an append-only audit writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		path: filepath.Join(dir, auditFileName),
	}
}

// Path returns the audit log file path.
func (w *Writer) Path() string { return w.path }

// Append writes one event as one JSONL line. A missing ID or Time is filled in.
func (w *Writer) Append(event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), auditDirMode); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, auditFileMode)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer file.Close()

	encoded, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	encoded = append(encoded, '\n')

	if _, err := file.Write(encoded); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync audit file: %w", err)
	}
	return nil
}
