package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gitvault/gitvault/internal/git"
	"github.com/gitvault/gitvault/internal/status"
	"github.com/google/uuid"
)

const (
	prefix     = "syncrun:"
	prefixByID = prefix + "at:"

	// Fixed-width, unlike RFC3339Nano, so keys sort chronologically.
	keyTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Entry records the outcome of one synchronization run.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Outcome    git.Outcome     `json:"outcome"`
	Snapshot   status.Snapshot `json:"snapshot"`
	Error      string          `json:"error,omitempty"`
}

// StorageKey orders entries chronologically so a reverse scan yields
// newest-first.
func (e *Entry) StorageKey() string {
	return fmt.Sprintf("%s%s:%s", prefixByID, e.StartedAt.UTC().Format(keyTimeLayout), e.ID)
}

func (e *Entry) StorageIndexes() []string {
	return nil
}

func (e *Entry) MarshalStorage() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	return data, nil
}

func (e *Entry) UnmarshalStorage(data []byte) error {
	if err := json.Unmarshal(data, e); err != nil {
		return fmt.Errorf("failed to unmarshal journal entry: %w", err)
	}

	return nil
}
