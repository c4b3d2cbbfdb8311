package history

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/ports"
)

// Recorder wraps a history store with identifier assignment and bounded retry.
// A failed append is retried once, then surfaced as an error the pipeline
// treats as a warning; it never undoes a decision already made.
type Recorder struct {
	store ports.HistoryRepository
	log   ports.Logger
}

// NewRecorder builds a recorder over a store.
func NewRecorder(store ports.HistoryRepository, log ports.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// Record implements ports.HistoryRecorder.
func (r *Recorder) Record(entry domain.HistoryEntry) error {
	if r.store == nil {
		return errors.New("history store not configured")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	err := r.store.Append(entry)
	if err == nil {
		return nil
	}
	if r.log != nil {
		r.log.Warn("history append failed, retrying once", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if retryErr := r.store.Append(entry); retryErr == nil {
		return nil
	}
	return err
}

var _ ports.HistoryRecorder = (*Recorder)(nil)
