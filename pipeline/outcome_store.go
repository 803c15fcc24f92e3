package pipeline

import (
	"log"
	"sort"
	"sync"
	"time"
)

type ProcessingStatus string

const (
	StatusStarted   ProcessingStatus = "started"
	StatusCompleted ProcessingStatus = "completed"
	StatusFailed    ProcessingStatus = "failed"
)

// Outcome is the per-file processing result kept for operator
// visibility. Nothing here survives a restart; retrying is driven by the
// input directory contents alone.
type Outcome struct {
	ID           string           `json:"id"`
	Path         string           `json:"path"`
	Status       ProcessingStatus `json:"status"`
	Stage        string           `json:"stage,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Title        string           `json:"title,omitempty"`
	OutputPath   string           `json:"output_path,omitempty"`
	StartTime    int64            `json:"start_time"`
	EndTime      int64            `json:"end_time,omitempty"`
	SubmittedAt  string           `json:"submitted_at"`
	CompletedAt  string           `json:"completed_at,omitempty"`
}

var (
	OutcomeStore = struct {
		sync.RWMutex
		Outcomes map[string]*Outcome
	}{
		Outcomes: make(map[string]*Outcome),
	}
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
)

// StartOutcomeStoreCleanup starts a goroutine that periodically removes
// outcomes whose completion is older than threshold.
func StartOutcomeStoreCleanup(threshold time.Duration, cleanupInterval time.Duration) {
	stopCleanup = make(chan struct{})
	cleanupTicker = time.NewTicker(cleanupInterval)

	go func() {
		for {
			select {
			case <-cleanupTicker.C:
				performCleanup(threshold)
			case <-stopCleanup:
				cleanupTicker.Stop()
				return
			}
		}
	}()
}

func StopOutcomeStoreCleanup() {
	if stopCleanup != nil {
		close(stopCleanup)
	}
}

func performCleanup(threshold time.Duration) {
	now := timeProvider.Now()
	OutcomeStore.Lock()
	defer OutcomeStore.Unlock()

	for id, outcome := range OutcomeStore.Outcomes {
		if outcome.CompletedAt != "" {
			completedAt, err := time.Parse(time.RFC3339, outcome.CompletedAt)
			if err == nil && now.Sub(completedAt) > threshold {
				delete(OutcomeStore.Outcomes, id)
				log.Printf("Deleted outcome %s due to expiration", id)
			}
		}
	}
}

func AddOutcome(id string, outcome *Outcome) {
	OutcomeStore.Lock()
	defer OutcomeStore.Unlock()
	OutcomeStore.Outcomes[id] = outcome
}

// UpdateOutcome mutates a stored outcome under the store lock. Readers
// only ever see the outcome before or after the update, never mid-write.
func UpdateOutcome(id string, mutate func(*Outcome)) {
	OutcomeStore.Lock()
	defer OutcomeStore.Unlock()
	if outcome, exists := OutcomeStore.Outcomes[id]; exists {
		mutate(outcome)
	}
}

// GetOutcome returns a copy of the outcome; the stored one keeps being
// updated by the watcher.
func GetOutcome(id string) (*Outcome, bool) {
	OutcomeStore.RLock()
	defer OutcomeStore.RUnlock()
	outcome, exists := OutcomeStore.Outcomes[id]
	if !exists {
		return nil, false
	}
	c := *outcome
	return &c, true
}

// ListOutcomes returns copies of all recorded outcomes, most recent first.
func ListOutcomes() []*Outcome {
	OutcomeStore.RLock()
	defer OutcomeStore.RUnlock()

	out := make([]*Outcome, 0, len(OutcomeStore.Outcomes))
	for _, o := range OutcomeStore.Outcomes {
		c := *o
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime > out[j].StartTime
	})
	return out
}
