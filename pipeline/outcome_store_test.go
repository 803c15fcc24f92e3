package pipeline

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"
)

type mockTimeProvider struct {
	currentTime time.Time
	mutex       sync.Mutex
}

func (mtp *mockTimeProvider) Now() time.Time {
	mtp.mutex.Lock()
	defer mtp.mutex.Unlock()
	return mtp.currentTime
}

func (mtp *mockTimeProvider) Add(d time.Duration) {
	mtp.mutex.Lock()
	mtp.currentTime = mtp.currentTime.Add(d)
	mtp.mutex.Unlock()
}

func resetOutcomeStore() {
	OutcomeStore.Lock()
	OutcomeStore.Outcomes = make(map[string]*Outcome)
	OutcomeStore.Unlock()
}

func TestOutcomeStoreListOrder(t *testing.T) {
	resetOutcomeStore()
	defer resetOutcomeStore()

	base := time.Now().Unix()
	AddOutcome("old", &Outcome{ID: "old", Path: "/in/a.pdf", Status: StatusCompleted, StartTime: base - 100})
	AddOutcome("new", &Outcome{ID: "new", Path: "/in/b.pdf", Status: StatusStarted, StartTime: base})
	AddOutcome("mid", &Outcome{ID: "mid", Path: "/in/c.pdf", Status: StatusFailed, StartTime: base - 50})

	list := ListOutcomes()
	if len(list) != 3 {
		t.Fatalf("ListOutcomes returned %d outcomes, want 3", len(list))
	}
	if list[0].ID != "new" || list[1].ID != "mid" || list[2].ID != "old" {
		t.Errorf("order = %s,%s,%s, want new,mid,old", list[0].ID, list[1].ID, list[2].ID)
	}

	if _, ok := GetOutcome("mid"); !ok {
		t.Error("GetOutcome failed to find a stored outcome")
	}
	if _, ok := GetOutcome("missing"); ok {
		t.Error("GetOutcome found an outcome that was never added")
	}
}

func TestOutcomeStoreReadersGetCopies(t *testing.T) {
	resetOutcomeStore()
	defer resetOutcomeStore()

	AddOutcome("abc", &Outcome{ID: "abc", Path: "/in/a.pdf", Status: StatusStarted})

	got, ok := GetOutcome("abc")
	if !ok {
		t.Fatal("GetOutcome failed to find a stored outcome")
	}
	got.Status = StatusFailed

	list := ListOutcomes()
	if len(list) != 1 {
		t.Fatalf("ListOutcomes returned %d outcomes, want 1", len(list))
	}
	if list[0].Status != StatusStarted {
		t.Error("mutating a returned outcome leaked into the store")
	}
	list[0].Title = "scribbled"

	UpdateOutcome("abc", func(o *Outcome) {
		o.Status = StatusCompleted
		o.Title = "Q1 Invoice"
	})

	updated, _ := GetOutcome("abc")
	if updated.Status != StatusCompleted || updated.Title != "Q1 Invoice" {
		t.Errorf("got %+v, want the UpdateOutcome changes", updated)
	}
}

func TestConcurrentOperations(t *testing.T) {
	resetOutcomeStore()
	defer resetOutcomeStore()

	startTime := time.Now()
	mtp := &mockTimeProvider{currentTime: startTime}
	timeProvider = mtp
	defer func() { timeProvider = &realTimeProvider{} }()

	threshold := 5 * time.Minute
	cleanupInterval := 100 * time.Millisecond // More frequent cleanup for testing

	StartOutcomeStoreCleanup(threshold, cleanupInterval)
	defer StopOutcomeStoreCleanup()

	var wg sync.WaitGroup
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addRandomOutcome(mtp.Now())
		}()
	}

	// Simulate time passing and more files being processed
	for i := 0; i < 10; i++ {
		mtp.Add(cleanupInterval)
		time.Sleep(10 * time.Millisecond) // Allow cleanup goroutine to run

		for j := 0; j < 100; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				addRandomOutcome(mtp.Now())
			}()
		}
	}

	wg.Wait()

	// Final cleanup
	mtp.Add(threshold + time.Second)
	performCleanup(threshold)

	// Verify that all expired outcomes have been cleaned up
	OutcomeStore.RLock()
	defer OutcomeStore.RUnlock()
	for _, outcome := range OutcomeStore.Outcomes {
		completedAt, _ := time.Parse(time.RFC3339, outcome.CompletedAt)
		if mtp.Now().Sub(completedAt) > threshold {
			t.Errorf("Found expired outcome that should have been cleaned up: %v", outcome)
		}
	}
}

func addRandomOutcome(now time.Time) {
	id := fmt.Sprintf("outcome_%d", rand.Int())
	completedAt := now.Add(-time.Duration(rand.Intn(600)) * time.Second)
	outcome := &Outcome{
		ID:          id,
		Path:        fmt.Sprintf("/input/doc_%s.pdf", id),
		Status:      StatusCompleted,
		CompletedAt: completedAt.Format(time.RFC3339),
	}
	AddOutcome(id, outcome)
}
