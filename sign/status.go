package sign

import (
	"fmt"
	"sync"
)

// Status is a document's position in the signing lifecycle
type Status string

const (
	StatusPending     Status = "pending"
	StatusPlanned     Status = "planned"
	StatusCompositing Status = "compositing"
	StatusSigned      Status = "signed"
	StatusFailed      Status = "failed"
)

// validNext lists the transitions the tracker accepts. Signed is terminal;
// Failed can be retried from the start.
var validNext = map[Status][]Status{
	StatusPending:     {StatusPlanned, StatusFailed},
	StatusPlanned:     {StatusCompositing, StatusFailed},
	StatusCompositing: {StatusSigned, StatusFailed},
	StatusFailed:      {StatusPending},
	StatusSigned:      {},
}

// CanTransition reports whether moving to next is legal
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range validNext[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// tracker records per-document status. Unknown documents are Pending.
type tracker struct {
	mu sync.Mutex
	m  map[string]Status
}

func newTracker() *tracker {
	return &tracker{m: make(map[string]Status)}
}

func (t *tracker) get(docID string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.m[docID]; ok {
		return st
	}
	return StatusPending
}

// advance moves a document to next, enforcing the lifecycle
func (t *tracker) advance(docID string, next Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	current, ok := t.m[docID]
	if !ok {
		current = StatusPending
	}
	if !current.CanTransition(next) {
		return fmt.Errorf("document %s: illegal transition %s -> %s", docID, current, next)
	}
	t.m[docID] = next
	return nil
}

// fail force-moves a document to Failed from any non-terminal state
func (t *tracker) fail(docID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.m[docID] != StatusSigned {
		t.m[docID] = StatusFailed
	}
}
