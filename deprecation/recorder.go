package deprecation

import (
	"sync"
	"time"
)

// Entry is a recorded notice.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Notice    Notice    `json:"notice"`
	File      string    `json:"file,omitempty"`
	Line      int       `json:"line,omitempty"`
}

// Recorder keeps the most recent notices and per-subject counts.
type Recorder struct {
	mu         sync.Mutex
	entries    []Entry
	maxEntries int
	counts     map[string]int // subject -> notices seen, not capped
	onNotice   func(Notice)   // called after recording, outside the lock
}

// NewRecorder creates a Recorder holding at most maxEntries notices.
func NewRecorder(maxEntries int) *Recorder {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &Recorder{
		entries:    make([]Entry, 0, maxEntries),
		maxEntries: maxEntries,
		counts:     make(map[string]int),
	}
}

// OnNotice sets a function called for every recorded notice.
func (r *Recorder) OnNotice(fn func(Notice)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onNotice = fn
}

// Warn implements Sink.
func (r *Recorder) Warn(n Notice) {
	r.mu.Lock()

	entry := Entry{
		Timestamp: time.Now().UTC(),
		Notice:    n,
		File:      n.Caller.File,
		Line:      n.Caller.Line,
	}
	r.entries = append(r.entries, entry)

	// Keep only last N entries (ringbuffer)
	if len(r.entries) > r.maxEntries {
		r.entries = r.entries[len(r.entries)-r.maxEntries:]
	}
	r.counts[n.Subject]++

	onNotice := r.onNotice
	r.mu.Unlock()

	if onNotice != nil {
		onNotice(n)
	}
}

// Entries returns a copy of the recorded entries, oldest first.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many notices were recorded for subject.
func (r *Recorder) Count(subject string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[subject]
}

// Total returns how many notices were recorded in all.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, c := range r.counts {
		total += c
	}
	return total
}

// Reset forgets all entries and counts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = r.entries[:0]
	r.counts = make(map[string]int)
}

// Stats returns recorder data for reporting.
func (r *Recorder) Stats() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	subjects := make(map[string]int, len(r.counts))
	total := 0
	for s, c := range r.counts {
		subjects[s] = c
		total += c
	}

	return map[string]any{
		"total_count": total,
		"kept_count":  len(r.entries),
		"max_entries": r.maxEntries,
		"per_subject": subjects,
	}
}
