// Package telemetry records named values from a running loop. A Channel only
// forwards a value when it differs from the previous one, so a steady loop
// produces almost no output.
package telemetry

import (
	"fmt"
	"sync"
)

// Entry is one recorded value.
type Entry struct {
	Key   string
	Time  float64
	Value any
}

// Sink receives entries from a Recorder.
type Sink interface {
	Record(e Entry)
}

// Recorder fans entries out to its sinks. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	sinks []Sink
}

func NewRecorder(sinks ...Sink) *Recorder {
	return &Recorder{sinks: sinks}
}

func (r *Recorder) AddSink(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, s)
}

func (r *Recorder) Emit(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sinks {
		s.Record(e)
	}
}

// Channel is a keyed value stream. Keys are "subsystem/name".
type Channel[T comparable] struct {
	rec     *Recorder
	key     string
	prev    T
	has     bool
	enabled bool
}

func NewChannel[T comparable](rec *Recorder, subsystem, name string) *Channel[T] {
	return &Channel[T]{
		rec:     rec,
		key:     fmt.Sprintf("%s/%s", subsystem, name),
		enabled: true,
	}
}

func (c *Channel[T]) Key() string { return c.key }

func (c *Channel[T]) Enabled() bool { return c.enabled }

// Start resumes forwarding values.
func (c *Channel[T]) Start() { c.enabled = true }

// Stop pauses forwarding. Values fed while stopped still become the
// previous value.
func (c *Channel[T]) Stop() { c.enabled = false }

// Update feeds a value at time t. It reports whether the value was
// forwarded.
func (c *Channel[T]) Update(t float64, v T) bool {
	changed := !c.has || v != c.prev
	c.prev = v
	c.has = true
	if !changed || !c.enabled || c.rec == nil {
		return false
	}
	c.rec.Emit(Entry{Key: c.key, Time: t, Value: v})
	return true
}
