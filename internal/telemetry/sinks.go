package telemetry

import (
	"sort"
	"sync"

	"github.com/golang/glog"
)

// GlogSink writes entries to the glog info log at verbosity 2.
type GlogSink struct{}

func (GlogSink) Record(e Entry) {
	glog.V(2).Infof("telemetry t=%.4f %s=%v", e.Time, e.Key, e.Value)
}

// Point is one sample of a numeric series.
type Point struct {
	Time  float64
	Value float64
}

// Trace keeps entries in memory, all of them unless a limit is set.
// Booleans are stored as 0 or 1 in the numeric series; strings only in
// Entries.
type Trace struct {
	mu      sync.RWMutex
	entries []Entry
	series  map[string][]Point
	limit   int
}

func NewTrace() *Trace {
	return &Trace{series: make(map[string][]Point)}
}

func (tr *Trace) Record(e Entry) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.entries = keepLast(append(tr.entries, e), tr.limit)
	p := Point{Time: e.Time}
	switch v := e.Value.(type) {
	case float64:
		p.Value = v
	case int:
		p.Value = float64(v)
	case bool:
		if v {
			p.Value = 1
		}
	default:
		return
	}
	tr.series[e.Key] = keepLast(append(tr.series[e.Key], p), tr.limit)
}

// SetLimit keeps only the newest n entries, and the newest n points per
// series. Zero or less removes the limit.
func (tr *Trace) SetLimit(n int) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.limit = n
	tr.entries = keepLast(tr.entries, n)
	for k, pts := range tr.series {
		tr.series[k] = keepLast(pts, n)
	}
}

// Clear drops everything recorded. The limit stays.
func (tr *Trace) Clear() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.entries = nil
	tr.series = make(map[string][]Point)
}

func keepLast[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Entries returns a copy of everything recorded, in order.
func (tr *Trace) Entries() []Entry {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	out := make([]Entry, len(tr.entries))
	copy(out, tr.entries)
	return out
}

func (tr *Trace) Series(key string) []Point {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	out := make([]Point, len(tr.series[key]))
	copy(out, tr.series[key])
	return out
}

// Keys lists the numeric series in sorted order.
func (tr *Trace) Keys() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	keys := make([]string, 0, len(tr.series))
	for k := range tr.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (tr *Trace) Len() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.entries)
}
