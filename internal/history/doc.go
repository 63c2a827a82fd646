// Package history provides a sliding FIFO window of recent samples.
//
// A [History] with a positive capacity behaves as a ring buffer: pushing onto a
// full window overwrites the oldest sample. A non-positive capacity means the
// window never evicts anything.
//
//	h := history.New[float64](3)
//	for _, v := range []float64{1, 2, 3, 4} {
//		h.Push(v)
//	}
//	history.Sum(h) // 9
//
// Histories back the integral window of the PID controller and the windowed
// filters. They are not safe for concurrent use.
package history
