// Package vitals implements the metrics windowing engine.
//
// The engine is a pure reducer: given the previous reading and a new one it
// produces a timestamped Sample with percent-change metrics, and appends it
// to a fixed-capacity rolling window with FIFO eviction. State wraps the
// reducer and window for one viewer; it holds no locks and must be owned by
// a single goroutine.
package vitals
