// Package broadcast implements the fan-out broadcaster using the actor pattern.
//
// A single goroutine owns the session set and serializes registry mutations and
// broadcast commands through one command channel (no mutexes). Each session has
// its own writer goroutine with a bounded send buffer, so a slow viewer can
// never stall ingest or delivery to the other viewers; a viewer whose buffer
// fills is evicted instead.
package broadcast
