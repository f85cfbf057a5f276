// Package ingest contains the publisher feed adapters and the consume loop.
//
// A Feed is exactly one subscription to a configured pub/sub endpoint and
// topic: a lazy, unbounded, non-restartable sequence of raw payloads. A lost
// connection is fatal to the feed rather than silently retried, so viewers
// never appear live while receiving nothing. Payload bytes pass through to
// the broadcaster verbatim.
package ingest
