// Package server exposes the delivery surface: the viewer WebSocket
// endpoint plus health, metrics and version endpoints, with connection
// limiting on the WebSocket accept path.
package server
