package broadcast

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/lakshayyy10/BioSync/internal/domain"
	"github.com/lakshayyy10/BioSync/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second  // Actor command timeout
	stopTimeout    = 10 * time.Second // Graceful shutdown timeout
)

// broadcasterCmd is the command interface for the Broadcaster actor.
type broadcasterCmd interface{ isBroadcasterCmd() }

type baseBroadcasterCmd struct{}

func (baseBroadcasterCmd) isBroadcasterCmd() {}

type registerCmd struct {
	baseBroadcasterCmd
	sessionID    uuid.UUID
	connection   *websocket.Conn
	errorChannel chan error
}

type unregisterCmd struct {
	baseBroadcasterCmd
	sessionID uuid.UUID
}

type broadcastCmd struct {
	baseBroadcasterCmd
	payload []byte
}

type clientCountCmd struct {
	baseBroadcasterCmd
	replyChannel chan int
}

type stopCmd struct {
	baseBroadcasterCmd
}

type session struct {
	connection *websocket.Conn
	writer     *clientWriter
}

// Broadcaster owns the set of registered viewer sessions and fans every
// ingest payload out to all of them. Payloads are forwarded verbatim; a
// session only sees payloads published after it registers.
type Broadcaster struct {
	cmdCh       chan broadcasterCmd
	clock       clockwork.Clock
	sessions    map[uuid.UUID]*session
	done        chan struct{}
	stopTimeout time.Duration
	maxSessions int
}

// NewBroadcaster creates and starts a broadcaster.
// maxSessions caps concurrent viewer sessions (prevents resource exhaustion);
// 0 means unlimited.
func NewBroadcaster(clock clockwork.Clock, maxSessions int) *Broadcaster {
	b := &Broadcaster{
		cmdCh:       make(chan broadcasterCmd, 256),
		clock:       clock,
		sessions:    make(map[uuid.UUID]*session),
		done:        make(chan struct{}),
		stopTimeout: stopTimeout,
		maxSessions: maxSessions,
	}
	go b.run()
	return b
}

// Register adds a viewer session to the live set.
func (b *Broadcaster) Register(sessionID uuid.UUID, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	b.cmdCh <- registerCmd{sessionID: sessionID, connection: conn, errorChannel: errCh}

	// Use timeout to prevent blocking forever if the broadcaster is stuck
	timer := b.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.Chan():
		return fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a viewer session. Removing an already-absent session
// is a no-op, so disconnect paths and broadcast-side eviction can race
// without double removal.
func (b *Broadcaster) Unregister(sessionID uuid.UUID) {
	b.cmdCh <- unregisterCmd{sessionID: sessionID}
}

// Broadcast forwards one feed payload to every registered session.
func (b *Broadcaster) Broadcast(payload []byte) {
	b.cmdCh <- broadcastCmd{payload: payload}
}

// ClientCount returns the number of registered sessions.
// Returns -1 if the command times out.
func (b *Broadcaster) ClientCount() int {
	replyCh := make(chan int, 1)
	b.cmdCh <- clientCountCmd{replyChannel: replyCh}

	timer := b.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("ClientCount timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the broadcaster, closing all viewer sessions.
// Blocks until the broadcaster goroutine has exited or timeout is reached.
func (b *Broadcaster) Stop() {
	b.cmdCh <- stopCmd{}

	timer := b.clock.NewTimer(b.stopTimeout)
	defer timer.Stop()

	select {
	case <-b.done:
		slog.Info("Broadcaster stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Broadcaster stop timeout exceeded, forcing exit",
			"timeout", b.stopTimeout,
			"active_sessions", len(b.sessions),
		)
		close(b.done)
	}
}

func (b *Broadcaster) run() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Broadcaster panic recovered", "panic", r)
			b.closeAllSessions("broadcaster panic")
		}
	}()
	defer close(b.done)

	for cmd := range b.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			b.handleRegister(c)
		case unregisterCmd:
			b.handleUnregister(c.sessionID)
		case broadcastCmd:
			b.handleBroadcast(c.payload)
		case clientCountCmd:
			c.replyChannel <- len(b.sessions)
		case stopCmd:
			b.handleStop()
			return
		default:
			slog.Warn("Broadcaster received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
		}
	}
}

func (b *Broadcaster) handleRegister(c registerCmd) {
	if b.maxSessions > 0 && len(b.sessions) >= b.maxSessions {
		slog.Warn("Rejecting viewer: max sessions reached", "max_sessions", b.maxSessions)
		c.connection.Close()
		c.errorChannel <- fmt.Errorf("%w: max %d sessions", domain.ErrSessionLimit, b.maxSessions)
		return
	}

	b.sessions[c.sessionID] = &session{
		connection: c.connection,
		writer:     newClientWriter(c.connection, b.clock),
	}

	metrics.BroadcasterConnectedClients.Set(float64(len(b.sessions)))
	metrics.BroadcasterRegistrationsTotal.Inc()

	slog.Info("Viewer registered", "session_id", c.sessionID.String(), "total_sessions", len(b.sessions))
	c.errorChannel <- nil
}

func (b *Broadcaster) handleUnregister(sessionID uuid.UUID) {
	s, exists := b.sessions[sessionID]
	if !exists {
		return
	}

	s.writer.stop()
	delete(b.sessions, sessionID)

	metrics.BroadcasterConnectedClients.Set(float64(len(b.sessions)))
	slog.Info("Viewer unregistered", "session_id", sessionID.String(), "remaining_sessions", len(b.sessions))
}

func (b *Broadcaster) handleBroadcast(payload []byte) {
	var slow []uuid.UUID
	for sessionID, s := range b.sessions {
		select {
		case s.writer.sendChannel <- payload:
			metrics.BroadcasterMessagesTotal.Inc()
		default:
			// send buffer full, viewer is not keeping up
			slow = append(slow, sessionID)
		}
	}

	for _, sessionID := range slow {
		slog.Warn("Disconnecting slow viewer", "session_id", sessionID.String())
		metrics.BroadcasterSlowClientsEvicted.Inc()
		b.handleUnregister(sessionID)
	}
}

func (b *Broadcaster) handleStop() {
	total := len(b.sessions)
	slog.Info("Broadcaster shutting down", "sessions", total)
	b.closeAllSessions("Server shutting down")
	slog.Info("Broadcaster shutdown complete", "disconnected_sessions", total)
}

// closeAllSessions closes all viewer connections with the given reason.
// Used during panic recovery and graceful shutdown.
func (b *Broadcaster) closeAllSessions(reason string) {
	for sessionID, s := range b.sessions {
		s.writer.stopGraceful(reason)
		delete(b.sessions, sessionID)
	}
	metrics.BroadcasterConnectedClients.Set(0)
}
