// Package session drives a single client connection through its
// lifecycle: read bytes, decode frames, dispatch to the command
// registry, buffer responses, and flush on demand or under shutdown.
package session

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"strings"

	"github.com/google/uuid"

	"github.com/mickamy/memds/command"
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/frame"
)

// writeBufSizeLimit is the high-water mark past which a session
// flushes buffered responses even without an explicit flush request.
const writeBufSizeLimit = 100 * 1024

// state names the five stages a session's loop moves through; the
// current stage is recorded on the Session (log lines carry only the
// session ID).
type state int

const (
	stateReading state = iota
	stateDispatching
	stateFlushing
	stateShuttingDown
	stateEnded
)

func (s state) String() string {
	switch s {
	case stateReading:
		return "reading"
	case stateDispatching:
		return "dispatching"
	case stateFlushing:
		return "flushing"
	case stateShuttingDown:
		return "shutting-down"
	case stateEnded:
		return "ended"
	}
	return "unknown"
}

// Session owns one accepted connection: its frame reader, write
// buffer, and the shared registry/datastore it dispatches against.
type Session struct {
	id       string
	conn     net.Conn
	reader   *frame.Reader
	registry *command.Registry
	ds       *datastore.Store
	log      *log.Logger

	state    state
	writeBuf []byte
}

// New wraps an accepted connection as a Session. registry and ds are
// shared across every session on the server.
func New(conn net.Conn, registry *command.Registry, ds *datastore.Store, logger *log.Logger) *Session {
	return &Session{
		id:       uuid.NewString(),
		conn:     conn,
		reader:   frame.New(conn),
		registry: registry,
		ds:       ds,
		log:      logger,
		state:    stateReading,
	}
}

// Run drives the session's state machine until the connection closes,
// a malformed frame ends it, or ctx is cancelled. It always closes the
// underlying connection before returning.
func (s *Session) Run(ctx context.Context) error {
	defer s.conn.Close()
	s.log.Printf("session %s: connected", s.id)

	err := s.loop(ctx)

	s.state = stateEnded
	if err != nil && !isClosedErr(err) && !errors.Is(err, context.Canceled) {
		s.log.Printf("session %s: ended with error: %v", s.id, err)
		return err
	}
	s.log.Printf("session %s: disconnected", s.id)
	return nil
}

func (s *Session) loop(ctx context.Context) error {
	for {
		s.state = stateReading
		f, err := s.reader.NextFrame()
		if err != nil {
			return err
		}
		if f == nil {
			n, err := s.readAndFlushFused(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				return s.flush()
			}
			continue
		}

		s.state = stateDispatching
		flush := s.registry.Dispatch(f.Tokens, s.ds, &s.writeBuf)

		if flush || len(s.writeBuf) >= writeBufSizeLimit {
			s.state = stateFlushing
			if err := s.flush(); err != nil {
				return err
			}
		}

		if ctx.Err() != nil {
			s.state = stateShuttingDown
			return s.flush()
		}
	}
}

// readAndFlushFused fuses the next blocking read with a flush of
// whatever is currently buffered in s.writeBuf, exactly as the
// original's session loop does with
// `future::join(connection.read_to_buf(), flush(&mut writer, &mut
// write_buf))`: both run concurrently so a synchronous client that
// waits for its reply before sending its next request never stalls
// on an unflushed buffer. Cancellation races both: a pending flush is
// always allowed to finish first (spec: shutdown "finishes flushing
// its current write buffer"), then the connection is closed to
// unblock the pending read, exactly as the teacher's conn.relay closes
// both ends of a proxied connection to unblock a sibling relay
// goroutine.
func (s *Session) readAndFlushFused(ctx context.Context) (int, error) {
	type result struct {
		n   int
		err error
	}
	readCh := make(chan result, 1)
	go func() {
		n, err := s.reader.ReadMore()
		readCh <- result{n, err}
	}()

	flushCh := make(chan error, 1)
	go func() {
		flushCh <- s.flush()
	}()

	var (
		readDone, flushDone bool
		n                   int
		readErr, flushErr   error
	)
	for !readDone || !flushDone {
		select {
		case r := <-readCh:
			n, readErr = r.n, r.err
			readDone = true
		case err := <-flushCh:
			flushErr = err
			flushDone = true
		case <-ctx.Done():
			if !flushDone {
				flushErr = <-flushCh
				flushDone = true
			}
			s.state = stateShuttingDown
			_ = s.conn.Close()
			if !readDone {
				<-readCh
			}
			if flushErr != nil {
				return 0, flushErr
			}
			return 0, ctx.Err()
		}
	}
	if readErr != nil {
		return 0, readErr
	}
	if flushErr != nil {
		return 0, flushErr
	}
	return n, nil
}

func (s *Session) flush() error {
	if len(s.writeBuf) == 0 {
		return nil
	}
	if _, err := s.conn.Write(s.writeBuf); err != nil {
		return err
	}
	s.writeBuf = s.writeBuf[:0]
	return nil
}

// isClosedErr reports whether err is the expected result of closing a
// connection out from under a pending read, as opposed to a genuine
// I/O failure — mirrors proxy/mysql/conn.go's isClosedErr.
func isClosedErr(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return netErr.Err.Error() == "use of closed network connection"
	}
	return strings.Contains(err.Error(), "closed")
}
