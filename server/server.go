// Package server owns the accept loop and server lifecycle: binding
// the listener, spawning one session per accepted connection,
// tracking live sessions, and coordinating graceful shutdown with a
// final snapshot — the Go port of accept_loop/Server::service in
// _examples/original_source/memds/src/server/mod.rs.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/mickamy/memds/command"
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/session"
)

// Server binds a single listener and serves sessions against a shared
// datastore until told to shut down.
type Server struct {
	port int
	ds   *datastore.Store
	log  *log.Logger
}

// New constructs a Server bound to port (0 for an OS-assigned port)
// backed by ds. The datastore is expected to already be loaded from
// its snapshot path, or freshly empty, by the caller.
func New(port int, ds *datastore.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{port: port, ds: ds, log: logger}
}

// Terminator is returned by Serve: calling Stop requests graceful
// shutdown and blocks until every live session has drained and the
// final snapshot has been written.
type Terminator struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop signals shutdown and waits for the accept loop and all live
// sessions to finish, including the final datastore snapshot.
func (t *Terminator) Stop() {
	t.cancel()
	<-t.done
}

// Serve binds the listener and starts the accept loop in the
// background, returning the bound address and a Terminator that
// drives graceful shutdown. It mirrors Server::service: the accept
// loop itself keeps running after Serve returns, racing new accepts
// against the session set and the shutdown signal.
func (s *Server) Serve() (net.Addr, *Terminator, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return nil, nil, fmt.Errorf("server: listen: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.acceptLoop(ctx, lis)

		s.log.Printf("server: saving snapshot")
		if err := s.ds.Save(); err != nil {
			s.log.Printf("server: failed to save snapshot: %v", err)
		}
	}()

	return lis.Addr(), &Terminator{cancel: cancel, done: done}, nil
}

// acceptLoop races new connections against ctx cancellation, spawning
// one session per accepted socket and waiting for every live session
// to end before returning.
func (s *Server) acceptLoop(ctx context.Context, lis net.Listener) {
	registry := command.NewRegistry()

	var wg sync.WaitGroup
	defer func() {
		s.log.Printf("server: waiting for sessions to end")
		wg.Wait()
		s.log.Printf("server: all sessions ended")
	}()

	go func() {
		<-ctx.Done()
		_ = lis.Close()
	}()

	s.log.Printf("server: listening on %s", lis.Addr())
	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Printf("server: accept: %v", err)
			continue
		}

		sess := session.New(conn, registry, s.ds, s.log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sess.Run(ctx); err != nil {
				s.log.Printf("server: session error: %v", err)
			}
		}()
	}
}
