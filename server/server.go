package server

import (
	"errors"
	"log"
	"net"
	"sync"
	"time"
)

// Handler produces the response body for a fully framed request
type Handler func(body string, headers Headers) string

// Server accepts connections and serves each of them in its own goroutine
type Server struct {
	config  *Config
	handler Handler
	frames  *framePool

	mu        sync.Mutex
	closed    bool
	listeners map[net.Listener]struct{}
	conns     map[net.Conn]struct{}
	wg        sync.WaitGroup
}

// NewServer creates a server with the default config
func NewServer(handler Handler) *Server {
	return NewServerWithConfig(DefaultConfig(), handler)
}

// server instance with config
func NewServerWithConfig(config *Config, handler Handler) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	cfg := *config
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	// the body limit cannot be switched off
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}

	return &Server{
		config:    &cfg,
		handler:   handler,
		frames:    newFramePool(cfg.BufferSize),
		listeners: make(map[net.Listener]struct{}),
		conns:     make(map[net.Conn]struct{}),
	}
}

// ListenAndServe binds addr and serves it until Close
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(listener)
}

// Serve accepts connections from listener until it fails or the server is closed. The
// listener is closed on return.
func (s *Server) Serve(listener net.Listener) error {
	if !s.trackListener(listener) {
		listener.Close()
		return ErrServerClosed
	}
	defer s.untrackListener(listener)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if s.config.EnableLogging {
				log.Println("Error accepting connection:", err)
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if !s.trackConn(conn) {
			conn.Close()
			return ErrServerClosed
		}

		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrackConn(conn)
	defer conn.Close()

	err := s.ServeConn(conn)
	if s.config.EnableLogging {
		logConnError(conn.RemoteAddr().String(), err)
	}
}

// Close stops every listener, drops live connections and waits for their goroutines
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true

	var err error
	for listener := range s.listeners {
		if cerr := listener.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) trackListener(listener net.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.listeners[listener] = struct{}{}
	return true
}

func (s *Server) untrackListener(listener net.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listeners[listener]; ok {
		delete(s.listeners, listener)
		listener.Close()
	}
}

// trackConn registers conn so Close can reach it. The wait group is bumped under the same
// lock that Close takes, so no connection slips past Wait.
func (s *Server) trackConn(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrackConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}
