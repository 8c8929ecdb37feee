// Package httpd implements the minimal HTTP/1.1 static file server that
// drives the worker pool: every accepted connection becomes one pool job.
// It deliberately parses only the request line; the pool underneath is the
// component of interest, not the protocol handling.
package httpd

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spoolio/spool/pkg/logging"
	"github.com/spoolio/spool/pkg/observability/prometheus"
	"github.com/spoolio/spool/pkg/pool"
)

// Config configures the server.
type Config struct {
	// Address is the interface to bind, default 127.0.0.1.
	Address string

	// Port is the port to bind, default 7878. When the bind fails the
	// server retries with port 0 and lets the OS assign one.
	Port int

	// PagesDir holds index.html, sleep.html and 404.html.
	PagesDir string

	// Sleep is the stall applied to GET /sleep.
	Sleep time.Duration

	// MaxRequests stops the server after this many connections.
	// 0 means serve forever.
	MaxRequests int

	// Workers is the pool size, default 3.
	Workers int

	// Logger defaults to logging.NewDefaultLogger.
	Logger logging.Logger

	// Metrics records request and pool metrics when non-nil.
	Metrics *prometheus.Metrics
}

// DefaultConfig returns the demo server defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:  "127.0.0.1",
		Port:     7878,
		PagesDir: "pages",
		Sleep:    5 * time.Second,
		Workers:  3,
	}
}

// Server accepts connections and dispatches each one as a job to a
// fixed-size worker pool. Stop drains the pool before returning.
type Server struct {
	config  *Config
	logger  logging.Logger
	metrics *prometheus.Metrics
	pool    *pool.Pool

	mu       sync.Mutex
	listener net.Listener

	stopping atomic.Bool
	stopOnce sync.Once
	stopErr  error
}

// New creates a server and its worker pool. The pool's workers are running
// when New returns; the listener is not yet bound.
func New(config *Config) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Address == "" {
		config.Address = "127.0.0.1"
	}
	if config.Port < 0 || config.Port > 65535 {
		config.Port = 7878
	}
	if config.PagesDir == "" {
		config.PagesDir = "pages"
	}
	if config.Sleep < 0 {
		config.Sleep = 5 * time.Second
	}
	if config.Workers < 1 {
		config.Workers = 3
	}
	if config.Logger == nil {
		config.Logger = logging.NewDefaultLogger()
	}

	poolConfig := pool.Config{
		Size:   config.Workers,
		Logger: config.Logger,
	}
	if config.Metrics != nil {
		poolConfig.Observer = config.Metrics.Observer()
	}

	p, err := pool.NewWithConfig(poolConfig)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:  config,
		logger:  config.Logger,
		metrics: config.Metrics,
		pool:    p,
	}, nil
}

// Bind binds the listener. When Address:Port is taken it retries with
// port 0 and lets the OS assign one, mirroring a restart-friendly dev
// workflow. Bind is a no-op if the server is already bound.
func (s *Server) Bind() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.logger.Errorf("failed to bind listener on %s: %v", addr, err)
		s.logger.Info("retrying to bind; letting OS assign port")

		listener, err = net.Listen("tcp", fmt.Sprintf("%s:0", s.config.Address))
		if err != nil {
			return fmt.Errorf("httpd: failed to bind listener again: %w", err)
		}
	}

	s.listener = listener
	s.logger.Infof("listener bound to %s", listener.Addr())
	return nil
}

// Addr returns the bound address, or nil before Bind.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start accepts connections until Stop is called or MaxRequests is
// reached (blocking, like HTTP servers). Each connection is submitted to
// the pool as one job.
func (s *Server) Start() error {
	if err := s.Bind(); err != nil {
		return err
	}

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	served := 0
	for s.config.MaxRequests == 0 || served < s.config.MaxRequests {
		conn, err := listener.Accept()
		if err != nil {
			if s.stopping.Load() {
				return nil
			}
			return fmt.Errorf("httpd: accept: %w", err)
		}
		served++

		if err := s.pool.Submit(func() { s.handle(conn) }); err != nil {
			conn.Close()
			if s.stopping.Load() {
				return nil
			}
			return err
		}
	}

	s.logger.Infof("served %d requests; shutting down", served)
	return s.Stop()
}

// Stop closes the listener and shuts the pool down, blocking until every
// accepted connection has been handled. A worker killed by a panicking
// job surfaces here as the returned error. Stop is idempotent.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		s.stopping.Store(true)

		s.mu.Lock()
		listener := s.listener
		s.mu.Unlock()
		if listener != nil {
			listener.Close()
		}

		s.stopErr = s.pool.Shutdown()
	})
	return s.stopErr
}
