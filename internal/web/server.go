package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cjeanneret/ledpanel/internal/debug"
)

// Server wraps the HTTP server and handlers.
type Server struct {
	addr     string
	handlers *Handlers
	gatherer prometheus.Gatherer
}

// NewServer creates a server for addr. gatherer backs GET /metrics.
func NewServer(addr string, handlers *Handlers, gatherer prometheus.Gatherer) *Server {
	return &Server{
		addr:     addr,
		handlers: handlers,
		gatherer: gatherer,
	}
}

// Mux returns an http.Handler with all routes registered.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()

	// Every static asset at its route. Templates are only served rendered.
	for _, name := range s.handlers.Assets.Names() {
		a, _ := s.handlers.Assets.Lookup(name)
		if len(a.Params()) > 0 {
			continue
		}
		mux.HandleFunc("GET "+a.Route(), s.handlers.ServeAsset(name))
	}
	mux.HandleFunc("GET /{$}", s.handlers.ServeIndex) // exact match for root only
	mux.HandleFunc("GET /H", s.handlers.HandleLEDOn)
	mux.HandleFunc("GET /L", s.handlers.HandleLEDOff)
	mux.HandleFunc("GET /T", s.handlers.HandleLEDToggle)
	mux.HandleFunc("GET /state", s.handlers.HandleState)
	mux.HandleFunc("GET /api/led", s.handlers.HandleLEDStatus)
	mux.HandleFunc("GET /status/stream", s.handlers.HandleStatusStream)
	mux.HandleFunc("GET /ws", s.handlers.HandleWebSocket)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return s.handlers.Metrics.Middleware(mux)
}

// Run listens on the server address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
// Request contexts derive from ctx, so streaming clients end when shutdown starts.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		debug.Info("web server listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
