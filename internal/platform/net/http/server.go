package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"hashjudge/internal/platform/config"
	"hashjudge/internal/platform/logger"
)

// Server owns the listener lifecycle for one handler
type Server struct {
	srv      *stdhttp.Server
	shutdown time.Duration
	log      *logger.Logger
}

// NewServer reads ADDR, READ_TIMEOUT, WRITE_TIMEOUT and SHUTDOWN_TIMEOUT from cfg
func NewServer(cfg config.Conf, h stdhttp.Handler) *Server {
	return &Server{
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("ADDR", ":4000"),
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.MayDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      cfg.MayDuration("WRITE_TIMEOUT", 60*time.Second),
		},
		shutdown: cfg.MayDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		log:      logger.Named("http"),
	}
}

// Addr is the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run listens on Addr until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is done, then drains in-flight requests
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("http listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("http stopped")
	return nil
}
