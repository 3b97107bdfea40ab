// Package server serves catalog requests over TCP, one request and one
// response per connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/luxcatalog/lux/internal/catalog"
	"github.com/luxcatalog/lux/internal/codec"
	"github.com/luxcatalog/lux/internal/model"
)

// DefaultMaxRequestBytes bounds the size of one encoded request.
const DefaultMaxRequestBytes = 1 << 20

// Store is an open catalog store, held for the duration of one exchange.
type Store interface {
	catalog.Gateway
	io.Closer
}

// Opener opens the catalog store for one exchange.
type Opener func(ctx context.Context) (Store, error)

// OpenPath returns an Opener that opens the store at path read-only.
func OpenPath(path string) Opener {
	return func(ctx context.Context) (Store, error) {
		db, err := catalog.Open(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// Options configures a Server.
type Options struct {
	// MaxConcurrent is the number of exchanges served at once. Values below
	// 2 serve connections one at a time, in accept order.
	MaxConcurrent int

	// ReadTimeout and WriteTimeout bound reading the request and writing the
	// response. Zero means no deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxRequestBytes bounds the encoded request; 0 means DefaultMaxRequestBytes.
	MaxRequestBytes int64
}

// Server accepts connections and performs exactly one exchange on each.
type Server struct {
	opts   Options
	open   Opener
	logger *slog.Logger

	// active tracks in-flight exchanges so Serve can wait for them.
	active sync.WaitGroup
}

// New creates a server that opens its store with open.
func New(opts Options, open Opener, logger *slog.Logger) *Server {
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{opts: opts, open: open, logger: logger}
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes ln and
// waits for in-flight exchanges to finish. Per-exchange failures are logged
// and never stop the server.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var sem *semaphore.Weighted
	if s.opts.MaxConcurrent > 1 {
		sem = semaphore.NewWeighted(int64(s.opts.MaxConcurrent))
	}

	s.logger.Info("server listening",
		"addr", ln.Addr().String(),
		"max_concurrent", max(s.opts.MaxConcurrent, 1),
	)

	// Exchanges already accepted run to completion after ctx is cancelled.
	exchangeCtx := context.WithoutCancel(ctx)

	var acceptDelay time.Duration
	for {
		if sem != nil {
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
		}

		conn, err := ln.Accept()
		if err != nil {
			if sem != nil {
				sem.Release(1)
			}
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			acceptDelay = nextAcceptDelay(acceptDelay)
			s.logger.Error("accept failed", "error", err, "retry_in", acceptDelay)
			select {
			case <-ctx.Done():
			case <-time.After(acceptDelay):
			}
			continue
		}
		acceptDelay = 0

		if sem == nil {
			s.handleConnection(exchangeCtx, conn)
			continue
		}

		s.active.Add(1)
		go func() {
			defer s.active.Done()
			defer sem.Release(1)
			s.handleConnection(exchangeCtx, conn)
		}()
	}

	s.active.Wait()
	s.logger.Info("server stopped")
	return nil
}

// Accept failures such as EMFILE are retried after a delay that doubles from
// minAcceptDelay up to maxAcceptDelay.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

func nextAcceptDelay(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptDelay
	}
	return min(2*d, maxAcceptDelay)
}

// handleConnection performs one exchange on conn. A request that cannot be
// decoded, or a store failure, ends the exchange without a response.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	start := time.Now()
	logger := s.logger.With(
		"exchange", uuid.NewString(),
		"remote", conn.RemoteAddr().String(),
	)

	if s.opts.ReadTimeout > 0 {
		conn.SetReadDeadline(start.Add(s.opts.ReadTimeout))
	}
	req, err := codec.ReadRequest(io.LimitReader(conn, s.opts.MaxRequestBytes))
	if err != nil {
		if errors.Is(err, io.EOF) {
			logger.Debug("client sent nothing")
			return
		}
		logger.Warn("invalid request", "error", err)
		return
	}
	logger = logger.With("kind", req.Kind())

	resp, err := s.exchange(ctx, req)
	if err != nil {
		logger.Error("request failed", "error", err)
		return
	}

	if s.opts.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	if err := codec.WriteResponse(conn, resp); err != nil {
		logger.Warn("failed to write response", "error", err)
		return
	}

	logger.Info("exchange complete",
		"rows", rowCount(resp),
		"duration", time.Since(start),
	)
}

// exchange opens the store, answers req and closes the store again.
func (s *Server) exchange(ctx context.Context, req model.Request) (*model.Response, error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	return Dispatch(ctx, store, req)
}
