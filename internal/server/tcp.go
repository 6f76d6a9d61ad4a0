// Package server hosts the TCP listener that serves the framed wire
// protocol, plus an ambient admin HTTP surface (health, metrics, debug
// stats) alongside it.
package server

import (
	"context"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/memds/memds/internal/dispatch"
	"github.com/memds/memds/internal/metrics"
)

// defaultWorkers is the pool size used when the caller doesn't configure
// one explicitly — a single-digit count, as the concurrency model calls for.
const defaultWorkers = 4

// TCPServer accepts connections and hands each to a fixed-size pool of
// worker goroutines; a worker owns a connection for its whole lifetime and
// only picks up the next queued connection once its current one closes.
// Connections beyond the pool size queue on connCh rather than spawning
// unbounded goroutines.
type TCPServer struct {
	log     *zap.Logger
	svc     *dispatch.Service
	metrics *metrics.Metrics
	workers int
}

// NewTCPServer returns a TCPServer dispatching batches to svc with
// defaultWorkers worker goroutines. Use WithWorkers to override the count.
func NewTCPServer(log *zap.Logger, svc *dispatch.Service, m *metrics.Metrics) *TCPServer {
	return &TCPServer{log: log.Named("tcp"), svc: svc, metrics: m, workers: defaultWorkers}
}

// WithWorkers overrides the worker pool size.
func (s *TCPServer) WithWorkers(n int) *TCPServer {
	if n > 0 {
		s.workers = n
	}
	return s
}

// Serve accepts connections on ln until ctx is canceled or Accept fails,
// dispatching each to the worker pool.
func (s *TCPServer) Serve(ctx context.Context, ln net.Listener) error {
	connCh := make(chan net.Conn)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for conn := range connCh {
				s.handleConn(conn)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var acceptErr error
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
			default:
				s.log.Error("accept failed", zap.Error(err))
				acceptErr = err
			}
			break
		}

		select {
		case connCh <- conn:
		case <-ctx.Done():
			conn.Close()
		}
	}

	close(connCh)
	wg.Wait()
	return acceptErr
}
