package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/lightningnetwork/lnd/kvdb"
	"github.com/lightningnetwork/lnd/signal"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/chain/local"
	"github.com/babylonchain/beacon-committee/config"
	"github.com/babylonchain/beacon-committee/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server is the main daemon construct for the beacon. It handles spinning up
// the local chain, the RPC server, the database and any other components the
// beacon needs to function.
type Server struct {
	started int32

	cfg    *config.Config
	logger *zap.Logger

	app         *BeaconApp
	chain       *local.Chain
	rpcServer   *RPCServer
	db          kvdb.Backend
	gatherer    prometheus.Gatherer
	interceptor signal.Interceptor
}

// NewBeaconServer creates a new server with the given config.
func NewBeaconServer(
	cfg *config.Config,
	l *zap.Logger,
	app *BeaconApp,
	bc *local.Chain,
	db kvdb.Backend,
	gatherer prometheus.Gatherer,
	sig signal.Interceptor,
) *Server {
	return &Server{
		cfg:         cfg,
		logger:      l,
		app:         app,
		chain:       bc,
		rpcServer:   NewRPCServer(app),
		db:          db,
		gatherer:    gatherer,
		interceptor: sig,
	}
}

// RunUntilShutdown runs the main beacon server loop until a signal is
// received to shut down the process.
func (s *Server) RunUntilShutdown() (err error) {
	if atomic.AddInt32(&s.started, 1) != 1 {
		return nil
	}

	defer func() {
		s.logger.Info("Shutdown complete")
	}()

	defer func() {
		s.logger.Info("Closing database...")
		if closeErr := s.db.Close(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("failed to close the database: %w", closeErr))
		}
		s.logger.Info("Database closed")
	}()

	// Start the metrics server.
	promAddr, err := s.cfg.Metrics.Address()
	if err != nil {
		return fmt.Errorf("failed to get prometheus address: %w", err)
	}
	metricsServer, err := metrics.Start(promAddr, s.gatherer, s.logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if stopErr := metricsServer.Stop(ctx); stopErr != nil {
			err = multierror.Append(err, stopErr)
		}
	}()

	if err := s.chain.Start(); err != nil {
		return fmt.Errorf("failed to start the local chain: %w", err)
	}
	defer func() {
		if stopErr := s.chain.Stop(); stopErr != nil {
			err = multierror.Append(err, stopErr)
		}
	}()

	if err := s.app.Start(); err != nil {
		return fmt.Errorf("failed to start the beacon app: %w", err)
	}
	defer func() {
		if stopErr := s.app.Stop(); stopErr != nil {
			err = multierror.Append(err, stopErr)
		}
	}()

	if err := s.rpcServer.Start(); err != nil {
		return fmt.Errorf("failed to register the RPC API: %w", err)
	}
	defer func() {
		if stopErr := s.rpcServer.Stop(); stopErr != nil {
			err = multierror.Append(err, stopErr)
		}
	}()

	listenAddr := s.cfg.RpcListener
	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", listenAddr, err)
	}

	httpServer := &http.Server{
		Handler:           s.rpcServer,
		ReadHeaderTimeout: shutdownTimeout,
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierror.Append(err, shutdownErr)
		}
	}()

	go func() {
		s.logger.Info("RPC server listening", zap.String("address", lis.Addr().String()))
		if serveErr := httpServer.Serve(lis); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("RPC server stopped unexpectedly", zap.Error(serveErr))
			s.interceptor.RequestShutdown()
		}
	}()

	s.logger.Info("Beacon Daemon is fully active!")

	// Wait for shutdown signal from either a graceful server stop or from
	// the interrupt handler.
	<-s.interceptor.ShutdownChannel()

	return nil
}
