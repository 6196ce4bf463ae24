package daemon

import (
	"errors"
	"fmt"
	"net"

	"github.com/juju/fslock"
	"github.com/lightningnetwork/lnd/signal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/config"
	"github.com/babylonchain/beacon-committee/ledger"
	"github.com/babylonchain/beacon-committee/log"
	"github.com/babylonchain/beacon-committee/metrics"
	"github.com/babylonchain/beacon-committee/service"
)

// CommandStart returns the start command of beacond daemon.
func CommandStart() *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "start",
		Short:   "Start the beacon daemon.",
		Long:    `Start the beacon daemon on its local chain and serve the JSON-RPC API.`,
		Example: `beacond start --home /home/user/.beacond`,
		Args:    cobra.NoArgs,
		RunE:    runStartCmd,
	}
	cmd.Flags().String(rpcListenerFlag, "", "The address that the RPC server listens to")
	cmd.Flags().Bool(earlyFlag, false, "Select a group as soon as group size distinct stakers hold a retained ticket")
	return cmd
}

func runStartCmd(cmd *cobra.Command, args []string) error {
	homePath, err := homePathFromFlags(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	rpcListener, err := flags.GetString(rpcListenerFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", rpcListenerFlag, err)
	}

	earlyClosure, err := flags.GetBool(earlyFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", earlyFlag, err)
	}

	cfg, err := config.LoadConfig(homePath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if rpcListener != "" {
		_, err := net.ResolveTCPAddr("tcp", rpcListener)
		if err != nil {
			return fmt.Errorf("invalid RPC listener address %s, %w", rpcListener, err)
		}
		cfg.RpcListener = rpcListener
	}
	if earlyClosure {
		cfg.EarlyClosure = true
	}

	lock := fslock.New(config.LockFile(homePath))
	if err := lock.TryLock(); err != nil {
		if errors.Is(err, fslock.ErrLocked) {
			return fmt.Errorf("another beacond is already running with home %s", homePath)
		}
		return fmt.Errorf("failed to lock the home directory: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	logger, err := log.NewRootLoggerWithFile(config.LogFile(homePath), cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize the logger: %w", err)
	}

	dbBackend, err := cfg.DatabaseConfig.GetDbBackend()
	if err != nil {
		return fmt.Errorf("failed to create db backend: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	l, err := ledger.NewLedger(dbBackend)
	if err != nil {
		return fmt.Errorf("failed to initiate the ledger: %w", err)
	}

	bc, err := service.NewLocalChainFromConfig(cfg.ChainConfig, l, logger)
	if err != nil {
		return fmt.Errorf("failed to create the local chain: %w", err)
	}

	beaconApp, err := service.NewBeaconAppFromConfig(cfg, l, bc, metrics.NewBeaconMetrics(registry), logger)
	if err != nil {
		return fmt.Errorf("failed to create the beacon app: %w", err)
	}

	logger.Info("loaded the beacon configuration",
		zap.String("home", homePath),
		zap.String("minimum_stake", cfg.MinimumStake),
		zap.Bool("early_closure", cfg.EarlyClosure),
		zap.Uint64("start_height", bc.Height()),
	)

	// Hook interceptor for os signals.
	shutdownInterceptor, err := signal.Intercept()
	if err != nil {
		return err
	}

	beaconServer := service.NewBeaconServer(cfg, logger, beaconApp, bc, dbBackend, registry, shutdownInterceptor)
	return beaconServer.RunUntilShutdown()
}
