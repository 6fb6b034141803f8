package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aumkeeper/internal/adapters/adrena"
	"aumkeeper/internal/adapters/postgres"
	"aumkeeper/internal/adapters/solanarpc"
	"aumkeeper/internal/api"
	"aumkeeper/internal/config"
	"aumkeeper/internal/domain"
	"aumkeeper/internal/keeper"
	"aumkeeper/internal/metrics"
	"aumkeeper/internal/platform/db"
	httpserver "aumkeeper/internal/platform/http"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func fatal(step string, err error) error {
	logrus.WithError(err).Errorf("Failed to %s", step)
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrFatalStartup, step, err)
}

func setupLogger(cfg config.Logging) {
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(cfg.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// Run wires the keeper components and blocks in the update loop until a signal arrives.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFatalStartup, err)
	}
	setupLogger(appCfg.Logging)
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, pool account fetch)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	payer, err := solana.PrivateKeyFromSolanaKeygenFile(appCfg.Solana.PayerKeypair)
	if err != nil {
		return fatal("read payer keypair", err)
	}
	logrus.WithField("payer", payer.PublicKey().String()).Info("✅ Payer keypair loaded")

	rpcClient, err := solanarpc.NewClient(appCfg.Solana.RPCEndpoint, appCfg.Solana.Commitment)
	if err != nil {
		return fatal("create rpc client", err)
	}

	program, err := adrena.NewProgram(
		appCfg.Solana.ProgramID,
		appCfg.Solana.Cortex,
		appCfg.Solana.MainPool,
		appCfg.Solana.ALPMint,
	)
	if err != nil {
		return fatal("resolve program accounts", err)
	}

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		return fatal("connect to db", err)
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	// Remaining accounts are fixed for the process lifetime
	poolData, err := rpcClient.GetAccountData(startupCtx, program.Pool)
	if err != nil {
		return fatal("fetch pool account", err)
	}
	poolAccount, err := adrena.DecodePool(poolData)
	if err != nil {
		return fatal("decode pool account", err)
	}
	remaining := poolAccount.RemainingAccounts()
	logrus.Infof("✅ Pool loaded with %d custodies", len(remaining))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	keeperMetrics := metrics.NewKeeperMetrics(registry)

	fees := &keeper.FeeCell{}
	feeEstimator := keeper.NewFeeEstimator(
		rpcClient,
		fees,
		appCfg.Keeper.FeePercentile,
		appCfg.Keeper.FeeRefresh(),
		keeperMetrics,
	)
	// Ensure estimator stops before DB pool closes
	defer func() {
		if shutDownErr := feeEstimator.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Fee estimator shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := feeEstimator.Start(ctx); startErr != nil {
		return fatal("start fee estimator", startErr)
	}
	logrus.Info("✅ Fee estimator activation successful")

	if appCfg.HTTPServer.Port != "" {
		router := api.NewRouter(registry)
		go func() {
			if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
				logrus.Errorf("Ops server error: %v", serverErr)
			}
		}()
	}

	pipeline := keeper.NewPipeline(
		rpcClient,
		program,
		payer,
		appCfg.Keeper.CULimit,
		appCfg.Keeper.BuildTimeout(),
	)
	pacer := keeper.NewPacer(
		postgres.NewAssetsPriceRepository(pool),
		pipeline,
		fees,
		remaining,
		appCfg.Keeper.Cycle(),
		appCfg.Keeper.IdleSleep(),
		keeperMetrics,
	)

	logrus.Info("Starting pool AUM update loop")
	return pacer.Run(ctx)
}
