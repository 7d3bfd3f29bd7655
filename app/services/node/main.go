package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"

	"github.com/hashforge/blockchain/app/services/node/handlers"
	"github.com/hashforge/blockchain/foundation/blockchain/archive"
	"github.com/hashforge/blockchain/foundation/blockchain/archive/bolt"
	"github.com/hashforge/blockchain/foundation/blockchain/archive/disk"
	"github.com/hashforge/blockchain/foundation/blockchain/archive/memory"
	"github.com/hashforge/blockchain/foundation/blockchain/genesis"
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
	"github.com/hashforge/blockchain/foundation/blockchain/state"
	"github.com/hashforge/blockchain/foundation/blockchain/worker"
	"github.com/hashforge/blockchain/foundation/events"
	"github.com/hashforge/blockchain/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
		}
		Chain struct {
			Beneficiary    string `conf:"default:miner1"`
			GenesisPath    string `conf:"default:zledger/genesis.json"`
			ArchiveBackend string `conf:"default:disk,help:disk bolt or memory"`
			ArchivePath    string `conf:"default:zledger/chain"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "LEDGER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Chain Support

	// The genesis settings fix the difficulty and mining reward for the
	// life of the chain. A missing file falls back to the defaults.
	gen, err := genesis.Load(cfg.Chain.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis settings: %w", err)
	}
	log.Infow("startup", "status", "genesis loaded", "difficulty", gen.Difficulty, "miningReward", gen.MiningReward)

	// The archive keeps every accepted block outside the running chain so
	// the node can reload its history on restart.
	var archiver archive.Archiver
	switch cfg.Chain.ArchiveBackend {
	case "disk":
		archiver, err = disk.New(cfg.Chain.ArchivePath)
	case "bolt":
		archiver, err = bolt.New(cfg.Chain.ArchivePath)
	case "memory":
		archiver, err = memory.New()
	default:
		return fmt.Errorf("unknown archive backend %q", cfg.Chain.ArchiveBackend)
	}
	if err != nil {
		return fmt.Errorf("unable to open block archive: %w", err)
	}
	defer archiver.Close()

	archived, err := archive.ReadAll(archiver)
	if err != nil {
		return fmt.Errorf("unable to read block archive: %w", err)
	}
	log.Infow("startup", "status", "archive loaded", "backend", cfg.Chain.ArchiveBackend, "blocks", len(archived))

	// The chain packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(v, args...)
	}

	// Every block the chain accepts is handed back here to be archived.
	accept := func(blockData ledger.BlockData) {
		if err := archiver.Write(blockData); err != nil {
			log.Errorw("archive", "status", "block archive failed", "block", blockData.Hash, "ERROR", err)
		}
	}

	// The state value represents the chain node. It manages the ledger and
	// the pending transaction pool and provides an API for application
	// support.
	st, err := state.New(state.Config{
		Beneficiary:   ledger.Address(cfg.Chain.Beneficiary),
		Genesis:       gen,
		Archived:      archived,
		EvHandler:     ev,
		AcceptHandler: accept,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// The worker package implements the mining workflow. The worker will
	// register itself with the state.
	worker.Run(st, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		Evts:     evts,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
