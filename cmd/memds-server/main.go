package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/memds/memds/internal/config"
	"github.com/memds/memds/internal/dispatch"
	"github.com/memds/memds/internal/keyspace"
	"github.com/memds/memds/internal/metrics"
	"github.com/memds/memds/internal/server"
	"github.com/memds/memds/internal/snapshot"
)

func main() {
	// The bgsave child re-exec path bypasses kong entirely: it's an
	// internal implementation detail of BGSAVE, never a user-facing
	// subcommand, and must not show up in --help.
	if len(os.Args) >= 3 && os.Args[1] == snapshot.ReexecFlag {
		if err := snapshot.RunChild(os.Args[2], os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var cli config.CLI
	kong.Parse(&cli, kong.Description("memds-server: in-memory key/value database service"))

	cfg, err := config.Load(cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logCfg := zap.NewProductionConfig()
	logCfg.DisableStacktrace = true
	log := zap.Must(logCfg.Build())
	defer log.Sync()
	log = log.Named("memds-server")

	db := keyspace.New()

	if cfg.Import != "" {
		if err := importSnapshot(db, cfg.Import); err != nil {
			log.Fatal("snapshot import failed", zap.String("path", cfg.Import), zap.Error(err))
		}
		log.Info("imported snapshot", zap.String("path", cfg.Import))
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	svc := dispatch.New(db)
	svc.Snapshotter = snapshot.NewManager(log.Named("bgsave"), cfg.Snapshot).WithDuration(m.BGSaveDuration)

	addr := fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.BindPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("failed to bind", zap.String("addr", addr), zap.Error(err))
	}
	log.Info("listening", zap.String("addr", addr))

	adminAddr := fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.AdminPort)
	admin := &http.Server{Addr: adminAddr, Handler: server.NewAdminRouter(log, db)}
	go func() {
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("admin server stopped", zap.Error(err))
		}
	}()
	log.Info("admin surface listening", zap.String("addr", adminAddr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		admin.Close()
		cancel()
	}()

	tcp := server.NewTCPServer(log, svc, m).WithWorkers(cfg.Workers)
	if err := tcp.Serve(ctx, ln); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}

func importSnapshot(db *keyspace.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := snapshot.Import(f)
	if err != nil {
		return err
	}
	db.Load(entries)
	return nil
}
