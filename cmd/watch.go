package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"dropzone/internal/daemon"
	"dropzone/internal/db"
	"dropzone/internal/logger"
	"dropzone/internal/repository"
	"dropzone/internal/status"
	"dropzone/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor the watch directory until the end of the day",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := db.Init(cfg.DBPath); err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := status.NewMemoryStore()
	pool := daemon.NewPool(ctx, daemon.Capacity(cfg.Workers))
	history := repository.NewTransferRepository()

	opts := []daemon.CoordinatorOption{daemon.WithHistory(history)}
	if w, err := startWatcher(); err != nil {
		logger.Log.Warn("arrival watcher unavailable, relying on scans only",
			zap.Error(err))
	} else {
		defer w.Stop()
		opts = append(opts, daemon.WithWake(w.Wake()))
	}

	coord, err := daemon.NewCoordinator(cfg, store, pool, opts...)
	if err != nil {
		return err
	}

	srv := daemon.NewServer(coord, store, history, cfg.DaemonPort)
	srv.Start()

	logger.Log.Info("dropzone monitor started",
		zap.String("watch_dir", cfg.WatchDir),
		zap.Int("workers", pool.Size()),
		zap.Int("port", cfg.DaemonPort))

	runErr := coord.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Log.Warn("failed to stop status server", zap.Error(err))
	}

	logger.Log.Info("dropzone monitor stopped")
	return runErr
}

func startWatcher() (*watcher.Watcher, error) {
	w, err := watcher.New(cfg.WatchDir, cfg.IgnoreList)
	if err != nil {
		return nil, err
	}

	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
