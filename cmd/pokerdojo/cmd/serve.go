package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/weedbox/pokerdojo"
	"github.com/weedbox/pokerdojo/store"
	"github.com/weedbox/pokerdojo/transport"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load configLoader) *cobra.Command {
	var (
		addr       string
		historyDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the WebSocket game server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("hand-history-dir") {
				cfg.HandHistoryDir = historyDir
			}

			logger, err := cfg.NewLogger()
			if err != nil {
				return err
			}

			files, err := store.NewFileWriter(cfg.HandHistoryDir)
			if err != nil {
				return err
			}
			writers := store.Multi{files}

			if cfg.ArchiveDSN != "" {
				archive, err := store.OpenArchive(cfg.ArchiveDSN)
				if err != nil {
					return err
				}
				defer archive.Close()
				writers = append(writers, archive)
			}

			coordinator := pokerdojo.NewCoordinator(sessionEngineOptions(cfg),
				pokerdojo.WithLogger(logger),
				pokerdojo.WithHistoryWriter(writers),
				pokerdojo.WithQuotaProvider(pokerdojo.NewStaticQuotaProvider(cfg.HandsPerSession)),
			)

			hub := transport.NewHub(coordinator, sessionSetting(cfg), logger)
			return serve(cmd.Context(), logger, cfg.Addr, hub.Handler(), coordinator)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&historyDir, "hand-history-dir", "hand_histories", "directory for hand history files")
	return cmd
}

func serve(ctx context.Context, logger *logrus.Logger, addr string, handler http.Handler, coordinator pokerdojo.Coordinator) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	// sessions end first so their last hands are persisted before exit
	coordinator.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
