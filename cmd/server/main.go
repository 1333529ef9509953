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

	"github.com/VitaminP8/hackernews/graph"
	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/auth"
	"github.com/VitaminP8/hackernews/internal/config"
	"github.com/VitaminP8/hackernews/internal/events"
	"github.com/VitaminP8/hackernews/internal/logger"
	"github.com/VitaminP8/hackernews/internal/metrics"
	"github.com/VitaminP8/hackernews/internal/server"
	"github.com/VitaminP8/hackernews/internal/subscription"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var configDir string

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Hacker News GraphQL server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// загружаем .env до чтения конфигурации
		config.LoadEnv()

		cfg, err := config.Load(configDir, cmd.Flags())
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, log)
	},
}

func init() {
	rootCmd.Flags().String("storage", config.StorageMemory, "storage backend: memory, postgres, sqlite or badger")
	rootCmd.Flags().String("http-addr", ":8080", "HTTP listen address")
	rootCmd.Flags().StringVar(&configDir, "config", ".", "directory containing config.yaml")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	stores, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.close(); err != nil {
			log.WithError(err).Error("Failed to close storage")
		}
	}()
	log.WithField("storage", cfg.Storage).Info("Storage ready")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	local := subscription.NewSubscriptionManager[*model.NewLinkEvent](subscription.Config{
		BufferSize: cfg.SubscriberBuffer,
		Logger:     log,
		Observer:   m,
	})
	defer local.Close()

	var notifier subscription.Manager[*model.NewLinkEvent] = local
	if cfg.NATSURL != "" {
		bridge, err := events.NewNATSNotifier[*model.NewLinkEvent](cfg.NATSURL, cfg.NATSSubjectPrefix, local, log)
		if err != nil {
			return err
		}
		defer bridge.Close()
		notifier = bridge
	}

	tokens, err := auth.NewJWTSigner(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	resolver := &graph.Resolver{
		LinkStore:    stores.links,
		CommentStore: stores.comments,
		UserStore:    stores.users,
		Notifier:     notifier,
		Hasher:       auth.NewBcryptHasher(cfg.BcryptCost),
		Tokens:       tokens,
		Log:          log,
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: server.NewRouter(server.Deps{
			Resolver: resolver,
			Tokens:   tokens,
			Metrics:  m,
			Gatherer: reg,
			Log:      log,
			Health:   stores.health,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Сервер запущен")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ждем сигнал или ошибку сервера
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Завершение...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Сервер остановлен корректно")
	return nil
}
