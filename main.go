package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v8"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/chucky-1/grocery/internal/config"
	"github.com/chucky-1/grocery/internal/consumer"
	"github.com/chucky-1/grocery/internal/metrics"
	"github.com/chucky-1/grocery/internal/producer"
	"github.com/chucky-1/grocery/internal/repository"
	"github.com/chucky-1/grocery/internal/service"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using the environment")
	}

	cfg := config.Config{}
	if err := env.Parse(&cfg); err != nil {
		logrus.Fatalf("parse config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	docs, closeDocs, err := openDocuments(cfg.Storage)
	if err != nil {
		logrus.Fatal(err)
	}
	defer closeDocs()

	grocery := service.NewGrocery(
		repository.NewInventory(docs, cfg.Storage.DataFile),
		repository.NewFeedback(docs, cfg.Storage.FeedbackFile),
	)
	if err = grocery.Load(ctx); err != nil {
		logrus.Fatalf("load grocery data: %v", err)
	}
	logrus.Infof("grocery data loaded from %s backend: %d items", cfg.Storage.Backend, len(grocery.Items()))

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logrus.Fatal(err)
	}
	bot.Debug = cfg.Telegram.Debug
	logrus.Infof("authorized on telegram account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.Timeout
	updates := bot.GetUpdatesChan(u)

	chats := service.NewChats(repository.NewChatsLocalStorage())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consumer.NewBot(bot, updates, grocery, chats).Consume(gCtx)
		bot.StopReceivingUpdates()
		return nil
	})
	g.Go(func() error {
		producer.NewReporter(bot, grocery, chats, cfg.ReportInterval).Produce(gCtx)
		return nil
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gCtx, cfg.MetricsAddr, grocery)
		})
	}

	if err = g.Wait(); err != nil {
		logrus.Errorf("stopped with error: %v", err)
		return
	}
	logrus.Info("stopped")
}

func openDocuments(cfg config.Storage) (repository.Documents, func(), error) {
	if cfg.Backend != config.BackendSQLite {
		return repository.NewFiles(), func() {}, nil
	}
	db, err := repository.NewSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := db.Close(); err != nil {
			logrus.Errorf("close sqlite: %v", err)
		}
	}, nil
}

func serveMetrics(ctx context.Context, addr string, source metrics.Source) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.NewRegistry(source), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("metrics server shutdown: %v", err)
		}
	}()

	logrus.Infof("metrics server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
