package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/domain"
	httpAPI "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/logger"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/outbox"
	"github.com/iyhunko/product-catalog/internal/repository/memory"
	reposql "github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/iyhunko/product-catalog/internal/service"
	sqspkg "github.com/iyhunko/product-catalog/internal/sqs"
)

const outboxInterval = 2 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.Init(conf.DebugMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Eventing is optional: without a queue URL the catalog runs standalone.
	var publisher *sqspkg.Publisher
	if conf.EventingEnabled() {
		sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
		handleErr("creating SQS client", err)
		publisher = sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)
	}

	var (
		productRepository domain.ProductRepository
		events            outbox.Recorder
		txRunner          service.TxRunner
	)

	switch conf.StorageDriver {
	case config.StorageDriverPostgres:
		db, err := reposql.StartDB(ctx, conf.Database)
		handleErr("starting database", err)
		defer db.Close()

		productRepository = reposql.NewProductRepository(db)
		if publisher != nil {
			// Events are staged in the outbox table within the command's
			// transaction; the worker delivers them to the queue.
			txRunner = reposql.NewTransactionalRepository(db)
			outboxWorker := outbox.NewWorker(reposql.NewEventRepository(db), publisher, outboxInterval)
			go outboxWorker.Start(ctx)
		}
	case config.StorageDriverMemory:
		productRepository = memory.NewProductRepository()
		if publisher != nil {
			// The in-memory store has no transactions, so events go straight
			// to the queue.
			events = outbox.NewDirectRecorder(publisher)
		}
	default:
		log.Fatalf("unknown storage driver %q", conf.StorageDriver)
	}

	productService := service.NewProductService(productRepository, events, txRunner)

	ctr := controller.New()
	productCtr := controller.NewProductController(productService)
	router := httpAPI.InitRouter(gin.New(), ctr, productCtr)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Catalog service listening", slog.String("port", conf.HTTPServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", slog.Any("err", err))
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
