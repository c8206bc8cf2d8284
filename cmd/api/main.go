package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/ledger-lotes/internal/application/ledger"
	infrakafka "github.com/tu-usuario/ledger-lotes/internal/infrastructure/kafka"
	"github.com/tu-usuario/ledger-lotes/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/ledger-lotes/internal/interfaces/http"
	"github.com/tu-usuario/ledger-lotes/pkg/config"
	"github.com/tu-usuario/ledger-lotes/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Publisher Kafka opcional: sin brokers configurados el ledger opera igual,
	// solo que sin eventos.
	var publisher ledger.EventPublisher
	var kafkaPublisher *infrakafka.Publisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher = infrakafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("eventos Kafka habilitados")
	}

	policy := ledger.Policy{StrictBatchAccounting: cfg.Ledger.StrictBatchAccounting}

	productUC := ledger.NewProductUseCase(productRepo)
	orderUC := ledger.NewOrderUseCase(orderRepo, productRepo)
	adjustmentUC := ledger.NewAdjustmentUseCase(txRunner, productRepo, publisher, log)
	batchUC := ledger.NewBatchUseCase(txRunner, productRepo, publisher, log)
	fulfillmentUC := ledger.NewFulfillmentUseCase(txRunner, policy, publisher, log)
	rollbackUC := ledger.NewRollbackUseCase(txRunner, publisher, log)
	queryUC := ledger.NewQueryUseCase(productRepo, batchRepo, movementRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		OrderUC:       orderUC,
		AdjustmentUC:  adjustmentUC,
		BatchUC:       batchUC,
		FulfillmentUC: fulfillmentUC,
		RollbackUC:    rollbackUC,
		QueryUC:       queryUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error().Err(err).Msg("cierre del publisher Kafka")
		}
	}

	log.Info().Msg("aplicación detenida")
}
