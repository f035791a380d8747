package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Tienda-api/internal/application/extsync"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/extinventory"
	infrakafka "github.com/jhoicas/Tienda-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/mongodb"
	infrapdf "github.com/jhoicas/Tienda-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Tienda-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Tienda-api/internal/interfaces/http"
	"github.com/jhoicas/Tienda-api/pkg/config"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}

	stockRepo := postgres.NewStockRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	defaultWH, err := warehouseUC.GetOrCreateDefault(ctx, cfg.Inventory.DefaultWarehouseCode, cfg.Inventory.DefaultWarehouseName)
	if err != nil {
		log.Fatal().Err(err).Msg("bodega por defecto")
	}
	log.Info().Str("warehouse_id", defaultWH.ID).Str("code", defaultWH.Code).Msg("bodega por defecto lista")

	m := metrics.New()

	// Alertas: métricas siempre; Mongo y Kafka solo si están configurados.
	alerts := inventory.NewAlertEmitter(cfg.Inventory.CriticalThreshold, log.Zerolog(), m)

	var syncRuns repository.SyncRunRepository
	var runsReader httpRouter.SyncRunReader
	if cfg.Mongo.URI != "" {
		mongoClient, err := mongodb.NewClient(ctx, cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MongoDB")
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoClient.Close(closeCtx)
		}()

		alertRepo := mongodb.NewAlertRepository(mongoClient.Database())
		runRepo := mongodb.NewSyncRunRepository(mongoClient.Database())
		if err := alertRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("índices de alertas")
		}
		if err := runRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("índices de bitácora de sincronización")
		}
		alerts.AddSink(alertRepo)
		syncRuns = runRepo
		runsReader = runRepo
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := infrakafka.NewAlertPublisher(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic)
		defer func() { _ = publisher.Close() }()
		alerts.AddSink(publisher)
	}

	inventorySvc := inventory.NewService(txRunner, stockRepo, alerts, inventory.Settings{
		AllowNegativeStock:   cfg.Inventory.AllowNegativeStock,
		LowStockThreshold:    cfg.Inventory.LowStockThreshold,
		CriticalThreshold:    cfg.Inventory.CriticalThreshold,
		DefaultWarehouseCode: cfg.Inventory.DefaultWarehouseCode,
		DefaultWarehouseName: cfg.Inventory.DefaultWarehouseName,
	}, log.Zerolog())
	inventorySvc.SetObserver(m)

	reportUC := inventory.NewReportUseCase(stockRepo, productRepo, warehouseRepo, infrapdf.NewMarotoPDFGenerator())

	// Sincronización con el inventario externo
	var puller httpRouter.SyncPuller
	if cfg.Sync.Enabled() {
		flavor, err := extsync.ParseFlavor(cfg.Sync.Flavor)
		if err != nil {
			log.Fatal().Err(err).Msg("configuración de sincronización")
		}
		opts := extinventory.Options{
			BaseURL: cfg.Sync.BaseURL,
			APIKey:  cfg.Sync.APIKey,
			Timeout: time.Duration(cfg.Sync.TimeoutSeconds) * time.Second,
		}
		var client extsync.Client
		if flavor == extsync.FlavorAbsolute {
			client = extinventory.NewAbsoluteClient(opts, cfg.Sync.PreferredID, log.Component("extinventory"))
		} else {
			client = extinventory.NewDeltaClient(opts, log.Component("extinventory"))
		}

		gateway := extsync.NewGateway(
			client, productRepo, stockRepo, inventorySvc,
			metrics.NewInstrumentedSyncRuns(syncRuns, m),
			extsync.Config{Flavor: flavor, AutoCreateItems: cfg.Sync.AutoCreateItems},
			log.Zerolog(),
		)
		puller = gateway

		if cfg.Sync.PushEnabled {
			dispatcher := extsync.NewDispatcher(gateway, cfg.Sync.QueueSize, opts.Timeout, log.Zerolog())
			dispatcher.OnDrop(m.RecordPushDropped)
			inventorySvc.SetChangeNotifier(dispatcher)
			go dispatcher.Run(ctx)
		}

		if cfg.Sync.AutoPullEnabled {
			var locker extsync.Locker
			if cfg.Redis.Addr != "" {
				redisClient := infraredis.NewClient(cfg.Redis)
				defer func() { _ = redisClient.Close() }()
				hostname, _ := os.Hostname()
				locker = infraredis.NewLocker(redisClient, hostname)
			}
			interval := time.Duration(cfg.Sync.PullIntervalMinutes) * time.Minute
			scheduler := extsync.NewScheduler(gateway, locker, interval, opts.Timeout, log.Zerolog())
			go scheduler.Run(ctx)
		}
		log.Info().
			Str("flavor", string(flavor)).
			Bool("push", cfg.Sync.PushEnabled).
			Bool("auto_pull", cfg.Sync.AutoPullEnabled).
			Msg("sincronización externa habilitada")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestMetrics(m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Inventory:   inventorySvc,
		Reports:     reportUC,
		WarehouseUC: warehouseUC,
		ProductUC:   usecase.NewProductUseCase(txRunner, productRepo),
		Sync:        puller,
		SyncRuns:    runsReader,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
