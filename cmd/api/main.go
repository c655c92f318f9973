package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Acarreo-api/internal/application/analytics"
	"github.com/jhoicas/Acarreo-api/internal/application/auth"
	"github.com/jhoicas/Acarreo-api/internal/application/delivery"
	"github.com/jhoicas/Acarreo-api/internal/application/notification"
	"github.com/jhoicas/Acarreo-api/internal/application/receivables"
	"github.com/jhoicas/Acarreo-api/internal/application/report"
	"github.com/jhoicas/Acarreo-api/internal/application/routing"
	"github.com/jhoicas/Acarreo-api/internal/application/usecase"
	"github.com/jhoicas/Acarreo-api/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/Acarreo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Acarreo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Acarreo-api/internal/infrastructure/queue"
	infrapush "github.com/jhoicas/Acarreo-api/internal/infrastructure/webpush"
	httpRouter "github.com/jhoicas/Acarreo-api/internal/interfaces/http"
	"github.com/jhoicas/Acarreo-api/pkg/config"
	"github.com/jhoicas/Acarreo-api/pkg/logger"
)

func main() {
	// .env local; en despliegue las variables vienen del entorno
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
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

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	routeRepo := postgres.NewRouteRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	movementRepo := postgres.NewCashMovementRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	subRepo := postgres.NewPushSubscriptionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cierre: una transacción serializada por ruta, con reintento ante conflicto
	engine := routing.NewClosingEngine(txRunner, cfg.Closing.MaxAttempts, log.Component("closing"))

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	routeUC := routing.NewRouteUseCase(routing.RouteDeps{
		Tx:           txRunner,
		Routes:       routeRepo,
		Services:     serviceRepo,
		Movements:    movementRepo,
		Vehicles:     vehicleRepo,
		Users:        userRepo,
		Engine:       engine,
		DefaultFloat: decimal.NewFromInt(cfg.Closing.DefaultOpeningFloat),
	})
	serviceUC := delivery.NewServiceUseCase(delivery.Deps{
		Tx:       txRunner,
		Routes:   routeRepo,
		Services: serviceRepo,
		Comments: commentRepo,
		Clients:  clientRepo,
		Users:    userRepo,
	})

	// Exportes del cierre: CSV, libro Excel y planilla PDF
	reportUC := report.NewUseCase(engine, routeRepo, companyRepo, userRepo, map[string]report.Renderer{
		report.FormatCSV:  export.NewCSVRenderer(),
		report.FormatXLSX: export.NewXLSXRenderer(),
		report.FormatPDF:  infrapdf.NewClosingRenderer(),
	})

	// Web Push: sin claves VAPID las suscripciones se guardan pero no se envía nada
	var sender notification.Sender
	if cfg.Push.Enabled() {
		sender = infrapush.NewSender(infrapush.Config{
			PublicKey:  cfg.Push.VAPIDPublicKey,
			PrivateKey: cfg.Push.VAPIDPrivateKey,
			Subject:    cfg.Push.Subject,
			TTL:        cfg.Push.TTL,
		}, &http.Client{Timeout: 15 * time.Second})
	} else {
		log.Warn().Msg("VAPID no configurado: notificaciones push deshabilitadas")
	}
	pushSvc := notification.NewService(subRepo, userRepo, sender, cfg.Push.VAPIDPublicKey, log.Component("push"))

	var events notification.Dispatcher = notification.NewAsyncDispatcher(pushSvc, 30*time.Second, log.Component("events"))

	// Con Redis los eventos pasan por la cola y los procesa el pool de workers
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	var workers *queue.Pool
	if cfg.Redis.Enabled() {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("REDIS_URL inválida")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis no responde; los eventos usarán el despacho en proceso si falla la cola")
		}
		events = queue.NewRedisDispatcher(rdb, events, log.Component("queue"))
		workers = queue.NewPool(rdb, pushSvc, cfg.Redis.Workers, log.Component("worker"))
		workers.Start(workersCtx)
	}

	app := httpRouter.NewApp(cfg.App.Name, cfg.HTTP.CORSOrigins)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "AcarreApp API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     companyUC,
		ClientUC:      usecase.NewClientUseCase(clientRepo),
		VehicleUC:     usecase.NewVehicleUseCase(vehicleRepo),
		RouteUC:       routeUC,
		ServiceUC:     serviceUC,
		ReceivablesUC: receivables.NewUseCase(serviceRepo, clientRepo),
		ReportUC:      reportUC,
		DashboardUC:   analytics.NewDashboardUseCase(postgres.NewAnalyticsRepository(pool), routeRepo),
		Push:          pushSvc,
		Events:        events,
		JWTSecret:     cfg.JWT.Secret,
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

	if workers != nil {
		stopWorkers()
		select {
		case <-workers.Done():
		case <-shutdownCtx.Done():
			log.Warn().Msg("workers de notificaciones no terminaron a tiempo")
		}
	}

	log.Info().Msg("aplicación detenida")
}
