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
	"github.com/jhoicas/beacon-api/internal/application/auth"
	"github.com/jhoicas/beacon-api/internal/application/biometric"
	"github.com/jhoicas/beacon-api/internal/application/usecase"
	"github.com/jhoicas/beacon-api/internal/infrastructure/device"
	inframetrics "github.com/jhoicas/beacon-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/beacon-api/internal/infrastructure/pdf"
	"github.com/jhoicas/beacon-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/beacon-api/internal/interfaces/http"
	"github.com/jhoicas/beacon-api/pkg/config"
	"github.com/jhoicas/beacon-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	employeeRepo := postgres.NewEmployeeRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	deviceClient := device.NewClient(
		cfg.Device.ServiceURL,
		time.Duration(cfg.Device.TimeoutSeconds)*time.Second,
	)
	biometricMetrics := inframetrics.New()

	allocator := biometric.NewAllocator(employeeRepo, deviceClient, biometricMetrics, log)
	biometricUC := biometric.NewUseCase(
		employeeRepo, deviceClient, allocator, biometricMetrics, log, cfg.Device.DefaultIP,
	)

	employeeUC := usecase.NewEmployeeUseCase(employeeRepo)
	dashboardUC := usecase.NewDashboardUseCase(analyticsRepo)
	authUC := auth.NewAuthUseCase(employeeRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	rosterGenerator := infrapdf.NewRosterGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "BEACON API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		EmployeeUC:  employeeUC,
		DashboardUC: dashboardUC,
		BiometricUC: biometricUC,
		PDFRoster:   rosterGenerator,
		JWTSecret:   cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
