package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"dispatch/cmd"
	dispatchhttp "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&deliveryrepo.DeliveryDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	root := cmd.NewCompositionRoot(configs, db, logger)

	jobManager := jobs.NewJobManager(
		root.CreateSweepCommandHandler(),
		configs.SweepIntervalSeconds,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&root, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:                envOrDefault("HTTP_PORT", "8080"),
		DBHost:                  envOrDefault("DB_HOST", "localhost"),
		DBPort:                  envOrDefault("DB_PORT", "5432"),
		DBUser:                  envOrDefault("DB_USER", "postgres"),
		DBPassword:              envOrDefault("DB_PASSWORD", "postgres"),
		DBName:                  envOrDefault("DB_NAME", "dispatch"),
		DBSslMode:               envOrDefault("DB_SSLMODE", "disable"),
		SweepIntervalSeconds:    envIntOrDefault("SWEEP_INTERVAL_SECONDS", 30),
		SweepBatchSize:          envIntOrDefault("SWEEP_BATCH_SIZE", 50),
		AssignPrimaryRadiusKm:   envFloatOrDefault("ASSIGN_PRIMARY_RADIUS_KM", 5),
		AssignSecondaryRadiusKm: envFloatOrDefault("ASSIGN_SECONDARY_RADIUS_KM", 10),
		AssignWidenAfterSeconds: envIntOrDefault("ASSIGN_WIDEN_AFTER_SECONDS", 60),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return value
}

func envFloatOrDefault(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return value
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := dispatchhttp.NewServer(
		root.CreateMarkReadyForPickupCommandHandler(),
		root.CreateCancelOrderCommandHandler(),
		root.CreateRecordCashSettlementCommandHandler(),
		root.CreateToggleCourierOnlineCommandHandler(),
		root.CreateRejectAssignmentCommandHandler(),
		root.CreateUpdateDeliveryStatusCommandHandler(),
		root.CreateSweepCommandHandler(),
		root.CreateGetUnassignedOrdersQueryHandler(),
		root.CreateGetActiveDeliveriesQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
