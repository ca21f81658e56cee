package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicScheduling/internal/config"
	"github.com/m04kA/SMC-ClinicScheduling/internal/infra/cache/availability"
	scheduleRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/slot"
	generateSlotsUC "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/logger"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/metrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/txmanager"
)

// app общие зависимости всех команд
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *sql.DB
	wrappedDB *dbmetrics.DB
	txManager *txmanager.TransactionManager
	metrics   *metrics.Metrics

	stopMetricsCh chan struct{}
}

// bootstrap загружает конфигурацию, поднимает логгер и соединение с базой
// Метрики создаются только для serve: остальные команды не отдают /metrics
func bootstrap(configPath string, withMetrics bool) (*app, error) {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)

	a := &app{
		cfg:           cfg,
		log:           log,
		stopMetricsCh: make(chan struct{}),
	}

	if withMetrics && cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		_ = log.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обертка пишет метрики запросов, при выключенных метриках просто проксирует вызовы
	a.db = db
	a.wrappedDB = dbmetrics.WrapWithDefault(db, a.metrics, a.stopMetricsCh)
	a.txManager = txmanager.NewTransactionManager(a.wrappedDB)

	return a, nil
}

// newGenerator собирает генератор слотов; cache может быть nil
func (a *app) newGenerator(cache *availability.Cache) *generateSlotsUC.UseCase {
	return generateSlotsUC.NewUseCase(
		scheduleRepo.NewRepository(a.wrappedDB),
		slotRepo.NewRepository(a.wrappedDB),
		cache,
		a.metrics,
		generateSlotsUC.HorizonPolicy{
			Mode: a.cfg.Generator.Horizon,
			Days: a.cfg.Generator.HorizonDays,
		},
		a.cfg.Generator.Workers,
		a.log,
	)
}

func (a *app) Close() {
	close(a.stopMetricsCh)
	if err := a.db.Close(); err != nil {
		a.log.Error("Failed to close database: %v", err)
	}
	_ = a.log.Close()
}
