package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	bookSlotHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/book_slot"
	createScheduleHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/create_schedule"
	generateSlotsHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/generate_slots"
	getAppointmentHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/get_available_slots"
	getClinicSchedulesHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/get_clinic_schedules"
	getClinicSlotsHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/get_clinic_slots"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/get_patient_appointments"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/infra/cache/availability"
	"github.com/m04kA/SMC-ClinicScheduling/internal/infra/queue/rabbitmq"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicScheduling/internal/integrations/directoryservice"
	appointmentsService "github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments"
	schedulesService "github.com/m04kA/SMC-ClinicScheduling/internal/service/schedules"
	bookSlotUC "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/book_slot"
	createScheduleUC "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/create_schedule"
	getAvailableSlotsUC "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ClinicScheduling/internal/worker/generation"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API and background slot generation",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve(*configPath)
		},
	}
}

func serve(configPath string) error {
	a, err := bootstrap(configPath, true)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, log := a.cfg, a.log
	log.Info("Starting SMC-ClinicScheduling...")

	// Инициализируем репозитории
	scheduleRepository := scheduleRepo.NewRepository(a.wrappedDB)
	slotRepository := slotRepo.NewRepository(a.wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(a.wrappedDB)

	// Кэш свободных слотов (nil работает как выключенный)
	var cache *availability.Cache
	if cfg.Cache.Enabled {
		cache, err = availability.New(cfg.Cache.Size, cfg.Cache.TTLDuration())
		if err != nil {
			return err
		}
		log.Info("Availability cache enabled (size=%d, ttl=%s)", cfg.Cache.Size, cfg.Cache.TTLDuration())
	}

	// Фоновая генерация слотов
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	runner := generation.NewRunner(a.newGenerator(cache), cfg.Generator.QueueSize, cfg.Generator.IntervalDuration(), log)
	runner.Start(workerCtx)
	log.Info("Slot generator started (horizon=%s, workers=%d, interval=%s)",
		cfg.Generator.Horizon, cfg.Generator.Workers, cfg.Generator.IntervalDuration())

	// Заявки на генерацию идут в раннер напрямую или через RabbitMQ
	var (
		trigger   createScheduleUC.GenerationTrigger = runner
		publisher *rabbitmq.Publisher
		consumer  *rabbitmq.Consumer
	)
	if cfg.RabbitMQ.Enabled {
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitMQ, log)
		if err != nil {
			return err
		}
		defer closeWithLog(log, "RabbitMQ publisher", publisher.Close)

		consumer, err = rabbitmq.NewConsumer(cfg.RabbitMQ, runner, log)
		if err != nil {
			return err
		}
		if err := consumer.Start(workerCtx); err != nil {
			_ = consumer.Close()
			return err
		}
		trigger = publisher
		log.Info("RabbitMQ trigger enabled (exchange=%s, queue=%s)", cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue)
	}

	// Справочник врачей опционален
	var directory createScheduleUC.DirectoryClient
	if cfg.DirectoryService.Enabled {
		directory = directoryservice.NewClient(
			cfg.DirectoryService.URL,
			time.Duration(cfg.DirectoryService.Timeout)*time.Second,
			log,
		)
		log.Info("Directory service client initialized (url=%s, timeout=%ds)",
			cfg.DirectoryService.URL, cfg.DirectoryService.Timeout)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, log)
	schedulesSvc := schedulesService.NewService(scheduleRepository, slotRepository, log)

	// Инициализируем use cases
	createScheduleUseCase := createScheduleUC.NewUseCase(scheduleRepository, directory, trigger, a.txManager, log)
	bookSlotUseCase := bookSlotUC.NewUseCase(slotRepository, appointmentRepository, a.txManager, cache, a.metrics, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slotRepository, cache, log)

	authenticator, err := middleware.NewAuthenticator(cfg.Auth.Mode, cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	log.Info("Authentication mode: %s", cfg.Auth.Mode)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты врача
	api.HandleFunc("/doctors/{doctorId}/available-slots",
		getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log).Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (любой аутентифицированный пользователь)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authenticator.Middleware)

	// Запись на прием
	protected.HandleFunc("/appointments",
		bookSlotHandler.NewHandler(bookSlotUseCase, log).Handle).Methods(http.MethodPost)

	// Запись по ID (владелец или администратор клиники)
	protected.HandleFunc("/appointments/{appointmentId}",
		getAppointmentHandler.NewHandler(appointmentsSvc, log).Handle).Methods(http.MethodGet)

	// Записи текущего пациента
	protected.HandleFunc("/patients/me/appointments",
		getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log).Handle).Methods(http.MethodGet)

	// ============================================================
	// CLINIC ADMIN ROUTES
	// ============================================================

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireRole(domain.RoleClinicAdmin))

	// Расписания клиники
	admin.HandleFunc("/clinics/{clinicId}/schedules",
		createScheduleHandler.NewHandler(createScheduleUseCase, log).Handle).Methods(http.MethodPost)
	admin.HandleFunc("/clinics/{clinicId}/schedules",
		getClinicSchedulesHandler.NewHandler(schedulesSvc, log).Handle).Methods(http.MethodGet)

	// Слоты клиники с фильтрами и пагинацией
	admin.HandleFunc("/clinics/{clinicId}/slots",
		getClinicSlotsHandler.NewHandler(schedulesSvc, log).Handle).Methods(http.MethodGet)

	// Ручной запуск генерации
	admin.HandleFunc("/admin/slots/generate",
		generateSlotsHandler.NewHandler(trigger, log).Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или падение сервера
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var runErr error
	select {
	case <-sigCtx.Done():
		log.Info("Shutting down server...")
	case err, ok := <-serverErr:
		if ok {
			log.Error("Server failed: %v", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	// Сначала перестаем принимать запросы, затем останавливаем очередь и раннер
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}
	if consumer != nil {
		closeWithLog(log, "RabbitMQ consumer", consumer.Close)
	}
	stopWorkers()
	runner.Wait()

	log.Info("Server stopped gracefully")
	return runErr
}

type errorLogger interface {
	Error(format string, v ...interface{})
}

func closeWithLog(log errorLogger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Error("Failed to close %s: %v", name, err)
	}
}
