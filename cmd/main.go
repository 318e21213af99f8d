package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers/get_booking"
	listBookingsHandler "github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers/list_bookings"
	setSlotStatusHandler "github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers/set_slot_status"
	updateBookingStatusHandler "github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers/update_booking_status"
	"github.com/ccs-paris/CCS-SchedulingService/internal/api/middleware"
	"github.com/ccs-paris/CCS-SchedulingService/internal/config"
	"github.com/ccs-paris/CCS-SchedulingService/internal/infra/cache"
	bookingRepo "github.com/ccs-paris/CCS-SchedulingService/internal/infra/storage/booking"
	slotRepo "github.com/ccs-paris/CCS-SchedulingService/internal/infra/storage/slot"
	catalogServiceClient "github.com/ccs-paris/CCS-SchedulingService/internal/integrations/catalogservice"
	bookingsService "github.com/ccs-paris/CCS-SchedulingService/internal/service/bookings"
	createBookingUC "github.com/ccs-paris/CCS-SchedulingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/ccs-paris/CCS-SchedulingService/internal/usecase/get_availability"
	setSlotStatusUC "github.com/ccs-paris/CCS-SchedulingService/internal/usecase/set_slot_status"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/dbmetrics"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/logger"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/metrics"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/simpletxmanager"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CCS-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем кэш доступности: Redis для многоинстансных
	// развертываний, иначе in-memory
	cacheTTL := time.Duration(cfg.Scheduling.CacheTTLSeconds) * time.Second
	var availabilityCache interface {
		Get(ctx context.Context, key string) ([]byte, bool, error)
		Set(ctx context.Context, key string, data []byte) error
		Invalidate(ctx context.Context) error
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		availabilityCache = cache.NewRedis(redisClient, cacheTTL, "ccs:")
		log.Info("Availability cache: redis (addr=%s, ttl=%s)", cfg.Redis.Addr, cacheTTL)
	} else {
		availabilityCache = cache.NewMemory(cacheTTL, cache.RealClock())
		log.Info("Availability cache: in-memory (ttl=%s)", cacheTTL)
	}

	// Инициализируем клиента каталога CMS
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (url=%s, timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository    *slotRepo.Repository
		bookingRepository *bookingRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		availabilityCache,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		slotRepository,
		availabilityCache,
		cfg.Scheduling.HorizonDays,
		cfg.Scheduling.LeadTimeMinutes,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		catalogClient,
		availabilityCache,
		txMgr,
		cfg.Scheduling.LeadTimeMinutes,
		log,
	)

	setSlotStatusUseCase := setSlotStatusUC.NewUseCase(
		slotRepository,
		availabilityCache,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, false, log)
	getAvailabilityAdmin := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, true, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	setSlotStatus := setSlotStatusHandler.NewHandler(setSlotStatusUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность слотов для клиентского календаря
	api.HandleFunc("/time-slots", getAvailability.Handle).Methods(http.MethodGet)

	// Создание заявки на уборку
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Admin-Token header)
	// ============================================================

	protected := api.PathPrefix("/admin").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.AdminToken))

	// --- Слоты ---
	// Доступность с заблокированными слотами и заметками
	protected.HandleFunc("/time-slots", getAvailabilityAdmin.Handle).Methods(http.MethodGet)

	// Блокировка/разблокировка слота
	protected.HandleFunc("/time-slots", setSlotStatus.Handle).Methods(http.MethodPost)

	// --- Заявки ---
	// Список заявок с фильтрацией
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Получение заявки по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Смена статуса заявки
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Отмена заявки с освобождением слотов
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
