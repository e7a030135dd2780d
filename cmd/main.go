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

	cancelBookingHandler "github.com/m04kA/SMC-MeetingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-MeetingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-MeetingService/internal/api/handlers/get_available_slots"
	initializePaymentHandler "github.com/m04kA/SMC-MeetingService/internal/api/handlers/initialize_payment"
	listMeetingTypesHandler "github.com/m04kA/SMC-MeetingService/internal/api/handlers/list_meeting_types"
	rescheduleBookingHandler "github.com/m04kA/SMC-MeetingService/internal/api/handlers/reschedule_booking"
	verifyPaymentHandler "github.com/m04kA/SMC-MeetingService/internal/api/handlers/verify_payment"
	"github.com/m04kA/SMC-MeetingService/internal/api/middleware"
	"github.com/m04kA/SMC-MeetingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-MeetingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-MeetingService/internal/infra/storage/payment"
	calendarClient "github.com/m04kA/SMC-MeetingService/internal/integrations/calendar"
	ledgerClient "github.com/m04kA/SMC-MeetingService/internal/integrations/ledger"
	mailerClient "github.com/m04kA/SMC-MeetingService/internal/integrations/mailer"
	paymentsService "github.com/m04kA/SMC-MeetingService/internal/service/payments"
	cancelBookingUC "github.com/m04kA/SMC-MeetingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-MeetingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-MeetingService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-MeetingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-MeetingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MeetingService/pkg/logger"
	"github.com/m04kA/SMC-MeetingService/pkg/metrics"
	"github.com/m04kA/SMC-MeetingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-MeetingService/pkg/txmanager"
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

	log.Info("Starting SMC-MeetingService...")
	log.Info("Configuration loaded from config.toml")

	// Таймзона бизнеса: все слоты считаются в ней
	businessLoc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}

	meetingTypes := cfg.DomainMeetingTypes()
	log.Info("Loaded %d meeting types, business timezone %s", len(meetingTypes), cfg.Booking.Timezone)

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

	// Инициализируем интеграционных клиентов
	ledger := ledgerClient.NewClient(
		cfg.Ledger.RPCURL,
		time.Duration(cfg.Ledger.Timeout)*time.Second,
		log,
	)
	calendar := calendarClient.NewClient(
		cfg.Calendar.BaseURL,
		cfg.Calendar.CalendarID,
		cfg.Calendar.APIToken,
		time.Duration(cfg.Calendar.Timeout)*time.Second,
		log,
	)
	mailer := mailerClient.NewClient(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		log,
	)
	log.Info("Integration clients initialized (Ledger=%s timeout=%ds, Calendar=%s timeout=%ds, SMTP=%s:%d)",
		cfg.Ledger.RPCURL, cfg.Ledger.Timeout, cfg.Calendar.BaseURL, cfg.Calendar.Timeout,
		cfg.SMTP.Host, cfg.SMTP.Port)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		paymentRepository *paymentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	paymentsSvc := paymentsService.NewService(
		paymentRepository,
		ledger,
		meetingTypes,
		cfg.Ledger.RecipientWallet,
		cfg.Ledger.Finality,
		cfg.Ledger.Label,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		calendar,
		cfg.Booking,
		meetingTypes,
		businessLoc,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		calendar,
		paymentsSvc,
		mailer,
		txMgr,
		cfg.Booking,
		meetingTypes,
		businessLoc,
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		calendar,
		mailer,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		calendar,
		mailer,
		txMgr,
		cfg.Booking,
		businessLoc,
		log,
	)

	// Инициализируем handlers
	initializePayment := initializePaymentHandler.NewHandler(paymentsSvc, log)
	verifyPayment := verifyPaymentHandler.NewHandler(paymentsSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	listMeetingTypes := listMeetingTypesHandler.NewHandler(meetingTypes, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	// Бронирование публичное: аутентификация не требуется,
	// X-User-ID опционально привязывает платеж к пользователю
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.UserID)

	// --- Каталог ---
	// Список типов встреч
	api.HandleFunc("/meeting-types", listMeetingTypes.Handle).Methods(http.MethodGet)

	// --- Платежи ---
	// Инициализация платежа (pending-транзакция + платежный запрос)
	api.HandleFunc("/payments", initializePayment.Handle).Methods(http.MethodPost)

	// Верификация платежа по леджеру (идемпотентная)
	api.HandleFunc("/payments/{transactionId}/verify", verifyPayment.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	// Доступные слоты на дату
	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	api.HandleFunc("/bookings/{eventId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос бронирования
	api.HandleFunc("/bookings/{eventId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

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
