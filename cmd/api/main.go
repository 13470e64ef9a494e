package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/machineformat"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/otp"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	backupService "github.com/cmlabs-hris/hris-attendance-go/internal/service/backup"
	correctionService "github.com/cmlabs-hris/hris-attendance-go/internal/service/correction"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	userService "github.com/cmlabs-hris/hris-attendance-go/internal/service/user"
)

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.App.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolSize{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	mongoDB, err := database.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Name)
	if err != nil {
		log.Fatal("Error connecting to MongoDB: ", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Close(closeCtx); err != nil {
			slog.Error("Failed to close MongoDB", "error", err)
		}
	}()

	loc, err := time.LoadLocation(cfg.Leave.TimeZone)
	if err != nil {
		log.Fatal("Invalid LEAVE_ACCRUAL_TIMEZONE: ", err)
	}

	registry, err := machineformat.LoadRegistry(cfg.Import.TemplatesPath)
	if err != nil {
		log.Fatal("Failed to load machine templates: ", err)
	}

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveAccrualRepo := postgresql.NewLeaveAccrualRepository(db)
	leaveUsageRepo := postgresql.NewLeaveUsageRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	backupRepo := postgresql.NewBackupRepository(db)

	historyRepo, err := mongodb.NewHistoryRepository(ctx, mongoDB)
	if err != nil {
		log.Fatal("Failed to initialize employee history: ", err)
	}

	var codeStore otp.Store
	switch cfg.Auth.CodeStore {
	case "mongo":
		codeStore, err = mongodb.NewLoginCodeStore(ctx, mongoDB)
		if err != nil {
			log.Fatal("Failed to initialize login code store: ", err)
		}
	default:
		codeStore = otp.NewMemoryStore()
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(
		cfg.Auth.PasswordHash,
		cfg.Auth.HREmail,
		otp.NewGenerator("HR Attendance", cfg.Auth.CodeTTL),
		codeStore,
		JWTService,
		emailService,
	)
	leaveSvc := leaveService.NewLeaveService(
		transactor,
		userRepo,
		leaveBalanceRepo,
		leaveAccrualRepo,
		leaveUsageRepo,
		cfg.Leave.MonthlyAccrual,
		loc,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		userRepo,
		holidayRepo,
		leaveSvc,
		registry,
	)
	correctionSvc := correctionService.NewCorrectionService(
		transactor,
		correctionRepo,
		userRepo,
		attendanceSvc,
		emailService,
		cfg.App.PublicURL,
		cfg.Auth.HREmail,
	)
	userSvc := userService.NewUserService(transactor, userRepo, historyRepo)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	backupSvc := backupService.NewBackupService(backupRepo, historyRepo, fileStorage)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewHolidayHandler(holidaySvc),
		appHTTP.NewUserHandler(userSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewCorrectionHandler(correctionSvc),
		appHTTP.NewBackupHandler(backupSvc),
	)

	if cfg.Leave.AccrualSchedule != "" {
		scheduler := cron.NewScheduler(loc)
		if err := cron.NewLeaveJobs(leaveSvc, loc).RegisterJobs(scheduler, cfg.Leave.AccrualSchedule); err != nil {
			log.Fatal("Failed to register leave accrual job: ", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
