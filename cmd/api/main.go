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
	"syscall"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/config"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/leave"
	appHTTP "github.com/cmlabs-hris/qr-attendance/internal/handler/http"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/qrtoken"
	"github.com/cmlabs-hris/qr-attendance/internal/repository/memory"
	"github.com/cmlabs-hris/qr-attendance/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/qr-attendance/internal/service/attendance"
	credentialService "github.com/cmlabs-hris/qr-attendance/internal/service/credential"
	reportService "github.com/cmlabs-hris/qr-attendance/internal/service/report"
)

type repositories struct {
	transactor   database.Transactor
	attendance   attendance.AttendanceRepository
	employee     employee.EmployeeRepository
	leave        leave.LeaveRepository
	holiday      holiday.HolidayRepository
	personal     credential.PersonalCredentialRepository
	shared       credential.SharedCredentialRepository
	closeStorage func()
}

func openPostgres(ctx context.Context, cfg *config.Config, loc *time.Location) (*repositories, error) {
	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("Database schema is up to date")
	}

	return &repositories{
		transactor:   postgresql.NewTransactor(db),
		attendance:   postgresql.NewAttendanceRepository(db, loc),
		employee:     postgresql.NewEmployeeRepository(db),
		leave:        postgresql.NewLeaveRepository(db),
		holiday:      postgresql.NewHolidayRepository(db),
		personal:     postgresql.NewPersonalCredentialRepository(db),
		shared:       postgresql.NewSharedCredentialRepository(db, loc),
		closeStorage: db.Close,
	}, nil
}

func openMemory(cfg *config.Config) *repositories {
	store := memory.NewStore()
	for _, seed := range cfg.Storage.SeedEmployees {
		store.PutEmployee(employee.Employee{ID: seed.ID, FullName: seed.FullName, IsActive: true})
	}
	slog.Warn("Using in-memory storage, data is lost on restart", "employees", len(cfg.Storage.SeedEmployees))

	return &repositories{
		transactor:   memory.NewTransactor(store),
		attendance:   memory.NewAttendanceRepository(store),
		employee:     memory.NewEmployeeRepository(store),
		leave:        memory.NewLeaveRepository(store),
		holiday:      memory.NewHolidayRepository(store),
		personal:     memory.NewPersonalCredentialRepository(store),
		shared:       memory.NewSharedCredentialRepository(store),
		closeStorage: func() {},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Error loading timezone: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos *repositories
	switch cfg.Storage.Type {
	case config.StorageTypePostgres:
		repos, err = openPostgres(ctx, cfg, loc)
		if err != nil {
			log.Fatal("Failed to initialize postgres storage: ", err)
		}
	case config.StorageTypeMemory:
		repos = openMemory(cfg)
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}
	defer repos.closeStorage()

	codec := qrtoken.NewCodec(loc)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	credentialSvc := credentialService.NewCredentialService(
		repos.personal,
		repos.shared,
		repos.employee,
		codec,
		nil,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.transactor,
		repos.attendance,
		repos.employee,
		repos.leave,
		repos.holiday,
		credentialSvc,
		loc,
		nil,
	)
	reportSvc := reportService.NewReportService(
		repos.attendance,
		repos.employee,
		repos.leave,
		repos.holiday,
		loc,
		nil,
	)

	scheduler := cron.NewScheduler(ctx)
	if cfg.Cron.SharedRotationInterval > 0 {
		cron.NewCredentialJobs(credentialSvc, cfg.Cron.SharedRotationInterval).RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			PunchRateLimit: cfg.Punch.RateLimit,
			PunchRateBurst: cfg.Punch.RateBurst,
		},
		JWTService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewCredentialHandler(credentialSvc, nil),
		appHTTP.NewReportHandler(reportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Type, "timezone", loc.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
	}
}
