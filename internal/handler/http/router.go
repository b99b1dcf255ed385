package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/qr-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	Env                string
	AllowedOrigins     []string
	PunchRateLimit     float64 // requests per second per employee
	PunchRateBurst     int
	DisableRequestLogs bool
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	credentialHandler CredentialHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if !opts.DisableRequestLogs {
		logFormat := httplog.SchemaECS.Concise(false)
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			ReplaceAttr: logFormat.ReplaceAttr,
		})).With(
			slog.String("app", "qr-attendance"),
			slog.String("version", "v1.0.0"),
			slog.String("env", opts.Env),
		)

		r.Use(httplog.RequestLogger(logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	punchLimit := rate.Limit(opts.PunchRateLimit)
	if opts.PunchRateLimit <= 0 {
		punchLimit = rate.Inf
	}
	if opts.PunchRateBurst <= 0 {
		opts.PunchRateBurst = 1
	}

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RateLimitByEmployee(punchLimit, opts.PunchRateBurst)).Post("/punch", attendanceHandler.Punch)
				r.Get("/my", attendanceHandler.GetMyAttendance)
			})

			r.Route("/credentials", func(r chi.Router) {
				r.Get("/personal/{employeeID}", credentialHandler.IssuePersonal)
				r.Post("/personal/verify", credentialHandler.VerifyPersonal)
				r.Post("/shared/verify", credentialHandler.VerifyShared)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/shared/{type}", credentialHandler.IssueShared)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/period/{name}", reportHandler.ResolvePeriod)

				r.Route("/employees/{employeeID}", func(r chi.Router) {
					r.Get("/stats", reportHandler.GetEmployeeStats)
					r.Get("/attendance", attendanceHandler.ListByEmployee)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/employees", reportHandler.ListEmployeeStats)
					r.Get("/fleet", reportHandler.GetFleetStats)
					r.Get("/trend", reportHandler.GetAttendanceTrend)
					r.Get("/activity", reportHandler.GetRecentActivity)
				})
			})
		})
	})

	return r
}
