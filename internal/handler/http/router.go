package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	appConfig config.AppConfig,
	JWTService jwt.Service,
	authHandler AuthHandler,
	holidayHandler HolidayHandler,
	userHandler UserHandler,
	leaveHandler LeaveHandler,
	attendanceHandler AttendanceHandler,
	correctionHandler CorrectionHandler,
	backupHandler BackupHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appConfig.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appConfig.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appConfig.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/verify-otp", authHandler.VerifyOTP)
			r.With(
				jwtauth.Verifier(JWTService.JWTAuth()),
				middleware.AuthRequired(JWTService),
			).Post("/logout", authHandler.Logout)
		})

		// Opened from emailed links, the token in the query authorizes the call
		r.Get("/corrections/{id}/approve", correctionHandler.Approve)
		r.Get("/corrections/{id}/reject", correctionHandler.Reject)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", holidayHandler.List)
				r.Post("/", holidayHandler.Create)
				r.Put("/{id}", holidayHandler.Update)
				r.Delete("/{id}", holidayHandler.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Put("/schedules", userHandler.BulkUpdateSchedules)
				r.Post("/extra-info", userHandler.ManageExtraInfo)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", userHandler.Get)
					r.Put("/", userHandler.Update)
					r.Get("/history", userHandler.History)
					r.Put("/extra-info", userHandler.SetExtraInfo)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/balances", leaveHandler.ListBalances)
				r.Get("/balances/{userID}", leaveHandler.GetBalance)
				r.Post("/increment-monthly", leaveHandler.IncrementMonthly)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/import", attendanceHandler.Import)
				r.Get("/machine-formats", attendanceHandler.MachineFormats)
				r.Get("/summary", attendanceHandler.Summary)
				r.Get("/report", attendanceHandler.Report)
				r.Post("/absent-records", attendanceHandler.AbsentRecords)
				r.Get("/{userID}/{monthYear}", attendanceHandler.GetMonth)
				r.Put("/{userID}/{monthYear}/days/{date}", attendanceHandler.UpdateDay)
			})

			r.Post("/employee/request-correction", correctionHandler.Request)
			r.Get("/corrections", correctionHandler.List)
			r.Get("/corrections/{id}", correctionHandler.Get)

			r.Route("/backup", func(r chi.Router) {
				r.Post("/", backupHandler.Create)
				r.Get("/", backupHandler.List)
				r.Get("/{name}", backupHandler.Download)
				r.Delete("/{name}", backupHandler.Delete)
			})
		})
	})
	return r
}
