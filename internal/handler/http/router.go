package http

import (
	"log/slog"
	"os"

	"github.com/buildcrew/sitework-backend-go/internal/handler/http/middleware"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	overtimeHandler OvertimeHandler,
	taskHandler TaskHandler,
	notificationHandler NotificationHandler,
	frontendURL string,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "sitework-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/validate-location", attendanceHandler.ValidateLocation)
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/lunch-start", attendanceHandler.LunchStart)
				r.Post("/lunch-end", attendanceHandler.LunchEnd)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/today", attendanceHandler.GetToday)
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/status", overtimeHandler.Status)
				r.Post("/requests", overtimeHandler.Request)

				// Supervisor only
				r.Group(func(r chi.Router) {
					r.Use(middleware.SupervisorOnly)
					r.Post("/requests/{id}/decision", overtimeHandler.Decide)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/today", taskHandler.ListToday)
				r.Get("/today/summary", taskHandler.DailySummary)
				r.Post("/{id}/start", taskHandler.Start)
				r.Post("/{id}/pause", taskHandler.Pause)
				r.Post("/{id}/complete", taskHandler.Complete)
				r.Post("/{id}/progress", taskHandler.RecordProgress)

				// Supervisor only
				r.Group(func(r chi.Router) {
					r.Use(middleware.SupervisorOnly)
					r.Post("/", taskHandler.Create)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/stream", notificationHandler.Stream)
			})
		})
	})
	return r
}
