package main

import (
	"fmt"
	"net/http"

	"github.com/buildcrew/sitework-backend-go/internal/config"
	appHTTP "github.com/buildcrew/sitework-backend-go/internal/handler/http"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/database"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/jwt"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/sse"
	"github.com/buildcrew/sitework-backend-go/internal/repository/postgresql"
	attendanceService "github.com/buildcrew/sitework-backend-go/internal/service/attendance"
	authService "github.com/buildcrew/sitework-backend-go/internal/service/auth"
	notificationService "github.com/buildcrew/sitework-backend-go/internal/service/notification"
	overtimeService "github.com/buildcrew/sitework-backend-go/internal/service/overtime"
	taskService "github.com/buildcrew/sitework-backend-go/internal/service/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	workerRepo := postgresql.NewWorkerRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()

	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notificationSvc.Stop()

	overtimeSvc := overtimeService.NewOvertimeService(overtimeRepo, notificationSvc)
	attendanceSvc := attendanceService.NewAttendanceService(sessionRepo, projectRepo, overtimeSvc, notificationSvc)
	taskSvc := taskService.NewTaskService(assignmentRepo, attendanceSvc, notificationSvc)
	authSvc := authService.NewAuthService(workerRepo, JWTService)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	overtimeHandler := appHTTP.NewOvertimeHandler(overtimeSvc)
	taskHandler := appHTTP.NewTaskHandler(taskSvc)
	notificationHandler := appHTTP.NewNotificationHandler(hub, notificationRepo)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		attendanceHandler,
		overtimeHandler,
		taskHandler,
		notificationHandler,
		cfg.App.FrontendURL,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
