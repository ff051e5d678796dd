package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petcare-backend/config"
	"petcare-backend/controllers"
	"petcare-backend/routes"
	"petcare-backend/services"
	"petcare-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := config.ConnectDB(cfg.DBURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := config.Migrate(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	st := store.NewGormStore(db)
	loc := cfg.Location()

	users := services.NewUserService(st)
	pets := services.NewPetService(st)
	reminders := services.NewReminderService(st, logger.Named("reminders"), loc, cfg.RemindersAutoAdvance)
	careLogs := services.NewCareLogService(st, reminders, logger.Named("care_logs"), loc)
	appointments := services.NewAppointmentService(st, reminders)

	if !cfg.TwilioConfigured() {
		logger.Warn("twilio is not configured; notifications will fail and be logged")
	}
	sender := services.NewTwilioSender(services.TwilioConfig{
		AccountSID:     cfg.TwilioAccountSID,
		AuthToken:      cfg.TwilioAuthToken,
		PhoneNumber:    cfg.TwilioPhoneNumber,
		WhatsAppNumber: cfg.TwilioWhatsAppNumber,
	}, st)
	dispatcher := services.NewDispatcher(sender, st, reminders, logger.Named("dispatcher"), cfg.AppURL)
	sweeps := services.NewSweepOrchestrator(reminders, careLogs, pets, dispatcher, sender, logger.Named("sweep"), services.SweepConfig{
		Delay:        cfg.SweepDelay,
		MaxReminders: cfg.SweepMaxReminders,
		MaxCareLogs:  cfg.SweepMaxCareLogs,
		Location:     loc,
	})

	scheduler := services.NewScheduler(careLogs, logger.Named("scheduler"))
	if err := scheduler.Start(cfg.CareLogRefreshCron); err != nil {
		logger.Fatal("scheduler failed to start", zap.Error(err))
	}
	defer scheduler.Stop()

	r := routes.SetupRouter(routes.Deps{
		Logger:         logger,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins(),
		Auth: &controllers.AuthController{
			Users:       users,
			Sweeps:      sweeps,
			Logger:      logger.Named("auth"),
			JWTSecret:   cfg.JWTSecret,
			TokenExpiry: cfg.JWTExpiry(),
		},
		Pets:         &controllers.PetController{Pets: pets},
		Reminders:    &controllers.ReminderController{Reminders: reminders, Pets: pets, Users: users},
		CareLogs:     &controllers.CareLogController{CareLogs: careLogs, Pets: pets},
		Appointments: &controllers.AppointmentController{Appointments: appointments, Pets: pets},
	})
	printRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
