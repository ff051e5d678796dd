package routes

import (
	"net/http"
	"slices"

	"petcare-backend/config"
	"petcare-backend/controllers"
	"petcare-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps is everything the router hands requests to.
type Deps struct {
	Logger         *zap.Logger
	JWTSecret      string
	AllowedOrigins []string

	Auth         *controllers.AuthController
	Pets         *controllers.PetController
	Reminders    *controllers.ReminderController
	CareLogs     *controllers.CareLogController
	Appointments *controllers.AppointmentController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return slices.Contains(d.AllowedOrigins, origin)
		},
	}))

	r.Use(config.PerformanceLogger(d.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := utils.AuthMiddleware(d.JWTSecret)

	auth := r.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)

		auth.Use(requireAuth)
		auth.GET("/me", d.Auth.Me)
	}

	api := r.Group("/api")
	api.Use(requireAuth)
	{
		pets := api.Group("/pets")
		{
			pets.POST("", d.Pets.CreatePet)
			pets.GET("", d.Pets.GetPets)
			pets.GET("/:id", d.Pets.GetPet)
			pets.PUT("/:id", d.Pets.UpdatePet)
			pets.DELETE("/:id", d.Pets.DeletePet)
		}

		reminders := api.Group("/reminders")
		{
			reminders.POST("", d.Reminders.CreateReminder)
			reminders.GET("", d.Reminders.GetReminders)
			reminders.GET("/:id", d.Reminders.GetReminder)
			reminders.PUT("/:id", d.Reminders.UpdateReminder)
			reminders.DELETE("/:id", d.Reminders.DeleteReminder)
			reminders.POST("/:id/acknowledge", d.Reminders.AcknowledgeReminder)
			reminders.POST("/:id/complete", d.Reminders.CompleteReminder)
		}

		careLogs := api.Group("/care-logs")
		{
			careLogs.POST("", d.CareLogs.CreateCareLog)
			careLogs.GET("", d.CareLogs.GetCareLogs)
			careLogs.PUT("/:id", d.CareLogs.UpdateCareLog)
			careLogs.DELETE("/:id", d.CareLogs.DeleteCareLog)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("", d.Appointments.CreateAppointment)
			appointments.GET("", d.Appointments.GetAppointments)
			appointments.PUT("/:id", d.Appointments.UpdateAppointment)
			appointments.DELETE("/:id", d.Appointments.DeleteAppointment)
		}

		api.PUT("/notifications/permission", d.Auth.UpdateNotificationPermission)
	}

	return r
}
