package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/controllers"
	"github.com/om-engineers/om-engineers-api/middleware"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Om Engineers API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	err = db.AutoMigrate(
		&models.Customer{},
		&models.CustomerAuth{},
		&models.OTP{},
		&models.Service{},
		&models.Appointment{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Make sure the catalog is never empty on a fresh database
	if err := models.SeedDefaultServices(db); err != nil {
		log.Printf("Failed to seed default services: %v", err)
	}

	initServices()

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initServices wires up the SMS gateway, the PIN code providers and, when
// S3 credentials are present, icon storage
func initServices() {
	services.InitSMSService()
	services.InitPincodeService()

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Printf("S3 is not configured, icon uploads are disabled: %v", err)
		return
	}
	services.InitIconService(s3Service)
}

// setupRouter builds the Gin engine with the full API surface
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Auth-Token", "X-Auth-Key"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public catalog
		v1.GET("/services", controllers.ListServices)
		v1.GET("/services/categories", controllers.GetServiceCategories)
		v1.GET("/services/:id", controllers.GetService)

		// Public booking flows
		v1.POST("/bookings", controllers.CreateBooking)
		v1.GET("/bookings/:id/confirmation", controllers.GetBookingConfirmation)
		v1.POST("/quotations", controllers.CreateQuotation)
		v1.GET("/appointments/available-slots", controllers.GetAvailableSlots)
		v1.GET("/pincode/:pincode", controllers.GetPincodeInfo)

		// OTP authentication
		otp := v1.Group("/otp")
		{
			otp.POST("/send", controllers.SendOTP)
			otp.POST("/verify", controllers.VerifyOTP)
			otp.POST("/resend", controllers.ResendOTP)
			otp.GET("/status/:phone_number", controllers.GetOTPStatus)
			otp.POST("/refresh-token", middleware.RequireCustomerAuth(), controllers.RefreshToken)
			otp.POST("/logout", controllers.Logout)
			otp.POST("/cleanup", middleware.EnsureValidStaffToken(cfg), controllers.CleanupExpiredOTPs)
		}

		// Customer area
		v1.GET("/dashboard", middleware.RequireCustomerAuth(), controllers.GetDashboard)
		v1.PUT("/profile/:auth_key", middleware.RequireCustomerAuth(), controllers.UpdateProfile)
		v1.GET("/customers/:auth_key/info", middleware.RequireCustomerAuth(), controllers.GetCustomerInfo)
		v1.GET("/appointments", middleware.RequireCustomerAuth(), controllers.GetMyAppointments)

		// Staff area
		admin := v1.Group("/admin", middleware.EnsureValidStaffToken(cfg))
		{
			customers := admin.Group("/customers", middleware.RequireScope("admin:customers"))
			{
				customers.GET("", controllers.ListCustomers)
				customers.POST("", controllers.CreateCustomer)
				customers.PUT("/:id", controllers.UpdateCustomer)
				customers.DELETE("/:id", controllers.DeleteCustomer)
			}

			catalog := admin.Group("/services", middleware.RequireScope("admin:services"))
			{
				catalog.GET("", controllers.ListAllServices)
				catalog.POST("", controllers.CreateService)
				catalog.PUT("/:id", controllers.UpdateService)
				catalog.DELETE("/:id", controllers.DeleteService)
				catalog.POST("/:id/icon", controllers.UploadServiceIcon)
			}

			appointments := admin.Group("/appointments", middleware.RequireScope("admin:appointments"))
			{
				appointments.GET("", controllers.ListAppointments)
				appointments.POST("", controllers.CreateAppointment)
				appointments.GET("/today", controllers.GetTodayAppointments)
				appointments.GET("/upcoming", controllers.GetUpcomingAppointments)
				appointments.GET("/:id", controllers.GetAppointment)
				appointments.PUT("/:id", controllers.UpdateAppointment)
				appointments.DELETE("/:id", controllers.DeleteAppointment)
			}

			admin.GET("/stats", controllers.GetAdminStats)
			admin.GET("/dashboard", controllers.GetAdminDashboard)
			admin.GET("/me", controllers.GetStaffProfile)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Om Engineers API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables; pg_tables only exists on PostgreSQL, so other
	// dialects fall back to the migrator
	var tables []string
	if db.Dialector.Name() == "postgres" {
		if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_QUERY_ERROR",
					"message": "Failed to query tables",
				},
			})
			return
		}
	} else {
		tables, err = db.Migrator().GetTables()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_QUERY_ERROR",
					"message": "Failed to query tables",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
