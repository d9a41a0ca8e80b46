package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"weddingpro-backend/config"
	"weddingpro-backend/controllers"
	"weddingpro-backend/models"
	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

// Handlers groups the controllers the router mounts.
type Handlers struct {
	Weddings  *controllers.WeddingController
	Catalog   *controllers.CatalogController
	Venues    *controllers.VenueController
	Customers *controllers.CustomerController
	Reports   *controllers.ReportController
	Reminders *services.ReminderService
}

func SetupRouter(cfg *config.Config, logger zerolog.Logger, h Handlers) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())

	origins := map[string]bool{}
	for _, o := range cfg.CORSOrigins {
		origins[o] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return origins[origin]
		},
	}))

	r.Use(config.RequestLogger(logger))

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := v1.Group("")
	api.Use(utils.AuthMiddleware())
	{
		cashier := utils.RequireRole(models.RoleAdmin, models.RoleCashier)
		admin := utils.RequireRole(models.RoleAdmin)

		// Wedding routes
		weddings := api.Group("/weddings")
		{
			weddings.POST("", h.Weddings.CreateWedding)
			weddings.GET("", h.Weddings.GetWeddings)
			weddings.GET("/month", h.Weddings.GetWeddingsInMonth)
			weddings.GET("/search", h.Weddings.SearchWeddings)
			weddings.GET("/:id", h.Weddings.GetWedding)
			weddings.PATCH("/:id", h.Weddings.UpdateWedding)

			weddings.PUT("/:id/foods", h.Weddings.ComposeFoodOrder)
			weddings.GET("/:id/foods", h.Weddings.GetFoodOrders)
			weddings.PUT("/:id/services", h.Weddings.ComposeServiceOrder)
			weddings.GET("/:id/services", h.Weddings.GetServiceOrders)

			weddings.POST("/:id/deposit", cashier, h.Weddings.Deposit)
			weddings.POST("/:id/full-pay", cashier, h.Weddings.FullPay)
			weddings.PATCH("/:id/penalty", cashier, h.Weddings.TogglePenalty)
			weddings.GET("/:id/balance", h.Weddings.GetBalance)
			weddings.GET("/:id/bills", h.Weddings.GetBills)
		}

		// Catalog routes
		foods := api.Group("/foods")
		{
			foods.GET("", h.Catalog.GetFoods)
			foods.GET("/:id", h.Catalog.GetFood)
			foods.POST("", admin, h.Catalog.CreateFood)
			foods.PUT("/:id", admin, h.Catalog.UpdateFood)
			foods.DELETE("/:id", admin, h.Catalog.DeleteFood)
		}

		extras := api.Group("/services")
		{
			extras.GET("", h.Catalog.GetServices)
			extras.GET("/:id", h.Catalog.GetService)
			extras.POST("", admin, h.Catalog.CreateService)
			extras.PUT("/:id", admin, h.Catalog.UpdateService)
			extras.DELETE("/:id", admin, h.Catalog.DeleteService)
		}

		venueTypes := api.Group("/venue-types")
		{
			venueTypes.GET("", h.Venues.GetVenueTypes)
			venueTypes.POST("", admin, h.Venues.CreateVenueType)
			venueTypes.PUT("/:id", admin, h.Venues.UpdateVenueType)
			venueTypes.DELETE("/:id", admin, h.Venues.DeleteVenueType)
		}

		venues := api.Group("/venues")
		{
			venues.GET("", h.Venues.GetVenues)
			venues.GET("/:id", h.Venues.GetVenue)
			venues.POST("", admin, h.Venues.CreateVenue)
			venues.PUT("/:id", admin, h.Venues.UpdateVenue)
			venues.DELETE("/:id", admin, h.Venues.DeleteVenue)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.GET("", h.Customers.GetCustomers)
			customers.GET("/:id", h.Customers.GetCustomer)
			customers.PUT("/:id", h.Customers.UpdateCustomer)
		}

		// Reports routes
		reports := api.Group("/reports", cashier)
		{
			reports.GET("/revenue", h.Reports.GetMonthlyRevenue)
			reports.GET("/summary", h.Reports.GetRevenueSummary)
		}

		// Reminder routes
		reminders := api.Group("/reminders", admin)
		{
			reminders.GET("/templates", controllers.GetReminderTemplates)
			reminders.POST("/templates", controllers.CreateReminderTemplate)
			reminders.GET("/templates/:id", controllers.GetReminderTemplate)
			reminders.PUT("/templates/:id", controllers.UpdateReminderTemplate)
			reminders.DELETE("/templates/:id", controllers.DeleteReminderTemplate)
			reminders.GET("/logs", controllers.GetReminderLogs)
			reminders.POST("/run", controllers.RunReminders(h.Reminders))
		}
	}

	return r
}
