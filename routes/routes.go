package routes

import (
	"os"
	"strings"

	"laundrypos-backend/config"
	"laundrypos-backend/controllers"
	"laundrypos-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	controllers.Setup(config.DB)

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public delivery intake, keyed by branch code
	r.POST("/delivery/orders", controllers.SubmitDeliveryOrder)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.GET("/:id/loyalty", controllers.GetCustomerLoyalty)
			customers.PATCH("/:id", controllers.UpdateCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		items := api.Group("/clothing-items")
		{
			items.POST("", controllers.CreateClothingItem)
			items.GET("", controllers.GetClothingItems)
			items.DELETE("/:id", controllers.DeleteClothingItem)
		}

		laundryServices := api.Group("/services")
		{
			laundryServices.POST("", controllers.CreateLaundryService)
			laundryServices.GET("", controllers.GetLaundryServices)
			laundryServices.DELETE("/:id", controllers.DeleteLaundryService)
		}

		prices := api.Group("/prices")
		{
			prices.POST("", controllers.SetServicePrice)
			prices.GET("", controllers.GetServicePrices)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.POST("/quote", controllers.QuoteOrder)
			orders.GET("/statuses", controllers.GetOrderStatuses)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PATCH("/:id/status", controllers.UpdateOrderStatus)
			orders.POST("/:id/force-status", controllers.ForceOrderStatus)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", controllers.CreatePayment)
			payments.GET("", controllers.GetPayments)
		}

		delivery := api.Group("/delivery")
		{
			delivery.GET("/unassigned", controllers.GetUnassignedDeliveries)
			delivery.POST("/:id/assign", controllers.AssignDriver)
		}

		drivers := api.Group("/drivers")
		{
			drivers.POST("", controllers.CreateDriver)
			drivers.GET("", controllers.GetDrivers)
			drivers.POST("/:id/location", controllers.UpdateDriverLocation)
		}

		branch := api.Group("/branch")
		{
			branch.GET("", controllers.GetBranch)
			branch.PUT("", controllers.UpdateBranch)
		}

		api.GET("/dashboard", controllers.GetDashboardOverview)

		reports := api.Group("/reports")
		{
			reports.GET("/revenue", controllers.GetRevenueReport)
			reports.GET("/outstanding", controllers.GetOutstandingBalances)
		}
	}

	return r
}
