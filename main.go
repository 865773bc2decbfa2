package main

import (
	"fmt"
	"log"
	"os"

	"laundrypos-backend/config"
	"laundrypos-backend/models"
	"laundrypos-backend/routes"
	"laundrypos-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Branch{},
		&models.OrderCounter{},
		&models.User{},
		&models.Customer{},
		&models.ClothingItem{},
		&models.LaundryService{},
		&models.ServicePrice{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Payment{},
		&models.LoyaltyHistory{},
		&models.DeliveryOrder{},
		&models.Driver{},
		&models.NotificationLog{},
	)
}

func main() {

	notify := services.NewNotifyService(config.DB)
	scheduler := services.NewSchedulerService(config.DB, notify)
	scheduler.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
