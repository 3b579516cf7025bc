package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"chatstore/internal/config"
	"chatstore/internal/database"
	"chatstore/internal/events"
	"chatstore/internal/handlers"
	"chatstore/internal/middleware"
	"chatstore/internal/orders"
	"chatstore/internal/stock"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("order index warning:", err)
	}
	if err := database.EnsureVariantIndexes(db); err != nil {
		log.Println("variant index warning:", err)
	}

	store := &orders.Store{DB: db, Prefix: config.AppEnv.OrderPrefix}
	validator := &stock.Validator{DB: db}

	var publisher *events.Publisher
	if len(config.AppEnv.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(config.AppEnv.KafkaBrokers, config.AppEnv.KafkaOrdersTopic, 256)
		publisher.Start(context.Background())
	} else {
		log.Println("KAFKA_BROKERS not set, order events disabled")
	}

	r := gin.Default()

	r.POST("/api/shops/:shopId/stock-check", handlers.CheckStock(db, validator))
	r.POST("/api/shops/:shopId/orders", handlers.Checkout(db, store, publisher))
	r.GET("/api/track/:orderNumber", handlers.TrackOrder(db, store))

	seller := r.Group("/seller/api")
	seller.Use(middleware.SellerAuth(config.AppEnv.JWTSecret))
	{
		seller.GET("/orders", handlers.ListOrders(db, store))
		seller.GET("/orders/:id", handlers.GetOrder(db, store))
		seller.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(db, store, publisher))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
