package main

import (
	"log"

	"mingle/auth"
	"mingle/config"
	"mingle/database"
	"mingle/handlers"
	"mingle/websocket"
)

func main() {
	config.Load()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.CreateTables(database.DB); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	websocket.InitHub()

	tokens := auth.NewTokenService(config.Cfg.JWTSecret, config.Cfg.TokenTTL)
	r := handlers.NewRouter(tokens)

	log.Printf("Server starting on %s", config.Cfg.ServerAddr)
	if err := r.Run(config.Cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
