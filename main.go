package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"pharmsys/m/internal/api"
	"pharmsys/m/internal/config"
	"pharmsys/m/internal/database"
	"pharmsys/m/internal/migrations"
	"pharmsys/m/internal/pos"
	"pharmsys/m/internal/seed"
	"pharmsys/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.Run(db)

	st := store.New(db)
	engine := pos.NewEngine(st)
	handler := api.New(st, engine, cfg.Secret)

	log.Printf("pharmacy server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
