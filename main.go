package main

import (
	"log"
	"os"
	"time"

	"tripcraft-backend/accounts"
	"tripcraft-backend/conn"
	"tripcraft-backend/login"
	"tripcraft-backend/marketing"
	"tripcraft-backend/migrations"
	"tripcraft-backend/openai"
	"tripcraft-backend/payments"
	"tripcraft-backend/pending"
	"tripcraft-backend/planner"
	"tripcraft-backend/profile"
	"tripcraft-backend/trips"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env file, using process environment")
	}

	var userStore accounts.Store
	var tripStore trips.Store

	db, err := conn.NewMySQL()
	if err != nil {
		// Database-less runs fall back to in-memory stores (demo mode).
		log.Printf("[main] mysql unavailable, using in-memory stores: %v", err)
		userStore = accounts.NewMemoryStore()
		tripStore = trips.NewMemoryStore()
	} else {
		migrations.Init(db)
		if err := migrations.Migrate(); err != nil {
			log.Fatalf("[main] migrate: %v", err)
		}
		if err := migrations.SeedDemoUser(); err != nil {
			log.Fatalf("[main] seed: %v", err)
		}
		userStore = accounts.NewRepository(db)
		tripStore = trips.NewRepository(db)
		marketing.NewService(db).Start()
	}

	ledger := accounts.NewLedger(userStore)
	sessions := pending.NewCache(30 * time.Minute)
	generator := planner.NewAIGenerator(openai.NewClient())
	plannerSvc := planner.NewService(ledger, tripStore, generator)
	stripeSvc := payments.NewFromEnv()
	if stripeSvc == nil {
		log.Printf("[main] STRIPE_SECRET_KEY not set, payment endpoints disabled")
	}

	loginHandler := login.NewHandler(userStore)
	auth := loginHandler.Middleware()

	r := gin.Default()
	loginHandler.RegisterRoutes(r)
	trips.NewHandler(tripStore).RegisterRoutes(r, auth)
	planner.NewHandler(plannerSvc, ledger, sessions).RegisterRoutes(r, auth)
	payments.NewHandler(stripeSvc, ledger, plannerSvc, sessions).RegisterRoutes(r, auth)
	profile.NewHandler(userStore, tripStore).RegisterRoutes(r, auth)

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}
	if err := r.Run(addr); err != nil {
		log.Fatalf("[main] server: %v", err)
	}
}
