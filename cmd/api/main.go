package main

import (
	"log"
	"os"

	"gatehouse/internal/auth"
	"gatehouse/internal/db"
	"gatehouse/internal/router"
	"gatehouse/internal/users"

	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
	}
	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── WIRING ─────────────────────────
	auth.RegisterValidators()

	userRepo := auth.NewPostgresUserRepository(pgDB)
	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(authService)

	usersService := users.NewService(userRepo)
	usersHandler := users.NewHandler(usersService)

	r := router.New(userRepo, authHandler, usersHandler)

	// ───────────────────────── LISTEN ─────────────────────────
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
