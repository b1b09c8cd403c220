package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wlog/internal/api"
	"wlog/internal/app/service"
	"wlog/internal/common/security"
	"wlog/internal/domain/repository"
	"wlog/internal/platform/cache"
	"wlog/internal/platform/config"
	"wlog/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	log.Println("Configuration loaded")

	// 2. Initialize JWT
	security.InitJWT(config.AppConfig.JWTKey, config.AppConfig.JWTExp)
	log.Println("JWT initialized")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	if err := database.Migrate(database.DB, config.AppConfig.DBReset); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// 4. Initialize Redis (optional)
	cache.Connect()
	defer cache.Close()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	exerciseRepo := repository.NewPgExerciseRepository(database.DB)
	workoutRepo := repository.NewPgWorkoutRepository(database.DB)
	workoutExerciseRepo := repository.NewPgWorkoutExerciseRepository(database.DB)

	// 6. Seed accounts from env credentials
	if err := database.Seed(context.Background(), userRepo, config.AppConfig); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, workoutExerciseRepo, cache.RDB, config.AppConfig.ExerciseCacheTTL)
	workoutService := service.NewWorkoutService(workoutRepo, userRepo)
	workoutExerciseService := service.NewWorkoutExerciseService(workoutExerciseRepo, workoutRepo, exerciseRepo)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, exerciseService, workoutService, workoutExerciseService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on http://%s:%s", config.AppConfig.Host, config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", config.AppConfig.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
