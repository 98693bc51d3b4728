package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"main/handler"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
}

func main() {
	mongoClient, err := utils.NewMongoClient(os.Getenv("MONGO_URI"))
	if err != nil {
		log.Fatalf("MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	db := mongoClient.Database(os.Getenv("MONGO_DB"))
	if err := repository.SetupIndexes(db); err != nil {
		log.Fatalf("Index setup: %v", err)
	}

	// Redis is optional; without it session caching and token blacklisting
	// degrade to database-only behavior.
	var sessionCache *services.SessionCache
	redisURL := os.Getenv("REDIS_URL")
	if redisURL != "" {
		sessionCache, err = services.NewSessionCache(redisURL)
		if err != nil {
			log.Printf("Session cache unavailable: %v", err)
			sessionCache = nil
		} else {
			sessionCache.StartCleanupTask()
		}

		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Printf("Token blacklist unavailable: %v", err)
		} else {
			services.TokenBlacklist = blacklist
			defer blacklist.Close()
		}
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	sessionRepo := repository.NewSessionRepo(db, sessionCache)
	todosRepo := repository.NewTodosRepo(db)
	dailiesRepo := repository.NewDailiesRepo(db)
	habitsRepo := repository.NewHabitsRepo(db)
	dailyPeriods := repository.NewPeriodsRepo(db, "daily_periods")
	habitPeriods := repository.NewPeriodsRepo(db, "habit_periods")
	historyRepo := repository.NewHistoryRepo(db)

	// Multi-document transitions need a replica set; standalone
	// deployments fall back to sequential writes.
	var txn repository.TxnRunner = repository.NewMongoTxnRunner(mongoClient)
	if utils.GetEnvAsBool("MONGO_STANDALONE", false) {
		txn = repository.NoopTxnRunner{}
	}

	// Services
	userService := usecase.NewUserService(userRepo)
	todosService := usecase.NewTodosService(todosRepo)
	dailiesService := usecase.NewDailiesService(dailiesRepo)
	habitsService := usecase.NewHabitsService(habitsRepo, habitPeriods, historyRepo, txn)
	completionService := usecase.NewCompletionService(dailiesRepo, dailyPeriods, historyRepo, txn)
	reactivationService := usecase.NewReactivationService(dailiesRepo, dailyPeriods, habitsRepo, habitPeriods, historyRepo, txn)

	// Handlers
	deps := routerDeps{
		sessionRepo: sessionRepo,
		users:       handler.NewUsersHandler(userService, sessionRepo),
		session:     handler.NewSessionHandler(sessionRepo),
		dailies:     handler.NewDailiesHandler(dailiesService, completionService, reactivationService),
		habits:      handler.NewHabitsHandler(habitsService),
		todos:       handler.NewTodosHandler(todosService),
		stats: handler.NewStatsHandler(
			dailiesService, habitsService, todosService,
			userService, historyRepo, sessionRepo,
		),
		health: handler.NewHealthHandler(mongoClient, sessionCache),
	}

	router := setupRouter(deps)

	port := utils.GetEnvAsString("PORT", "8080")

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	sig := <-signalChan
	log.Printf("Caught signal %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server shutdown complete")
}
