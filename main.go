package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"chirp/auth"
	"chirp/server"
	"chirp/service"
	"chirp/storage"
	"chirp/tasks"
	"chirp/utils"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func runBackgroundTasks(storageManager *storage.Manager) {
	// Statistics updater
	go utils.Recoverer(math.MaxInt, 1, func() {
		statisticsUpdater := tasks.NewStatisticsUpdater(storageManager, 1*time.Minute)
		statisticsUpdater.Run()
	})
}

func main() {
	log.SetLevel(log.InfoLevel)

	ctx := context.Background()

	mongoUri := utils.StringFromEnv("MONGODB_URI", "mongodb://localhost:27017/twitter-clone")
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoUri))
	if err != nil {
		panic(err)
	}
	defer mongoClient.Disconnect(ctx)
	dbConnection := mongoClient.Database("twitter-clone")

	redisHost := utils.StringFromEnv("REDIS_HOST", "localhost")
	redisPort := utils.StringFromEnv("REDIS_PORT", "6379")
	redisConnection := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	usersCacheExpiration := utils.IntFromString(
		os.Getenv("USERS_CACHE_EXPIRATION_MINUTES"), 43200,
	)
	storageManager := storage.NewManager(
		dbConnection,
		redisConnection,
		time.Duration(usersCacheExpiration)*time.Minute,
	)

	jwtSecret := utils.StringFromEnv("JWT_SECRET", "jwt-secret")
	loginPeriod := utils.IntFromString(os.Getenv("LOGIN_PERIOD_SEC"), 3600)
	credentials := auth.NewCredentials(jwtSecret, time.Duration(loginPeriod)*time.Second)
	verifier := auth.NewVerifier(credentials)

	svc := service.NewService(storageManager, credentials)
	s := server.NewServer(svc, verifier)

	// Run background tasks
	runBackgroundTasks(storageManager)

	host := utils.StringFromEnv("HOST", "0.0.0.0")
	port := utils.IntFromString(os.Getenv("PORT"), 8000)
	log.Infof("Server listening on %s:%d", host, port)
	if err := s.Run(host, port); err != nil {
		log.Errorf("Error starting server: %v", err)
		os.Exit(1)
	}
}
