package main

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/classora/classora-BE/api"
	"github.com/classora/classora-BE/internal/db"
	"github.com/classora/classora-BE/internal/feed"
	"github.com/classora/classora-BE/internal/notifstore"
	"github.com/classora/classora-BE/internal/util"
	"github.com/classora/classora-BE/internal/worker"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	// Create connection pool
	connPool, err := pgxpool.New(context.Background(), config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}

	pingErr := connPool.Ping(context.Background())
	if pingErr != nil {
		log.Fatal().Err(pingErr).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")

	store := db.NewStore(connPool)

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	// Create the Firestore-backed notification log client
	firebaseApp, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(config.FirebaseCredentialsFile))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize firebase app 😣")
	}

	notifStore, err := notifstore.NewStore(context.Background(), firebaseApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create notification store 😣")
	}
	log.Info().Msg("notification store created successfully ✅")

	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}

	taskDistributor := worker.NewTaskDistributor(redisOpt)

	go runTaskProcessor(redisOpt, notifStore)

	feedService := feed.NewService(notifStore, store, redisDb, feed.ServiceParams{
		WindowSize: config.FeedWindowSize,
		QueryLimit: config.FeedQueryLimit,
		CacheTTL:   config.FeedRefreshInterval,
	})

	feedRegistry, err := feed.NewRegistry(feedService, config.FeedRefreshInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create feed registry 😣")
	}
	defer feedRegistry.Shutdown()

	mutator := feed.NewMutator(notifStore, feedService)

	runHTTPServer(&config, store, notifStore, feedService, feedRegistry, mutator, taskDistributor)
}

func runTaskProcessor(redisOpt asynq.RedisClientOpt, notifStore *notifstore.Store) {
	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, notifStore)

	log.Info().Msg("task processor started ✅")
	if err := taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
}

func runHTTPServer(
	config *util.Config,
	store db.Store,
	notifStore *notifstore.Store,
	feedService *feed.Service,
	feedRegistry *feed.Registry,
	mutator *feed.Mutator,
	taskDistributor worker.TaskDistributor,
) {
	server, err := api.NewServer(store, notifStore, feedService, feedRegistry, mutator, taskDistributor, config)

	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}

	err = server.Start(config.HTTPServerAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
