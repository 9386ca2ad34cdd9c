package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-cms/config"
	_ "blog-cms/docs"
	"blog-cms/graph"
	"blog-cms/handlers"
	"blog-cms/helper"
	"blog-cms/logger"
	"blog-cms/realtime"
	"blog-cms/repositories"
	"blog-cms/routes"
	"blog-cms/services"
	"blog-cms/uploads"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// @title                       Blog CMS API
// @version                     1.0
// @description                 Articles, comments and votes with realtime updates.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to initialize database")
	}

	// Realtime
	broker := newBroker(cfg, log)
	hub := realtime.NewHub(log)
	instanceID := uuid.NewString()
	fanout := realtime.NewFanout(broker, hub, instanceID, log)
	go realtime.NewRelay(broker, hub, instanceID, log).Run(ctx)

	validate, translator := helper.NewValidator()
	httpHelper := helper.NewHTTPHelper(translator, log)
	validator := services.NewValidatorWith(validate, translator)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	voteRepo := repositories.NewVoteRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokens, validator, log)
	userService := services.NewUserService(userRepo, validator)
	articleService := services.NewArticleService(articleRepo, validator, log)
	commentService := services.NewCommentService(commentRepo, articleRepo, validator, fanout)
	voteService := services.NewVoteService(voteRepo, commentRepo, validator, fanout)

	store, err := uploads.NewStore(cfg.UploadDir, cfg.UploadMaxBytes, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("failed to prepare upload directory")
	}

	schema, err := graph.NewSchema(graph.Resolver{
		Articles: articleService,
		Comments: commentService,
		Votes:    voteService,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build graphql schema")
	}

	// Initialize handlers and router
	router := routes.SetupRouter(routes.Dependencies{
		Log:         log,
		Helper:      httpHelper,
		Tokens:      tokens,
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   store.Dir(),

		Auth:     handlers.NewAuthHandler(authService, httpHelper),
		Users:    handlers.NewUserHandler(userService, httpHelper),
		Articles: handlers.NewArticleHandler(articleService, store, httpHelper),
		Comments: handlers.NewCommentHandler(commentService, httpHelper),
		Votes:    handlers.NewVoteHandler(voteService, httpHelper),
		GraphQL:  handlers.NewGraphQLHandler(schema, httpHelper),
		Realtime: handlers.NewRealtimeHandler(hub, log),
		Health:   handlers.NewHealthHandler(db, broker),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("broker", cfg.Broker).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	hub.Close()
	fanout.Wait()
	if err := broker.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close broker")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newBroker(cfg *config.Config, log zerolog.Logger) realtime.Broker {
	switch cfg.Broker {
	case "amqp":
		return realtime.NewAMQPBroker(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
	case "none", "":
		return realtime.NopBroker{}
	default:
		return realtime.NewRedisBroker(realtime.RedisConfig{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		}, log)
	}
}
