package routes

import (
	"blog-cms/handlers"
	"blog-cms/helper"
	"blog-cms/middleware"
	"blog-cms/services"
	"blog-cms/uploads"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies carries everything the router needs to build its handlers.
type Dependencies struct {
	Log         zerolog.Logger
	Helper      *helper.HTTPHelper
	Tokens      services.TokenService
	CORSOrigins []string
	UploadDir   string

	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Articles *handlers.ArticleHandler
	Comments *handlers.CommentHandler
	Votes    *handlers.VoteHandler
	GraphQL  *handlers.GraphQLHandler
	Realtime *handlers.RealtimeHandler
	Health   *handlers.HealthHandler
}

func SetupRouter(d Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(cors.New(corsConfig(d.CORSOrigins)))

	// Health check
	router.GET("/health", d.Health.Liveness)
	router.GET("/health/ready", d.Health.Readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Static(uploads.PublicPrefix, d.UploadDir)

	router.GET("/ws", d.Realtime.Connect)
	router.POST("/graphql", middleware.OptionalAuth(d.Tokens), d.GraphQL.Execute)

	guard := middleware.AuthMiddleware(d.Tokens, d.Helper)

	// Users
	router.POST("/users/register", d.Auth.Register)
	router.POST("/auth/login", d.Auth.Login)
	users := router.Group("/users/me", guard)
	{
		users.GET("", d.Users.GetProfile)
		users.PATCH("/image", d.Users.UpdateImage)
	}

	// Articles
	articles := router.Group("/articles")
	{
		articles.GET("", d.Articles.GetArticles)
		articles.GET("/:id", d.Articles.GetArticle)
		articles.GET("/user/:userId", d.Articles.GetArticlesByAuthor)

		articles.GET("/user", guard, d.Articles.GetMyArticles)
		articles.POST("", guard, d.Articles.CreateArticle)
		articles.PUT("/:id", guard, d.Articles.UpdateArticle)
		articles.DELETE("/:id", guard, d.Articles.DeleteArticle)

		// Comments
		articles.POST("/:id/comments", d.Comments.AddComment)
		articles.GET("/:id/comments", d.Comments.GetComments)
	}

	// Votes
	router.POST("/comments/:id/vote", d.Votes.CastVote)
	router.GET("/comments/:id/votes", d.Votes.GetTally)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
