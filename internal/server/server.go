package server

import (
	"log"
	"strings"
	"time"

	"anoa.com/chirp/internal/config"
	"anoa.com/chirp/internal/consistency"
	"anoa.com/chirp/internal/middleware"
	"anoa.com/chirp/pkg/storage"
	"anoa.com/chirp/pkg/store"

	commentHttp "anoa.com/chirp/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/chirp/internal/modules/comment/repository"
	commentService "anoa.com/chirp/internal/modules/comment/service"

	likeHttp "anoa.com/chirp/internal/modules/like/delivery/http"
	likeRepo "anoa.com/chirp/internal/modules/like/repository"
	likeService "anoa.com/chirp/internal/modules/like/service"

	notifHttp "anoa.com/chirp/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/chirp/internal/modules/notification/repository"
	notifService "anoa.com/chirp/internal/modules/notification/service"

	postHttp "anoa.com/chirp/internal/modules/post/delivery/http"
	postRepo "anoa.com/chirp/internal/modules/post/repository"
	postService "anoa.com/chirp/internal/modules/post/service"

	profileHttp "anoa.com/chirp/internal/modules/profile/delivery/http"
	profileService "anoa.com/chirp/internal/modules/profile/service"

	searchHttp "anoa.com/chirp/internal/modules/search/delivery/http"
	searchService "anoa.com/chirp/internal/modules/search/service"

	userHttp "anoa.com/chirp/internal/modules/user/delivery/http"
	userRepo "anoa.com/chirp/internal/modules/user/repository"
	userService "anoa.com/chirp/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	engine      *gin.Engine
	dispatcher  *consistency.Dispatcher
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, st store.Store, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(st)
	posts := postRepo.NewPostRepository(st)
	comments := commentRepo.NewCommentRepository(st)
	likes := likeRepo.NewLikeRepository(st)
	notifications := notifRepo.NewNotificationRepository(st)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	meiliSvc := searchService.NewMeiliSearchService(meiliClient)

	notificationSvc := notifService.NewNotificationService(notifications, redisClient)

	// Every piece of derived state hangs off the dispatcher: counters,
	// materialized notifications, denormalized profile images, cascades and
	// the search index. Handlers only perform the originating write.
	dispatcher := consistency.NewDispatcher()
	consistency.NewCounterMaintainer(st).Register(dispatcher)
	consistency.NewNotificationMaterializer(st, notificationSvc).Register(dispatcher)
	consistency.NewProfilePropagator(st).Register(dispatcher)
	consistency.NewCascadeDeleter(st).Register(dispatcher)
	meiliSvc.Register(dispatcher)

	authSvc := userService.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL, cfg.DefaultAvatarURL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	postSvc := postService.NewPostService(posts, comments, dispatcher, redisClient, cfg.RateLimitGlobal)
	postHandler := postHttp.NewPostHandler(postSvc)

	commentSvc := commentService.NewCommentService(comments, posts, dispatcher)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	likeSvc := likeService.NewLikeService(likes, posts, dispatcher)
	likeHandler := likeHttp.NewLikeHandler(likeSvc)

	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, redisClient)

	profileSvc := profileService.NewProfileService(users, posts, likes, notifications, imageStorage, dispatcher, cfg.CloudinaryUploadFolder)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	searchHandler := searchHttp.NewSearchHandler(meiliSvc)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(users, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)
	api.GET("/posts", postHandler.GetAllPosts)
	api.GET("/post/:postId", postHandler.GetPost)
	api.GET("/user/:handle", profileHandler.GetUserDetails)
	api.GET("/search/posts", searchHandler.SearchPosts)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/post", postHandler.CreatePost)
		protected.DELETE("/post/:postId", postHandler.DeletePost)

		protected.POST("/post/:postId/comment", commentHandler.CommentOnPost)
		protected.DELETE("/comment/:commentId", commentHandler.DeleteComment)

		protected.GET("/post/:postId/like", likeHandler.LikePost)
		protected.GET("/post/:postId/unlike", likeHandler.UnlikePost)

		protected.GET("/user", profileHandler.GetAuthenticatedUser)
		protected.POST("/user", profileHandler.UpdateDetails)
		protected.POST("/user/image", profileHandler.UploadImage)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.POST("/notifications", notificationHandler.MarkRead)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		dispatcher:  dispatcher,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Wait drains in-flight consistency handlers. Called on shutdown so
// dispatched events are not dropped mid-flight.
func (s *Server) Wait() {
	s.dispatcher.Wait()
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
