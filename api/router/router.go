package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"folio/api/handlers"
	"folio/cache"
	"folio/config"
	"folio/db"
	_ "folio/docs"
	"folio/repositories"
	"folio/services"
)

func New(cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// session cookie carrying the principal
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("folio_session", store))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := db.Client().Ping(c.Request.Context(), readpref.Primary()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	postRepo := repositories.NewPostRepository(db.Database())
	catRepo := repositories.NewCategoryRepository(db.Database())
	userRepo := repositories.NewUserRepository(db.Database())
	viewRepo := repositories.NewViewEventRepository(db.Database())

	postSvc := services.NewPostService(postRepo, catRepo, cache.New())
	viewSvc := services.NewViewService(postRepo, viewRepo)
	authSvc := services.NewAuthService(userRepo)

	// public surface
	r.GET("/blog", handlers.ListPostsHandler(postSvc))
	r.GET("/blog/:slug", handlers.GetPostHandler(postSvc))
	r.GET("/blog/:slug/page", handlers.GetPostPageHandler(postSvc))
	r.POST("/views", handlers.TrackViewHandler(viewSvc))
	r.POST("/login", handlers.LoginHandler(authSvc))
	r.POST("/logout", handlers.LogoutHandler())

	// admin surface
	admin := r.Group("/admin", handlers.RequireAdmin())
	{
		admin.GET("/posts", handlers.AdminListPostsHandler(postSvc))
		admin.POST("/posts", handlers.CreatePostHandler(postSvc))
		admin.PATCH("/posts/:slug", handlers.UpdatePostHandler(postSvc))
		admin.DELETE("/posts/:slug", handlers.DeletePostHandler(postSvc))
		admin.PATCH("/posts/:slug/reorder-pages", handlers.ReorderPagesHandler(postSvc))
		admin.POST("/posts/:slug/insert-page", handlers.InsertPageHandler(postSvc))
	}

	return r
}
