package routes

import (
	"net/http"

	"gift-shop/config"
	"gift-shop/controllers"
	"gift-shop/middleware"
	"gift-shop/models"
	"gift-shop/repositories"
	"gift-shop/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine) {
	var store services.RateLimitStore = services.NewMemoryRateLimitStore()
	if models.RedisClient != nil {
		store = services.NewRedisRateLimitStore(models.RedisClient)
	}
	rateLimitSvc := services.NewRateLimitService(store, nil)

	cartRepo := repositories.NewFileCartRepository(config.AppConfig.CartStorageFile)
	cartStore := services.NewCartStore(cartRepo)

	proxyCtrl := controllers.NewProxyController()
	cartCtrl := controllers.NewCartController(cartStore)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// Every call to the upstream API funnels through this one route so
	// the quota check always runs before anything is forwarded.
	router.Any(config.AppConfig.ProxyPrefix+"/*path",
		middleware.RateLimitMiddleware(rateLimitSvc),
		proxyCtrl.Forward,
	)

	cart := router.Group("/cart")
	{
		cart.GET("", cartCtrl.GetCart)
		cart.DELETE("", cartCtrl.ClearCart)
		cart.GET("/line", cartCtrl.GetLine)
		cart.POST("/items", cartCtrl.AddItem)
		cart.PATCH("/items/:itemId", cartCtrl.UpdateItem)
		cart.DELETE("/items/:itemId", cartCtrl.RemoveItem)
		cart.POST("/items/:itemId/increment", cartCtrl.IncrementItem)
		cart.POST("/items/:itemId/decrement", cartCtrl.DecrementItem)
	}

	// Application pages exist here only for the auth gate; the page
	// content itself is rendered by the storefront, not this gateway.
	pages := []string{
		"/home", "/profile", "/orders", "/wishlist", "/checkout",
		"/login", "/sign-up", "/forgot-password", "/verify",
	}
	for _, page := range pages {
		router.GET(page, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
}
