package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ecommerce-catalog/internal/handlers"
	authmw "ecommerce-catalog/internal/middleware/auth"
)

type Deps struct {
	Auth       *handlers.AuthHandler
	Categories *handlers.CategoryHandler
	Products   *handlers.ProductHandler
	Reviews    *handlers.ReviewHandler
	JWTSecret  []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	requireAuth := authmw.RequireAuth(d.JWTSecret)

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)

	categories := e.Group("/categories")
	categories.GET("", d.Categories.GetCategories)
	categories.POST("", d.Categories.CreateCategory, requireAuth)
	categories.PUT("", d.Categories.UpdateCategory, requireAuth)
	categories.DELETE("", d.Categories.DeleteCategory, requireAuth)

	products := e.Group("/products")
	products.GET("", d.Products.GetProducts, requireAuth)
	products.POST("", d.Products.CreateProduct, requireAuth)
	products.GET("/detail/:product_slug", d.Products.ProductDetail)
	products.GET("/:category_slug", d.Products.ProductsByCategory)
	products.PUT("/:product_slug", d.Products.UpdateProduct, requireAuth)
	products.DELETE("/:product_slug", d.Products.DeleteProduct, requireAuth)

	reviews := e.Group("/reviews")
	reviews.GET("", d.Reviews.GetReviews)
	reviews.GET("/:product_slug", d.Reviews.ReviewsByProduct)
	reviews.POST("", d.Reviews.CreateReview, requireAuth)
	reviews.DELETE("/:review_id", d.Reviews.DeleteReview, requireAuth)
}
