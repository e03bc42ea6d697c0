package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/http/middleware"
)

// InitRouter wires the middleware chain and the catalog routes onto the
// given engine. Static product routes are registered before /:id, which gin
// resolves in their favor.
func InitRouter(server *gin.Engine, ctr *controller.Controller, productCtr *controller.ProductController) *gin.Engine {
	server.Use(middleware.Recovery())
	server.Use(middleware.CORS())
	server.Use(middleware.Logger())

	server.GET("/health", ctr.Health)

	// Product endpoints
	products := server.Group("/products")
	{
		products.GET("", productCtr.ListProducts)
		products.GET("/active", productCtr.ListActiveProducts)
		products.GET("/low-stock", productCtr.ListLowStockProducts)
		products.GET("/search", productCtr.SearchProducts)
		products.GET("/:id", productCtr.GetProduct)
		products.POST("", productCtr.CreateProduct)
		products.PUT("/:id", productCtr.UpdateProduct)
		products.PATCH("/:id/stock", productCtr.UpdateStock)
		products.POST("/:id/activate", productCtr.ActivateProduct)
		products.POST("/:id/deactivate", productCtr.DeactivateProduct)
		products.DELETE("/:id", productCtr.DeleteProduct)
	}

	return server
}
