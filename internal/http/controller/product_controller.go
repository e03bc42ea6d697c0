package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/domain"
	"github.com/iyhunko/product-catalog/internal/service"
)

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService *service.ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListProducts handles GET /products.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.productService.GetAllProducts(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// ListActiveProducts handles GET /products/active.
func (pc *ProductController) ListActiveProducts(c *gin.Context) {
	products, err := pc.productService.GetActiveProducts(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// ListLowStockProducts handles GET /products/low-stock. The threshold query
// parameter defaults to the catalog's low stock threshold.
func (pc *ProductController) ListLowStockProducts(c *gin.Context) {
	thresholdParam := c.DefaultQuery("threshold", strconv.Itoa(domain.DefaultLowStockThreshold))
	threshold, err := strconv.Atoi(thresholdParam)
	if err != nil || threshold < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errKindValidation, Message: "threshold must be a non-negative integer"})
		return
	}

	products, err := pc.productService.GetLowStockProducts(c.Request.Context(), threshold)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// SearchProducts handles GET /products/search. An empty name parameter is
// rejected before any repository work happens.
func (pc *ProductController) SearchProducts(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errKindValidation, Message: "name query parameter is required"})
		return
	}

	products, err := pc.productService.SearchProducts(c.Request.Context(), name)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products. The created product's URL comes back
// in the Location header.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errKindValidation, Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		renderError(c, err)
		return
	}

	product, err := pc.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/products/%d", product.ID))
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errKindValidation, Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		renderError(c, err)
		return
	}

	product, err := pc.productService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		renderCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateStock handles PATCH /products/:id/stock.
func (pc *ProductController) UpdateStock(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req service.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errKindValidation, Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		renderError(c, err)
		return
	}

	product, err := pc.productService.UpdateStock(c.Request.Context(), id, req)
	if err != nil {
		renderCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ActivateProduct handles POST /products/:id/activate.
func (pc *ProductController) ActivateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := pc.productService.ActivateProduct(c.Request.Context(), id)
	if err != nil {
		renderCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeactivateProduct handles POST /products/:id/deactivate.
func (pc *ProductController) DeactivateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := pc.productService.DeactivateProduct(c.Request.Context(), id)
	if err != nil {
		renderCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id. Deleting an unknown product is
// answered with 400, a successful delete with 204 and no body.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		renderCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
