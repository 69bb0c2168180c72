package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Pranay9392/ecommerce-mernstack-backend/models"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

// GET /products
func GetProducts(products store.Products, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.ListProducts(c.Request.Context())
		if err != nil {
			log.Error("list products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		if list == nil {
			list = []models.Product{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /products/:id
func GetProductByID(products store.Products, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := products.FindProduct(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err != nil {
			log.Error("find product", zap.String("product_id", c.Param("id")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// POST /products (admin)
func CreateProduct(products store.Products, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
			return
		}
		if strings.TrimSpace(req.Name) == "" || req.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid name or price"})
			return
		}

		product := models.Product{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			Price:       req.Price.Round(2),
			Image:       req.Image,
		}
		if err := products.CreateProduct(c.Request.Context(), &product); err != nil {
			log.Error("create product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
