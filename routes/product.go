package routes

import (
	productcontroller "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/product"
	"github.com/Pranay9392/ecommerce-mernstack-backend/middleware"
	"github.com/gin-gonic/gin"
)

func SetupProductRoutes(r *gin.Engine, d Deps) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(d.Store, d.Log))
		products.GET("/:id", productcontroller.GetProductByID(d.Store, d.Log))
		products.POST("",
			d.Guard.Authenticate(),
			d.Guard.RequireRole(middleware.RoleAdmin),
			productcontroller.CreateProduct(d.Store, d.Log),
		)
	}
}
