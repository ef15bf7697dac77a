package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/handlers"
	adminhandlers "papeterie_back_end/internal/handlers/admin"
	"papeterie_back_end/internal/handlers/product"
	"papeterie_back_end/internal/middleware"
)

// Deps regroupe ce que les handlers reçoivent en injection.
type Deps struct {
	DB        *database.Store
	Sessions  sessions.Store
	UploadDir string
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	authH := &handlers.AuthHandler{DB: deps.DB, Sessions: deps.Sessions}
	catalogH := &product.Handler{DB: deps.DB, UploadDir: deps.UploadDir}
	adminH := &adminhandlers.Handler{DB: deps.DB}

	// Images uploadées, servies en statique
	r.Static("/uploads", deps.UploadDir)

	// --- Catalogue public ---
	r.GET("/api/categories", catalogH.GetCategories)
	r.GET("/api/products", catalogH.GetPublishedProducts)
	r.GET("/api/search", catalogH.SearchProducts)
	r.GET("/api/products/:id", catalogH.GetProduct)
	r.GET("/api/categories/:slug/products", catalogH.GetProductsByCategorySlug)

	// --- Auth ---
	r.POST("/api/auth/login", authH.Login)
	r.POST("/api/auth/logout", authH.Logout)

	// --- Administration (session + rôle admin requis) ---
	adm := r.Group("/api/admin")
	adm.Use(middleware.SessionAuth(deps.Sessions), middleware.RequireAdmin)
	{
		adm.GET("/me", authH.Me)

		adm.POST("/categories", catalogH.CreateCategory)
		adm.PUT("/categories/:id", catalogH.UpdateCategory)
		adm.DELETE("/categories/:id", catalogH.DeleteCategory)

		adm.GET("/products", catalogH.GetAllProducts)
		adm.POST("/products", catalogH.CreateProduct)
		adm.PUT("/products/:id", catalogH.UpdateProduct)
		adm.PATCH("/products/:id/status", catalogH.SetProductStatus)
		adm.DELETE("/products/:id", catalogH.DeleteProduct)

		adm.GET("/products/:id/variants", catalogH.GetProductVariants)
		adm.POST("/products/:id/variants", catalogH.CreateProductVariant)
		adm.PUT("/variants/:variant_id", catalogH.UpdateProductVariant)
		adm.DELETE("/variants/:variant_id", catalogH.DeleteProductVariant)
		adm.GET("/sku/:sku", catalogH.GetVariantBySKU)

		adm.POST("/variants/:variant_id/stock", catalogH.AdjustStock)
		adm.GET("/inventory/adjustments", catalogH.GetInventoryAdjustments)
		adm.GET("/inventory/low-stock", catalogH.GetLowStockVariants)

		adm.POST("/images", catalogH.UploadProductImage)
		adm.DELETE("/images", catalogH.DeleteProductImage)

		adm.GET("/admins", adminH.GetAdmins)
		adm.POST("/admins", adminH.CreateAdmin)
		adm.DELETE("/admins/:id", adminH.DeleteAdmin)

		adm.GET("/audit-logs", adminH.GetAuditLogs)

		adm.GET("/export", adminH.ExportCatalog)
		adm.POST("/import", adminH.ImportCatalog)
		adm.POST("/backup", adminH.CreateBackup)
	}
}
