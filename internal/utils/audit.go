package utils

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"papeterie_back_end/internal/database"
)

// LogAction enregistre une action admin dans le journal d'audit, en
// fire-and-forget : un échec d'écriture est loggé puis avalé, il ne doit
// jamais faire échouer l'opération déclenchante.
func LogAction(db *database.Store, c *gin.Context, action, entity string, entityID *int64, details any) {
	var adminID *int64
	if v, ok := c.Get("admin_id"); ok {
		if id, ok := v.(int64); ok {
			adminID = &id
		}
	}

	detailsJSON := "{}"
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			detailsJSON = string(data)
		}
	}

	go func() {
		_, err := db.Exec(
			`INSERT INTO audit_logs (admin_id, action, entity, entity_id, details, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			adminID, action, entity, entityID, detailsJSON,
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// Actions d'audit prédéfinies
const (
	ActionCategoryCreate = "category.create"
	ActionCategoryUpdate = "category.update"
	ActionCategoryDelete = "category.delete"

	ActionProductCreate = "product.create"
	ActionProductUpdate = "product.update"
	ActionProductStatus = "product.status"
	ActionProductDelete = "product.delete"

	ActionVariantCreate = "variant.create"
	ActionVariantUpdate = "variant.update"
	ActionVariantDelete = "variant.delete"
	ActionStockAdjust   = "stock.adjust"

	ActionAdminCreate = "admin.create"
	ActionAdminDelete = "admin.delete"
	ActionLogin       = "auth.login"
	ActionLogout      = "auth.logout"

	ActionImport = "catalog.import"
	ActionExport = "catalog.export"
)

// Entités du journal d'audit
const (
	EntityCategory = "category"
	EntityProduct  = "product"
	EntityVariant  = "variant"
	EntityAdmin    = "admin"
	EntityCatalog  = "catalog"
	EntityAuth     = "auth"
)
