package product

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/utils"
)

// CreateProductVariant - Créer une variante de produit
func (h *Handler) CreateProductVariant(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req variantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	// Vérifier que le produit existe
	var tmp int64
	if err := h.DB.QueryRow(`SELECT id FROM products WHERE id = ?`, productID).Scan(&tmp); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if req.StockQty < 0 {
		req.StockQty = 0
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := h.DB.Exec(
		`INSERT INTO product_variants (product_id, sku, attributes, price, stock_qty, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		productID, normalizeSKU(req.SKU), marshalAttributes(req.Attributes),
		req.Price, req.StockQty, isActive, now, now,
	)
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce SKU existe déjà"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur création variante: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de la variante"})
		return
	}

	variantID, _ := res.LastInsertId()
	utils.LogAction(h.DB, c, utils.ActionVariantCreate, utils.EntityVariant, &variantID,
		gin.H{"product_id": productID, "sku": req.SKU})

	c.JSON(http.StatusCreated, gin.H{"id": variantID, "product_id": productID})
}

// GetProductVariants - Récupérer les variantes d'un produit
func (h *Handler) GetProductVariants(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	variants, err := loadVariants(h.DB, productID)
	if err != nil {
		log.Printf("❌ Erreur récupération variantes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
		"total":    len(variants),
	})
}

// UpdateProductVariant - Mettre à jour une variante (champs partiels)
func (h *Handler) UpdateProductVariant(c *gin.Context) {
	variantID, err := strconv.ParseInt(c.Param("variant_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
		return
	}

	var req struct {
		SKU        *string            `json:"sku"`
		Attributes *map[string]string `json:"attributes"`
		Price      *float64           `json:"price"`
		IsActive   *bool              `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updates := []string{}
	values := []any{}

	if req.SKU != nil {
		updates = append(updates, "sku = ?")
		values = append(values, normalizeSKU(req.SKU))
	}
	if req.Attributes != nil {
		updates = append(updates, "attributes = ?")
		values = append(values, marshalAttributes(*req.Attributes))
	}
	if req.Price != nil {
		updates = append(updates, "price = ?")
		values = append(values, *req.Price)
	}
	if req.IsActive != nil {
		updates = append(updates, "is_active = ?")
		values = append(values, *req.IsActive)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune mise à jour fournie"})
		return
	}

	updates = append(updates, "updated_at = ?")
	values = append(values, time.Now().UTC().Format(time.RFC3339))
	values = append(values, variantID)

	query := "UPDATE product_variants SET " + updates[0]
	for i := 1; i < len(updates); i++ {
		query += ", " + updates[i]
	}
	query += " WHERE id = ?"

	res, err := h.DB.Exec(query, values...)
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce SKU existe déjà"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur mise à jour variante: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionVariantUpdate, utils.EntityVariant, &variantID, req)
	c.JSON(http.StatusOK, gin.H{"message": "Variante mise à jour avec succès"})
}

// DeleteProductVariant - Supprimer une variante. Ses ajustements de stock
// partent en cascade.
func (h *Handler) DeleteProductVariant(c *gin.Context) {
	variantID, err := strconv.ParseInt(c.Param("variant_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM product_variants WHERE id = ?`, variantID)
	if err != nil {
		log.Printf("❌ Erreur suppression variante: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionVariantDelete, utils.EntityVariant, &variantID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Variante supprimée avec succès"})
}

// GetVariantBySKU - Récupérer une variante par SKU
func (h *Handler) GetVariantBySKU(c *gin.Context) {
	sku := c.Param("sku")

	v, err := scanVariant(h.DB.QueryRow(
		`SELECT `+variantColumns+` FROM product_variants WHERE sku = ?`, sku,
	))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, v)
}
