package product

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/models"
	"papeterie_back_end/internal/utils"
)

// AdjustStock applique un delta signé au stock d'une variante. Le nouveau
// stock est écrêté à zéro, mais l'enregistrement d'ajustement garde le delta
// demandé tel quel. Les deux écritures partent dans la même transaction.
// Un delta nul ou non numérique est rejeté avant toute écriture.
func (h *Handler) AdjustStock(c *gin.Context) {
	variantID, err := strconv.ParseInt(c.Param("variant_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
		return
	}

	var req struct {
		Delta  *int   `json:"delta"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'delta' est obligatoire et doit être un entier"})
		return
	}
	if *req.Delta == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Un delta nul n'a aucun effet"})
		return
	}

	var adminID *int64
	if v, ok := c.Get("admin_id"); ok {
		if id, ok := v.(int64); ok {
			adminID = &id
		}
	}

	var oldQty, newQty int
	err = h.DB.WithTransaction(func(tx *database.Tx) error {
		if err := tx.QueryRow(
			`SELECT stock_qty FROM product_variants WHERE id = ?`, variantID,
		).Scan(&oldQty); err != nil {
			return err
		}

		newQty = oldQty + *req.Delta
		if newQty < 0 {
			newQty = 0
		}

		now := time.Now().UTC().Format(time.RFC3339)
		if _, err := tx.Exec(
			`UPDATE product_variants SET stock_qty = ?, updated_at = ? WHERE id = ?`,
			newQty, now, variantID,
		); err != nil {
			return err
		}

		_, err := tx.Exec(
			`INSERT INTO inventory_adjustments (variant_id, admin_id, delta, reason, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			variantID, adminID, *req.Delta, req.Reason, now,
		)
		return err
	})
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur ajustement stock: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'ajustement du stock"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionStockAdjust, utils.EntityVariant, &variantID,
		gin.H{"delta": *req.Delta, "old_qty": oldQty, "new_qty": newQty, "reason": req.Reason})

	h.checkLowStock(variantID, newQty)

	log.Printf("✅ Stock ajusté pour la variante %d: %d -> %d", variantID, oldQty, newQty)
	c.JSON(http.StatusOK, gin.H{
		"variant_id": variantID,
		"old_qty":    oldQty,
		"new_qty":    newQty,
		"delta":      *req.Delta,
	})
}

// GetInventoryAdjustments - Historique des ajustements de stock.
// ?variant_id= restreint à une variante, ?limit= plafonne (max 200).
func (h *Handler) GetInventoryAdjustments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	query := `SELECT id, variant_id, admin_id, delta, reason, created_at
	            FROM inventory_adjustments`
	args := []any{}

	if v := c.Query("variant_id"); v != "" {
		variantID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
			return
		}
		query += " WHERE variant_id = ?"
		args = append(args, variantID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		log.Printf("❌ Erreur récupération ajustements: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer rows.Close()

	adjustments := []models.InventoryAdjustment{}
	for rows.Next() {
		var a models.InventoryAdjustment
		if err := rows.Scan(&a.ID, &a.VariantID, &a.AdminID, &a.Delta, &a.Reason, &a.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		adjustments = append(adjustments, a)
	}

	c.JSON(http.StatusOK, gin.H{
		"adjustments": adjustments,
		"total":       len(adjustments),
	})
}

// GetLowStockVariants liste les variantes actives au niveau ou sous le seuil
// de leur produit.
func (h *Handler) GetLowStockVariants(c *gin.Context) {
	rows, err := h.DB.Query(
		`SELECT v.id, v.product_id, p.title, v.sku, v.stock_qty, p.low_stock_threshold
		   FROM product_variants v
		   JOIN products p ON p.id = v.product_id
		  WHERE v.is_active = 1 AND v.stock_qty <= p.low_stock_threshold
		  ORDER BY v.stock_qty, p.title`,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer rows.Close()

	type lowStockRow struct {
		VariantID int64   `json:"variant_id"`
		ProductID int64   `json:"product_id"`
		Title     string  `json:"title"`
		SKU       *string `json:"sku"`
		StockQty  int     `json:"stock_qty"`
		Threshold int     `json:"threshold"`
	}

	alerts := []lowStockRow{}
	for rows.Next() {
		var r lowStockRow
		if err := rows.Scan(&r.VariantID, &r.ProductID, &r.Title, &r.SKU, &r.StockQty, &r.Threshold); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		alerts = append(alerts, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

// checkLowStock envoie une alerte mail si la variante vient de passer sous le
// seuil de son produit. Best-effort, jamais bloquant.
func (h *Handler) checkLowStock(variantID int64, newQty int) {
	var title string
	var sku sql.NullString
	var threshold int
	err := h.DB.QueryRow(
		`SELECT p.title, v.sku, p.low_stock_threshold
		   FROM product_variants v
		   JOIN products p ON p.id = v.product_id
		  WHERE v.id = ?`, variantID,
	).Scan(&title, &sku, &threshold)
	if err != nil || newQty > threshold {
		return
	}

	go utils.SendLowStockAlert(title, sku.String, newQty, threshold)
}
