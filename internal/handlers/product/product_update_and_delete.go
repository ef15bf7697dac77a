package product

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/models"
	"papeterie_back_end/internal/utils"
)

func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Title             *string               `json:"title"`
		Slug              *string               `json:"slug"`
		ShortDescription  *string               `json:"short_description"`
		Description       *string               `json:"description"`
		ImagePath         *string               `json:"image_path"`
		CategoryID        *int64                `json:"category_id"`
		Status            *string               `json:"status"`
		LowStockThreshold *int                  `json:"low_stock_threshold"`
		PricingTiers      *[]models.PricingTier `json:"pricing_tiers"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updates := []string{}
	values := []any{}

	if input.Title != nil {
		updates = append(updates, "title = ?")
		values = append(values, *input.Title)
	}
	if input.Slug != nil {
		slug := utils.Slugify(*input.Slug)
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slug invalide"})
			return
		}
		updates = append(updates, "slug = ?")
		values = append(values, slug)
	}
	if input.ShortDescription != nil {
		updates = append(updates, "short_description = ?")
		values = append(values, *input.ShortDescription)
	}
	if input.Description != nil {
		updates = append(updates, "description = ?")
		values = append(values, *input.Description)
	}

	var oldImage string
	if input.ImagePath != nil {
		// L'ancienne image sera supprimée (best-effort) après la mise à jour.
		if err := h.DB.QueryRow(`SELECT image_path FROM products WHERE id = ?`, productID).Scan(&oldImage); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		updates = append(updates, "image_path = ?")
		values = append(values, *input.ImagePath)
	}
	if input.CategoryID != nil {
		ok, err := categoryExists(h.DB, *input.CategoryID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégorie"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
			return
		}
		updates = append(updates, "category_id = ?")
		values = append(values, *input.CategoryID)
	}
	if input.Status != nil {
		if *input.Status != models.StatusDraft && *input.Status != models.StatusPublished {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide (draft ou published)"})
			return
		}
		updates = append(updates, "status = ?")
		values = append(values, *input.Status)
	}
	if input.LowStockThreshold != nil {
		updates = append(updates, "low_stock_threshold = ?")
		values = append(values, *input.LowStockThreshold)
	}
	if input.PricingTiers != nil {
		updates = append(updates, "pricing_tiers = ?")
		values = append(values, marshalTiers(*input.PricingTiers))
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune donnée à mettre à jour"})
		return
	}

	updates = append(updates, "updated_at = ?")
	values = append(values, time.Now().UTC().Format(time.RFC3339))
	values = append(values, productID)

	query := "UPDATE products SET " + updates[0]
	for i := 1; i < len(updates); i++ {
		query += ", " + updates[i]
	}
	query += " WHERE id = ?"

	res, err := h.DB.Exec(query, values...)
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Slug produit déjà utilisé"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur mise à jour produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if input.ImagePath != nil && oldImage != "" && oldImage != *input.ImagePath {
		h.removeImageFile(oldImage)
	}

	utils.LogAction(h.DB, c, utils.ActionProductUpdate, utils.EntityProduct, &productID, input)
	c.JSON(http.StatusOK, gin.H{"message": "Produit mis à jour avec succès"})
}

// SetProductStatus bascule un produit entre brouillon et publié.
func (h *Handler) SetProductStatus(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'status' est obligatoire"})
		return
	}
	if input.Status != models.StatusDraft && input.Status != models.StatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide (draft ou published)"})
		return
	}

	res, err := h.DB.Exec(
		`UPDATE products SET status = ?, updated_at = ? WHERE id = ?`,
		input.Status, time.Now().UTC().Format(time.RFC3339), productID,
	)
	if err != nil {
		log.Printf("❌ Erreur changement de statut: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du changement de statut"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionProductStatus, utils.EntityProduct, &productID, gin.H{"status": input.Status})
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour avec succès", "status": input.Status})
}

// DeleteProduct supprime la ligne produit ; les variantes et leurs
// ajustements de stock partent en cascade au niveau du moteur. La suppression
// du fichier image est best-effort et n'empêche jamais celle de la ligne.
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var imagePath, title string
	err = h.DB.QueryRow(`SELECT image_path, title FROM products WHERE id = ?`, productID).Scan(&imagePath, &title)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM products WHERE id = ?`, productID)
	if err != nil {
		log.Printf("❌ Erreur suppression produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	h.removeImageFile(imagePath)

	details, _ := json.Marshal(gin.H{"title": title})
	utils.LogAction(h.DB, c, utils.ActionProductDelete, utils.EntityProduct, &productID, json.RawMessage(details))

	log.Printf("🗑️ Produit supprimé: %s", title)
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé avec succès"})
}

// removeImageFile supprime le fichier d'une image uploadée, best-effort.
func (h *Handler) removeImageFile(imagePath string) {
	if imagePath == "" || h.UploadDir == "" {
		return
	}
	name := filepath.Base(strings.TrimPrefix(imagePath, "/uploads/"))
	if name == "" || name == "." {
		return
	}
	if err := os.Remove(filepath.Join(h.UploadDir, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Suppression de l'image impossible (%s): %v", imagePath, err)
	}
}
