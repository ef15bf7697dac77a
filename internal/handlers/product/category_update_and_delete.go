package product

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/utils"
)

func (h *Handler) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	// Champs pointeurs : absent = inchangé, présent (même vide) = écrasé.
	var input struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
		BannerTitle *string `json:"banner_title"`
		BannerImage *string `json:"banner_image"`
		SortOrder   *int    `json:"sort_order"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updates := []string{}
	values := []any{}

	if input.Name != nil {
		updates = append(updates, "name = ?")
		values = append(values, *input.Name)
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
	if input.Description != nil {
		updates = append(updates, "description = ?")
		values = append(values, *input.Description)
	}
	if input.BannerTitle != nil {
		updates = append(updates, "banner_title = ?")
		values = append(values, *input.BannerTitle)
	}
	if input.BannerImage != nil {
		updates = append(updates, "banner_image = ?")
		values = append(values, *input.BannerImage)
	}
	if input.SortOrder != nil {
		updates = append(updates, "sort_order = ?")
		values = append(values, *input.SortOrder)
	}
	if input.IsActive != nil {
		updates = append(updates, "is_active = ?")
		values = append(values, *input.IsActive)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune donnée à mettre à jour"})
		return
	}

	updates = append(updates, "updated_at = ?")
	values = append(values, time.Now().UTC().Format(time.RFC3339))
	values = append(values, categoryID)

	query := "UPDATE categories SET " + updates[0]
	for i := 1; i < len(updates); i++ {
		query += ", " + updates[i]
	}
	query += " WHERE id = ?"

	res, err := h.DB.Exec(query, values...)
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Une catégorie avec ce nom ou ce slug existe déjà"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur mise à jour catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionCategoryUpdate, utils.EntityCategory, &categoryID, input)
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie mise à jour avec succès"})
}

// DeleteCategory détache d'abord les produits de la catégorie (référence à
// NULL, jamais de suppression en cascade des produits) puis supprime la ligne,
// le tout dans une seule transaction.
func (h *Handler) DeleteCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	var deleted int64
	err = h.DB.WithTransaction(func(tx *database.Tx) error {
		if _, err := tx.Exec(`UPDATE products SET category_id = NULL WHERE category_id = ?`, categoryID); err != nil {
			return err
		}
		res, err := tx.Exec(`DELETE FROM categories WHERE id = ?`, categoryID)
		if err != nil {
			return err
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		log.Printf("❌ Erreur suppression catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionCategoryDelete, utils.EntityCategory, &categoryID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée avec succès"})
}
