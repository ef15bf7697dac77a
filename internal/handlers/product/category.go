package product

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/models"
	"papeterie_back_end/internal/utils"
)

func (h *Handler) CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		BannerTitle string `json:"banner_title"`
		BannerImage string `json:"banner_image"`
		SortOrder   int    `json:"sort_order"`
		IsActive    *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}

	// Un slug explicite passe par la même normalisation que le nom.
	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Impossible de dériver un slug depuis ce nom"})
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := h.DB.Exec(
		`INSERT INTO categories (name, slug, description, banner_title, banner_image, sort_order, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Name, slug, input.Description, input.BannerTitle, input.BannerImage,
		input.SortOrder, isActive, now, now,
	)
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Une catégorie avec ce nom ou ce slug existe déjà"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur création catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de la catégorie"})
		return
	}

	id, _ := res.LastInsertId()
	utils.LogAction(h.DB, c, utils.ActionCategoryCreate, utils.EntityCategory, &id, gin.H{"name": input.Name, "slug": slug})

	c.JSON(http.StatusCreated, gin.H{"id": id, "slug": slug})
}

// GetCategories liste les catégories, triées par (sort_order, name).
// ?active=true restreint aux catégories actives.
func (h *Handler) GetCategories(c *gin.Context) {
	query := `SELECT id, name, slug, description, banner_title, banner_image,
	                 sort_order, is_active, created_at, updated_at
	            FROM categories`
	var args []any
	if c.Query("active") == "true" {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY sort_order, name"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description,
			&cat.BannerTitle, &cat.BannerImage, &cat.SortOrder, &cat.IsActive,
			&cat.CreatedAt, &cat.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
			return
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}
