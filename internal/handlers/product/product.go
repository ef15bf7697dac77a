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

type variantInput struct {
	SKU        *string           `json:"sku"`
	Attributes map[string]string `json:"attributes"`
	Price      *float64          `json:"price"`
	StockQty   int               `json:"stock_qty"`
	IsActive   *bool             `json:"is_active"`
}

// CreateProduct insère le produit et ses variantes dans une seule
// transaction : soit tout est committé, soit rien.
func (h *Handler) CreateProduct(c *gin.Context) {
	var input struct {
		Title             string               `json:"title" binding:"required"`
		Slug              string               `json:"slug"`
		ShortDescription  string               `json:"short_description"`
		Description       string               `json:"description"`
		ImagePath         string               `json:"image_path" binding:"required"`
		CategoryID        *int64               `json:"category_id"`
		Status            string               `json:"status"`
		LowStockThreshold *int                 `json:"low_stock_threshold"`
		PricingTiers      []models.PricingTier `json:"pricing_tiers"`
		Variants          []variantInput       `json:"variants"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs 'title' et 'image_path' sont obligatoires"})
		return
	}

	if input.Status == "" {
		input.Status = models.StatusDraft
	}
	if input.Status != models.StatusDraft && input.Status != models.StatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide (draft ou published)"})
		return
	}

	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(input.Title)
	}
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Impossible de dériver un slug depuis ce titre"})
		return
	}

	threshold := 5
	if input.LowStockThreshold != nil {
		threshold = *input.LowStockThreshold
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
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var productID int64
	err := h.DB.WithTransaction(func(tx *database.Tx) error {
		res, err := tx.Exec(
			`INSERT INTO products (title, slug, short_description, description, image_path,
			                       category_id, status, low_stock_threshold, pricing_tiers,
			                       created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			input.Title, slug, input.ShortDescription, input.Description, input.ImagePath,
			input.CategoryID, input.Status, threshold, marshalTiers(input.PricingTiers),
			now, now,
		)
		if err != nil {
			return err
		}
		productID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		for _, v := range input.Variants {
			isActive := true
			if v.IsActive != nil {
				isActive = *v.IsActive
			}
			if v.StockQty < 0 {
				v.StockQty = 0
			}
			_, err := tx.Exec(
				`INSERT INTO product_variants (product_id, sku, attributes, price, stock_qty, is_active, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				productID, normalizeSKU(v.SKU), marshalAttributes(v.Attributes),
				v.Price, v.StockQty, isActive, now, now,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Slug produit ou SKU déjà utilisé"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du produit"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionProductCreate, utils.EntityProduct, &productID,
		gin.H{"title": input.Title, "slug": slug, "variants": len(input.Variants)})

	log.Printf("✅ Produit créé: %s (%d variantes)", slug, len(input.Variants))
	c.JSON(http.StatusCreated, gin.H{"id": productID, "slug": slug})
}

// GetProduct retourne un produit et ses variantes.
func (h *Handler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := scanProduct(h.DB.QueryRow(
		`SELECT `+productColumns+` FROM products WHERE id = ?`, productID,
	))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	p.Variants, err = loadVariants(h.DB, p.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture variantes"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetPublishedProducts liste le catalogue public.
func (h *Handler) GetPublishedProducts(c *gin.Context) {
	h.listProducts(c, `SELECT `+productColumns+` FROM products WHERE status = 'published' ORDER BY title`)
}

// GetAllProducts liste tout le catalogue côté admin, brouillons compris.
// ?status=draft|published restreint au statut donné.
func (h *Handler) GetAllProducts(c *gin.Context) {
	status := c.Query("status")
	if status != "" {
		if status != models.StatusDraft && status != models.StatusPublished {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide (draft ou published)"})
			return
		}
		h.listProducts(c, `SELECT `+productColumns+` FROM products WHERE status = ? ORDER BY title`, status)
		return
	}
	h.listProducts(c, `SELECT `+productColumns+` FROM products ORDER BY title`)
}

// GetProductsByCategorySlug liste les produits publiés d'une catégorie.
func (h *Handler) GetProductsByCategorySlug(c *gin.Context) {
	slug := c.Param("slug")

	var categoryID int64
	err := h.DB.QueryRow(`SELECT id FROM categories WHERE slug = ?`, slug).Scan(&categoryID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégorie"})
		return
	}

	h.listProducts(c,
		`SELECT `+productColumns+` FROM products WHERE category_id = ? AND status = 'published' ORDER BY title`,
		categoryID)
}

// SearchProducts fait une recherche LIKE sur titre et descriptions.
func (h *Handler) SearchProducts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}
	pattern := "%" + q + "%"
	h.listProducts(c,
		`SELECT `+productColumns+` FROM products
		  WHERE status = 'published'
		    AND (title LIKE ? OR short_description LIKE ? OR description LIKE ?)
		  ORDER BY title`,
		pattern, pattern, pattern)
}

func (h *Handler) listProducts(c *gin.Context, query string, args ...any) {
	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
			return
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	c.JSON(http.StatusOK, products)
}
