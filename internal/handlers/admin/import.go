package admin

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/utils"
)

// ImportCatalog - Importer un catalogue, transactionnel de bout en bout :
// soit tout l'import est committé, soit rien.
// ?format=json (défaut) accepte un ExportDocument ;
// ?format=csv accepte une table de produits uniquement.
func (h *Handler) ImportCatalog(c *gin.Context) {
	// Sauvegarde de sécurité avant toute écriture d'import.
	if path, err := h.DB.Backup(); err != nil {
		log.Printf("⚠️ Sauvegarde pré-import impossible: %v", err)
	} else {
		log.Println("💾 Sauvegarde pré-import :", path)
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		h.importJSON(c)
	case "csv":
		h.importCSV(c)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format d'import invalide (json ou csv)"})
	}
}

// importJSON rejoue un ExportDocument en remappant les clés étrangères :
// les identifiants du document sont ceux du système source, jamais réutilisés
// tels quels.
//   - catégorie : si le slug existe déjà, la ligne existante est réutilisée ;
//     sinon insertion, et dans les deux cas (id source -> id réel) est mémorisé ;
//   - produit : la référence catégorie passe par ce mapping (ou NULL) ;
//   - variante : la référence produit passe par le mapping produit ; une
//     variante au produit irrésolu est abandonnée sans erreur.
func (h *Handler) importJSON(c *gin.Context) {
	var doc ExportDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document d'import invalide"})
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var stats struct {
		Categories      int `json:"categories"`
		ReusedCats      int `json:"categories_reused"`
		Products        int `json:"products"`
		Variants        int `json:"variants"`
		DroppedVariants int `json:"variants_dropped"`
	}

	err := h.DB.WithTransaction(func(tx *database.Tx) error {
		categoryIDs := map[int64]int64{} // id source -> id destination
		for _, cat := range doc.Categories {
			slug := utils.Slugify(cat.Slug)
			if slug == "" {
				slug = utils.Slugify(cat.Name)
			}
			if slug == "" {
				continue
			}

			var existingID int64
			err := tx.QueryRow(`SELECT id FROM categories WHERE slug = ?`, slug).Scan(&existingID)
			switch {
			case err == nil:
				categoryIDs[cat.ID] = existingID
				stats.ReusedCats++
			case err == sql.ErrNoRows:
				res, err := tx.Exec(
					`INSERT INTO categories (name, slug, description, banner_title, banner_image, sort_order, is_active, created_at, updated_at)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					cat.Name, slug, cat.Description, cat.BannerTitle, cat.BannerImage,
					cat.SortOrder, cat.IsActive, now, now,
				)
				if err != nil {
					return err
				}
				newID, err := res.LastInsertId()
				if err != nil {
					return err
				}
				categoryIDs[cat.ID] = newID
				stats.Categories++
			default:
				return err
			}
		}

		productIDs := map[int64]int64{} // id source -> id destination
		for _, p := range doc.Products {
			var categoryID *int64
			if p.CategoryID != nil {
				if mapped, ok := categoryIDs[*p.CategoryID]; ok {
					categoryID = &mapped
				}
			}

			tiers, _ := json.Marshal(p.PricingTiers)
			if p.PricingTiers == nil {
				tiers = []byte("[]")
			}

			res, err := tx.Exec(
				`INSERT INTO products (title, slug, short_description, description, image_path,
				                       category_id, status, low_stock_threshold, pricing_tiers,
				                       created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.Title, p.Slug, p.ShortDescription, p.Description, p.ImagePath,
				categoryID, p.Status, p.LowStockThreshold, string(tiers), now, now,
			)
			if err != nil {
				return err
			}
			newID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			productIDs[p.ID] = newID
			stats.Products++
		}

		for _, v := range doc.Variants {
			productID, ok := productIDs[v.ProductID]
			if !ok {
				// Variante orpheline : abandonnée, ni insérée ni en erreur.
				stats.DroppedVariants++
				continue
			}

			attrs, _ := json.Marshal(v.Attributes)
			if v.Attributes == nil {
				attrs = []byte("{}")
			}

			var sku *string
			if v.SKU != nil && *v.SKU != "" {
				sku = v.SKU
			}
			stockQty := v.StockQty
			if stockQty < 0 {
				stockQty = 0
			}

			_, err := tx.Exec(
				`INSERT INTO product_variants (product_id, sku, attributes, price, stock_qty, is_active, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				productID, sku, string(attrs), v.Price, stockQty, v.IsActive, now, now,
			)
			if err != nil {
				return err
			}
			stats.Variants++
		}

		return nil
	})
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "L'import entre en collision avec des slugs ou SKU existants"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur import JSON: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'import — aucune donnée écrite"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionImport, utils.EntityCatalog, nil, stats)

	log.Printf("✅ Import JSON terminé: %d produits, %d variantes (%d abandonnées)",
		stats.Products, stats.Variants, stats.DroppedVariants)
	c.JSON(http.StatusOK, gin.H{"message": "Import terminé", "stats": stats})
}

// importCSV n'accepte que des produits. Les lignes sans titre sont ignorées
// silencieusement ; la catégorie est résolue par slug.
// Colonnes reconnues : title, slug, short_description, description,
// image_path, category_slug, status, low_stock_threshold.
func (h *Handler) importCSV(c *gin.Context) {
	reader := csv.NewReader(c.Request.Body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV vide ou illisible"})
		return
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["title"]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Colonne 'title' manquante"})
		return
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var imported, skipped int
	now := time.Now().UTC().Format(time.RFC3339)

	err = h.DB.WithTransaction(func(tx *database.Tx) error {
		for {
			record, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}

			title := field(record, "title")
			if title == "" {
				skipped++
				continue
			}

			slug := utils.Slugify(field(record, "slug"))
			if slug == "" {
				slug = utils.Slugify(title)
			}

			var categoryID *int64
			if catSlug := field(record, "category_slug"); catSlug != "" {
				var id int64
				if err := tx.QueryRow(`SELECT id FROM categories WHERE slug = ?`, catSlug).Scan(&id); err == nil {
					categoryID = &id
				}
			}

			status := field(record, "status")
			if status != "published" {
				status = "draft"
			}
			threshold := 5
			if t, err := strconv.Atoi(field(record, "low_stock_threshold")); err == nil && t >= 0 {
				threshold = t
			}

			_, err = tx.Exec(
				`INSERT INTO products (title, slug, short_description, description, image_path,
				                       category_id, status, low_stock_threshold, pricing_tiers,
				                       created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, '[]', ?, ?)`,
				title, slug, field(record, "short_description"), field(record, "description"),
				field(record, "image_path"), categoryID, status, threshold, now, now,
			)
			if err != nil {
				return err
			}
			imported++
		}
	})
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "L'import entre en collision avec des slugs existants"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur import CSV: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'import — aucune donnée écrite"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionImport, utils.EntityCatalog, nil,
		gin.H{"format": "csv", "imported": imported, "skipped": skipped})

	log.Printf("✅ Import CSV terminé: %d produits importés, %d lignes ignorées", imported, skipped)
	c.JSON(http.StatusOK, gin.H{"message": "Import terminé", "imported": imported, "skipped": skipped})
}
