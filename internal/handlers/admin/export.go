package admin

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"papeterie_back_end/internal/models"
	"papeterie_back_end/internal/utils"
)

// ExportDocument est l'instantané complet du catalogue, tel que produit par
// l'export JSON et accepté par l'import JSON.
type ExportDocument struct {
	Version              int                          `json:"version"`
	ExportedAt           string                       `json:"exported_at"`
	Categories           []models.Category            `json:"categories"`
	Products             []models.Product             `json:"products"`
	Variants             []models.Variant             `json:"variants"`
	InventoryAdjustments []models.InventoryAdjustment `json:"inventory_adjustments"`
}

// ExportCatalog - Exporter le catalogue.
// ?format=json (défaut) produit l'instantané complet ;
// ?format=csv&type=products|variants|inventory produit une table à plat.
func (h *Handler) ExportCatalog(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	switch format {
	case "json":
		doc, err := h.buildExportDocument()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur construction de l'export"})
			return
		}
		utils.LogAction(h.DB, c, utils.ActionExport, utils.EntityCatalog, nil, gin.H{"format": "json"})
		c.Header("Content-Disposition", `attachment; filename="catalogue-export.json"`)
		c.JSON(http.StatusOK, doc)

	case "csv":
		entityType := c.DefaultQuery("type", "products")
		records, err := h.buildCSVRecords(entityType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		utils.LogAction(h.DB, c, utils.ActionExport, utils.EntityCatalog, nil, gin.H{"format": "csv", "type": entityType})

		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="catalogue-%s.csv"`, entityType))
		w := csv.NewWriter(c.Writer)
		w.WriteAll(records)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format d'export invalide (json ou csv)"})
	}
}

func (h *Handler) buildExportDocument() (*ExportDocument, error) {
	doc := &ExportDocument{
		Version:              1,
		ExportedAt:           time.Now().UTC().Format(time.RFC3339),
		Categories:           []models.Category{},
		Products:             []models.Product{},
		Variants:             []models.Variant{},
		InventoryAdjustments: []models.InventoryAdjustment{},
	}

	rows, err := h.DB.Query(
		`SELECT id, name, slug, description, banner_title, banner_image, sort_order, is_active, created_at, updated_at
		   FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.BannerTitle,
			&cat.BannerImage, &cat.SortOrder, &cat.IsActive, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		doc.Categories = append(doc.Categories, cat)
	}
	rows.Close()

	rows, err = h.DB.Query(
		`SELECT id, title, slug, short_description, description, image_path, category_id,
		        status, low_stock_threshold, pricing_tiers, created_at, updated_at
		   FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p models.Product
		var tiersJSON string
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.ShortDescription, &p.Description,
			&p.ImagePath, &p.CategoryID, &p.Status, &p.LowStockThreshold, &tiersJSON,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		p.PricingTiers = []models.PricingTier{}
		json.Unmarshal([]byte(tiersJSON), &p.PricingTiers)
		doc.Products = append(doc.Products, p)
	}
	rows.Close()

	rows, err = h.DB.Query(
		`SELECT id, product_id, sku, attributes, price, stock_qty, is_active, created_at, updated_at
		   FROM product_variants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var v models.Variant
		var attrsJSON string
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &attrsJSON, &v.Price,
			&v.StockQty, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		v.Attributes = map[string]string{}
		json.Unmarshal([]byte(attrsJSON), &v.Attributes)
		doc.Variants = append(doc.Variants, v)
	}
	rows.Close()

	rows, err = h.DB.Query(
		`SELECT id, variant_id, admin_id, delta, reason, created_at
		   FROM inventory_adjustments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var a models.InventoryAdjustment
		if err := rows.Scan(&a.ID, &a.VariantID, &a.AdminID, &a.Delta, &a.Reason, &a.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		doc.InventoryAdjustments = append(doc.InventoryAdjustments, a)
	}
	rows.Close()

	return doc, nil
}

func (h *Handler) buildCSVRecords(entityType string) ([][]string, error) {
	switch entityType {
	case "products":
		records := [][]string{{"id", "title", "slug", "short_description", "description",
			"image_path", "category_slug", "status", "low_stock_threshold"}}
		rows, err := h.DB.Query(
			`SELECT p.id, p.title, p.slug, p.short_description, p.description, p.image_path,
			        COALESCE(c.slug, ''), p.status, p.low_stock_threshold
			   FROM products p
			   LEFT JOIN categories c ON c.id = p.category_id
			  ORDER BY p.id`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			var title, slug, shortDesc, desc, imagePath, catSlug, status string
			var threshold int
			if err := rows.Scan(&id, &title, &slug, &shortDesc, &desc, &imagePath, &catSlug, &status, &threshold); err != nil {
				return nil, err
			}
			records = append(records, []string{
				strconv.FormatInt(id, 10), title, slug, shortDesc, desc,
				imagePath, catSlug, status, strconv.Itoa(threshold),
			})
		}
		return records, rows.Err()

	case "variants":
		records := [][]string{{"id", "product_id", "sku", "price", "stock_qty", "is_active"}}
		rows, err := h.DB.Query(
			`SELECT id, product_id, COALESCE(sku, ''), COALESCE(price, 0), stock_qty, is_active
			   FROM product_variants ORDER BY id`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var id, productID int64
			var sku string
			var price float64
			var stockQty int
			var isActive bool
			if err := rows.Scan(&id, &productID, &sku, &price, &stockQty, &isActive); err != nil {
				return nil, err
			}
			records = append(records, []string{
				strconv.FormatInt(id, 10), strconv.FormatInt(productID, 10), sku,
				strconv.FormatFloat(price, 'f', 2, 64), strconv.Itoa(stockQty),
				strconv.FormatBool(isActive),
			})
		}
		return records, rows.Err()

	case "inventory":
		records := [][]string{{"id", "variant_id", "admin_id", "delta", "reason", "created_at"}}
		rows, err := h.DB.Query(
			`SELECT id, variant_id, COALESCE(admin_id, 0), delta, reason, created_at
			   FROM inventory_adjustments ORDER BY id`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var id, variantID, adminID int64
			var delta int
			var reason, createdAt string
			if err := rows.Scan(&id, &variantID, &adminID, &delta, &reason, &createdAt); err != nil {
				return nil, err
			}
			records = append(records, []string{
				strconv.FormatInt(id, 10), strconv.FormatInt(variantID, 10),
				strconv.FormatInt(adminID, 10), strconv.Itoa(delta), reason, createdAt,
			})
		}
		return records, rows.Err()

	default:
		return nil, fmt.Errorf("type d'export invalide (products, variants ou inventory)")
	}
}
