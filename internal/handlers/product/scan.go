package product

import (
	"database/sql"
	"encoding/json"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/models"
)

// Les listes de paliers et les attributs de variantes sont stockés en TEXT
// JSON ; le décodage vers les types du domaine se fait ici, à la frontière
// de l'adaptateur.

const productColumns = `id, title, slug, short_description, description, image_path,
	category_id, status, low_stock_threshold, pricing_tiers, created_at, updated_at`

const variantColumns = `id, product_id, sku, attributes, price, stock_qty, is_active,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var tiersJSON string
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.ShortDescription, &p.Description,
		&p.ImagePath, &p.CategoryID, &p.Status, &p.LowStockThreshold, &tiersJSON,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.PricingTiers = []models.PricingTier{}
	if tiersJSON != "" {
		if err := json.Unmarshal([]byte(tiersJSON), &p.PricingTiers); err != nil {
			return p, err
		}
	}
	return p, nil
}

func scanVariant(row rowScanner) (models.Variant, error) {
	var v models.Variant
	var attrsJSON string
	err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &attrsJSON, &v.Price,
		&v.StockQty, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return v, err
	}
	v.Attributes = map[string]string{}
	if attrsJSON != "" {
		if err := json.Unmarshal([]byte(attrsJSON), &v.Attributes); err != nil {
			return v, err
		}
	}
	return v, nil
}

func loadVariants(q database.Queryer, productID int64) ([]models.Variant, error) {
	rows, err := q.Query(
		`SELECT `+variantColumns+` FROM product_variants WHERE product_id = ? ORDER BY id`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	variants := []models.Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func marshalTiers(tiers []models.PricingTier) string {
	if tiers == nil {
		tiers = []models.PricingTier{}
	}
	data, _ := json.Marshal(tiers)
	return string(data)
}

func marshalAttributes(attrs map[string]string) string {
	if attrs == nil {
		attrs = map[string]string{}
	}
	data, _ := json.Marshal(attrs)
	return string(data)
}

// normalizeSKU range les SKU vides en NULL pour que l'unicité SQL ne
// s'applique qu'aux SKU réellement présents.
func normalizeSKU(sku *string) *string {
	if sku == nil || *sku == "" {
		return nil
	}
	return sku
}

func categoryExists(q database.Queryer, id int64) (bool, error) {
	var found int64
	err := q.QueryRow(`SELECT id FROM categories WHERE id = ?`, id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
