package models

// Statuts de publication d'un produit.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// PricingTier est un palier de prix par quantité minimale de commande.
type PricingTier struct {
	MinQty int     `json:"min_qty"`
	Price  float64 `json:"price"`
}

// Product référence sa catégorie faiblement : la suppression de la catégorie
// remet CategoryID à nil, jamais l'inverse.
type Product struct {
	ID                int64         `json:"id"`
	Title             string        `json:"title"`
	Slug              string        `json:"slug"`
	ShortDescription  string        `json:"short_description"`
	Description       string        `json:"description"`
	ImagePath         string        `json:"image_path"`
	CategoryID        *int64        `json:"category_id"`
	Status            string        `json:"status"`
	LowStockThreshold int           `json:"low_stock_threshold"`
	PricingTiers      []PricingTier `json:"pricing_tiers"`
	CreatedAt         string        `json:"created_at"`
	UpdatedAt         string        `json:"updated_at"`

	Variants []Variant `json:"variants,omitempty"`
}
