package models

// Variant appartient à exactement un produit (cascade à la suppression).
// SKU et prix sont optionnels ; le stock ne descend jamais sous zéro.
type Variant struct {
	ID         int64             `json:"id"`
	ProductID  int64             `json:"product_id"`
	SKU        *string           `json:"sku"`
	Attributes map[string]string `json:"attributes"`
	Price      *float64          `json:"price"`
	StockQty   int               `json:"stock_qty"`
	IsActive   bool              `json:"is_active"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
}
