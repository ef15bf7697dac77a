package models

// InventoryAdjustment est un enregistrement append-only : le delta stocké est
// celui demandé, pas le résultat écrêté.
type InventoryAdjustment struct {
	ID        int64  `json:"id"`
	VariantID int64  `json:"variant_id"`
	AdminID   *int64 `json:"admin_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}
