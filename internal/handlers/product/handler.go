package product

import (
	"papeterie_back_end/internal/database"
)

// Handler regroupe les endpoints du catalogue (catégories, produits,
// variantes, stock, images). Le store est injecté au câblage des routes.
type Handler struct {
	DB        *database.Store
	UploadDir string
}
