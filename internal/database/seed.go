package database

import (
	"fmt"
	"log"
	"time"
)

// seedCategory décrit une catégorie de référence insérée au premier démarrage.
type seedCategory struct {
	name        string
	slug        string
	description string
	sortOrder   int
}

// Catégories de départ pour une boutique vide. Les slugs sont figés ici pour
// rester stables d'une installation à l'autre.
var defaultCategories = []seedCategory{
	{"Reliure", "reliure", "Reliures spirale, thermiques et agrafées", 0},
	{"Papier", "papier", "Papiers d'impression et papiers spéciaux", 1},
	{"Enveloppes", "enveloppes", "Enveloppes et pochettes d'expédition", 2},
	{"Étiquettes", "etiquettes", "Étiquettes adhésives et marquage", 3},
}

// Seed insère les catégories de référence uniquement si la table est vide :
// rejouable à chaque démarrage sans jamais dupliquer ni écraser des données
// saisies par un admin.
func (s *Store) Seed() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("comptage des catégories: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	err := s.WithTransaction(func(tx *Tx) error {
		for _, c := range defaultCategories {
			_, err := tx.Exec(
				`INSERT INTO categories (name, slug, description, sort_order, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				c.name, c.slug, c.description, c.sortOrder, now, now,
			)
			if err != nil {
				return fmt.Errorf("insertion de la catégorie %s: %w", c.slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("✅ %d catégories de référence insérées", len(defaultCategories))
	return nil
}
