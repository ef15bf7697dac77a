package database

import (
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// initSchema applique le schéma embarqué. Toutes les instructions sont en
// "create if not exists" : l'appel est sûr quel que soit l'état courant.
func (s *Store) initSchema() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("initialisation du schéma: %w", err)
	}
	return nil
}
