package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// BootstrapAdmin crée ou met à jour le compte admin fourni par la
// configuration, clé d'unicité : l'email. Rejouable à chaque démarrage,
// ne crée jamais de doublon.
func (s *Store) BootstrapAdmin(email, password, name string) error {
	if email == "" || password == "" {
		return fmt.Errorf("email et mot de passe admin requis pour le bootstrap")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hachage du mot de passe: %w", err)
	}

	var id int64
	err = s.db.QueryRow("SELECT id FROM admins WHERE email = ?", email).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.Exec(
			`INSERT INTO admins (email, password_hash, name, role, created_at)
			 VALUES (?, ?, ?, 'admin', ?)`,
			email, string(hash), name, time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("création de l'admin bootstrap: %w", err)
		}
		log.Println("✅ Admin bootstrap créé :", email)
	case err != nil:
		return fmt.Errorf("recherche de l'admin bootstrap: %w", err)
	default:
		_, err = s.Exec(
			`UPDATE admins SET password_hash = ?, name = ?, role = 'admin' WHERE id = ?`,
			string(hash), name, id,
		)
		if err != nil {
			return fmt.Errorf("mise à jour de l'admin bootstrap: %w", err)
		}
		log.Println("✅ Admin bootstrap mis à jour :", email)
	}
	return nil
}
