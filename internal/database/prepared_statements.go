package database

import (
	"database/sql"
	"fmt"
)

// Stmt est une requête préparée avec les trois opérations du contrat :
// Get (première ligne), All (toutes les lignes), Run (mutation).
type Stmt struct {
	store *Store
	stmt  *sql.Stmt
}

// Prepare compile une requête et la mémorise : les appels suivants avec le
// même SQL réutilisent le handle compilé.
func (s *Store) Prepare(query string) (*Stmt, error) {
	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()

	if st, ok := s.stmts[query]; ok {
		return st, nil
	}
	prepared, err := s.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("préparation de la requête: %w", err)
	}
	st := &Stmt{store: s, stmt: prepared}
	s.stmts[query] = st
	return st, nil
}

// Get retourne la première ligne correspondante.
func (st *Stmt) Get(args ...any) *sql.Row {
	return st.stmt.QueryRow(args...)
}

// All retourne toutes les lignes correspondantes, dans l'ordre de la requête.
func (st *Stmt) All(args ...any) (*sql.Rows, error) {
	return st.stmt.Query(args...)
}

// RunResult décrit l'effet d'une mutation préparée.
type RunResult struct {
	LastInsertID int64
	RowsChanged  int64
}

// Run exécute la mutation préparée hors transaction puis persiste,
// comme Store.Exec.
func (st *Stmt) Run(args ...any) (RunResult, error) {
	st.store.writeMu.Lock()
	defer st.store.writeMu.Unlock()

	res, err := st.stmt.Exec(args...)
	if err != nil {
		return RunResult{}, err
	}
	if err := st.store.persist(); err != nil {
		return RunResult{}, err
	}
	id, _ := res.LastInsertId()
	n, _ := res.RowsAffected()
	return RunResult{LastInsertID: id, RowsChanged: n}, nil
}

// Requêtes chaudes du catalogue public, compilées une fois au démarrage.
var hotQueries = []string{
	`SELECT id FROM categories WHERE slug = ?`,
	`SELECT id, title, slug, short_description, description, image_path,
	        category_id, status, low_stock_threshold, pricing_tiers,
	        created_at, updated_at
	   FROM products WHERE status = 'published' ORDER BY title`,
	`SELECT id, product_id, sku, attributes, price, stock_qty, is_active,
	        created_at, updated_at
	   FROM product_variants WHERE product_id = ? ORDER BY id`,
}

// WarmupStatements pré-compile les requêtes les plus fréquentes pour éviter
// la latence de compilation au premier appel.
func (s *Store) WarmupStatements() error {
	for _, q := range hotQueries {
		if _, err := s.Prepare(q); err != nil {
			return err
		}
	}
	return nil
}
