package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrPersistence signale que l'état en mémoire a été committé mais que le
// fichier sur disque n'a pas pu être réécrit. Jamais avalé : l'appelant doit
// le remonter au lieu de répondre succès.
var ErrPersistence = errors.New("échec de la persistance sur disque")

// Queryer est l'interface commune entre Store et Tx : les helpers de lecture
// fonctionnent à l'intérieur comme à l'extérieur d'une transaction.
type Queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store encapsule la base SQLite embarquée : un seul fichier de base,
// un répertoire de sauvegardes horodatées à côté, et un verrou global
// d'écriture (au plus un écrivain logique à la fois).
type Store struct {
	db        *sql.DB
	path      string
	backupDir string

	// writeMu sérialise toutes les mutations et transactions d'écriture.
	writeMu sync.Mutex

	stmtMu sync.Mutex
	stmts  map[string]*Stmt
}

// Open ouvre (ou crée) la base dans dataDir et prépare le répertoire de
// sauvegardes. Le schéma est appliqué de façon idempotente à chaque appel.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("création du répertoire de données: %w", err)
	}
	backupDir := filepath.Join(dataDir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("création du répertoire de sauvegardes: %w", err)
	}

	path := filepath.Join(dataDir, "catalogue.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ouverture de la base: %w", err)
	}
	// Une seule connexion : tout passe par le même fil d'exécution SQLite.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:        db,
		path:      path,
		backupDir: backupDir,
		stmts:     make(map[string]*Stmt),
	}

	if err := s.Pragma("journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.Pragma("foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("✅ Base catalogue ouverte :", path)
	return s, nil
}

// Close ferme proprement la base (checkpoint final compris).
func (s *Store) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persist(); err != nil {
		log.Printf("⚠️ Checkpoint final impossible: %v", err)
	}
	s.stmtMu.Lock()
	for _, st := range s.stmts {
		st.stmt.Close()
	}
	s.stmts = make(map[string]*Stmt)
	s.stmtMu.Unlock()
	return s.db.Close()
}

// Pragma exécute une directive de configuration de la base, sans jamais
// déclencher la persistance.
func (s *Store) Pragma(directive string) error {
	if _, err := s.db.Exec("PRAGMA " + directive); err != nil {
		return fmt.Errorf("pragma %s: %w", directive, err)
	}
	return nil
}

// Exec exécute une mutation hors transaction puis persiste immédiatement.
func (s *Store) Exec(query string, args ...any) (sql.Result, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return res, nil
}

// Query exécute une lecture multi-lignes.
func (s *Store) Query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(query, args...)
}

// QueryRow exécute une lecture première-ligne.
func (s *Store) QueryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(query, args...)
}

// Tx est la portée d'une transaction en cours. Les mutations passées par Tx
// ne persistent pas individuellement : un seul checkpoint au COMMIT.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Exec(query string, args ...any) (sql.Result, error) {
	return t.tx.Exec(query, args...)
}

func (t *Tx) Query(query string, args ...any) (*sql.Rows, error) {
	return t.tx.Query(query, args...)
}

func (t *Tx) QueryRow(query string, args ...any) *sql.Row {
	return t.tx.QueryRow(query, args...)
}

// WithTransaction sur une transaction déjà ouverte : imbrication no-op,
// les bornes de la transaction externe gouvernent.
func (t *Tx) WithTransaction(fn func(*Tx) error) error {
	return fn(t)
}

// WithTransaction exécute fn entre BEGIN et COMMIT sous le verrou global
// d'écriture. Toute erreur dans fn déclenche ROLLBACK et est remontée telle
// quelle ; rien n'est persisté. Au COMMIT réussi, un seul checkpoint couvre
// l'ensemble des écritures de la transaction.
func (s *Store) WithTransaction(fn func(*Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("BEGIN: %w", err)
	}

	if err := fn(&Tx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("⚠️ ROLLBACK impossible: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("COMMIT: %w", err)
	}
	return s.persist()
}

// persist force l'image committée dans l'unique fichier de base (checkpoint
// WAL tronqué). La durabilité transactionnelle est celle du moteur ; le
// contrat observable reste « une persistance par transaction ». L'appelant
// doit détenir writeMu.
func (s *Store) persist() error {
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Backup copie l'intégralité de la base dans un fichier horodaté du
// répertoire de sauvegardes et retourne son chemin.
func (s *Store) Backup() (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	name := fmt.Sprintf("catalogue-%s.db", time.Now().Format("20060102-150405"))
	dest := filepath.Join(s.backupDir, name)
	if _, err := s.db.Exec("VACUUM INTO ?", dest); err != nil {
		return "", fmt.Errorf("sauvegarde vers %s: %w", dest, err)
	}
	return dest, nil
}

// Path retourne le chemin du fichier de base.
func (s *Store) Path() string { return s.path }

// IsUniqueViolation détecte une collision de contrainte d'unicité
// (slug, SKU, email) pour la remonter en erreur métier et non en crash.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
