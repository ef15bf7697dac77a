package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestOpenCreatesLayout(t *testing.T) {
	dataDir := t.TempDir()
	s, err := Open(dataDir)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dataDir, "catalogue.db"))
	assert.NoError(t, err, "le fichier de base doit exister")
	info, err := os.Stat(filepath.Join(dataDir, "backups"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "le répertoire de sauvegardes doit exister")
}

func TestOpenIsIdempotent(t *testing.T) {
	dataDir := t.TempDir()
	s, err := Open(dataDir)
	require.NoError(t, err)

	_, err = s.Exec(
		`INSERT INTO categories (name, slug, created_at, updated_at) VALUES ('Papier', 'papier', '2026-01-01', '2026-01-01')`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Réouverture : le schéma est rejoué sans toucher aux données.
	s, err = Open(dataDir)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 1, countRows(t, s, "categories"))
}

func TestWithTransactionRollback(t *testing.T) {
	s := openTestStore(t)
	boom := errors.New("boom")

	err := s.WithTransaction(func(tx *Tx) error {
		_, err := tx.Exec(
			`INSERT INTO categories (name, slug, created_at, updated_at) VALUES ('Papier', 'papier', '2026-01-01', '2026-01-01')`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom, "l'erreur de fn doit remonter telle quelle")
	assert.Equal(t, 0, countRows(t, s, "categories"), "rien ne doit être committé après rollback")
}

func TestWithTransactionNestedIsNoop(t *testing.T) {
	s := openTestStore(t)

	err := s.WithTransaction(func(tx *Tx) error {
		return tx.WithTransaction(func(inner *Tx) error {
			_, err := inner.Exec(
				`INSERT INTO categories (name, slug, created_at, updated_at) VALUES ('Papier', 'papier', '2026-01-01', '2026-01-01')`)
			return err
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, s, "categories"))
}

func TestWithTransactionNestedErrorRollsBackEverything(t *testing.T) {
	s := openTestStore(t)
	boom := errors.New("boom")

	err := s.WithTransaction(func(tx *Tx) error {
		_, err := tx.Exec(
			`INSERT INTO categories (name, slug, created_at, updated_at) VALUES ('Papier', 'papier', '2026-01-01', '2026-01-01')`)
		require.NoError(t, err)
		return tx.WithTransaction(func(inner *Tx) error {
			return boom
		})
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countRows(t, s, "categories"), "l'erreur imbriquée annule la transaction externe")
}

func TestIsUniqueViolation(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Exec(
		`INSERT INTO categories (name, slug, created_at, updated_at) VALUES ('Papier', 'papier', '2026-01-01', '2026-01-01')`)
	require.NoError(t, err)

	_, err = s.Exec(
		`INSERT INTO categories (name, slug, created_at, updated_at) VALUES ('Papier bis', 'papier', '2026-01-01', '2026-01-01')`)
	assert.True(t, IsUniqueViolation(err), "collision de slug attendue")

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("autre erreur")))
}

func TestBackupWritesTimestampedFile(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Exec(
		`INSERT INTO categories (name, slug, created_at, updated_at) VALUES ('Papier', 'papier', '2026-01-01', '2026-01-01')`)
	require.NoError(t, err)

	path, err := s.Backup()
	require.NoError(t, err)
	assert.Contains(t, path, "backups")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "la sauvegarde ne doit pas être vide")

	// La sauvegarde est une base autonome : restaurée ailleurs, elle se
	// rouvre avec les mêmes données.
	restoreDir := t.TempDir()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(restoreDir, "catalogue.db"), data, 0o644))

	restored, err := Open(restoreDir)
	require.NoError(t, err)
	defer restored.Close()
	assert.Equal(t, 1, countRows(t, restored, "categories"))
}

func TestPreparedStatements(t *testing.T) {
	s := openTestStore(t)

	const insert = `INSERT INTO categories (name, slug, created_at, updated_at) VALUES (?, ?, '2026-01-01', '2026-01-01')`
	st, err := s.Prepare(insert)
	require.NoError(t, err)

	again, err := s.Prepare(insert)
	require.NoError(t, err)
	assert.Same(t, st, again, "le même SQL doit réutiliser le handle compilé")

	res, err := st.Run("Papier", "papier")
	require.NoError(t, err)
	assert.Greater(t, res.LastInsertID, int64(0))
	assert.Equal(t, int64(1), res.RowsChanged)

	get, err := s.Prepare(`SELECT name FROM categories WHERE slug = ?`)
	require.NoError(t, err)
	var name string
	require.NoError(t, get.Get("papier").Scan(&name))
	assert.Equal(t, "Papier", name)

	for i := 0; i < 3; i++ {
		_, err := st.Run(fmt.Sprintf("Cat %d", i), fmt.Sprintf("cat-%d", i))
		require.NoError(t, err)
	}
	all, err := s.Prepare(`SELECT slug FROM categories ORDER BY slug`)
	require.NoError(t, err)
	rows, err := all.All()
	require.NoError(t, err)
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var slug string
		require.NoError(t, rows.Scan(&slug))
		slugs = append(slugs, slug)
	}
	assert.Equal(t, []string{"cat-0", "cat-1", "cat-2", "papier"}, slugs)
}

func TestWarmupStatements(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.WarmupStatements())
	require.NoError(t, s.WarmupStatements(), "rejouable sans erreur")
}

func TestSeedIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Seed())
	first := countRows(t, s, "categories")
	assert.Equal(t, len(defaultCategories), first)

	require.NoError(t, s.Seed())
	assert.Equal(t, first, countRows(t, s, "categories"), "un second seed ne doit rien ajouter")
}

func TestSeedSkipsNonEmptyTable(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Exec(
		`INSERT INTO categories (name, slug, created_at, updated_at) VALUES ('Maison', 'maison', '2026-01-01', '2026-01-01')`)
	require.NoError(t, err)

	require.NoError(t, s.Seed())
	assert.Equal(t, 1, countRows(t, s, "categories"), "le seed ne doit pas toucher une table déjà remplie")
}

func TestBootstrapAdminUpsert(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.BootstrapAdmin("admin@papeterie.test", "premier", "Alice"))
	require.NoError(t, s.BootstrapAdmin("admin@papeterie.test", "second", "Bob"))

	assert.Equal(t, 1, countRows(t, s, "admins"), "le bootstrap ne duplique jamais l'admin")

	var name, hash string
	require.NoError(t, s.QueryRow(
		`SELECT name, password_hash FROM admins WHERE email = ?`, "admin@papeterie.test",
	).Scan(&name, &hash))
	assert.Equal(t, "Bob", name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("second")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("premier")))
}

func TestBootstrapAdminRequiresCredentials(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.BootstrapAdmin("", "motdepasse", "X"))
	assert.Error(t, s.BootstrapAdmin("a@b.test", "", "X"))
}
