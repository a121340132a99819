package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/erp/procurement/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create purchase orders", "create_purchase_orders"},
		{"Add-Supplier-Rating", "add_supplier_rating"},
		{"ADD_PRICE_LISTS", "add_price_lists"},
		{"add__outbox__index", "add_outbox_index"},
		{"Partition Orders 2026", "partition_orders_2026"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	mf, err := createMigrationAt(dir, "add supplier rating", "Track supplier rating history", now)
	require.NoError(t, err)

	assert.Equal(t, "20260314092653", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20260314092653_add_supplier_rating.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20260314092653_add_supplier_rating.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add supplier rating")
	assert.Contains(t, string(up), "Track supplier rating history")
	assert.Contains(t, string(up), "Write your UP migration SQL here")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
	assert.Contains(t, string(down), "Write your DOWN migration SQL here")

	names, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"20260314092653_add_supplier_rating"}, names)
}

func TestCreateMigration_Errors(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("empty name", func(t *testing.T) {
		_, err := createMigrationAt(dir, "!!!", "", now)
		assert.Error(t, err)
	})

	t.Run("existing file is not overwritten", func(t *testing.T) {
		_, err := createMigrationAt(dir, "dup", "", now)
		require.NoError(t, err)
		_, err = createMigrationAt(dir, "dup", "", now)
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20260301000002_create_purchase_orders.up.sql":   {Data: []byte("--")},
		"20260301000002_create_purchase_orders.down.sql": {Data: []byte("--")},
		"20260301000001_create_suppliers.up.sql":         {Data: []byte("--")},
		"20260301000001_create_suppliers.down.sql":       {Data: []byte("--")},
		"README.md":                  {Data: []byte("docs")},
		"embed.go":                   {Data: []byte("package migrations")},
		"archive.up.sql/placeholder": {Data: []byte("")},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260301000001_create_suppliers",
		"20260301000002_create_purchase_orders",
	}, names)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	names, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCheckPairs(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		fsys := fstest.MapFS{
			"1_a.up.sql":   {},
			"1_a.down.sql": {},
		}
		assert.NoError(t, CheckPairs(fsys))
	})

	t.Run("missing halves", func(t *testing.T) {
		fsys := fstest.MapFS{
			"1_a.up.sql":   {},
			"2_b.down.sql": {},
		}
		err := CheckPairs(fsys)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1_a has no down migration")
		assert.Contains(t, err.Error(), "2_b has no up migration")
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	require.NoError(t, CheckPairs(migrations.FS))

	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260301000001_create_suppliers",
		"20260301000002_create_purchase_orders",
		"20260301000003_create_supplier_price_lists",
		"20260301000004_create_outbox_events",
	}, names)

	up, err := migrations.FS.ReadFile("20260301000002_create_purchase_orders.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "idx_purchase_orders_tenant_number")
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "migrations", FromDir("migrations").String())
	assert.Equal(t, "embedded", FromFS(migrations.FS).String())

	name, drv, err := FromFS(migrations.FS).driver()
	require.NoError(t, err)
	assert.Equal(t, "iofs", name)
	require.NotNil(t, drv)
	first, err := drv.First()
	require.NoError(t, err)
	assert.Equal(t, uint(20260301000001), first)
	require.NoError(t, drv.Close())
}
