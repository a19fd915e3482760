package postgres

import (
	"strings"
	"testing"
	"testing/fstest"
)

func migrationFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys["sql/migrations/"+name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func TestLoadMigrationsFromFS(t *testing.T) {
	fsys := migrationFS(map[string]string{
		"0002_add_products.up.sql":    "CREATE TABLE products (id TEXT)",
		"0002_add_products.down.sql":  "DROP TABLE products",
		"0001_add_customers.up.sql":   "CREATE TABLE customers (id TEXT)",
		"0001_add_customers.down.sql": "DROP TABLE customers",
	})

	migrations, err := loadMigrationsFromFS(fsys)
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}

	// Отсортированы по версии.
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Errorf("expected versions 1, 2, got %d, %d", migrations[0].Version, migrations[1].Version)
	}
	if migrations[0].Name != "add_customers" {
		t.Errorf("expected name add_customers, got %s", migrations[0].Name)
	}
	if !strings.Contains(migrations[0].UpSQL, "CREATE TABLE customers") {
		t.Errorf("unexpected up sql: %s", migrations[0].UpSQL)
	}
	if !strings.Contains(migrations[0].DownSQL, "DROP TABLE customers") {
		t.Errorf("unexpected down sql: %s", migrations[0].DownSQL)
	}
}

func TestLoadMigrationsFromFS_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name:  "no files",
			files: map[string]string{},
		},
		{
			name: "missing down pair",
			files: map[string]string{
				"0001_add_customers.up.sql": "CREATE TABLE customers (id TEXT)",
			},
		},
		{
			name: "invalid file name",
			files: map[string]string{
				"customers.sql": "CREATE TABLE customers (id TEXT)",
			},
		},
		{
			name: "empty body",
			files: map[string]string{
				"0001_add_customers.up.sql":   "   ",
				"0001_add_customers.down.sql": "DROP TABLE customers",
			},
		},
		{
			name: "name mismatch for same version",
			files: map[string]string{
				"0001_add_customers.up.sql":  "CREATE TABLE customers (id TEXT)",
				"0001_add_products.down.sql": "DROP TABLE products",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadMigrationsFromFS(migrationFS(tt.files)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestEmbeddedMigrationsAreWellFormed(t *testing.T) {
	migrations, err := loadMigrationsFromFS(migrationsFS)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}

	for i, m := range migrations {
		if m.UpSQL == "" || m.DownSQL == "" {
			t.Errorf("migration %d_%s missing up or down sql", m.Version, m.Name)
		}
		if i > 0 && migrations[i-1].Version >= m.Version {
			t.Errorf("migrations are not strictly ordered at index %d", i)
		}
	}
}
