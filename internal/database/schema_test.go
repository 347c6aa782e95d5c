package database

import (
	"io/fs"
	"strings"
	"testing"

	"shop-admin/migrations"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := fs.ReadFile(migrations.FS, name)
	if err != nil {
		t.Fatalf("Failed to read migration file %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_roles_table.sql",
		"00002_create_users_table.sql",
		"00003_create_brands_table.sql",
		"00004_create_categories_table.sql",
		"00005_create_products_table.sql",
		"00006_create_cart_items_table.sql",
		"00007_create_sliders_table.sql",
		"00008_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		if _, err := fs.Stat(migrations.FS, migration); err != nil {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		t.Fatalf("Failed to list migrations: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("No SQL migration files found")
	}

	for _, name := range files {
		content := readMigration(t, name)
		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(content, directive) {
				t.Errorf("Migration file %s missing '%s' directive", name, directive)
			}
		}
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"roles":          "00001_create_roles_table.sql",
		"users":          "00002_create_users_table.sql",
		"user_roles":     "00002_create_users_table.sql",
		"addresses":      "00002_create_users_table.sql",
		"brands":         "00003_create_brands_table.sql",
		"categories":     "00004_create_categories_table.sql",
		"products":       "00005_create_products_table.sql",
		"product_images": "00005_create_products_table.sql",
		"cart_items":     "00006_create_cart_items_table.sql",
		"sliders":        "00007_create_sliders_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		content := readMigration(t, migrationFile)

		if !strings.Contains(content, "CREATE TABLE IF NOT EXISTS "+tableName+" (") {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(content, "DROP TABLE IF EXISTS "+tableName+";") {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestRolesMigrationSeedsPredefinedRoles(t *testing.T) {
	content := readMigration(t, "00001_create_roles_table.sql")

	for _, role := range []string{"'USER'", "'ADMIN'"} {
		if !strings.Contains(content, role) {
			t.Errorf("Roles migration does not seed role %s", role)
		}
	}
}

func TestUsersTableHasUniqueConstraints(t *testing.T) {
	content := readMigration(t, "00002_create_users_table.sql")

	for _, constraint := range []string{
		"CONSTRAINT users_username_key UNIQUE (username)",
		"CONSTRAINT users_email_key UNIQUE (email)",
	} {
		if !strings.Contains(content, constraint) {
			t.Errorf("Users table missing constraint: %s", constraint)
		}
	}
}

func TestProductImagesCascadeWithProduct(t *testing.T) {
	content := readMigration(t, "00005_create_products_table.sql")

	if !strings.Contains(content, "REFERENCES products(id) ON DELETE CASCADE") {
		t.Error("Product images are not cascade-deleted with their product")
	}
	for _, status := range []string{"'ACTIVE'", "'OUT_OF_STOCK'", "'DISCONTINUED'"} {
		if !strings.Contains(content, status) {
			t.Errorf("Products status constraint missing value: %s", status)
		}
	}
}

func TestCartItemsReferenceProductsWithoutCascade(t *testing.T) {
	content := readMigration(t, "00006_create_cart_items_table.sql")

	if !strings.Contains(content, "FOREIGN KEY (product_id) REFERENCES products(id),") {
		t.Error("Cart items must reference products so product deletion clears them first")
	}
	if !strings.Contains(content, "UNIQUE (user_id, product_id)") {
		t.Error("Cart items table missing unique constraint on (user_id, product_id)")
	}
}
