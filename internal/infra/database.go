package infra

import (
	"fmt"

	"github.com/bausingcode/bausing-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches for the DDL
// GORM cannot express (ON DELETE behavior, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on Postgres < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Category{},
		&model.CategoryOption{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductVariantOption{},
		&model.ProductSubcategory{},
		&model.ProductImage{},
		&model.Catalog{},
		&model.LocalityCatalog{},
		&model.ProductPrice{},
		&model.Province{},
		&model.Locality{},
		&model.Address{},
		&model.HomepageDistribution{},
		&model.User{},
		&model.AdminUser{},
		&model.DocType{},
		&model.Wallet{},
		&model.WalletMovement{},
		&model.Cart{},
		&model.Order{},
		&model.OrderItem{},
		&model.SaleRetry{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle:
// ON DELETE semantics on foreign keys and the partial index for the retry
// cron. Safe to re-run on an already-patched schema.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Provinces must not disappear under localities or addresses.
		{"localities.province_id ON DELETE RESTRICT", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint
                 WHERE conrelid = to_regclass('localities') AND conname = 'fk_localities_province') THEN
    ALTER TABLE localities
      ADD CONSTRAINT fk_localities_province
      FOREIGN KEY (province_id) REFERENCES provinces(id) ON DELETE RESTRICT;
  END IF;
END $$`},
		{"addresses.province_id ON DELETE RESTRICT", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint
                 WHERE conrelid = to_regclass('addresses') AND conname = 'fk_addresses_province') THEN
    ALTER TABLE addresses
      ADD CONSTRAINT fk_addresses_province
      FOREIGN KEY (province_id) REFERENCES provinces(id) ON DELETE RESTRICT;
  END IF;
END $$`},
		// Catalog delete takes its locality links and prices with it.
		{"locality_catalogs.catalog_id ON DELETE CASCADE", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint
                 WHERE conrelid = to_regclass('locality_catalogs') AND conname = 'fk_locality_catalogs_catalog') THEN
    ALTER TABLE locality_catalogs
      ADD CONSTRAINT fk_locality_catalogs_catalog
      FOREIGN KEY (catalog_id) REFERENCES catalogs(id) ON DELETE CASCADE;
  END IF;
END $$`},
		{"product_prices.catalog_id ON DELETE CASCADE", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint
                 WHERE conrelid = to_regclass('product_prices') AND conname = 'fk_product_prices_catalog') THEN
    ALTER TABLE product_prices
      ADD CONSTRAINT fk_product_prices_catalog
      FOREIGN KEY (catalog_id) REFERENCES catalogs(id) ON DELETE CASCADE;
  END IF;
END $$`},
		// Deleting a product empties its homepage slots instead of dropping them.
		{"homepage.product_id ON DELETE SET NULL", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint
                 WHERE conrelid = to_regclass('homepage_product_distribution')
                   AND conname = 'fk_homepage_product') THEN
    ALTER TABLE homepage_product_distribution
      ADD CONSTRAINT fk_homepage_product
      FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE SET NULL;
  END IF;
END $$`},
		// The model's unique index does not bind null-option rows (Postgres
		// treats NULLs as distinct), so a concurrent re-assign could duplicate
		// a (product, subcategory, NULL) link. A partial unique index closes
		// that hole.
		{"product_subcategories null-option uniqueness", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_product_subcategory_null_option') THEN
    CREATE UNIQUE INDEX idx_product_subcategory_null_option
        ON product_subcategories (product_id, subcategory_id)
        WHERE category_option_id IS NULL;
  END IF;
END $$`},
		// Partial index for the sale retry cron query.
		{"sale_retries pending retry index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sale_retries_pending') THEN
    CREATE INDEX idx_sale_retries_pending
        ON sale_retries (next_retry_at)
        WHERE status = 'pending';
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
