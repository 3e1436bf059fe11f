// Package dbtest opens throwaway SQLite databases carrying the service schema.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/db"
)

// The SQLite schema mirrors pkg/migrate/migrations. Decimals are stored as TEXT so
// values round-trip exactly; enum columns are plain TEXT.
var schema = []string{
	`CREATE TABLE hubs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE farmers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		location TEXT NOT NULL,
		relationship_level TEXT NOT NULL,
		upi_id TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		farmer_id TEXT NOT NULL REFERENCES farmers(id),
		name TEXT NOT NULL,
		unit TEXT NOT NULL,
		available_from DATETIME,
		available_to DATETIME,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE batches (
		id TEXT PRIMARY KEY,
		hub_id TEXT NOT NULL REFERENCES hubs(id),
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		open_at DATETIME NOT NULL,
		cutoff_at DATETIME NOT NULL,
		delivery_date DATETIME NOT NULL,
		created_by TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE batch_products (
		id TEXT PRIMARY KEY,
		batch_id TEXT NOT NULL REFERENCES batches(id),
		product_id TEXT NOT NULL REFERENCES products(id),
		price_per_unit TEXT NOT NULL,
		facilitation_percent TEXT NOT NULL,
		min_order_qty TEXT NOT NULL,
		max_order_qty TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		CONSTRAINT ux_batch_products_batch_product UNIQUE (batch_id, product_id)
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		batch_id TEXT NOT NULL REFERENCES batches(id),
		buyer_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PLACED',
		fulfillment_type TEXT NOT NULL,
		estimated_total TEXT NOT NULL,
		facilitation_amt TEXT NOT NULL,
		cancelled_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX ux_orders_active_batch_buyer ON orders (batch_id, buyer_id) WHERE status <> 'CANCELLED'`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		batch_product_id TEXT NOT NULL REFERENCES batch_products(id),
		ordered_qty TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		facilitation_percent TEXT NOT NULL,
		line_total TEXT NOT NULL,
		final_qty TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		stage TEXT NOT NULL,
		amount TEXT NOT NULL,
		method TEXT NOT NULL,
		reference_id TEXT,
		paid_at DATETIME NOT NULL,
		recorded_by TEXT NOT NULL,
		created_at DATETIME,
		CONSTRAINT ux_payments_order_stage UNIQUE (order_id, stage)
	)`,
	`CREATE TABLE farmer_payouts (
		id TEXT PRIMARY KEY,
		batch_id TEXT NOT NULL REFERENCES batches(id),
		farmer_id TEXT NOT NULL REFERENCES farmers(id),
		amount TEXT NOT NULL,
		upi_reference TEXT NOT NULL,
		paid_at DATETIME NOT NULL,
		recorded_by TEXT NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE event_logs (
		id TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		action TEXT NOT NULL,
		metadata TEXT,
		actor_id TEXT,
		created_at DATETIME
	)`,
}

// Open returns a fresh in-memory database with the full schema applied. Each call
// gets its own database; it is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// One connection keeps the in-memory database alive and serialises writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return conn
}

// Client wraps Open in a *db.Client.
func Client(t testing.TB) *db.Client {
	t.Helper()
	return db.NewWithConn(Open(t))
}
