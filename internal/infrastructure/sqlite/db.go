// Package sqlite implementa los puertos de persistencia sobre SQLite (sqlx + go-sqlite3).
// Pensado para despliegues de un solo nodo: una conexión de escritura, WAL y las mismas
// garantías de atomicidad que el backend PostgreSQL.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// tsLayout ancho fijo para que el orden lexicográfico de TEXT coincida con el cronológico.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(tsLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(tsLayout, s) }

// Open abre la base y aplica el esquema. Usar ":memory:" para una base efímera.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// SQLite admite un solo escritor; una conexión evita "database is locked" y
	// mantiene ":memory:" como una única base.
	db.SetMaxOpenConns(1)
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	image       TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	category        TEXT NOT NULL DEFAULT '',
	price           TEXT NOT NULL DEFAULT '0',
	discount_price  TEXT,
	cost_price      TEXT NOT NULL DEFAULT '0',
	stock           INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	image           TEXT NOT NULL DEFAULT '',
	images          TEXT NOT NULL DEFAULT '[]',
	rating          TEXT NOT NULL DEFAULT '0',
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

CREATE TABLE IF NOT EXISTS transactions (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL UNIQUE,
	kind          TEXT NOT NULL CHECK (kind IN ('BUY', 'SELL')),
	product_id    TEXT NOT NULL,
	product_name  TEXT NOT NULL,
	quantity      INTEGER NOT NULL CHECK (quantity > 0),
	unit_price    TEXT NOT NULL,
	total         TEXT NOT NULL,
	date          TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date DESC, seq DESC);
CREATE INDEX IF NOT EXISTS idx_transactions_product ON transactions(product_id);

CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	email          TEXT NOT NULL UNIQUE,
	password_hash  TEXT NOT NULL,
	first_name     TEXT NOT NULL DEFAULT '',
	last_name      TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT 'user',
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	seq             INTEGER PRIMARY KEY AUTOINCREMENT,
	id              TEXT NOT NULL UNIQUE,
	user_id         TEXT NOT NULL,
	items           TEXT NOT NULL DEFAULT '[]',
	total_amount    TEXT NOT NULL,
	status          TEXT NOT NULL CHECK (status IN ('pending', 'processing', 'shipped', 'delivered', 'cancelled')),
	payment_status  TEXT NOT NULL CHECK (payment_status IN ('pending', 'completed', 'failed')),
	ship_street     TEXT NOT NULL,
	ship_city       TEXT NOT NULL,
	ship_state      TEXT NOT NULL,
	ship_zip_code   TEXT NOT NULL,
	ship_country    TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC);
`

// Migrate crea las tablas si no existen.
func Migrate(ctx context.Context, db sqlx.ExecerContext) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// Queryer es el subconjunto común de *sqlx.DB y *sqlx.Tx.
type Queryer interface {
	sqlx.ExtContext
}
