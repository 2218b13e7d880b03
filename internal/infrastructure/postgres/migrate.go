package postgres

import (
	"context"
	"fmt"
)

// schema crea las tablas si no existen. Las referencias entre colecciones son
// strings opacos sin FK: el ledger conserva ventas de productos eliminados.
// Los importes usan NUMERIC sin escala para guardar el valor exacto que recibe la API.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	image       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	category        TEXT NOT NULL DEFAULT '',
	price           NUMERIC NOT NULL DEFAULT 0,
	discount_price  NUMERIC,
	cost_price      NUMERIC NOT NULL DEFAULT 0,
	stock           INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	image           TEXT NOT NULL DEFAULT '',
	images          TEXT[] NOT NULL DEFAULT '{}',
	rating          NUMERIC(3,2) NOT NULL DEFAULT 0,
	seq             BIGSERIAL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products (category);

CREATE TABLE IF NOT EXISTS transactions (
	id            TEXT PRIMARY KEY,
	seq           BIGSERIAL,
	kind          TEXT NOT NULL CHECK (kind IN ('BUY', 'SELL')),
	product_id    TEXT NOT NULL,
	product_name  TEXT NOT NULL,
	quantity      INTEGER NOT NULL CHECK (quantity > 0),
	unit_price    NUMERIC NOT NULL CHECK (unit_price >= 0),
	total         NUMERIC NOT NULL,
	date          TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date DESC, seq DESC);
CREATE INDEX IF NOT EXISTS idx_transactions_product ON transactions (product_id);

CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	email          TEXT NOT NULL UNIQUE,
	password_hash  TEXT NOT NULL,
	first_name     TEXT NOT NULL DEFAULT '',
	last_name      TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT 'user',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id               TEXT PRIMARY KEY,
	seq              BIGSERIAL,
	user_id          TEXT NOT NULL,
	items            JSONB NOT NULL DEFAULT '[]',
	total_amount     NUMERIC NOT NULL,
	status           TEXT NOT NULL CHECK (status IN ('pending', 'processing', 'shipped', 'delivered', 'cancelled')),
	payment_status   TEXT NOT NULL CHECK (payment_status IN ('pending', 'completed', 'failed')),
	ship_street      TEXT NOT NULL,
	ship_city        TEXT NOT NULL,
	ship_state       TEXT NOT NULL,
	ship_zip_code    TEXT NOT NULL,
	ship_country     TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id, created_at DESC);

-- Bases creadas con NUMERIC(14,2) redondeaban precios; se quita la escala fija.
ALTER TABLE products ALTER COLUMN price TYPE NUMERIC,
	ALTER COLUMN discount_price TYPE NUMERIC,
	ALTER COLUMN cost_price TYPE NUMERIC;
ALTER TABLE transactions ALTER COLUMN unit_price TYPE NUMERIC,
	ALTER COLUMN total TYPE NUMERIC;
`

// Migrate aplica el esquema. Es idempotente.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
