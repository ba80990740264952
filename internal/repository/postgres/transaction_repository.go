package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

// Schema is the DDL for the transaction journal. Ids come from a sequence so
// concurrent writers never reuse a number.
const Schema = `
CREATE SEQUENCE IF NOT EXISTS inventory_transaction_seq START WITH 1000;

CREATE TABLE IF NOT EXISTS inventory_transactions (
	id               BIGSERIAL PRIMARY KEY,
	transaction_id   TEXT NOT NULL UNIQUE,
	txn_date         TEXT NOT NULL,
	txn_time         TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	product_id       TEXT NOT NULL,
	product_name     TEXT NOT NULL DEFAULT '',
	transaction_type TEXT NOT NULL,
	quantity         INTEGER NOT NULL,
	unit_price       NUMERIC(14,2) NOT NULL DEFAULT 0,
	total_amount     NUMERIC(14,2) NOT NULL DEFAULT 0,
	previous_stock   INTEGER NOT NULL,
	new_stock        INTEGER NOT NULL,
	customer_info    TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inventory_transactions_product ON inventory_transactions (product_id);
CREATE INDEX IF NOT EXISTS idx_inventory_transactions_date ON inventory_transactions (txn_date);
`

const selectTransactions = `
	SELECT transaction_id, txn_date, txn_time, created_at, product_id, product_name,
		transaction_type, quantity, unit_price, total_amount, previous_stock, new_stock,
		customer_info, notes, status
	FROM inventory_transactions
`

// newestFirst keeps insertion order for rows written in the same instant.
const newestFirst = ` ORDER BY created_at DESC, id DESC`

type transactionRepository struct {
	db *DB
}

// Verify interface compliance
var _ transaction.Log = (*transactionRepository)(nil)

func NewTransactionRepository(db *DB) *transactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) NextID(ctx context.Context) (string, error) {
	var seq int64
	if err := r.db.GetContext(ctx, &seq, `SELECT nextval('inventory_transaction_seq')`); err != nil {
		return "", fmt.Errorf("failed to allocate transaction id: %w", err)
	}
	return transaction.FormatID(seq), nil
}

func (r *transactionRepository) Append(ctx context.Context, t transaction.Transaction) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO inventory_transactions (
				transaction_id, txn_date, txn_time, created_at, product_id, product_name,
				transaction_type, quantity, unit_price, total_amount, previous_stock,
				new_stock, customer_info, notes, status
			) VALUES (
				:transaction_id, :txn_date, :txn_time, :created_at, :product_id, :product_name,
				:transaction_type, :quantity, :unit_price, :total_amount, :previous_stock,
				:new_stock, :customer_info, :notes, :status
			)
		`
		if _, err := tx.NamedExecContext(ctx, query, t); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
		return nil
	})
}

func (r *transactionRepository) List(ctx context.Context, limit int) ([]transaction.Transaction, error) {
	query := selectTransactions + newestFirst
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

func (r *transactionRepository) ByProduct(ctx context.Context, productID string) ([]transaction.Transaction, error) {
	return r.query(ctx, selectTransactions+` WHERE product_id = $1`+newestFirst, productID)
}

func (r *transactionRepository) ByDate(ctx context.Context, date string) ([]transaction.Transaction, error) {
	return r.query(ctx, selectTransactions+` WHERE txn_date = $1`+newestFirst, date)
}

func (r *transactionRepository) query(ctx context.Context, query string, args ...interface{}) ([]transaction.Transaction, error) {
	txns := []transaction.Transaction{}
	if err := r.db.SelectContext(ctx, &txns, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return txns, nil
}
