// Package postgres archives parsed order summaries alongside the file
// output, so past imports stay queryable after the per-order files move on.
package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/walmart-importer/internal/order/domain"
)

type Archive struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewArchive(log *slog.Logger, pool *pgxpool.Pool) *Archive {
	return &Archive{log: log, pool: pool}
}

// EnsureSchema creates the archive tables when they do not exist yet.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS orders (
			order_no      text PRIMARY KEY,
			url           text NOT NULL,
			order_date    text NOT NULL DEFAULT '',
			payment       text NOT NULL DEFAULT 'N/A',
			payment_brand text NOT NULL DEFAULT '',
			customer_name text NOT NULL DEFAULT '',
			subtotal      numeric(12,2) NOT NULL DEFAULT 0,
			discount      numeric(12,2) NOT NULL DEFAULT 0 CHECK (discount <= 0),
			delivery      numeric(12,2) NOT NULL DEFAULT 0,
			taxes         numeric(12,2) NOT NULL DEFAULT 0,
			total         numeric(12,2) NOT NULL DEFAULT 0,
			raw_html      text NOT NULL DEFAULT '',
			imported_at   timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS order_items (
			order_no   text NOT NULL REFERENCES orders(order_no) ON DELETE CASCADE,
			position   int NOT NULL,
			title      text NOT NULL,
			qty        int NOT NULL,
			price_each numeric(12,2) NOT NULL,
			PRIMARY KEY (order_no, position)
		);
	`)
	return err
}

// Persist upserts the summary and replaces its item rows in one
// transaction, so re-importing an order is idempotent.
func (a *Archive) Persist(ctx context.Context, o domain.OrderSummary, rawHTML string) error {
	tx, err := a.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (order_no, url, order_date, payment, payment_brand, customer_name,
			subtotal, discount, delivery, taxes, total, raw_html, imported_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
		ON CONFLICT (order_no) DO UPDATE SET
			url=$2, order_date=$3, payment=$4, payment_brand=$5, customer_name=$6,
			subtotal=$7, discount=$8, delivery=$9, taxes=$10, total=$11,
			raw_html=$12, imported_at=now()`,
		o.OrderNo, o.URL, o.Date, o.Payment, o.PaymentBrand, o.Name,
		o.Subtotal, o.Discount, o.Delivery, o.Taxes, o.Total, rawHTML)
	if err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM order_items WHERE order_no=$1`, o.OrderNo); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, item := range o.Items {
		batch.Queue(`INSERT INTO order_items (order_no, position, title, qty, price_each)
			VALUES ($1,$2,$3,$4,$5)`,
			o.OrderNo, i, item.Title, item.Qty, item.PriceEach)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}
	a.log.Info("order archived", "order", o.OrderNo, "items", len(o.Items))
	return nil
}

// Get reads one archived summary back, items in insertion order. The raw
// markup is not rehydrated here; it stays in the row for ad hoc queries.
func (a *Archive) Get(ctx context.Context, orderNo string) (domain.OrderSummary, error) {
	var o domain.OrderSummary
	err := a.pool.QueryRow(ctx, `
		SELECT order_no, url, order_date, payment, payment_brand, customer_name,
			subtotal, discount, delivery, taxes, total
		FROM orders WHERE order_no=$1`, orderNo).
		Scan(&o.OrderNo, &o.URL, &o.Date, &o.Payment, &o.PaymentBrand, &o.Name,
			&o.Subtotal, &o.Discount, &o.Delivery, &o.Taxes, &o.Total)
	if err != nil {
		return domain.OrderSummary{}, err
	}

	rows, err := a.pool.Query(ctx, `
		SELECT title, qty, price_each FROM order_items
		WHERE order_no=$1 ORDER BY position`, orderNo)
	if err != nil {
		return domain.OrderSummary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.Title, &item.Qty, &item.PriceEach); err != nil {
			return domain.OrderSummary{}, err
		}
		o.Items = append(o.Items, item)
	}
	return o, rows.Err()
}
