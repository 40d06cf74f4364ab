package postgres

// SQL queries for the orders table.

const (
	// queryLoadOrders returns every order in insertion order.
	// ingest_seq keeps the order stable so first-encountered tie-breaks are reproducible.
	queryLoadOrders = `
		SELECT
			order_id, product, category, quantity,
			price, order_date, customer_id
		FROM orders
		ORDER BY ingest_seq ASC
	`

	// querySaveOrder inserts an order once. Re-seeding the same order_id is a no-op.
	querySaveOrder = `
		INSERT INTO orders (
			order_id, product, category, quantity,
			price, order_date, customer_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO NOTHING
	`

	queryOrdersTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'orders'
		)
	`
)
