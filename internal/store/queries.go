package store

// SQL query constants organized by entity.
// Postgres queries use pgx named args; SQLite queries use positional ?.

// Price queries.
const (
	queryGetPrice = `
		SELECT price FROM prices
		WHERE store_id = @store_id AND product_id = @product_id`

	queryUpsertPrice = `
		INSERT INTO prices (store_id, product_id, price, updated_at)
		VALUES (@store_id, @product_id, @price, now())
		ON CONFLICT (store_id, product_id) DO UPDATE SET
			price = EXCLUDED.price,
			updated_at = now()`

	sqliteGetPrice = `
		SELECT price FROM prices
		WHERE store_id = ? AND product_id = ?`

	sqliteUpsertPrice = `
		INSERT INTO prices (store_id, product_id, price, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (store_id, product_id) DO UPDATE SET
			price = excluded.price,
			updated_at = excluded.updated_at`
)

// Cookie queries.
const (
	queryCountCookies = `
		SELECT COUNT(*) FROM basket_cookies
		WHERE store_id = $1 AND product_id = $2`

	queryInsertCookie = `
		INSERT INTO basket_cookies (store_id, product_id, value, created_at)
		VALUES ($1, $2, $3, $4)`

	queryListCookies = `
		SELECT value, created_at FROM basket_cookies
		WHERE store_id = $1 AND product_id = $2
		ORDER BY created_at, id`

	sqliteCountCookies = `
		SELECT COUNT(*) FROM basket_cookies
		WHERE store_id = ? AND product_id = ?`

	sqliteInsertCookie = `
		INSERT INTO basket_cookies (store_id, product_id, value, created_at)
		VALUES (?, ?, ?, ?)`

	sqliteListCookies = `
		SELECT value, created_at FROM basket_cookies
		WHERE store_id = ? AND product_id = ?
		ORDER BY created_at, id`
)
