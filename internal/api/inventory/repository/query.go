package inventoryRepository

const (
	queryCreateCategory = `
		INSERT INTO categories (
			id, name, description, icon, created_at, updated_at
		) VALUES (
			:id, :name, :description, :icon, :created_at, :updated_at
		)
	`

	queryUpdateCategory = `
		UPDATE categories
		SET name = COALESCE(:name, name),
			description = COALESCE(:description, description),
			icon = COALESCE(:icon, icon),
			updated_at = :updated_at
		WHERE id = :id
		RETURNING id, name, description, icon, created_at, updated_at
	`

	queryDeleteCategory = `
		DELETE FROM categories WHERE id = :id
	`

	queryGetCategoryByName = `
		SELECT
			id, name, description, icon, created_at, updated_at
		FROM categories
		WHERE name ILIKE :name
		ORDER BY created_at ASC
		LIMIT 1
	`

	queryCreateSubCategory = `
		INSERT INTO sub_categories (
			id, category_id, name, description, icon, created_at
		) VALUES (
			:id, :category_id, :name, :description, :icon, :created_at
		)
	`

	queryCreateProduct = `
		INSERT INTO products (
			id, barcode, name, description, category_id, unit_id, supplier_id,
			stock_warehouse, stock_shelf, stock_min_level,
			price_buying, price_selling, price_currency, vat_rate,
			status, created_at, updated_at
		) VALUES (
			:id, :barcode, :name, :description, :category_id, :unit_id, :supplier_id,
			:stock_warehouse, :stock_shelf, :stock_min_level,
			:price_buying, :price_selling, :price_currency, :vat_rate,
			:status, :created_at, :updated_at
		)
	`

	queryUpdateProduct = `
		UPDATE products
		SET name = COALESCE(:name, name),
			description = COALESCE(:description, description),
			category_id = COALESCE(:category_id, category_id),
			stock_warehouse = COALESCE(:stock_warehouse, stock_warehouse),
			price_selling = COALESCE(:price_selling, price_selling),
			updated_at = :updated_at
		WHERE id = :id
		RETURNING ` + productColumns

	queryDeleteProduct = `
		DELETE FROM products WHERE id = :id
	`

	// Exact id or barcode hits rank before partial name matches.
	queryFindProduct = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = :identifier
			OR barcode = :identifier
			OR name ILIKE '%' || :identifier || '%'
		ORDER BY (id = :identifier OR barcode = :identifier) DESC, length(name) ASC
		LIMIT 1
	`

	productColumns = `
		id, barcode, name, description, category_id, unit_id, supplier_id,
		stock_warehouse, stock_shelf, stock_min_level,
		price_buying, price_selling, price_currency, vat_rate,
		status, created_at, updated_at
	`

	queryCreateSupplier = `
		INSERT INTO suppliers (
			id, name, contact_person, phone, email, address, status, created_at, updated_at
		) VALUES (
			:id, :name, :contact_person, :phone, :email, :address, :status, :created_at, :updated_at
		)
	`

	queryUpdateSupplier = `
		UPDATE suppliers
		SET name = COALESCE(:name, name),
			contact_person = COALESCE(:contact_person, contact_person),
			phone = COALESCE(:phone, phone),
			email = COALESCE(:email, email),
			updated_at = :updated_at
		WHERE id = :id
		RETURNING id, name, contact_person, phone, email, address, status, created_at, updated_at
	`

	queryDeleteSupplier = `
		DELETE FROM suppliers WHERE id = :id
	`

	queryGetSupplierByName = `
		SELECT
			id, name, contact_person, phone, email, address, status, created_at, updated_at
		FROM suppliers
		WHERE name ILIKE :name
		ORDER BY created_at ASC
		LIMIT 1
	`

	queryCreateUnit = `
		INSERT INTO units (
			id, name, short_name, type, status, created_at
		) VALUES (
			:id, :name, :short_name, :type, :status, :created_at
		)
	`

	queryUpdateUnit = `
		UPDATE units
		SET name = COALESCE(:name, name),
			short_name = COALESCE(:short_name, short_name)
		WHERE id = :id
		RETURNING id, name, short_name, type, status, created_at
	`

	queryDeleteUnit = `
		DELETE FROM units WHERE id = :id
	`

	queryGetUnitByName = `
		SELECT
			id, name, short_name, type, status, created_at
		FROM units
		WHERE name ILIKE :name OR short_name ILIKE :name
		ORDER BY created_at ASC
		LIMIT 1
	`

	queryCreateStockMovement = `
		INSERT INTO stock_movements (
			id, type, product_id, quantity, unit_id, price, total_price,
			description, status, created_at
		) VALUES (
			:id, :type, :product_id, :quantity, :unit_id, :price, :total_price,
			:description, :status, :created_at
		)
	`
)
