package postgres

import "github.com/tallymatic/tallymatic-api/types"

var (
	usersTable = Table{
		Name:     "users",
		Columns:  []string{"id", "name", "email", "password", "role", "is_email_verified", "created_at", "updated_at"},
		Writable: []string{"name", "email", "password", "role", "is_email_verified"},
		Filters:  []string{"name", "role"},
		Sortable: []string{"id", "name", "email", "role", "created_at", "updated_at"},
	}
	storesTable = Table{
		Name:     "stores",
		Columns:  []string{"id", "name", "default_currency_code", "created_at", "updated_at"},
		Writable: []string{"name", "default_currency_code"},
		Filters:  []string{"name"},
		Sortable: []string{"id", "name", "created_at", "updated_at"},
	}
	productTypesTable = Table{
		Name:     "product_types",
		Columns:  []string{"id", "value", "created_at", "updated_at"},
		Writable: []string{"value"},
		Filters:  []string{"value"},
		Sortable: []string{"id", "value", "created_at", "updated_at"},
	}
	productsTable = Table{
		Name: "products",
		Columns: []string{
			"id", "title", "subtitle", "description", "handle", "status",
			"thumbnail", "type_id", "store_id", "created_at", "updated_at",
		},
		Writable: []string{"title", "subtitle", "description", "handle", "status", "thumbnail", "type_id", "store_id"},
		Filters:  []string{"title", "status", "store_id", "type_id"},
		Sortable: []string{"id", "title", "handle", "status", "created_at", "updated_at"},
	}
	productOptionsTable = Table{
		Name:     "product_options",
		Columns:  []string{"id", "title", "product_id", "created_at", "updated_at"},
		Writable: []string{"title", "product_id"},
		Filters:  []string{"title", "product_id"},
		Sortable: []string{"id", "title", "created_at", "updated_at"},
	}
	productVariantsTable = Table{
		Name: "product_variants",
		Columns: []string{
			"id", "title", "product_id", "sku", "barcode", "price", "currency_code",
			"inventory_quantity", "allow_backorder", "manage_inventory", "created_at", "updated_at",
		},
		Writable: []string{
			"title", "product_id", "sku", "barcode", "price", "currency_code",
			"inventory_quantity", "allow_backorder", "manage_inventory",
		},
		Filters:  []string{"title", "sku", "product_id"},
		Sortable: []string{"id", "title", "sku", "price", "inventory_quantity", "created_at", "updated_at"},
	}
	inventoryItemsTable = Table{
		Name: "inventory_items",
		Columns: []string{
			"id", "sku", "variant_id", "location", "stocked_quantity",
			"reserved_quantity", "requires_shipping", "created_at", "updated_at",
		},
		Writable: []string{"sku", "variant_id", "location", "stocked_quantity", "reserved_quantity", "requires_shipping"},
		Filters:  []string{"sku", "variant_id"},
		Sortable: []string{"id", "sku", "location", "stocked_quantity", "created_at", "updated_at"},
	}
)

func NewStoreStore(db Querier) *TableStore[types.Store] {
	return NewTableStore[types.Store](db, storesTable)
}

func NewProductTypeStore(db Querier) *TableStore[types.ProductType] {
	return NewTableStore[types.ProductType](db, productTypesTable)
}

func NewProductStore(db Querier) *TableStore[types.Product] {
	return NewTableStore[types.Product](db, productsTable)
}

func NewProductOptionStore(db Querier) *TableStore[types.ProductOption] {
	return NewTableStore[types.ProductOption](db, productOptionsTable)
}

func NewProductVariantStore(db Querier) *TableStore[types.ProductVariant] {
	return NewTableStore[types.ProductVariant](db, productVariantsTable)
}

func NewInventoryItemStore(db Querier) *TableStore[types.InventoryItem] {
	return NewTableStore[types.InventoryItem](db, inventoryItemsTable)
}
