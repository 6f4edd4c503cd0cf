package types

// ResourceDescriptor carries everything the generic HTTP layer needs to know about a
// resource: its permission name, labels for messages and envelope keys, and the query
// fields callers may filter on.
type ResourceDescriptor struct {
	Resource Resource
	// Label is used in messages such as "Product not found".
	Label    string
	Singular string
	Plural   string
	// Object is the value of "object" in delete confirmations.
	Object  string
	Filters []string
	// Path is the route segment under /v1, e.g. "/product-types".
	Path string
}

var (
	UserResource = ResourceDescriptor{
		Resource: ResourceUsers,
		Label:    "User",
		Singular: "user",
		Plural:   "users",
		Object:   "user",
		Filters:  []string{"name", "role"},
		Path:     "/users",
	}
	ProductResource = ResourceDescriptor{
		Resource: ResourceProducts,
		Label:    "Product",
		Singular: "product",
		Plural:   "products",
		Object:   "product",
		Filters:  []string{"title", "status", "store_id", "type_id"},
		Path:     "/products",
	}
	ProductTypeResource = ResourceDescriptor{
		Resource: ResourceProductTypes,
		Label:    "Product type",
		Singular: "product_type",
		Plural:   "product_types",
		Object:   "product_type",
		Filters:  []string{"value"},
		Path:     "/product-types",
	}
	ProductOptionResource = ResourceDescriptor{
		Resource: ResourceProductOptions,
		Label:    "Product option",
		Singular: "product_option",
		Plural:   "product_options",
		Object:   "product_option",
		Filters:  []string{"title", "product_id"},
		Path:     "/product-options",
	}
	ProductVariantResource = ResourceDescriptor{
		Resource: ResourceProductVariants,
		Label:    "Product variant",
		Singular: "product_variant",
		Plural:   "product_variants",
		Object:   "product_variant",
		Filters:  []string{"title", "sku", "product_id"},
		Path:     "/product-variants",
	}
	StoreResource = ResourceDescriptor{
		Resource: ResourceStores,
		Label:    "Store",
		Singular: "store",
		Plural:   "stores",
		Object:   "store",
		Filters:  []string{"name"},
		Path:     "/stores",
	}
	InventoryItemResource = ResourceDescriptor{
		Resource: ResourceInventoryItems,
		Label:    "Inventory item",
		Singular: "inventory_item",
		Plural:   "inventory_items",
		Object:   "inventory_item",
		Filters:  []string{"sku", "variant_id"},
		Path:     "/inventory-items",
	}
)

// Valuer is implemented by create and update request bodies. Values returns the
// column values the body sets; update bodies omit fields that were not sent.
type Valuer interface {
	Values() map[string]any
}

// Validator is implemented by request bodies with rules that binding tags cannot
// express. Validate runs after binding and before the body reaches a service.
type Validator interface {
	Validate() error
}
