package types

import "strings"

// Action is an operation a principal performs on a resource.
type Action string

// Resource names an entity collection guarded by the permission checker.
type Resource string

// Role is a named grant holder attached to a user.
type Role string

const (
	ActionCreate Action = "create"
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

const (
	ResourceUsers           Resource = "users"
	ResourceProducts        Resource = "products"
	ResourceProductTypes    Resource = "product_types"
	ResourceProductOptions  Resource = "product_options"
	ResourceProductVariants Resource = "product_variants"
	ResourceStores          Resource = "stores"
	ResourceInventoryItems  Resource = "inventory_items"
)

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// AllActions lists every action in a stable order.
var AllActions = []Action{ActionCreate, ActionList, ActionRead, ActionUpdate, ActionDelete}

// AllResources lists every guarded resource in a stable order.
var AllResources = []Resource{
	ResourceUsers,
	ResourceProducts,
	ResourceProductTypes,
	ResourceProductOptions,
	ResourceProductVariants,
	ResourceStores,
	ResourceInventoryItems,
}

func (a Action) String() string {
	return string(a)
}

func (r Resource) String() string {
	return string(r)
}

// Words renders the resource for human-readable messages ("product_types" -> "product types").
func (r Resource) Words() string {
	return strings.ReplaceAll(string(r), "_", " ")
}

func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionList, ActionRead, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

func (r Resource) IsValid() bool {
	for _, known := range AllResources {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}
