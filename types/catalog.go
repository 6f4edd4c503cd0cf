package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus tracks a product through review and publication.
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusProposed  ProductStatus = "proposed"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusRejected  ProductStatus = "rejected"
)

type Store struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	DefaultCurrencyCode string    `json:"default_currency_code" db:"default_currency_code"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

type CreateStoreRequest struct {
	Name                string `json:"name" binding:"required"`
	DefaultCurrencyCode string `json:"default_currency_code" binding:"omitempty,len=3,alpha"`
}

func (r CreateStoreRequest) Values() map[string]any {
	values := map[string]any{"name": strings.TrimSpace(r.Name)}
	if r.DefaultCurrencyCode != "" {
		values["default_currency_code"] = strings.ToLower(r.DefaultCurrencyCode)
	}
	return values
}

type UpdateStoreRequest struct {
	Name                *string `json:"name" binding:"omitempty,min=1"`
	DefaultCurrencyCode *string `json:"default_currency_code" binding:"omitempty,len=3,alpha"`
}

func (r UpdateStoreRequest) Values() map[string]any {
	values := map[string]any{}
	if r.Name != nil {
		values["name"] = strings.TrimSpace(*r.Name)
	}
	if r.DefaultCurrencyCode != nil {
		values["default_currency_code"] = strings.ToLower(*r.DefaultCurrencyCode)
	}
	return values
}

type ProductType struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Value     string    `json:"value" db:"value"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateProductTypeRequest struct {
	Value string `json:"value" binding:"required"`
}

func (r CreateProductTypeRequest) Values() map[string]any {
	return map[string]any{"value": strings.TrimSpace(r.Value)}
}

type UpdateProductTypeRequest struct {
	Value *string `json:"value" binding:"omitempty,min=1"`
}

func (r UpdateProductTypeRequest) Values() map[string]any {
	values := map[string]any{}
	if r.Value != nil {
		values["value"] = strings.TrimSpace(*r.Value)
	}
	return values
}

type Product struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Subtitle    *string       `json:"subtitle" db:"subtitle"`
	Description *string       `json:"description" db:"description"`
	Handle      string        `json:"handle" db:"handle"`
	Status      ProductStatus `json:"status" db:"status"`
	Thumbnail   *string       `json:"thumbnail" db:"thumbnail"`
	TypeID      *uuid.UUID    `json:"type_id" db:"type_id"`
	StoreID     *uuid.UUID    `json:"store_id" db:"store_id"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

type CreateProductRequest struct {
	Title       string        `json:"title" binding:"required"`
	Subtitle    *string       `json:"subtitle"`
	Description *string       `json:"description"`
	Handle      string        `json:"handle"`
	Status      ProductStatus `json:"status" binding:"omitempty,oneof=draft proposed published rejected"`
	Thumbnail   *string       `json:"thumbnail" binding:"omitempty,url"`
	TypeID      *uuid.UUID    `json:"type_id"`
	StoreID     *uuid.UUID    `json:"store_id"`
}

func (r CreateProductRequest) Values() map[string]any {
	handle := r.Handle
	if handle == "" {
		handle = Slugify(r.Title)
	}
	status := r.Status
	if status == "" {
		status = ProductStatusDraft
	}
	return map[string]any{
		"title":       strings.TrimSpace(r.Title),
		"subtitle":    r.Subtitle,
		"description": r.Description,
		"handle":      handle,
		"status":      string(status),
		"thumbnail":   r.Thumbnail,
		"type_id":     r.TypeID,
		"store_id":    r.StoreID,
	}
}

type UpdateProductRequest struct {
	Title       *string        `json:"title" binding:"omitempty,min=1"`
	Subtitle    *string        `json:"subtitle"`
	Description *string        `json:"description"`
	Handle      *string        `json:"handle" binding:"omitempty,min=1"`
	Status      *ProductStatus `json:"status" binding:"omitempty,oneof=draft proposed published rejected"`
	Thumbnail   *string        `json:"thumbnail" binding:"omitempty,url"`
	TypeID      *uuid.UUID     `json:"type_id"`
	StoreID     *uuid.UUID     `json:"store_id"`
}

func (r UpdateProductRequest) Values() map[string]any {
	values := map[string]any{}
	if r.Title != nil {
		values["title"] = strings.TrimSpace(*r.Title)
	}
	if r.Subtitle != nil {
		values["subtitle"] = *r.Subtitle
	}
	if r.Description != nil {
		values["description"] = *r.Description
	}
	if r.Handle != nil {
		values["handle"] = *r.Handle
	}
	if r.Status != nil {
		values["status"] = string(*r.Status)
	}
	if r.Thumbnail != nil {
		values["thumbnail"] = *r.Thumbnail
	}
	if r.TypeID != nil {
		values["type_id"] = *r.TypeID
	}
	if r.StoreID != nil {
		values["store_id"] = *r.StoreID
	}
	return values
}

type ProductOption struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateProductOptionRequest struct {
	Title     string    `json:"title" binding:"required"`
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

func (r CreateProductOptionRequest) Values() map[string]any {
	return map[string]any{
		"title":      strings.TrimSpace(r.Title),
		"product_id": r.ProductID,
	}
}

type UpdateProductOptionRequest struct {
	Title *string `json:"title" binding:"omitempty,min=1"`
}

func (r UpdateProductOptionRequest) Values() map[string]any {
	values := map[string]any{}
	if r.Title != nil {
		values["title"] = strings.TrimSpace(*r.Title)
	}
	return values
}

type ProductVariant struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	Title             string          `json:"title" db:"title"`
	ProductID         uuid.UUID       `json:"product_id" db:"product_id"`
	SKU               *string         `json:"sku" db:"sku"`
	Barcode           *string         `json:"barcode" db:"barcode"`
	Price             decimal.Decimal `json:"price" db:"price"`
	CurrencyCode      string          `json:"currency_code" db:"currency_code"`
	InventoryQuantity int             `json:"inventory_quantity" db:"inventory_quantity"`
	AllowBackorder    bool            `json:"allow_backorder" db:"allow_backorder"`
	ManageInventory   bool            `json:"manage_inventory" db:"manage_inventory"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// MarshalJSON adds the display price next to the raw amount.
func (v ProductVariant) MarshalJSON() ([]byte, error) {
	type plain ProductVariant
	return json.Marshal(struct {
		plain
		FormattedPrice string `json:"formatted_price"`
	}{
		plain:          plain(v),
		FormattedPrice: FormatMoney(v.Price, v.CurrencyCode),
	})
}

type CreateProductVariantRequest struct {
	Title             string          `json:"title" binding:"required"`
	ProductID         uuid.UUID       `json:"product_id" binding:"required"`
	SKU               *string         `json:"sku"`
	Barcode           *string         `json:"barcode"`
	Price             decimal.Decimal `json:"price"`
	CurrencyCode      string          `json:"currency_code" binding:"omitempty,len=3,alpha"`
	InventoryQuantity int             `json:"inventory_quantity" binding:"gte=0"`
	AllowBackorder    bool            `json:"allow_backorder"`
	ManageInventory   *bool           `json:"manage_inventory"`
}

func (r CreateProductVariantRequest) currency() string {
	if r.CurrencyCode == "" {
		return "usd"
	}
	return r.CurrencyCode
}

func (r CreateProductVariantRequest) Validate() error {
	_, err := NewMoney(r.Price, r.currency())
	return err
}

func (r CreateProductVariantRequest) Values() map[string]any {
	currency := r.currency()
	manage := true
	if r.ManageInventory != nil {
		manage = *r.ManageInventory
	}
	return map[string]any{
		"title":              strings.TrimSpace(r.Title),
		"product_id":         r.ProductID,
		"sku":                r.SKU,
		"barcode":            r.Barcode,
		"price":              r.Price,
		"currency_code":      strings.ToLower(currency),
		"inventory_quantity": r.InventoryQuantity,
		"allow_backorder":    r.AllowBackorder,
		"manage_inventory":   manage,
	}
}

type UpdateProductVariantRequest struct {
	Title             *string          `json:"title" binding:"omitempty,min=1"`
	SKU               *string          `json:"sku"`
	Barcode           *string          `json:"barcode"`
	Price             *decimal.Decimal `json:"price"`
	CurrencyCode      *string          `json:"currency_code" binding:"omitempty,len=3,alpha"`
	InventoryQuantity *int             `json:"inventory_quantity" binding:"omitempty,gte=0"`
	AllowBackorder    *bool            `json:"allow_backorder"`
	ManageInventory   *bool            `json:"manage_inventory"`
}

// Validate checks the price against the currency sent with it. Without a currency
// the price is held to the widest precision any currency allows.
func (r UpdateProductVariantRequest) Validate() error {
	if r.Price == nil {
		return nil
	}
	if r.CurrencyCode != nil {
		_, err := NewMoney(*r.Price, *r.CurrencyCode)
		return err
	}
	return checkAmount(*r.Price, maxMinorDigits)
}

func (r UpdateProductVariantRequest) Values() map[string]any {
	values := map[string]any{}
	if r.Title != nil {
		values["title"] = strings.TrimSpace(*r.Title)
	}
	if r.SKU != nil {
		values["sku"] = *r.SKU
	}
	if r.Barcode != nil {
		values["barcode"] = *r.Barcode
	}
	if r.Price != nil {
		values["price"] = *r.Price
	}
	if r.CurrencyCode != nil {
		values["currency_code"] = strings.ToLower(*r.CurrencyCode)
	}
	if r.InventoryQuantity != nil {
		values["inventory_quantity"] = *r.InventoryQuantity
	}
	if r.AllowBackorder != nil {
		values["allow_backorder"] = *r.AllowBackorder
	}
	if r.ManageInventory != nil {
		values["manage_inventory"] = *r.ManageInventory
	}
	return values
}

type InventoryItem struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	SKU              string     `json:"sku" db:"sku"`
	VariantID        *uuid.UUID `json:"variant_id" db:"variant_id"`
	Location         string     `json:"location" db:"location"`
	StockedQuantity  int        `json:"stocked_quantity" db:"stocked_quantity"`
	ReservedQuantity int        `json:"reserved_quantity" db:"reserved_quantity"`
	RequiresShipping bool       `json:"requires_shipping" db:"requires_shipping"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateInventoryItemRequest struct {
	SKU              string     `json:"sku" binding:"required"`
	VariantID        *uuid.UUID `json:"variant_id"`
	Location         string     `json:"location"`
	StockedQuantity  int        `json:"stocked_quantity" binding:"gte=0"`
	ReservedQuantity int        `json:"reserved_quantity" binding:"gte=0"`
	RequiresShipping *bool      `json:"requires_shipping"`
}

func (r CreateInventoryItemRequest) Values() map[string]any {
	shipping := true
	if r.RequiresShipping != nil {
		shipping = *r.RequiresShipping
	}
	return map[string]any{
		"sku":               strings.TrimSpace(r.SKU),
		"variant_id":        r.VariantID,
		"location":          r.Location,
		"stocked_quantity":  r.StockedQuantity,
		"reserved_quantity": r.ReservedQuantity,
		"requires_shipping": shipping,
	}
}

type UpdateInventoryItemRequest struct {
	SKU              *string    `json:"sku" binding:"omitempty,min=1"`
	VariantID        *uuid.UUID `json:"variant_id"`
	Location         *string    `json:"location"`
	StockedQuantity  *int       `json:"stocked_quantity" binding:"omitempty,gte=0"`
	ReservedQuantity *int       `json:"reserved_quantity" binding:"omitempty,gte=0"`
	RequiresShipping *bool      `json:"requires_shipping"`
}

func (r UpdateInventoryItemRequest) Values() map[string]any {
	values := map[string]any{}
	if r.SKU != nil {
		values["sku"] = strings.TrimSpace(*r.SKU)
	}
	if r.VariantID != nil {
		values["variant_id"] = *r.VariantID
	}
	if r.Location != nil {
		values["location"] = *r.Location
	}
	if r.StockedQuantity != nil {
		values["stocked_quantity"] = *r.StockedQuantity
	}
	if r.ReservedQuantity != nil {
		values["reserved_quantity"] = *r.ReservedQuantity
	}
	if r.RequiresShipping != nil {
		values["requires_shipping"] = *r.RequiresShipping
	}
	return values
}

// Slugify derives a URL handle from a title.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
