package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallymatic/tallymatic-api/errors"
)

func TestFormatMoney(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"two digits", "12.5", "usd", "12.50 USD"},
		{"zero digits", "1500", "JPY", "1500 JPY"},
		{"three digits", "1.2345", "kwd", "1.234 KWD"},
		{"no currency", "3", "", "3.00"},
		{"negative", "-4.1", "eur", "-4.10 EUR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatMoney(decimal.RequireFromString(tc.amount), tc.currency))
		})
	}
}

func TestProductVariantJSON(t *testing.T) {
	variant := ProductVariant{
		ID:           uuid.New(),
		Title:        "Large",
		ProductID:    uuid.New(),
		Price:        decimal.RequireFromString("19.9"),
		CurrencyCode: "usd",
	}

	raw, err := json.Marshal(variant)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "19.9", body["price"])
	assert.Equal(t, "19.90 USD", body["formatted_price"])
	assert.Equal(t, "Large", body["title"])
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "summer-t-shirt", Slugify("  Summer T-Shirt! "))
	assert.Equal(t, "a1-b2", Slugify("A1 -- b2"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestNewMoney(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		currency string
		wantErr  string
	}{
		{"cents", "19.99", "USD", ""},
		{"trailing zeros", "19.500", "usd", ""},
		{"whole yen", "1500", "jpy", ""},
		{"fils", "1.234", "kwd", ""},
		{"zero", "0", "eur", ""},
		{"negative", "-5.999", "usd", "amount cannot be negative"},
		{"too precise", "1.005", "usd", "more than 2 decimal places"},
		{"yen with fraction", "1.5", "jpy", "more than 0 decimal places"},
		{"bad currency", "1", "us", "three-letter code"},
		{"digits in currency", "1", "u5d", "three-letter code"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			money, err := NewMoney(decimal.RequireFromString(tc.amount), tc.currency)
			if tc.wantErr != "" {
				var appErr *errors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, errors.ValidationError, appErr.Type)
				assert.Contains(t, appErr.Detail, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, money.Amount().Equal(decimal.RequireFromString(tc.amount)))
			assert.Equal(t, strings.ToLower(tc.currency), money.Currency())
		})
	}
}

func TestMoneyString(t *testing.T) {
	money, err := NewMoney(decimal.RequireFromString("7.5"), "GBP")
	require.NoError(t, err)
	assert.Equal(t, "7.50 GBP", money.String())
}

func TestProductVariantRequestValidate(t *testing.T) {
	price := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	jpy := "jpy"

	assert.NoError(t, CreateProductVariantRequest{Price: decimal.RequireFromString("4.99")}.Validate())
	assert.Error(t, CreateProductVariantRequest{Price: decimal.RequireFromString("-5.999")}.Validate())
	assert.Error(t, CreateProductVariantRequest{Price: decimal.RequireFromString("4.5"), CurrencyCode: "JPY"}.Validate())

	assert.NoError(t, UpdateProductVariantRequest{}.Validate())
	assert.NoError(t, UpdateProductVariantRequest{Price: price("1.234")}.Validate())
	assert.Error(t, UpdateProductVariantRequest{Price: price("1.2345")}.Validate())
	assert.Error(t, UpdateProductVariantRequest{Price: price("-1")}.Validate())
	assert.Error(t, UpdateProductVariantRequest{Price: price("3.5"), CurrencyCode: &jpy}.Validate())
}
