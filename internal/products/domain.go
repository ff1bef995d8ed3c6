package products

import "github.com/tiendapos/tiendapos/internal/validation"

// Product is a sellable item identified by a PREFIX-NUMBER code.
type Product struct {
	ID            string  `json:"id" db:"id" validate:"uuid"`
	Code          string  `json:"code" db:"code"`
	Description   string  `json:"description" db:"description"`
	Provider      string  `json:"provider" db:"provider"`
	PurchasePrice float64 `json:"purchasePrice" db:"purchasePrice" validate:"gte=0"`
	SalePrice     float64 `json:"salePrice" db:"salePrice" validate:"gte=0"`
	Stock         int64   `json:"stock" db:"stock"`
	Metadata      string  `json:"metadata" db:"metadata" default:"{}"`
	CreatedAt     string  `json:"createdAt" db:"createdAt"`
}

// Insert is the payload for Create. ID is generated when empty, Metadata
// defaults to "{}" and CreatedAt to the current time.
type Insert struct {
	ID            string  `json:"id,omitempty"`
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	Provider      string  `json:"provider"`
	PurchasePrice float64 `json:"purchasePrice"`
	SalePrice     float64 `json:"salePrice"`
	Stock         int64   `json:"stock"`
	Metadata      string  `json:"metadata,omitempty"`
	CreatedAt     string  `json:"createdAt,omitempty"`
}

// Update carries the fields to change; nil fields keep their stored value.
type Update struct {
	ID            string   `json:"id"`
	Code          *string  `json:"code,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Provider      *string  `json:"provider,omitempty"`
	PurchasePrice *float64 `json:"purchasePrice,omitempty"`
	SalePrice     *float64 `json:"salePrice,omitempty"`
	Stock         *int64   `json:"stock,omitempty"`
	Metadata      *string  `json:"metadata,omitempty"`
	CreatedAt     *string  `json:"createdAt,omitempty"`
}

// Filters narrows FindAll. Zero values are ignored.
type Filters struct {
	Code             string
	Description      string
	Provider         string
	Stock            *int64
	MinPrice         *float64
	MaxPrice         *float64
	MinPurchasePrice *float64
	MaxPurchasePrice *float64
	StartDate        string
	EndDate          string
}

// Schema validates product rows.
var Schema = validation.Schema[Product]{Entity: "product"}
