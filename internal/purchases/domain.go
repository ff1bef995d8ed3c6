package purchases

import "github.com/tiendapos/tiendapos/internal/validation"

// PurchasedProduct records a stock intake. The product fields are a copy taken at
// purchase time and are not kept in sync with later product edits.
type PurchasedProduct struct {
	ID                 string  `json:"id" db:"id" validate:"uuid"`
	ProductID          string  `json:"productId" db:"productId" validate:"uuid"`
	ProductCode        string  `json:"productCode" db:"productCode"`
	ProductDescription string  `json:"productDescription" db:"productDescription"`
	ProductProvider    string  `json:"productProvider" db:"productProvider"`
	PurchasePrice      float64 `json:"purchasePrice" db:"purchasePrice" validate:"gte=0"`
	Quantity           int64   `json:"quantity" db:"quantity"`
	PurchasedAt        string  `json:"purchasedAt" db:"purchasedAt"`
}

// Insert is the payload for Create. ID is generated when empty and PurchasedAt
// defaults to the current local time as DD/MM/YYYY HH:mm:ss.
type Insert struct {
	ID                 string  `json:"id,omitempty"`
	ProductID          string  `json:"productId"`
	ProductCode        string  `json:"productCode"`
	ProductDescription string  `json:"productDescription"`
	ProductProvider    string  `json:"productProvider"`
	PurchasePrice      float64 `json:"purchasePrice"`
	Quantity           int64   `json:"quantity"`
	PurchasedAt        string  `json:"purchasedAt,omitempty"`
}

// Update changes the product snapshot, price or quantity of a purchase.
type Update struct {
	ID                 string   `json:"id"`
	ProductID          *string  `json:"productId,omitempty"`
	ProductCode        *string  `json:"productCode,omitempty"`
	ProductDescription *string  `json:"productDescription,omitempty"`
	ProductProvider    *string  `json:"productProvider,omitempty"`
	PurchasePrice      *float64 `json:"purchasePrice,omitempty"`
	Quantity           *int64   `json:"quantity,omitempty"`
}

// Filters narrows FindAll. Zero values are ignored.
type Filters struct {
	ProductCode        string
	ProductDescription string
	ProductProvider    string
	MinPrice           *float64
	MaxPrice           *float64
	MinQuantity        *int64
	MaxQuantity        *int64
	StartDate          string
	EndDate            string
}

// DefaultRetentionMonths is the age after which DeleteOld removes purchases.
const DefaultRetentionMonths = 6

// Schema validates purchase rows.
var Schema = validation.Schema[PurchasedProduct]{Entity: "purchase"}
