package sales

import (
	"maps"

	"github.com/tiendapos/tiendapos/internal/validation"
)

// SoldProduct records a sale. A sale starts not returned and may move to returned
// once; it never moves back.
type SoldProduct struct {
	ID                 string  `json:"id" db:"id" validate:"uuid"`
	ProductID          string  `json:"productId" db:"productId" validate:"uuid"`
	ProductCode        string  `json:"productCode" db:"productCode"`
	ProductDescription string  `json:"productDescription" db:"productDescription"`
	ProductProvider    string  `json:"productProvider" db:"productProvider"`
	PurchasePrice      float64 `json:"purchasePrice" db:"purchasePrice" validate:"gte=0"`
	SalePrice          float64 `json:"salePrice" db:"salePrice" validate:"gte=0"`
	SoldAt             string  `json:"soldAt" db:"soldAt"`
	SoldBy             string  `json:"soldBy" db:"soldBy"`
	IsReturned         bool    `json:"isReturned" db:"isReturned"`
	ReturnedAt         *string `json:"returnedAt" db:"returnedAt"`
	Details            *string `json:"details" db:"details"`
}

// Insert is the payload for Create. ID is generated when empty and SoldAt
// defaults to the current local time as DD/MM/YYYY HH:mm:ss.
type Insert struct {
	ID                 string  `json:"id,omitempty"`
	ProductID          string  `json:"productId"`
	ProductCode        string  `json:"productCode"`
	ProductDescription string  `json:"productDescription"`
	ProductProvider    string  `json:"productProvider"`
	PurchasePrice      float64 `json:"purchasePrice"`
	SalePrice          float64 `json:"salePrice"`
	SoldAt             string  `json:"soldAt,omitempty"`
	SoldBy             string  `json:"soldBy"`
	IsReturned         bool    `json:"isReturned,omitempty"`
	ReturnedAt         *string `json:"returnedAt,omitempty"`
	Details            *string `json:"details,omitempty"`
}

// Update changes the return state of a sale.
type Update struct {
	ID         string  `json:"id"`
	IsReturned *bool   `json:"isReturned,omitempty"`
	ReturnedAt *string `json:"returnedAt,omitempty"`
}

// Filters narrows List. Zero values are ignored.
type Filters struct {
	ProductID          string
	ProductCode        string
	ProductDescription string
	ProductProvider    string
	SoldBy             string
	IsReturned         *bool
	MinPrice           *float64
	MaxPrice           *float64
	StartDate          string
	EndDate            string
}

// DefaultRetentionMonths is the age after which DeleteOld removes sales.
const DefaultRetentionMonths = 3

// Schema validates sale rows. The stored 0/1 flag becomes a bool and an empty
// details column reads as NULL.
var Schema = validation.Schema[SoldProduct]{Entity: "sold product", Transform: normalizeRow}

func normalizeRow(raw map[string]any) map[string]any {
	out := maps.Clone(raw)
	if out == nil {
		out = map[string]any{}
	}
	out["isReturned"] = validation.Truthy(raw["isReturned"])
	if !validation.Truthy(raw["details"]) {
		out["details"] = nil
	}
	return out
}
