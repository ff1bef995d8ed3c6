package settings

import "github.com/tiendapos/tiendapos/internal/validation"

// Config is a key/value setting. Keys are unique by convention only.
type Config struct {
	ID    int64  `json:"id" db:"id"`
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}

// Insert is the payload for Create. Writes require a key; stored rows with an
// empty key still read back.
type Insert struct {
	Key   string `json:"key" db:"key" validate:"required"`
	Value string `json:"value" db:"value"`
}

// Update carries the fields to change; nil fields keep their stored value.
type Update struct {
	ID    int64   `json:"id"`
	Key   *string `json:"key,omitempty"`
	Value *string `json:"value,omitempty"`
}

// Filters narrows List. Zero values are ignored.
type Filters struct {
	Key   string
	Value string
}

// Schema validates config rows.
var Schema = validation.Schema[Config]{Entity: "config"}

// InsertSchema validates entries before they are written.
var InsertSchema = validation.Schema[Insert]{Entity: "config"}
