package users

import "github.com/tiendapos/tiendapos/internal/validation"

// User is an operator account. Password holds a hash, never the plain secret.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username" validate:"required"`
	Password string `json:"-" db:"password" validate:"required"`
	Role     string `json:"role" db:"role" validate:"required"`
}

// Insert is the payload for Create.
type Insert struct {
	Username string
	Password string
	Role     string
}

// Update carries the fields to change; nil fields keep their stored value.
type Update struct {
	ID       int64
	Username *string
	Password *string
	Role     *string
}

// Filters narrows List. Zero values are ignored.
type Filters struct {
	Username string
	Role     string
}

// Schema validates user rows.
var Schema = validation.Schema[User]{Entity: "user"}
