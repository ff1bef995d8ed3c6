package users

import (
	"context"
	"fmt"

	"github.com/tiendapos/tiendapos/internal/platform/db"
	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
	"github.com/tiendapos/tiendapos/internal/shared"
)

const table = "users"

var (
	columns    = []string{"id", "username", "password", "role"}
	byUsername = []string{sqlbuild.Order("username", sqlbuild.Asc)}
)

// Repository provides user persistence through a db.Client.
type Repository struct {
	client db.Client
}

// NewRepository constructs a repository.
func NewRepository(client db.Client) *Repository {
	return &Repository{client: client}
}

// Create inserts a user whose password is already hashed.
func (r *Repository) Create(ctx context.Context, in Insert) (*User, error) {
	u := User{Username: in.Username, Password: in.Password, Role: in.Role}
	if err := Schema.Check(u); err != nil {
		return nil, err
	}
	q := sqlbuild.Insert(r.client.Dialect(), table, []string{"username", "password", "role"}, []any{u.Username, u.Password, u.Role}, "id")
	id, err := db.ReturningID(ctx, r.client, q)
	if err != nil {
		return nil, fmt.Errorf("users: create: %w", err)
	}
	u.ID = id
	return &u, nil
}

// FindByID returns nil when no user has the id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.first(ctx, "find by id", sqlbuild.NewWhere().Eq("id", id))
}

// FindByUsername returns nil when no user has the username. The auth layer reads
// the password hash through it.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.first(ctx, "find by username", sqlbuild.NewWhere().Eq("username", username))
}

// FindByRole returns the users holding role ordered by username.
func (r *Repository) FindByRole(ctx context.Context, role string) ([]User, error) {
	return r.find(ctx, "find by role", sqlbuild.Select{Table: table, Columns: columns, Where: sqlbuild.NewWhere().Eq("role", role), OrderBy: byUsername})
}

// FindAll returns every user ordered by username.
func (r *Repository) FindAll(ctx context.Context) ([]User, error) {
	return r.find(ctx, "find all", sqlbuild.Select{Table: table, Columns: columns, OrderBy: byUsername})
}

// List pages through users matching the filters ordered by username.
func (r *Repository) List(ctx context.Context, f Filters, page shared.PageRequest) (shared.Page[User], error) {
	page = page.Normalize()
	w := sqlbuild.NewWhere().Contains("username", f.Username)
	if f.Role != "" {
		w.Eq("role", f.Role)
	}
	count, data := sqlbuild.Select{
		Table:   table,
		Columns: columns,
		Where:   w,
		OrderBy: byUsername,
		Limit:   page.Limit,
		Offset:  page.Offset(),
	}.Render(r.client.Dialect())

	total, rows, err := db.CountAndRows(ctx, r.client, count, data)
	if err != nil {
		return shared.Page[User]{}, fmt.Errorf("users: list: %w", err)
	}
	items, err := Schema.Rows(rows)
	if err != nil {
		return shared.Page[User]{}, err
	}
	return shared.NewPage(items, page.Page, page.Limit, total), nil
}

// Update merges the supplied fields over the stored user and writes only those
// columns. It returns nil when the user does not exist.
func (r *Repository) Update(ctx context.Context, in Update) (*User, error) {
	existing, err := r.FindByID(ctx, in.ID)
	if err != nil || existing == nil {
		return nil, err
	}
	merged := *existing
	set := &sqlbuild.Assignments{}
	if in.Username != nil {
		merged.Username = *in.Username
		set.Set("username", merged.Username)
	}
	if in.Password != nil {
		merged.Password = *in.Password
		set.Set("password", merged.Password)
	}
	if in.Role != nil {
		merged.Role = *in.Role
		set.Set("role", merged.Role)
	}
	if err := Schema.Check(merged); err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return &merged, nil
	}
	q := sqlbuild.Update(r.client.Dialect(), table, set, sqlbuild.NewWhere().Eq("id", merged.ID))
	if _, err := db.Run(ctx, r.client, q); err != nil {
		return nil, fmt.Errorf("users: update: %w", err)
	}
	return &merged, nil
}

// UpdatePassword stores a new password hash and reports whether a row changed.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, hash string) (bool, error) {
	set := (&sqlbuild.Assignments{}).Set("password", hash)
	res, err := db.Run(ctx, r.client, sqlbuild.Update(r.client.Dialect(), table, set, sqlbuild.NewWhere().Eq("id", id)))
	if err != nil {
		return false, fmt.Errorf("users: update password: %w", err)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a user and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := db.Run(ctx, r.client, sqlbuild.Delete(r.client.Dialect(), table, sqlbuild.NewWhere().Eq("id", id)))
	if err != nil {
		return false, fmt.Errorf("users: delete: %w", err)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) first(ctx context.Context, op string, where *sqlbuild.Where) (*User, error) {
	items, err := r.find(ctx, op, sqlbuild.Select{Table: table, Columns: columns, Where: where, OrderBy: []string{sqlbuild.Order("id", sqlbuild.Asc)}, Limit: 1})
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (r *Repository) find(ctx context.Context, op string, s sqlbuild.Select) ([]User, error) {
	res, err := db.Run(ctx, r.client, s.SQL(r.client.Dialect()))
	if err != nil {
		return nil, fmt.Errorf("users: %s: %w", op, err)
	}
	return Schema.Rows(res.Rows)
}
