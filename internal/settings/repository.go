package settings

import (
	"context"
	"fmt"

	"github.com/tiendapos/tiendapos/internal/platform/db"
	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
	"github.com/tiendapos/tiendapos/internal/shared"
)

const table = "config"

var (
	columns = []string{"id", "key", "value"}
	byKey   = []string{sqlbuild.Order("key", sqlbuild.Asc)}
)

// Repository persists config entries through a db.Client.
type Repository struct {
	client db.Client
}

// NewRepository constructs a Repository.
func NewRepository(client db.Client) *Repository {
	return &Repository{client: client}
}

// Create inserts an entry and returns it with its assigned id.
func (r *Repository) Create(ctx context.Context, in Insert) (*Config, error) {
	if err := InsertSchema.Check(in); err != nil {
		return nil, err
	}
	c := Config{Key: in.Key, Value: in.Value}
	q := sqlbuild.Insert(r.client.Dialect(), table, []string{"key", "value"}, []any{c.Key, c.Value}, "id")
	id, err := db.ReturningID(ctx, r.client, q)
	if err != nil {
		return nil, fmt.Errorf("settings: create: %w", err)
	}
	c.ID = id
	return &c, nil
}

// FindByID returns nil when no entry has the id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Config, error) {
	return r.first(ctx, "find by id", sqlbuild.NewWhere().Eq("id", id))
}

// FindByKey returns the first entry with the key, or nil.
func (r *Repository) FindByKey(ctx context.Context, key string) (*Config, error) {
	return r.first(ctx, "find by key", sqlbuild.NewWhere().Eq("key", key))
}

// FindAll returns every entry ordered by key.
func (r *Repository) FindAll(ctx context.Context) ([]Config, error) {
	return r.find(ctx, "find all", sqlbuild.Select{Table: table, Columns: columns, OrderBy: byKey})
}

// List pages through entries whose key or value contain the filter text.
func (r *Repository) List(ctx context.Context, f Filters, page shared.PageRequest) (shared.Page[Config], error) {
	page = page.Normalize()
	count, data := sqlbuild.Select{
		Table:   table,
		Columns: columns,
		Where:   sqlbuild.NewWhere().Contains("key", f.Key).Contains("value", f.Value),
		OrderBy: byKey,
		Limit:   page.Limit,
		Offset:  page.Offset(),
	}.Render(r.client.Dialect())

	total, rows, err := db.CountAndRows(ctx, r.client, count, data)
	if err != nil {
		return shared.Page[Config]{}, fmt.Errorf("settings: list: %w", err)
	}
	items, err := Schema.Rows(rows)
	if err != nil {
		return shared.Page[Config]{}, err
	}
	return shared.NewPage(items, page.Page, page.Limit, total), nil
}

// GetValue returns the stored value for key, or def when the key is absent or
// cannot be read.
func (r *Repository) GetValue(ctx context.Context, key, def string) string {
	c, err := r.FindByKey(ctx, key)
	if err != nil || c == nil {
		return def
	}
	return c.Value
}

// Update merges the supplied fields over the stored entry. It returns nil when the
// entry does not exist.
func (r *Repository) Update(ctx context.Context, in Update) (*Config, error) {
	existing, err := r.FindByID(ctx, in.ID)
	if err != nil || existing == nil {
		return nil, err
	}
	merged := *existing
	if in.Key != nil {
		merged.Key = *in.Key
	}
	if in.Value != nil {
		merged.Value = *in.Value
	}
	if err := InsertSchema.Check(Insert{Key: merged.Key, Value: merged.Value}); err != nil {
		return nil, err
	}
	if err := r.write(ctx, merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// UpsertByKey updates the entry holding key in place, or creates it.
func (r *Repository) UpsertByKey(ctx context.Context, key, value string) (*Config, error) {
	existing, err := r.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return r.Create(ctx, Insert{Key: key, Value: value})
	}
	existing.Value = value
	if err := r.write(ctx, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes an entry by id and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.delete(ctx, "delete", sqlbuild.NewWhere().Eq("id", id))
}

// DeleteByKey removes every entry holding key and reports whether any existed.
func (r *Repository) DeleteByKey(ctx context.Context, key string) (bool, error) {
	return r.delete(ctx, "delete by key", sqlbuild.NewWhere().Eq("key", key))
}

func (r *Repository) write(ctx context.Context, c Config) error {
	set := (&sqlbuild.Assignments{}).Set("key", c.Key).Set("value", c.Value)
	q := sqlbuild.Update(r.client.Dialect(), table, set, sqlbuild.NewWhere().Eq("id", c.ID))
	if _, err := db.Run(ctx, r.client, q); err != nil {
		return fmt.Errorf("settings: update: %w", err)
	}
	return nil
}

func (r *Repository) delete(ctx context.Context, op string, where *sqlbuild.Where) (bool, error) {
	res, err := db.Run(ctx, r.client, sqlbuild.Delete(r.client.Dialect(), table, where))
	if err != nil {
		return false, fmt.Errorf("settings: %s: %w", op, err)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) first(ctx context.Context, op string, where *sqlbuild.Where) (*Config, error) {
	items, err := r.find(ctx, op, sqlbuild.Select{Table: table, Columns: columns, Where: where, OrderBy: []string{sqlbuild.Order("id", sqlbuild.Asc)}, Limit: 1})
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (r *Repository) find(ctx context.Context, op string, s sqlbuild.Select) ([]Config, error) {
	res, err := db.Run(ctx, r.client, s.SQL(r.client.Dialect()))
	if err != nil {
		return nil, fmt.Errorf("settings: %s: %w", op, err)
	}
	return Schema.Rows(res.Rows)
}
