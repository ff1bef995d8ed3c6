package products

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tiendapos/tiendapos/internal/platform/db"
	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
	"github.com/tiendapos/tiendapos/internal/shared"
)

const table = "products"

var columns = []string{"id", "code", "description", "provider", "purchasePrice", "salePrice", "stock", "metadata", "createdAt"}

// Repository persists products through a db.Client.
type Repository struct {
	client db.Client
	now    func() time.Time
}

// Option customises a Repository.
type Option func(*Repository)

// WithClock overrides the clock used for default timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// NewRepository constructs a Repository.
func NewRepository(client db.Client, opts ...Option) *Repository {
	r := &Repository{client: client, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates and inserts a product.
func (r *Repository) Create(ctx context.Context, in Insert) (*Product, error) {
	p := Product{
		ID:            in.ID,
		Code:          in.Code,
		Description:   in.Description,
		Provider:      in.Provider,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Stock:         in.Stock,
		Metadata:      in.Metadata,
		CreatedAt:     in.CreatedAt,
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Metadata == "" {
		p.Metadata = "{}"
	}
	if p.CreatedAt == "" {
		p.CreatedAt = r.now().UTC().Format(time.RFC3339)
	}
	if err := Schema.Check(p); err != nil {
		return nil, err
	}
	q := sqlbuild.Insert(r.client.Dialect(), table, columns, p.values(), "")
	if _, err := db.Run(ctx, r.client, q); err != nil {
		return nil, fmt.Errorf("products: create: %w", err)
	}
	return &p, nil
}

// FindByID returns nil when no product has the id.
func (r *Repository) FindByID(ctx context.Context, id string) (*Product, error) {
	return r.findOne(ctx, "find by id", sqlbuild.NewWhere().Eq("id", id))
}

// FindByCode returns nil when no product has the code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*Product, error) {
	return r.findOne(ctx, "find by code", sqlbuild.NewWhere().Eq("code", code))
}

func (r *Repository) findOne(ctx context.Context, op string, where *sqlbuild.Where) (*Product, error) {
	q := sqlbuild.Select{Table: table, Columns: columns, Where: where, Limit: 1}.SQL(r.client.Dialect())
	res, err := db.Run(ctx, r.client, q)
	if err != nil {
		return nil, fmt.Errorf("products: %s: %w", op, err)
	}
	if len(res.Rows) == 0 {
		return nil, nil
	}
	p, err := Schema.Row(res.Rows[0])
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll lists products matching the filters in natural code order.
func (r *Repository) FindAll(ctx context.Context, f Filters, page shared.PageRequest) (shared.Page[Product], error) {
	page = page.Normalize()
	d := r.client.Dialect()
	count, data := sqlbuild.Select{
		Table:   table,
		Columns: columns,
		Where:   f.where(),
		OrderBy: []string{d.CodeOrder(sqlbuild.Ident("code"), sqlbuild.Asc)},
		Limit:   page.Limit,
		Offset:  page.Offset(),
	}.Render(d)

	total, rows, err := db.CountAndRows(ctx, r.client, count, data)
	if err != nil {
		return shared.Page[Product]{}, fmt.Errorf("products: find all: %w", err)
	}
	items, err := Schema.Rows(rows)
	if err != nil {
		return shared.Page[Product]{}, err
	}
	return shared.NewPage(items, page.Page, page.Limit, total), nil
}

// FindWithZeroStock returns every product whose stock is exactly zero.
func (r *Repository) FindWithZeroStock(ctx context.Context) ([]Product, error) {
	d := r.client.Dialect()
	q := sqlbuild.Select{
		Table:   table,
		Columns: columns,
		Where:   sqlbuild.NewWhere().Eq("stock", 0),
		OrderBy: []string{d.CodeOrder(sqlbuild.Ident("code"), sqlbuild.Asc)},
	}.SQL(d)
	res, err := db.Run(ctx, r.client, q)
	if err != nil {
		return nil, fmt.Errorf("products: find zero stock: %w", err)
	}
	return Schema.Rows(res.Rows)
}

// NextCodeNumber returns one past the highest numeric suffix among codes starting
// with prefix + "-", or 1 when there is none or it is not a number.
func (r *Repository) NextCodeNumber(ctx context.Context, prefix string) (int, error) {
	d := r.client.Dialect()
	q := sqlbuild.Select{
		Table:   table,
		Columns: []string{"code"},
		Where:   sqlbuild.NewWhere().Prefix("code", prefix+"-"),
		OrderBy: []string{d.CodeOrder(sqlbuild.Ident("code"), sqlbuild.Desc)},
		Limit:   1,
	}.SQL(d)
	res, err := db.Run(ctx, r.client, q)
	if err != nil {
		return 0, fmt.Errorf("products: next code number: %w", err)
	}
	if len(res.Rows) == 0 {
		return 1, nil
	}
	code, ok := res.Rows[0]["code"].(string)
	if !ok {
		return 1, nil
	}
	parts := strings.Split(code, "-")
	if len(parts) < 2 {
		return 1, nil
	}
	n, ok := leadingInt(parts[1])
	if !ok {
		return 1, nil
	}
	return n + 1, nil
}

// Update merges the supplied fields over the stored product and writes only those
// columns. It returns nil when the product does not exist.
func (r *Repository) Update(ctx context.Context, in Update) (*Product, error) {
	existing, err := r.FindByID(ctx, in.ID)
	if err != nil || existing == nil {
		return nil, err
	}
	merged := *existing
	set := &sqlbuild.Assignments{}
	if in.Code != nil {
		merged.Code = *in.Code
		set.Set("code", merged.Code)
	}
	if in.Description != nil {
		merged.Description = *in.Description
		set.Set("description", merged.Description)
	}
	if in.Provider != nil {
		merged.Provider = *in.Provider
		set.Set("provider", merged.Provider)
	}
	if in.PurchasePrice != nil {
		merged.PurchasePrice = *in.PurchasePrice
		set.Set("purchasePrice", merged.PurchasePrice)
	}
	if in.SalePrice != nil {
		merged.SalePrice = *in.SalePrice
		set.Set("salePrice", merged.SalePrice)
	}
	if in.Stock != nil {
		merged.Stock = *in.Stock
		set.Set("stock", merged.Stock)
	}
	if in.Metadata != nil {
		merged.Metadata = *in.Metadata
		set.Set("metadata", merged.Metadata)
	}
	if in.CreatedAt != nil {
		merged.CreatedAt = *in.CreatedAt
		set.Set("createdAt", merged.CreatedAt)
	}
	if err := Schema.Check(merged); err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return &merged, nil
	}
	q := sqlbuild.Update(r.client.Dialect(), table, set, sqlbuild.NewWhere().Eq("id", merged.ID))
	if _, err := db.Run(ctx, r.client, q); err != nil {
		return nil, fmt.Errorf("products: update: %w", err)
	}
	return &merged, nil
}

// UpdateStock sets the stock of a product and reports whether a row changed.
func (r *Repository) UpdateStock(ctx context.Context, id string, stock int64) (bool, error) {
	set := (&sqlbuild.Assignments{}).Set("stock", stock)
	q := sqlbuild.Update(r.client.Dialect(), table, set, sqlbuild.NewWhere().Eq("id", id))
	res, err := db.Run(ctx, r.client, q)
	if err != nil {
		return false, fmt.Errorf("products: update stock: %w", err)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a product and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	q := sqlbuild.Delete(r.client.Dialect(), table, sqlbuild.NewWhere().Eq("id", id))
	res, err := db.Run(ctx, r.client, q)
	if err != nil {
		return false, fmt.Errorf("products: delete: %w", err)
	}
	return res.RowsAffected > 0, nil
}

func (p Product) values() []any {
	return []any{p.ID, p.Code, p.Description, p.Provider, p.PurchasePrice, p.SalePrice, p.Stock, p.Metadata, p.CreatedAt}
}

func (f Filters) where() *sqlbuild.Where {
	w := sqlbuild.NewWhere().
		Contains("code", f.Code).
		Contains("description", f.Description).
		Contains("provider", f.Provider)
	sqlbuild.EqOpt(w, "stock", f.Stock)
	sqlbuild.MinOpt(w, "salePrice", f.MinPrice)
	sqlbuild.MaxOpt(w, "salePrice", f.MaxPrice)
	sqlbuild.MinOpt(w, "purchasePrice", f.MinPurchasePrice)
	sqlbuild.MaxOpt(w, "purchasePrice", f.MaxPurchasePrice)
	return w.From("createdAt", f.StartDate).Until("createdAt", f.EndDate)
}

// leadingInt reads an optionally signed run of leading digits, ignoring leading
// whitespace, so "12abc" yields 12.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
