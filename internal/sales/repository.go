package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tiendapos/tiendapos/internal/dates"
	"github.com/tiendapos/tiendapos/internal/platform/db"
	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
	"github.com/tiendapos/tiendapos/internal/shared"
	"github.com/tiendapos/tiendapos/internal/validation"
)

const table = "productos_vendidos"

var columns = []string{
	"id", "productId", "productCode", "productDescription", "productProvider",
	"purchasePrice", "salePrice", "soldAt", "soldBy", "isReturned", "returnedAt", "details",
}

var newestFirst = []string{sqlbuild.Order("soldAt", sqlbuild.Desc)}

// Repository persists sales through a db.Client.
type Repository struct {
	client db.Client
	now    func() time.Time
}

// Option customises a Repository.
type Option func(*Repository)

// WithClock overrides the clock used for defaults and retention cutoffs.
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

// Create validates and inserts a sale.
func (r *Repository) Create(ctx context.Context, in Insert) (*SoldProduct, error) {
	s := SoldProduct{
		ID:                 in.ID,
		ProductID:          in.ProductID,
		ProductCode:        in.ProductCode,
		ProductDescription: in.ProductDescription,
		ProductProvider:    in.ProductProvider,
		PurchasePrice:      in.PurchasePrice,
		SalePrice:          in.SalePrice,
		SoldAt:             in.SoldAt,
		SoldBy:             in.SoldBy,
		IsReturned:         in.IsReturned,
		ReturnedAt:         in.ReturnedAt,
		Details:            in.Details,
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SoldAt == "" {
		s.SoldAt = dates.FormatDayFirst(r.now())
	}
	if s.Details != nil && *s.Details == "" {
		s.Details = nil
	}
	if err := Schema.Check(s); err != nil {
		return nil, err
	}
	values := []any{
		s.ID, s.ProductID, s.ProductCode, s.ProductDescription, s.ProductProvider,
		s.PurchasePrice, s.SalePrice, s.SoldAt, s.SoldBy, flag(s.IsReturned), s.ReturnedAt, s.Details,
	}
	if _, err := db.Run(ctx, r.client, sqlbuild.Insert(r.client.Dialect(), table, columns, values, "")); err != nil {
		return nil, fmt.Errorf("sales: create: %w", err)
	}
	return &s, nil
}

// FindByID returns nil when no sale has the id.
func (r *Repository) FindByID(ctx context.Context, id string) (*SoldProduct, error) {
	items, err := r.find(ctx, "find by id", sqlbuild.NewWhere().Eq("id", id))
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

// FindAll returns every sale, newest first.
func (r *Repository) FindAll(ctx context.Context) ([]SoldProduct, error) {
	return r.find(ctx, "find all", nil)
}

// FindAllNotReturned returns every sale that has not been returned.
func (r *Repository) FindAllNotReturned(ctx context.Context) ([]SoldProduct, error) {
	return r.find(ctx, "find not returned", sqlbuild.NewWhere().Eq("isReturned", 0))
}

// FindAllReturned returns every returned sale.
func (r *Repository) FindAllReturned(ctx context.Context) ([]SoldProduct, error) {
	return r.find(ctx, "find returned", sqlbuild.NewWhere().Eq("isReturned", 1))
}

// FindByProductID returns the sales of one product.
func (r *Repository) FindByProductID(ctx context.Context, productID string) ([]SoldProduct, error) {
	return r.find(ctx, "find by product", sqlbuild.NewWhere().Eq("productId", productID))
}

// FindByProductIDNotReturned returns the sales of one product that were not returned.
func (r *Repository) FindByProductIDNotReturned(ctx context.Context, productID string) ([]SoldProduct, error) {
	return r.find(ctx, "find by product not returned", sqlbuild.NewWhere().Eq("productId", productID).Eq("isReturned", 0))
}

// FindBySoldDate returns the sales whose stored soldAt starts with prefix, such as
// "05/01/2025". Returned sales are excluded unless includeReturned is set.
func (r *Repository) FindBySoldDate(ctx context.Context, prefix string, includeReturned bool) ([]SoldProduct, error) {
	w := sqlbuild.NewWhere().Prefix("soldAt", prefix)
	if !includeReturned {
		w.Eq("isReturned", 0)
	}
	return r.find(ctx, "find by sold date", w)
}

// List pages through sales matching the filters, newest first.
func (r *Repository) List(ctx context.Context, f Filters, page shared.PageRequest) (shared.Page[SoldProduct], error) {
	page = page.Normalize()
	count, data := sqlbuild.Select{
		Table:   table,
		Columns: columns,
		Where:   f.where(),
		OrderBy: newestFirst,
		Limit:   page.Limit,
		Offset:  page.Offset(),
	}.Render(r.client.Dialect())

	total, rows, err := db.CountAndRows(ctx, r.client, count, data)
	if err != nil {
		return shared.Page[SoldProduct]{}, fmt.Errorf("sales: list: %w", err)
	}
	items, err := Schema.Rows(rows)
	if err != nil {
		return shared.Page[SoldProduct]{}, err
	}
	return shared.NewPage(items, page.Page, page.Limit, total), nil
}

// Update merges the return state over the stored sale and persists isReturned and
// returnedAt. It returns nil when the sale does not exist. Un-returning a sale is
// rejected.
func (r *Repository) Update(ctx context.Context, in Update) (*SoldProduct, error) {
	existing, err := r.FindByID(ctx, in.ID)
	if err != nil || existing == nil {
		return nil, err
	}
	merged := *existing
	if in.IsReturned != nil {
		if existing.IsReturned && !*in.IsReturned {
			return nil, &validation.Error{Entity: Schema.Entity, Field: "isReturned", Reason: "a returned sale cannot be un-returned"}
		}
		merged.IsReturned = *in.IsReturned
	}
	if in.ReturnedAt != nil {
		at := *in.ReturnedAt
		merged.ReturnedAt = &at
	}
	if err := Schema.Check(merged); err != nil {
		return nil, err
	}
	set := (&sqlbuild.Assignments{}).
		Set("isReturned", flag(merged.IsReturned)).
		Set("returnedAt", merged.ReturnedAt)
	q := sqlbuild.Update(r.client.Dialect(), table, set, sqlbuild.NewWhere().Eq("id", merged.ID))
	if _, err := db.Run(ctx, r.client, q); err != nil {
		return nil, fmt.Errorf("sales: update: %w", err)
	}
	return &merged, nil
}

// MarkAsReturned flags a sale as returned at the given time.
func (r *Repository) MarkAsReturned(ctx context.Context, id, returnedAt string) (*SoldProduct, error) {
	returned := true
	return r.Update(ctx, Update{ID: id, IsReturned: &returned, ReturnedAt: &returnedAt})
}

// Delete removes a sale and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := db.Run(ctx, r.client, sqlbuild.Delete(r.client.Dialect(), table, sqlbuild.NewWhere().Eq("id", id)))
	if err != nil {
		return false, fmt.Errorf("sales: delete: %w", err)
	}
	return res.RowsAffected > 0, nil
}

// DeleteOld removes every sale made strictly before now minus monthsOld calendar
// months and returns how many were removed. Dates are read day-first, so an
// unreadable date counts as 01/01/2000. Rows that fail validation are kept.
func (r *Repository) DeleteOld(ctx context.Context, monthsOld int) (int, error) {
	cutoff := dates.MonthsAgo(r.now(), monthsOld)
	q := sqlbuild.Select{Table: table, Columns: columns, OrderBy: newestFirst}.SQL(r.client.Dialect())
	res, err := db.Run(ctx, r.client, q)
	if err != nil {
		return 0, fmt.Errorf("sales: delete old: %w", err)
	}
	var ids []any
	for _, row := range res.Rows {
		s, ok := Schema.Safe(row)
		if !ok {
			continue
		}
		if dates.ParseDayFirst(s.SoldAt).Before(cutoff) {
			ids = append(ids, s.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	deleted, err := db.DeleteIDs(ctx, r.client, table, "id", ids)
	if err != nil {
		return deleted, fmt.Errorf("sales: delete old: %w", err)
	}
	return deleted, nil
}

func (r *Repository) find(ctx context.Context, op string, where *sqlbuild.Where) ([]SoldProduct, error) {
	q := sqlbuild.Select{Table: table, Columns: columns, Where: where, OrderBy: newestFirst}.SQL(r.client.Dialect())
	res, err := db.Run(ctx, r.client, q)
	if err != nil {
		return nil, fmt.Errorf("sales: %s: %w", op, err)
	}
	return Schema.Rows(res.Rows)
}

func (f Filters) where() *sqlbuild.Where {
	w := sqlbuild.NewWhere().
		Contains("productCode", f.ProductCode).
		Contains("productDescription", f.ProductDescription).
		Contains("productProvider", f.ProductProvider).
		Contains("soldBy", f.SoldBy)
	if f.ProductID != "" {
		w.Eq("productId", f.ProductID)
	}
	if f.IsReturned != nil {
		w.Eq("isReturned", flag(*f.IsReturned))
	}
	sqlbuild.MinOpt(w, "salePrice", f.MinPrice)
	sqlbuild.MaxOpt(w, "salePrice", f.MaxPrice)
	return w.From("soldAt", f.StartDate).Until("soldAt", f.EndDate)
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
