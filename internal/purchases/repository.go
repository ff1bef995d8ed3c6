package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tiendapos/tiendapos/internal/dates"
	"github.com/tiendapos/tiendapos/internal/platform/db"
	"github.com/tiendapos/tiendapos/internal/platform/sqlbuild"
	"github.com/tiendapos/tiendapos/internal/shared"
)

const table = "productos_comprados"

var columns = []string{"id", "productId", "productCode", "productDescription", "productProvider", "purchasePrice", "quantity", "purchasedAt"}

var newestFirst = []string{sqlbuild.Order("purchasedAt", sqlbuild.Desc)}

// Repository persists purchases through a db.Client.
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

// Create validates and inserts a purchase.
func (r *Repository) Create(ctx context.Context, in Insert) (*PurchasedProduct, error) {
	p := PurchasedProduct{
		ID:                 in.ID,
		ProductID:          in.ProductID,
		ProductCode:        in.ProductCode,
		ProductDescription: in.ProductDescription,
		ProductProvider:    in.ProductProvider,
		PurchasePrice:      in.PurchasePrice,
		Quantity:           in.Quantity,
		PurchasedAt:        in.PurchasedAt,
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PurchasedAt == "" {
		p.PurchasedAt = dates.FormatDayFirst(r.now())
	}
	if err := Schema.Check(p); err != nil {
		return nil, err
	}
	values := []any{p.ID, p.ProductID, p.ProductCode, p.ProductDescription, p.ProductProvider, p.PurchasePrice, p.Quantity, p.PurchasedAt}
	if _, err := db.Run(ctx, r.client, sqlbuild.Insert(r.client.Dialect(), table, columns, values, "")); err != nil {
		return nil, fmt.Errorf("purchases: create: %w", err)
	}
	return &p, nil
}

// FindByID returns nil when no purchase has the id.
func (r *Repository) FindByID(ctx context.Context, id string) (*PurchasedProduct, error) {
	rows, err := r.query(ctx, "find by id", sqlbuild.Select{Table: table, Columns: columns, Where: sqlbuild.NewWhere().Eq("id", id), Limit: 1})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	p, err := Schema.Row(rows[0])
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll lists purchases matching the filters, newest first. Pages count from 0.
func (r *Repository) FindAll(ctx context.Context, f Filters, page shared.PageRequest) (shared.Page[PurchasedProduct], error) {
	page = page.NormalizeZeroBased()
	count, data := sqlbuild.Select{
		Table:   table,
		Columns: columns,
		Where:   f.where(),
		OrderBy: newestFirst,
		Limit:   page.Limit,
		Offset:  page.ZeroBasedOffset(),
	}.Render(r.client.Dialect())

	total, rows, err := db.CountAndRows(ctx, r.client, count, data)
	if err != nil {
		return shared.Page[PurchasedProduct]{}, fmt.Errorf("purchases: find all: %w", err)
	}
	items, err := Schema.Rows(rows)
	if err != nil {
		return shared.Page[PurchasedProduct]{}, err
	}
	return shared.NewPage(items, page.Page, page.Limit, total), nil
}

// FindByProductID lists the purchases of one product, newest first.
func (r *Repository) FindByProductID(ctx context.Context, productID string) ([]PurchasedProduct, error) {
	rows, err := r.query(ctx, "find by product", sqlbuild.Select{Table: table, Columns: columns, Where: sqlbuild.NewWhere().Eq("productId", productID), OrderBy: newestFirst})
	if err != nil {
		return nil, err
	}
	return Schema.Rows(rows)
}

// FindByDateRange lists purchases whose stored purchasedAt string lies in
// [start, end]. The comparison is textual.
func (r *Repository) FindByDateRange(ctx context.Context, start, end string) ([]PurchasedProduct, error) {
	w := sqlbuild.NewWhere().
		Add(sqlbuild.Predicate{Column: "purchasedAt", Op: sqlbuild.OpGte, Value: start}).
		Add(sqlbuild.Predicate{Column: "purchasedAt", Op: sqlbuild.OpLte, Value: end})
	rows, err := r.query(ctx, "find by date range", sqlbuild.Select{Table: table, Columns: columns, Where: w, OrderBy: newestFirst})
	if err != nil {
		return nil, err
	}
	return Schema.Rows(rows)
}

// TotalPurchasedByProductID sums the quantity purchased of a product, 0 when none.
func (r *Repository) TotalPurchasedByProductID(ctx context.Context, productID string) (int64, error) {
	d := r.client.Dialect()
	sql := `SELECT CAST(COALESCE(SUM("quantity"), 0) AS BIGINT) AS "total" FROM ` + sqlbuild.Ident(table) +
		` WHERE "productId" = ` + d.Placeholder(1)
	res, err := r.client.Execute(ctx, sql, productID)
	if err != nil {
		return 0, fmt.Errorf("purchases: total by product: %w", err)
	}
	if len(res.Rows) == 0 {
		return 0, nil
	}
	return db.Int64(res.Rows[0], "total")
}

// Update merges the supplied fields and rewrites the product snapshot, price and
// quantity columns. It returns nil when the purchase does not exist.
func (r *Repository) Update(ctx context.Context, in Update) (*PurchasedProduct, error) {
	existing, err := r.FindByID(ctx, in.ID)
	if err != nil || existing == nil {
		return nil, err
	}
	merged := *existing
	if in.ProductID != nil {
		merged.ProductID = *in.ProductID
	}
	if in.ProductCode != nil {
		merged.ProductCode = *in.ProductCode
	}
	if in.ProductDescription != nil {
		merged.ProductDescription = *in.ProductDescription
	}
	if in.ProductProvider != nil {
		merged.ProductProvider = *in.ProductProvider
	}
	if in.PurchasePrice != nil {
		merged.PurchasePrice = *in.PurchasePrice
	}
	if in.Quantity != nil {
		merged.Quantity = *in.Quantity
	}
	if err := Schema.Check(merged); err != nil {
		return nil, err
	}
	set := (&sqlbuild.Assignments{}).
		Set("productId", merged.ProductID).
		Set("productCode", merged.ProductCode).
		Set("productDescription", merged.ProductDescription).
		Set("productProvider", merged.ProductProvider).
		Set("purchasePrice", merged.PurchasePrice).
		Set("quantity", merged.Quantity)
	q := sqlbuild.Update(r.client.Dialect(), table, set, sqlbuild.NewWhere().Eq("id", merged.ID))
	if _, err := db.Run(ctx, r.client, q); err != nil {
		return nil, fmt.Errorf("purchases: update: %w", err)
	}
	return &merged, nil
}

// Delete removes a purchase and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := db.Run(ctx, r.client, sqlbuild.Delete(r.client.Dialect(), table, sqlbuild.NewWhere().Eq("id", id)))
	if err != nil {
		return false, fmt.Errorf("purchases: delete: %w", err)
	}
	return res.RowsAffected > 0, nil
}

// DeleteOld removes every purchase made strictly before now minus monthsOld
// calendar months and returns how many were removed. Dates are read day-first,
// so an unreadable date counts as 01/01/2000. Rows that fail validation are kept.
func (r *Repository) DeleteOld(ctx context.Context, monthsOld int) (int, error) {
	cutoff := dates.MonthsAgo(r.now(), monthsOld)
	rows, err := r.query(ctx, "delete old", sqlbuild.Select{Table: table, Columns: columns, OrderBy: newestFirst})
	if err != nil {
		return 0, err
	}
	var ids []any
	for _, row := range rows {
		p, ok := Schema.Safe(row)
		if !ok {
			continue
		}
		if dates.ParseDayFirst(p.PurchasedAt).Before(cutoff) {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	deleted, err := db.DeleteIDs(ctx, r.client, table, "id", ids)
	if err != nil {
		return deleted, fmt.Errorf("purchases: delete old: %w", err)
	}
	return deleted, nil
}

func (r *Repository) query(ctx context.Context, op string, s sqlbuild.Select) ([]db.Row, error) {
	res, err := db.Run(ctx, r.client, s.SQL(r.client.Dialect()))
	if err != nil {
		return nil, fmt.Errorf("purchases: %s: %w", op, err)
	}
	return res.Rows, nil
}

func (f Filters) where() *sqlbuild.Where {
	w := sqlbuild.NewWhere().
		Contains("productCode", f.ProductCode).
		Contains("productDescription", f.ProductDescription).
		Contains("productProvider", f.ProductProvider)
	sqlbuild.MinOpt(w, "purchasePrice", f.MinPrice)
	sqlbuild.MaxOpt(w, "purchasePrice", f.MaxPrice)
	sqlbuild.MinOpt(w, "quantity", f.MinQuantity)
	sqlbuild.MaxOpt(w, "quantity", f.MaxQuantity)
	return w.From("purchasedAt", f.StartDate).Until("purchasedAt", f.EndDate)
}
