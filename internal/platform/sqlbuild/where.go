package sqlbuild

import (
	"strings"
)

// Op is a predicate operator.
type Op string

const (
	OpEq       Op = "="
	OpGte      Op = ">="
	OpLte      Op = "<="
	OpContains Op = "contains"
	OpPrefix   Op = "prefix"
)

// Predicate is a single (column, operator, value) condition.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Where is an ordered list of predicates joined with AND.
type Where struct {
	preds []Predicate
}

// NewWhere returns an empty predicate list.
func NewWhere() *Where {
	return &Where{}
}

// Add appends a predicate unconditionally.
func (w *Where) Add(p Predicate) *Where {
	w.preds = append(w.preds, p)
	return w
}

// Eq appends column = value.
func (w *Where) Eq(column string, value any) *Where {
	return w.Add(Predicate{Column: column, Op: OpEq, Value: value})
}

// Contains appends a case-insensitive substring match when s is not empty.
func (w *Where) Contains(column, s string) *Where {
	if s == "" {
		return w
	}
	return w.Add(Predicate{Column: column, Op: OpContains, Value: s})
}

// Prefix appends a LIKE 's%' match.
func (w *Where) Prefix(column, s string) *Where {
	return w.Add(Predicate{Column: column, Op: OpPrefix, Value: s})
}

// From appends column >= s when s is not empty. Values compare as stored strings.
func (w *Where) From(column, s string) *Where {
	if s == "" {
		return w
	}
	return w.Add(Predicate{Column: column, Op: OpGte, Value: s})
}

// Until appends column <= s when s is not empty.
func (w *Where) Until(column, s string) *Where {
	if s == "" {
		return w
	}
	return w.Add(Predicate{Column: column, Op: OpLte, Value: s})
}

// EqOpt appends column = *v when v is set.
func EqOpt[T any](w *Where, column string, v *T) *Where {
	if v == nil {
		return w
	}
	return w.Eq(column, *v)
}

// MinOpt appends column >= *v when v is set.
func MinOpt[T any](w *Where, column string, v *T) *Where {
	if v == nil {
		return w
	}
	return w.Add(Predicate{Column: column, Op: OpGte, Value: *v})
}

// MaxOpt appends column <= *v when v is set.
func MaxOpt[T any](w *Where, column string, v *T) *Where {
	if v == nil {
		return w
	}
	return w.Add(Predicate{Column: column, Op: OpLte, Value: *v})
}

// Predicates returns a copy of the predicate list.
func (w *Where) Predicates() []Predicate {
	if w == nil {
		return nil
	}
	out := make([]Predicate, len(w.preds))
	copy(out, w.preds)
	return out
}

// Len reports the number of predicates.
func (w *Where) Len() int {
	if w == nil {
		return 0
	}
	return len(w.preds)
}

func (w *Where) render(b *binder) string {
	if w.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, len(w.preds))
	for _, p := range w.preds {
		col := Ident(p.Column)
		switch p.Op {
		case OpContains:
			parts = append(parts, b.d.ContainsFold(col, b.bind("%"+EscapeLike(toString(p.Value))+"%")))
		case OpPrefix:
			parts = append(parts, col+" LIKE "+b.bind(EscapeLike(toString(p.Value))+"%")+` ESCAPE '\'`)
		default:
			parts = append(parts, col+" "+string(p.Op)+" "+b.bind(p.Value))
		}
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

type binder struct {
	d    Dialect
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return b.d.Placeholder(len(b.args))
}
