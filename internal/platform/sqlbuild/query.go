package sqlbuild

import "strings"

// Query is rendered SQL plus its bind arguments.
type Query struct {
	SQL  string
	Args []any
}

// Select describes a filtered listing over one table.
type Select struct {
	Table   string
	Columns []string
	Where   *Where
	OrderBy []string
	Limit   int
	Offset  int
}

// Render renders the where clause once and returns the matching count and data queries.
func (s Select) Render(d Dialect) (count Query, data Query) {
	b := &binder{d: d}
	where := s.Where.render(b)
	filterArgs := b.args

	count = Query{
		SQL:  `SELECT COUNT(*) AS "total" FROM ` + Ident(s.Table) + where,
		Args: append([]any(nil), filterArgs...),
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(s.columns())
	sb.WriteString(" FROM ")
	sb.WriteString(Ident(s.Table))
	sb.WriteString(where)
	if len(s.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(s.OrderBy, ", "))
	}
	if s.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.bind(s.Limit))
		sb.WriteString(" OFFSET ")
		sb.WriteString(b.bind(s.Offset))
	}
	data = Query{SQL: sb.String(), Args: b.args}
	return count, data
}

// SQL renders only the data query.
func (s Select) SQL(d Dialect) Query {
	_, data := s.Render(d)
	return data
}

func (s Select) columns() string {
	if len(s.Columns) == 0 {
		return "*"
	}
	quoted := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		quoted[i] = Ident(c)
	}
	return strings.Join(quoted, ", ")
}

// Insert renders INSERT INTO table (cols) VALUES (...) with an optional RETURNING column.
func Insert(d Dialect, table string, columns []string, values []any, returning string) Query {
	b := &binder{d: d}
	cols := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = Ident(c)
		marks[i] = b.bind(values[i])
	}
	sql := "INSERT INTO " + Ident(table) + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	if returning != "" {
		sql += " RETURNING " + Ident(returning)
	}
	return Query{SQL: sql, Args: b.args}
}

// Assignments is an ordered SET list for UPDATE statements.
type Assignments struct {
	columns []string
	values  []any
}

// Set appends column = value.
func (a *Assignments) Set(column string, value any) *Assignments {
	a.columns = append(a.columns, column)
	a.values = append(a.values, value)
	return a
}

// Len reports the number of assignments.
func (a *Assignments) Len() int {
	return len(a.columns)
}

// Update renders UPDATE table SET ... WHERE ....
func Update(d Dialect, table string, set *Assignments, where *Where) Query {
	b := &binder{d: d}
	parts := make([]string, set.Len())
	for i, c := range set.columns {
		parts[i] = Ident(c) + " = " + b.bind(set.values[i])
	}
	sql := "UPDATE " + Ident(table) + " SET " + strings.Join(parts, ", ") + where.render(b)
	return Query{SQL: sql, Args: b.args}
}

// Delete renders DELETE FROM table WHERE ....
func Delete(d Dialect, table string, where *Where) Query {
	b := &binder{d: d}
	sql := "DELETE FROM " + Ident(table) + where.render(b)
	return Query{SQL: sql, Args: b.args}
}

// DeleteIn renders DELETE FROM table WHERE column IN (...).
func DeleteIn(d Dialect, table, column string, values []any) Query {
	b := &binder{d: d}
	marks := make([]string, len(values))
	for i, v := range values {
		marks[i] = b.bind(v)
	}
	sql := "DELETE FROM " + Ident(table) + " WHERE " + Ident(column) + " IN (" + strings.Join(marks, ", ") + ")"
	return Query{SQL: sql, Args: b.args}
}
