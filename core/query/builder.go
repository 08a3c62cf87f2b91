package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// statement accumulates SQL text and its bind arguments.
type statement struct {
	sql  strings.Builder
	args []any
}

func (s *statement) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

// bind appends v to the arguments and returns its $n placeholder.
func (s *statement) bind(v any) string {
	s.args = append(s.args, v)
	return "$" + strconv.Itoa(len(s.args))
}

func (s *statement) String() string {
	return s.sql.String()
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

type builder struct {
	tables map[string]map[string]struct{}
}

func (b builder) checkTable(table string) (map[string]struct{}, error) {
	cols, ok := b.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return cols, nil
}

func checkColumns(allowed map[string]struct{}, row Row) error {
	for col, v := range row {
		if _, ok := allowed[col]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		if !supported(v) {
			return fmt.Errorf("%w: column %q has type %T", ErrUnsupportedValue, col, v)
		}
	}
	return nil
}

func (b builder) insert(table string, row Row) (*statement, error) {
	allowed, err := b.checkTable(table)
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, ErrEmptyRow
	}
	if err := checkColumns(allowed, row); err != nil {
		return nil, err
	}

	st := &statement{}
	cols := row.columns()
	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quote(c)
		placeholders[i] = st.bind(row[c])
	}

	st.write("INSERT INTO ", quote(table),
		" (", strings.Join(names, ", "), ")",
		" VALUES (", strings.Join(placeholders, ", "), ")")
	return st, nil
}

func (b builder) update(table string, row Row, cond Condition) (*statement, error) {
	allowed, err := b.checkTable(table)
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, ErrEmptyRow
	}
	if len(cond.Where) == 0 {
		return nil, ErrEmptyCondition
	}
	if err := checkColumns(allowed, row); err != nil {
		return nil, err
	}
	if err := checkColumns(allowed, cond.Where); err != nil {
		return nil, err
	}

	st := &statement{}
	cols := row.columns()
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = quote(c) + " = " + st.bind(row[c])
	}

	st.write("UPDATE ", quote(table), " SET ", strings.Join(sets, ", "))
	where(st, cond.Where)
	return st, nil
}

func (b builder) delete(table string, cond Condition) (*statement, error) {
	allowed, err := b.checkTable(table)
	if err != nil {
		return nil, err
	}
	if len(cond.Where) == 0 {
		return nil, ErrEmptyCondition
	}
	if err := checkColumns(allowed, cond.Where); err != nil {
		return nil, err
	}

	st := &statement{}
	st.write("DELETE FROM ", quote(table))
	where(st, cond.Where)
	return st, nil
}

func (b builder) selectRows(table string, cond Condition) (*statement, error) {
	allowed, err := b.checkTable(table)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(allowed, cond.Where); err != nil {
		return nil, err
	}
	for _, o := range cond.OrderBy {
		if _, ok := allowed[o.Column]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, o.Column)
		}
	}
	if cond.Limit < 0 {
		return nil, ErrInvalidLimit
	}

	st := &statement{}
	st.write("SELECT * FROM ", quote(table))
	where(st, cond.Where)

	if len(cond.OrderBy) > 0 {
		orders := make([]string, len(cond.OrderBy))
		for i, o := range cond.OrderBy {
			dir := " ASC"
			if o.Desc {
				dir = " DESC"
			}
			orders[i] = quote(o.Column) + dir
		}
		st.write(" ORDER BY ", strings.Join(orders, ", "))
	}

	if cond.Limit > 0 {
		st.write(" LIMIT ", st.bind(cond.Limit))
	}
	return st, nil
}

func where(st *statement, w Row) {
	if len(w) == 0 {
		return
	}
	cols := w.columns()
	preds := make([]string, len(cols))
	for i, c := range cols {
		if w[c] == nil {
			preds[i] = quote(c) + " IS NULL"
			continue
		}
		preds[i] = quote(c) + " = " + st.bind(w[c])
	}
	st.write(" WHERE ", strings.Join(preds, " AND "))
}
