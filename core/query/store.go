package query

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/sessionguard/integration/database/pg"
)

// Store runs parameterized CRUD statements against tables listed in its
// Schema. When the context carries a transaction (pg.WithTx) statements run
// inside it.
type Store struct {
	db pg.Querier
	b  builder
}

// New creates a Store over db, typically a *pgxpool.Pool.
func New(db pg.Querier, schema Schema) *Store {
	return &Store{
		db: db,
		b:  builder{tables: schema.sets()},
	}
}

// Insert adds row to table and returns the number of rows inserted.
func (s *Store) Insert(ctx context.Context, table string, row Row) (int64, error) {
	st, err := s.b.insert(table, row)
	if err != nil {
		return 0, err
	}
	return s.exec(ctx, st)
}

// Update sets row's columns on every row matching cond.Where.
func (s *Store) Update(ctx context.Context, table string, row Row, cond Condition) (int64, error) {
	st, err := s.b.update(table, row, cond)
	if err != nil {
		return 0, err
	}
	return s.exec(ctx, st)
}

// Delete removes every row matching cond.Where.
func (s *Store) Delete(ctx context.Context, table string, cond Condition) (int64, error) {
	st, err := s.b.delete(table, cond)
	if err != nil {
		return 0, err
	}
	return s.exec(ctx, st)
}

// Select returns the rows matching cond. An empty Where selects everything.
func (s *Store) Select(ctx context.Context, table string, cond Condition) ([]Row, error) {
	st, err := s.b.selectRows(table, cond)
	if err != nil {
		return nil, err
	}

	rows, err := pg.Conn(ctx, s.db).Query(ctx, st.String(), st.args...)
	if err != nil {
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}

	out := make([]Row, len(maps))
	for i, m := range maps {
		out[i] = Row(m)
	}
	return out, nil
}

// SelectOne returns the first row matching cond, or ErrNotFound.
func (s *Store) SelectOne(ctx context.Context, table string, cond Condition) (Row, error) {
	cond.Limit = 1
	rows, err := s.Select(ctx, table, cond)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func (s *Store) exec(ctx context.Context, st *statement) (int64, error) {
	tag, err := pg.Conn(ctx, s.db).Exec(ctx, st.String(), st.args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
