package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/core/query"
	"github.com/dmitrymomot/sessionguard/integration/database/pg"
)

type call struct {
	sql  string
	args []any
}

// fakeDB records statements and answers queries from a canned result set.
type fakeDB struct {
	calls   []call
	tag     pgconn.CommandTag
	columns []string
	rows    [][]any
	err     error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{sql, args})
	return f.tag, f.err
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, call{sql, args})
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRows{columns: f.columns, rows: f.rows, idx: -1}, nil
}

type fakeRows struct {
	columns []string
	rows    [][]any
	idx     int
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) RawValues() [][]byte           { return nil }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.idx], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if rs, ok := dest[0].(pgx.RowScanner); ok {
			return rs.ScanRow(r)
		}
	}
	return errors.New("fakeRows: only RowScanner destinations are supported")
}

// txDB is a pgx.Tx that records statements like fakeDB.
type txDB struct {
	pgx.Tx
	fakeDB
}

func (t *txDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.fakeDB.Exec(ctx, sql, args...)
}

func (t *txDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.fakeDB.Query(ctx, sql, args...)
}

var schema = query.Schema{"users": {"id", "email", "active"}}

func TestStore_Exec(t *testing.T) {
	t.Parallel()

	db := &fakeDB{tag: pgconn.NewCommandTag("UPDATE 2")}
	s := query.New(db, schema)
	ctx := context.Background()

	n, err := s.Update(ctx, "users", query.Row{"active": false}, query.Condition{Where: query.Row{"email": "a@example.com"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	db.tag = pgconn.NewCommandTag("INSERT 0 1")
	n, err = s.Insert(ctx, "users", query.Row{"email": "a@example.com", "active": true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	db.tag = pgconn.NewCommandTag("DELETE 1")
	n, err = s.Delete(ctx, "users", query.Condition{Where: query.Row{"id": 5}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.Len(t, db.calls, 3)
	assert.Equal(t, `UPDATE "users" SET "active" = $1 WHERE "email" = $2`, db.calls[0].sql)
	assert.Equal(t, []any{false, "a@example.com"}, db.calls[0].args)
	assert.Equal(t, `INSERT INTO "users" ("active", "email") VALUES ($1, $2)`, db.calls[1].sql)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = $1`, db.calls[2].sql)
}

func TestStore_Select(t *testing.T) {
	t.Parallel()

	db := &fakeDB{
		columns: []string{"id", "email", "active"},
		rows: [][]any{
			{int32(1), "a@example.com", true},
			{int32(2), "b@example.com", false},
		},
	}
	s := query.New(db, schema)

	rows, err := s.Select(context.Background(), "users", query.Condition{OrderBy: []query.Order{{Column: "id"}}})
	require.NoError(t, err)
	assert.Equal(t, []query.Row{
		{"id": int32(1), "email": "a@example.com", "active": true},
		{"id": int32(2), "email": "b@example.com", "active": false},
	}, rows)
	assert.Equal(t, `SELECT * FROM "users" ORDER BY "id" ASC`, db.calls[0].sql)
}

func TestStore_SelectOne(t *testing.T) {
	t.Parallel()

	db := &fakeDB{columns: []string{"id"}, rows: [][]any{{int64(9)}}}
	s := query.New(db, schema)

	row, err := s.SelectOne(context.Background(), "users", query.Condition{Where: query.Row{"id": 9}})
	require.NoError(t, err)
	assert.Equal(t, query.Row{"id": int64(9)}, row)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = $1 LIMIT $2`, db.calls[0].sql)
	assert.Equal(t, []any{9, 1}, db.calls[0].args)

	db.rows = nil
	_, err = s.SelectOne(context.Background(), "users", query.Condition{Where: query.Row{"id": 10}})
	assert.ErrorIs(t, err, query.ErrNotFound)
}

func TestStore_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	db := &fakeDB{err: boom}
	s := query.New(db, schema)
	ctx := context.Background()

	_, err := s.Select(ctx, "users", query.Condition{})
	assert.ErrorIs(t, err, boom)

	_, err = s.Insert(ctx, "users", query.Row{"id": 1})
	assert.ErrorIs(t, err, boom)

	// Validation fails before the database is reached.
	calls := len(db.calls)
	_, err = s.Delete(ctx, "accounts", query.Condition{Where: query.Row{"id": 1}})
	assert.ErrorIs(t, err, query.ErrUnknownTable)
	assert.Len(t, db.calls, calls)
}

func TestStore_UsesContextTx(t *testing.T) {
	t.Parallel()

	pool := &fakeDB{}
	tx := &txDB{}
	tx.tag = pgconn.NewCommandTag("INSERT 0 1")
	s := query.New(pool, schema)

	ctx := pg.WithTx(context.Background(), tx)
	_, err := s.Insert(ctx, "users", query.Row{"id": 1})
	require.NoError(t, err)

	assert.Empty(t, pool.calls)
	assert.Len(t, tx.calls, 1)
}
