// Package query runs parameterized CRUD statements against PostgreSQL.
//
// Rows are plain column-to-value maps. Table and column names are checked
// against a Schema allow-list and quoted as identifiers; values always travel
// as bind parameters, so no caller-supplied value ever becomes SQL text.
//
//	store := query.New(pool, query.Schema{
//		"users": {"id", "email", "password", "active"},
//	})
//
//	user, err := store.SelectOne(ctx, "users", query.Condition{
//		Where: query.Row{"email": email},
//	})
//
//	_, err = store.Update(ctx, "users",
//		query.Row{"active": false},
//		query.Condition{Where: query.Row{"id": id}},
//	)
//
// Columns are emitted in sorted order, so the same input always produces the
// same statement. Where entries are combined with AND; a nil value becomes
// IS NULL. Update and Delete refuse an empty Where.
//
// Statements run inside the transaction carried by the context (pg.WithTx)
// when there is one.
package query
