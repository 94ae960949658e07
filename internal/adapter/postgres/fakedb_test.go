package postgres

import (
	"context"
	"fmt"
)

// fakeDB scripts QueryRow and Exec responses by SQL fragment, so the
// repositories' transaction logic runs without a live Postgres.
type fakeDB struct {
	tx  *fakeTx
	row func(sql string, args []any) Row
}

func (d *fakeDB) Query(context.Context, string, ...any) (Rows, error) {
	return nil, fmt.Errorf("unexpected query")
}

func (d *fakeDB) QueryRow(_ context.Context, sql string, args ...any) Row {
	return d.row(sql, args)
}

func (d *fakeDB) Exec(context.Context, string, ...any) (CommandTag, error) {
	return fakeTag(1), nil
}

func (d *fakeDB) Begin(context.Context) (Tx, error) { return d.tx, nil }

func (d *fakeDB) Close() {}

type fakeTx struct {
	ops        []string
	row        func(sql string, args []any) Row
	exec       func(sql string, args []any) (CommandTag, error)
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Query(context.Context, string, ...any) (Rows, error) {
	return nil, fmt.Errorf("unexpected query")
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, args ...any) Row {
	return t.row(sql, args)
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	return t.exec(sql, args)
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeTag int64

func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }
