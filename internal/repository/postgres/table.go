package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

// table maps a record kind onto a flat table whose columns match the db
// tags of T.
type table[T domain.Record] struct {
	db      *DB
	name    string
	columns []string

	listQuery   string
	getQuery    string
	insertQuery string
	updateQuery string
	deleteQuery string
}

func newTable[T domain.Record](db *DB, name string, columns []string) *table[T] {
	cols := strings.Join(columns, ", ")

	named := make([]string, len(columns))
	sets := make([]string, 0, len(columns))
	for i, c := range columns {
		named[i] = ":" + c
		if c != "id" && c != "created_at" {
			sets = append(sets, c+" = :"+c)
		}
	}

	return &table[T]{
		db:          db,
		name:        name,
		columns:     columns,
		listQuery:   fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC, id DESC`, cols, name),
		getQuery:    fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, cols, name),
		insertQuery: fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, name, cols, strings.Join(named, ", ")),
		updateQuery: fmt.Sprintf(`UPDATE %s SET %s WHERE id = :id`, name, strings.Join(sets, ", ")),
		deleteQuery: fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, name),
	}
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	out := make([]T, 0)
	if err := sqlx.SelectContext(ctx, t.db, &out, t.listQuery); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name, err)
	}
	return out, nil
}

func (t *table[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	if err := sqlx.GetContext(ctx, t.db, &rec, t.getQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, domain.ErrNotFound
		}
		return rec, fmt.Errorf("failed to get %s %s: %w", t.name, id, err)
	}
	return rec, nil
}

func (t *table[T]) Insert(ctx context.Context, records ...T) error {
	if len(records) == 0 {
		return nil
	}
	return t.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, rec := range records {
			if _, err := tx.NamedExecContext(ctx, t.insertQuery, rec); err != nil {
				return fmt.Errorf("failed to insert into %s: %w", t.name, err)
			}
		}
		return nil
	})
}

func (t *table[T]) Update(ctx context.Context, record T) error {
	res, err := t.db.NamedExecContext(ctx, t.updateQuery, record)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", t.name, record.RecordID(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *table[T]) Delete(ctx context.Context, id string) (bool, error) {
	res, err := t.db.ExecContext(ctx, t.deleteQuery, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s %s: %w", t.name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (t *table[T]) BulkDelete(ctx context.Context, ids []string) (int, error) {
	ids = repository.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := t.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := t.bulkDeleteQuery(sqlx.BindType(tx.DriverName()), ids)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to bulk delete %s: %w", t.name, err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// bulkDeleteQuery expands ids into an IN list using the driver's bind style.
func (t *table[T]) bulkDeleteQuery(bindType int, ids []string) (string, []any, error) {
	query, args, err := sqlx.In(fmt.Sprintf(`DELETE FROM %s WHERE id IN (?)`, t.name), ids)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build bulk delete: %w", err)
	}
	return sqlx.Rebind(bindType, query), args, nil
}
