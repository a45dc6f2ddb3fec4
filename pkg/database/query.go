package database

import (
	"context"
	"fmt"
	"sort"

	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryHelper issues parameterized statements against named tables. It knows
// nothing about entities: callers pass column-value maps in and decode rows out.
//
// Table names are always schema constants, never user input; values and
// where-clause arguments are bound parameters.
type QueryHelper struct {
	db *gorm.DB
}

// NewQueryHelper wraps an open gorm connection
func NewQueryHelper(db *gorm.DB) *QueryHelper {
	return &QueryHelper{db: db}
}

// DB exposes the underlying connection (or transaction)
func (h *QueryHelper) DB() *gorm.DB {
	return h.db
}

// WithContext returns a helper whose statements observe ctx
func (h *QueryHelper) WithContext(ctx context.Context) *QueryHelper {
	return &QueryHelper{db: h.db.WithContext(ctx)}
}

// Transaction runs fn inside a transaction; any error rolls everything back.
// Nested calls become savepoints.
func (h *QueryHelper) Transaction(fn func(tx *QueryHelper) error) error {
	return h.db.Transaction(func(tx *gorm.DB) error {
		return fn(&QueryHelper{db: tx})
	})
}

// Close closes the underlying connection pool
func (h *QueryHelper) Close() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Query returns every row of table matching where, in orderBy order. An empty
// result is not an error.
func (h *QueryHelper) Query(table, where string, args []interface{}, orderBy string) ([]Row, error) {
	tx := h.db.Table(table)
	if where != "" {
		tx = tx.Where(where, args...)
	}
	if orderBy != "" {
		tx = tx.Order(orderBy)
	}

	var results []map[string]interface{}
	if err := tx.Find(&results).Error; err != nil {
		return nil, errors.Wrapf(translateError(err), "query %s", table)
	}

	return toRows(results), nil
}

// Raw runs a hand-written SELECT, for the few aggregate queries that do not
// fit the table/where shape
func (h *QueryHelper) Raw(sql string, args ...interface{}) ([]Row, error) {
	var results []map[string]interface{}
	if err := h.db.Raw(sql, args...).Scan(&results).Error; err != nil {
		return nil, errors.Wrap(translateError(err), "raw query")
	}
	return toRows(results), nil
}

// Insert adds one row. Constraint violations come back as ErrDuplicate or
// ErrInvalidReference.
func (h *QueryHelper) Insert(table string, values Values) error {
	if err := h.db.Table(table).Create(values).Error; err != nil {
		return errors.Wrapf(translateError(err), "insert into %s", table)
	}
	return nil
}

// Update overwrites the row with the given id. The id column itself is never
// rewritten. Anything other than exactly one affected row is a failure.
func (h *QueryHelper) Update(table string, values Values, id string) error {
	changes := make(Values, len(values))
	for k, v := range values {
		if k != schema.ColID {
			changes[k] = v
		}
	}

	res := h.db.Table(table).Where(schema.ColID+" = ?", id).Updates(changes)
	if res.Error != nil {
		return errors.Wrapf(translateError(res.Error), "update %s", table)
	}
	if res.RowsAffected != 1 {
		return errors.Wrapf(ErrUnexpectedRowCount, "update %s: %d rows", table, res.RowsAffected)
	}
	return nil
}

// Delete removes the row with the given id, with the same one-row contract as
// Update. Deleting a row that is still referenced yields ErrInvalidReference.
func (h *QueryHelper) Delete(table string, id string) error {
	n, err := h.DeleteWhere(table, schema.ColID+" = ?", []interface{}{id})
	if err != nil {
		return err
	}
	if n != 1 {
		return errors.Wrapf(ErrUnexpectedRowCount, "delete from %s: %d rows", table, n)
	}
	return nil
}

// DeleteWhere removes every matching row and reports how many went
func (h *QueryHelper) DeleteWhere(table, where string, args []interface{}) (int64, error) {
	sql := fmt.Sprintf("DELETE FROM %s", table)
	if where != "" {
		sql += " WHERE " + where
	}

	res := h.db.Exec(sql, args...)
	if res.Error != nil {
		return 0, errors.Wrapf(translateError(res.Error), "delete from %s", table)
	}
	return res.RowsAffected, nil
}

// Replace inserts values or, when a row with the same key exists, overwrites it
func (h *QueryHelper) Replace(table, key string, values Values) error {
	columns := make([]string, 0, len(values))
	for k := range values {
		if k != key {
			columns = append(columns, k)
		}
	}
	sort.Strings(columns)

	conflict := clause.OnConflict{Columns: []clause.Column{{Name: key}}}
	if len(columns) == 0 {
		conflict.DoNothing = true
	} else {
		conflict.DoUpdates = clause.AssignmentColumns(columns)
	}

	if err := h.db.Table(table).Clauses(conflict).Create(values).Error; err != nil {
		return errors.Wrapf(translateError(err), "replace into %s", table)
	}
	return nil
}

// Count returns the number of matching rows
func (h *QueryHelper) Count(table, where string, args []interface{}) (int64, error) {
	tx := h.db.Table(table)
	if where != "" {
		tx = tx.Where(where, args...)
	}

	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, errors.Wrapf(translateError(err), "count %s", table)
	}
	return n, nil
}

// Exists reports whether any row matches
func (h *QueryHelper) Exists(table, where string, args []interface{}) (bool, error) {
	n, err := h.Count(table, where, args)
	return n > 0, err
}

// QueryAs runs Query and decodes every row
func QueryAs[T any](h *QueryHelper, table, where string, args []interface{}, orderBy string, decode RowDecoder[T]) ([]T, error) {
	rows, err := h.Query(table, where, args, orderBy)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for i, row := range rows {
		v, err := decode(row)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s row %d", table, i)
		}
		out = append(out, v)
	}
	return out, nil
}

// QueryOne looks a row up by id
func QueryOne[T any](h *QueryHelper, table, id string, decode RowDecoder[T]) Result[T] {
	return QueryOneWhere(h, table, schema.ColID+" = ?", []interface{}{id}, "", decode)
}

// QueryOneWhere returns the first matching row
func QueryOneWhere[T any](h *QueryHelper, table, where string, args []interface{}, orderBy string, decode RowDecoder[T]) Result[T] {
	tx := h.db.Table(table)
	if where != "" {
		tx = tx.Where(where, args...)
	}
	if orderBy != "" {
		tx = tx.Order(orderBy)
	}

	var results []map[string]interface{}
	if err := tx.Limit(1).Find(&results).Error; err != nil {
		return failed[T](errors.Wrapf(translateError(err), "query %s", table))
	}
	if len(results) == 0 {
		return notFound[T]()
	}

	v, err := decode(Row(results[0]))
	if err != nil {
		return failed[T](errors.Wrapf(err, "decode %s row", table))
	}
	return found(v)
}

func toRows(results []map[string]interface{}) []Row {
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = Row(r)
	}
	return rows
}
