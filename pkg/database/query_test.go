package database

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fish struct {
	ID     string
	Name   string
	Weight *float64
}

func decodeFish(row Row) (fish, error) {
	r := NewRowReader(row)
	f := fish{
		ID:     r.String("id"),
		Name:   r.String("name"),
		Weight: r.NullFloat("weight"),
	}
	return f, r.Err()
}

func newTestHelper(t *testing.T) *QueryHelper {
	t.Helper()

	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)

	h := NewQueryHelper(db)
	t.Cleanup(func() { _ = h.Close() })

	require.NoError(t, db.Exec(`CREATE TABLE ponds (id TEXT PRIMARY KEY NOT NULL, name TEXT UNIQUE NOT NULL)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE fish (
		id      TEXT PRIMARY KEY NOT NULL,
		name    TEXT UNIQUE NOT NULL,
		weight  DOUBLE PRECISION,
		pond_id TEXT REFERENCES ponds(id)
	)`).Error)
	return h
}

func TestQueryHelper_InsertQueryUpdateDelete(t *testing.T) {
	h := newTestHelper(t)

	require.NoError(t, h.Insert("fish", Values{"id": "1", "name": "Pike", "weight": 2.5}))
	require.NoError(t, h.Insert("fish", Values{"id": "2", "name": "Bass", "weight": nil}))

	all, err := QueryAs(h, "fish", "", nil, "name", decodeFish)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bass", all[0].Name)
	assert.Nil(t, all[0].Weight)
	require.NotNil(t, all[1].Weight)
	assert.InDelta(t, 2.5, *all[1].Weight, 1e-9)

	require.NoError(t, h.Update("fish", Values{"id": "ignored", "name": "Northern Pike"}, "1"))
	pike, err := QueryOne(h, "fish", "1", decodeFish).Get()
	require.NoError(t, err)
	assert.Equal(t, "Northern Pike", pike.Name)

	require.NoError(t, h.Delete("fish", "2"))
	n, err := h.Count("fish", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestQueryHelper_EmptyResultIsNotAnError(t *testing.T) {
	h := newTestHelper(t)

	rows, err := h.Query("fish", "name = ?", []interface{}{"Carp"}, "")
	require.NoError(t, err)
	assert.Empty(t, rows)

	res := QueryOne(h, "fish", "missing", decodeFish)
	assert.Equal(t, StatusNotFound, res.Status)
	_, err = res.Get()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryHelper_DecodeFailureIsReported(t *testing.T) {
	h := newTestHelper(t)
	require.NoError(t, h.Insert("fish", Values{"id": "1", "name": "Pike"}))

	broken := func(row Row) (fish, error) { return fish{}, errors.New("bad row") }

	res := QueryOne(h, "fish", "1", broken)
	assert.Equal(t, StatusDecodeFailed, res.Status)
	assert.Error(t, res.Err)

	_, err := QueryAs(h, "fish", "", nil, "", broken)
	assert.Error(t, err)
}

func TestQueryHelper_ConstraintErrors(t *testing.T) {
	h := newTestHelper(t)
	require.NoError(t, h.Insert("fish", Values{"id": "1", "name": "Pike"}))

	err := h.Insert("fish", Values{"id": "2", "name": "Pike"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.True(t, IsConstraintError(err))

	err = h.Insert("fish", Values{"id": "3", "name": "Perch", "pond_id": "nowhere"})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestQueryHelper_UpdateAndDeleteRequireOneRow(t *testing.T) {
	h := newTestHelper(t)

	assert.ErrorIs(t, h.Update("fish", Values{"name": "Ghost"}, "missing"), ErrUnexpectedRowCount)
	assert.ErrorIs(t, h.Delete("fish", "missing"), ErrUnexpectedRowCount)
}

func TestQueryHelper_Replace(t *testing.T) {
	h := newTestHelper(t)

	require.NoError(t, h.Replace("fish", "id", Values{"id": "1", "name": "Pike", "weight": 1.0}))
	require.NoError(t, h.Replace("fish", "id", Values{"id": "1", "name": "Pike", "weight": 3.0}))

	pike, err := QueryOne(h, "fish", "1", decodeFish).Get()
	require.NoError(t, err)
	require.NotNil(t, pike.Weight)
	assert.InDelta(t, 3.0, *pike.Weight, 1e-9)

	n, err := h.Count("fish", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestQueryHelper_TransactionRollsBack(t *testing.T) {
	h := newTestHelper(t)

	err := h.Transaction(func(tx *QueryHelper) error {
		if err := tx.Insert("fish", Values{"id": "1", "name": "Pike"}); err != nil {
			return err
		}
		return tx.Insert("fish", Values{"id": "2", "name": "Pike"})
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	exists, err := h.Exists("fish", "id = ?", []interface{}{"1"})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestQueryHelper_RawAggregate(t *testing.T) {
	h := newTestHelper(t)
	require.NoError(t, h.Insert("fish", Values{"id": "1", "name": "Pike", "weight": 2.0}))
	require.NoError(t, h.Insert("fish", Values{"id": "2", "name": "Bass", "weight": 1.5}))

	rows, err := h.Raw("SELECT SUM(weight) AS total, COUNT(*) AS n FROM fish")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := NewRowReader(rows[0])
	assert.InDelta(t, 3.5, r.Float("total"), 1e-9)
	assert.Equal(t, int64(2), r.Int64("n"))
	require.NoError(t, r.Err())
}

func TestQueryOneWhere_Order(t *testing.T) {
	h := newTestHelper(t)
	require.NoError(t, h.Insert("fish", Values{"id": "1", "name": "Pike", "weight": 2.0}))
	require.NoError(t, h.Insert("fish", Values{"id": "2", "name": "Bass", "weight": 4.0}))

	heaviest, err := QueryOneWhere(h, "fish", "weight IS NOT NULL", nil, "weight DESC", decodeFish).Get()
	require.NoError(t, err)
	assert.Equal(t, "Bass", heaviest.Name)
}

func TestNewGormDB_UnknownDriver(t *testing.T) {
	_, err := NewGormDB(Options{Driver: "oracle"})
	assert.Error(t, err)
}
