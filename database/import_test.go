package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(kv ...string) *Row {
	r := NewOrderedMap[string]()
	for i := 0; i+1 < len(kv); i += 2 {
		r.SetIfAbsent(kv[i], kv[i+1])
	}
	return r
}

func newMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db, 2, nil), mock
}

func TestUpsertSplitsIntoBatches(t *testing.T) {
	store, mock := newMock(t)
	cols := []string{"id", "rate"}
	rows := []*Row{
		row("id", "USD", "rate", "90.5"),
		row("id", "EUR", "rate", "1"),
		row("id", "RUB"),
	}

	mock.ExpectBegin()
	mock.ExpectExec(upsertQuery("currency", cols, "id", 2)).
		WithArgs("USD", decimal.RequireFromString("90.5"), "EUR", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(upsertQuery("currency", cols, "id", 1)).
		WithArgs("RUB", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := store.Upsert(context.Background(), "currency", cols, "id", rows)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRollsBackOnBatchFailure(t *testing.T) {
	store, mock := newMock(t)
	cols := []string{"id"}

	mock.ExpectBegin()
	mock.ExpectExec(upsertQuery("currency", cols, "id", 1)).
		WithArgs("USD").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := store.Upsert(context.Background(), "currency", cols, "id", []*Row{row("id", "USD")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertNoRows(t *testing.T) {
	store, mock := newMock(t)

	n, err := store.Upsert(context.Background(), "currency", []string{"id"}, "id", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSplitBatchesDuplicateKey(t *testing.T) {
	rows := []*Row{
		row("id", "1"),
		row("id", "2"),
		row("id", "1"),
		row("name", "no key"),
		row("name", "no key either"),
	}

	batches := splitBatches(rows, "id", 10)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 3)
}

func TestSplitBatchesEquivalentTypedKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{name: "leading zeros", keys: []string{"1", "01"}},
		{name: "explicit sign", keys: []string{"+7", "7"}},
		{name: "surrounding spaces", keys: []string{" 1", "1"}},
		{name: "decimal scale", keys: []string{"1.5", "1.50"}},
		{name: "integer as decimal", keys: []string{"2", "2.0"}},
		{name: "boolean case", keys: []string{"TRUE", "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []*Row{row("id", tt.keys[0]), row("id", tt.keys[1])}

			batches := splitBatches(rows, "id", 10)
			require.Len(t, batches, 2)
			assert.Len(t, batches[0], 1)
			assert.Len(t, batches[1], 1)
		})
	}
}

func TestSplitBatchesDistinctKeysShareBatch(t *testing.T) {
	rows := []*Row{row("id", "1"), row("id", "10"), row("id", "1.05"), row("id", "USD")}

	batches := splitBatches(rows, "id", 10)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 4)
}

func TestSplitBatchesLimit(t *testing.T) {
	var rows []*Row
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		rows = append(rows, row("id", id))
	}

	batches := splitBatches(rows, "id", 2)
	require.Len(t, batches, 3)
	assert.Len(t, batches[2], 1)
}

func TestTableColumns(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(columnsQuery).
		WithArgs("currency").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id").AddRow("rate"))

	cols, err := store.TableColumns(context.Background(), "currency")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "rate"}, cols)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableColumnsMissingTable(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(columnsQuery).
		WithArgs("offers").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	cols, err := store.TableColumns(context.Background(), "offers")
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestCreateTable(t *testing.T) {
	store, mock := newMock(t)
	ddl := `CREATE TABLE IF NOT EXISTS "currency" ("id" TEXT, PRIMARY KEY ("id"))`

	mock.ExpectExec(ddl).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.CreateTable(context.Background(), ddl))
	assert.NoError(t, mock.ExpectationsWereMet())
}
