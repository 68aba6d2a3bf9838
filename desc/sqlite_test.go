package desc

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/parigen/db"
	"github.com/teranos/parigen/errors"
	parigentest "github.com/teranos/parigen/internal/testing"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	conn := parigentest.CreateTestDB(t)

	records, err := Parse(strings.NewReader(sampleDesc))
	require.NoError(t, err)

	store := NewSQLiteStore(conn, zaptest.NewLogger(t).Sugar())
	require.NoError(t, store.Import(records))

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, records, got)

	// A second import replaces, not appends
	require.NoError(t, store.Import(records[:1]))
	got, err = store.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bnfinit", got[0].Name())
}

func TestSQLiteStore_ImportRejectsNamelessRecord(t *testing.T) {
	store := NewSQLiteStore(parigentest.CreateTestDB(t), nil)
	err := store.Import([]Record{{KeyCName: "orphan"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreFailure))
}

func TestSQLiteStore_QueryFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT ordinal, function, key, value").
		WillReturnError(errors.New("no such table: descriptor_fields"))

	_, err = NewSQLiteStore(conn, nil).ReadAll()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreFailure))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_ScanFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	rows := sqlmock.NewRows([]string{"ordinal", "function", "key", "value"}).
		AddRow("not-a-number", "f", "cname", "f")
	mock.ExpectQuery("SELECT ordinal, function, key, value").WillReturnRows(rows)

	_, err = NewSQLiteStore(conn, nil).ReadAll()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreFailure))
}

func TestSQLiteStore_ClosedDatabase(t *testing.T) {
	conn := parigentest.CreateTestDB(t)
	store := NewSQLiteStore(conn, zaptest.NewLogger(t).Sugar())
	require.NoError(t, conn.Close())

	_, err := store.ReadAll()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreFailure))
	assert.True(t, errors.Is(err, db.ErrDatabaseClosed))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestSQLiteStore_ImportOnReturnedConnection(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err = NewSQLiteStore(conn, nil).Import([]Record{{KeyFunction: "bnfinit"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreFailure))
	assert.True(t, errors.Is(err, db.ErrDatabaseClosed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
