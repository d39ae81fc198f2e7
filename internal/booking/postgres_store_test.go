package booking

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCreateInsertsRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), "spa", "2099-01-01", "9:00 AM", "bangalore", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStore(mock)
	rec, err := store.Create(context.Background(), Record{
		Service: "spa", Date: "2099-01-01", Time: "9:00 AM", Location: "bangalore",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindBuildsEqualityClauses(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "service", "date", "booking_time", "location", "created_at", "meta"}).
		AddRow("bkg_1", "spa", "2099-01-01", "9:00 AM", "bangalore", time.Now().UTC(), []byte(`{"demo":true}`))
	mock.ExpectQuery("SELECT id, service, date, booking_time, location, created_at, meta FROM bookings WHERE service = \\$1 AND date = \\$2 AND booking_time = \\$3 ORDER BY created_at").
		WithArgs("spa", "2099-01-01", "9:00 AM").
		WillReturnRows(rows)

	store := NewPostgresStore(mock)
	got, err := store.Find(context.Background(), Filter{Service: "spa", Date: "2099-01-01", Time: "9:00 AM"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bkg_1", got[0].ID)
	assert.Equal(t, true, got[0].Meta["demo"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateUnknownIDIsNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE bookings SET booking_time = \\$1 WHERE id = \\$2").
		WithArgs("2:00 PM", "bkg_missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := NewPostgresStore(mock)
	newTime := "2:00 PM"
	_, err = store.Update(context.Background(), "bkg_missing", Update{Time: &newTime})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteReportsExistence(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM bookings WHERE id = \\$1").
		WithArgs("bkg_1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	store := NewPostgresStore(mock)
	ok, err := store.Delete(context.Background(), "bkg_1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
