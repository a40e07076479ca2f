package attendance_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-hrm/internal/devapi/attendance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestRepository_FindByUserAndDate(t *testing.T) {
	db, mock := newGormMock(t)
	repo := attendance.NewRepository(db)

	userID := uuid.New()
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	clockIn := time.Date(2026, 10, 19, 1, 30, 0, 0, time.UTC)

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "work_date", "clock_in", "clock_out", "status"}).
			AddRow(uuid.New().String(), userID.String(), date, clockIn, nil, "PRESENT")
		mock.ExpectQuery(`SELECT \* FROM "attendances" WHERE work_date = \$1 AND user_id = \$2`).
			WithArgs("2026-10-19", userID.String(), sqlmock.AnyArg()).
			WillReturnRows(rows)

		got, err := repo.FindByUserAndDate(context.Background(), userID.String(), date)
		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, "PRESENT", got.Status)
		assert.Nil(t, got.ClockOut)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "attendances"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByUserAndDate(context.Background(), userID.String(), date)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
