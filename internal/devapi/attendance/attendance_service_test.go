package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	attendanceerrors "go-hrm/internal/devapi/attendance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn            func(tx *sql.Tx) Repository
	createFn            func(ctx context.Context, a *Attendance) error
	findByUserAndDateFn func(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	updateFn            func(ctx context.Context, a *Attendance) error
	listByUserFn        func(ctx context.Context, userID string, offset, limit int) ([]Attendance, int64, error)
	listAllFn           func(ctx context.Context, offset, limit int) ([]Attendance, int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                    { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error { return f.createFn(ctx, a) }
func (f *fakeRepo) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	return f.findByUserAndDateFn(ctx, userID, date)
}
func (f *fakeRepo) Update(ctx context.Context, a *Attendance) error { return f.updateFn(ctx, a) }
func (f *fakeRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]Attendance, int64, error) {
	return f.listByUserFn(ctx, userID, offset, limit)
}
func (f *fakeRepo) ListAll(ctx context.Context, offset, limit int) ([]Attendance, int64, error) {
	return f.listAllFn(ctx, offset, limit)
}

var wib = time.FixedZone("WIB", 7*3600)

func fixedNow(h, m int) func() time.Time {
	return func() time.Time { return time.Date(2026, 10, 19, h, m, 0, 0, wib) }
}

// memoryRepo keeps a single saved row, enough for one user's day.
func memoryRepo() (*fakeRepo, *Attendance) {
	saved := &Attendance{}
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, a *Attendance) error { *saved = *a; return nil }
	repo.updateFn = func(ctx context.Context, a *Attendance) error { *saved = *a; return nil }
	repo.findByUserAndDateFn = func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
		if saved.ID == uuid.Nil {
			return nil, gorm.ErrRecordNotFound
		}
		row := *saved
		return &row, nil
	}
	return repo, saved
}

func TestService_CheckInAndCheckOut(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := uuid.New().String()
	ctx := context.Background()
	repo, saved := memoryRepo()

	clock := fixedNow(8, 30)
	svc := NewServiceWithClock(db, repo, wib, func() time.Time { return clock() })

	mock.ExpectBegin()
	mock.ExpectCommit()
	inResp, err := svc.CheckIn(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, MsgCheckedIn, inResp.Message)
	assert.Equal(t, StatusPresent, inResp.Status)
	require.NotNil(t, inResp.Attendance.TimeIn)
	assert.Equal(t, "08:30:00", *inResp.Attendance.TimeIn)
	assert.Nil(t, inResp.Attendance.TimeOut)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), saved.WorkDate)

	clock = fixedNow(17, 5)
	mock.ExpectBegin()
	mock.ExpectCommit()
	outResp, err := svc.CheckOut(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, MsgCheckedOut, outResp.Message)
	require.NotNil(t, outResp.Attendance.TimeOut)
	assert.Equal(t, "17:05:00", *outResp.Attendance.TimeOut)

	today, err := svc.TodayStatus(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, today.Attendance)
	assert.Equal(t, "08:30:00", *today.Attendance.TimeIn)
	assert.Equal(t, "17:05:00", *today.Attendance.TimeOut)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_LateThreshold(t *testing.T) {
	cases := []struct {
		name   string
		h, m   int
		status string
	}{
		{"exactly 09:15", 9, 15, StatusPresent},
		{"09:16", 9, 16, StatusLate},
		{"afternoon", 13, 0, StatusLate},
		{"early", 7, 59, StatusPresent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo, _ := memoryRepo()
			svc := NewServiceWithClock(db, repo, wib, fixedNow(tc.h, tc.m))

			mock.ExpectBegin()
			mock.ExpectCommit()
			resp, err := svc.CheckIn(context.Background(), uuid.New().String())
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.Status)
		})
	}
}

func TestService_CheckIn_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByUserAndDateFn = func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
		return &Attendance{ID: uuid.New()}, nil
	}

	svc := NewServiceWithClock(db, repo, wib, fixedNow(8, 0))
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.CheckIn(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	assert.EqualError(t, err, "You have already checked in today")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByUserAndDateFn = func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
		return nil, gorm.ErrRecordNotFound
	}
	repo.createFn = func(ctx context.Context, a *Attendance) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_attendance_user_date"}
	}

	svc := NewServiceWithClock(db, repo, wib, fixedNow(8, 0))
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.CheckIn(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_Rules(t *testing.T) {
	t.Run("Not Checked In", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo, _ := memoryRepo()
		svc := NewServiceWithClock(db, repo, wib, fixedNow(17, 0))

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.CheckOut(context.Background(), uuid.New().String())
		assert.ErrorIs(t, err, attendanceerrors.ErrNotCheckedIn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Checked Out", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		out := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
		repo := &fakeRepo{}
		repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
		repo.findByUserAndDateFn = func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
			return &Attendance{ID: uuid.New(), ClockOut: &out}, nil
		}

		svc := NewServiceWithClock(db, repo, wib, fixedNow(17, 30))
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.CheckOut(context.Background(), uuid.New().String())
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin Fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo, _ := memoryRepo()
		svc := NewServiceWithClock(db, repo, wib, fixedNow(17, 0))

		mock.ExpectBegin().WillReturnError(errors.New("db down"))
		_, err = svc.CheckOut(context.Background(), uuid.New().String())
		assert.EqualError(t, err, "db down")
	})
}

func TestService_TodayStatus(t *testing.T) {
	t.Run("Nothing Yet", func(t *testing.T) {
		repo, _ := memoryRepo()
		svc := NewServiceWithClock(nil, repo, wib, fixedNow(8, 0))

		resp, err := svc.TodayStatus(context.Background(), uuid.New().String())
		require.NoError(t, err)
		assert.Nil(t, resp.Attendance)
	})

	t.Run("Uses Local Date", func(t *testing.T) {
		var asked time.Time
		repo := &fakeRepo{}
		repo.findByUserAndDateFn = func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
			asked = date
			return nil, gorm.ErrRecordNotFound
		}
		// 23:30 UTC is already the next day in WIB
		now := func() time.Time { return time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC) }
		svc := NewServiceWithClock(nil, repo, wib, now)

		_, err := svc.TodayStatus(context.Background(), uuid.New().String())
		require.NoError(t, err)
		assert.Equal(t, "2026-10-20", asked.Format(time.DateOnly))
	})

	t.Run("Invalid User", func(t *testing.T) {
		svc := NewServiceWithClock(nil, &fakeRepo{}, wib, fixedNow(8, 0))
		_, err := svc.TodayStatus(context.Background(), "nope")
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidUserID)
	})
}

func TestService_Lists(t *testing.T) {
	userID := uuid.New()
	in := time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC)
	rows := []Attendance{
		{ID: uuid.New(), UserID: userID, WorkDate: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), ClockIn: in, Status: StatusPresent, User: &UserRef{ID: userID, Name: "Budi"}},
	}

	var gotOffset, gotLimit int
	repo := &fakeRepo{}
	repo.listByUserFn = func(ctx context.Context, uid string, offset, limit int) ([]Attendance, int64, error) {
		gotOffset, gotLimit = offset, limit
		return rows, 21, nil
	}
	repo.listAllFn = func(ctx context.Context, offset, limit int) ([]Attendance, int64, error) {
		gotOffset, gotLimit = offset, limit
		return rows, 1, nil
	}
	svc := NewServiceWithClock(nil, repo, wib, fixedNow(8, 0))

	res, meta, err := svc.History(context.Background(), userID.String(), ListQuery{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 10, gotOffset)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, int64(21), meta.Total)
	assert.Equal(t, 5, meta.TotalPages)
	require.Len(t, res, 1)
	assert.Equal(t, "08:00:00", *res[0].TimeIn)
	assert.Equal(t, "2026-10-18", res[0].Date)

	res, meta, err = svc.AllUsers(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, gotOffset)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, "Budi", res[0].UserName)
}
