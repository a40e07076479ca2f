package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-hrm/internal/devapi/attendance/errors"
	"go-hrm/internal/shared/contextutil"
	"go-hrm/internal/shared/response"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	lateHour   = 9
	lateMinute = 15

	pgUniqueViolation = "23505"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	TodayStatus(ctx context.Context, userID string) (TodayResponse, error)
	CheckIn(ctx context.Context, userID string) (ActionResponse, error)
	CheckOut(ctx context.Context, userID string) (ActionResponse, error)
	History(ctx context.Context, userID string, q ListQuery) ([]RecordResponse, response.PaginationMeta, error)
	AllUsers(ctx context.Context, q ListQuery) ([]RecordResponse, response.PaginationMeta, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, loc *time.Location, logger ...*zap.Logger) Service {
	return NewServiceWithClock(db, repo, loc, time.Now, logger...)
}

func NewServiceWithClock(db *sql.DB, repo Repository, loc *time.Location, now func() time.Time, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if loc == nil {
		loc = time.Local
	}
	return &service{db: db, repo: repo, loc: loc, now: now, logger: l}
}

// today returns the current instant and the local calendar date as a UTC
// midnight, which is how work_date is stored.
func (s *service) today() (time.Time, time.Time) {
	now := s.now().In(s.loc)
	y, m, d := now.Date()
	return now, time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *service) TodayStatus(ctx context.Context, userID string) (TodayResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return TodayResponse{}, attendanceerrors.ErrInvalidUserID
	}

	_, date := s.today()
	row, err := s.repo.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TodayResponse{}, nil
		}
		return TodayResponse{}, err
	}

	resp := s.mapToResponse(*row)
	return TodayResponse{Attendance: &resp}, nil
}

func (s *service) CheckIn(ctx context.Context, userID string) (ActionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ActionResponse{}, attendanceerrors.ErrInvalidUserID
	}
	logger := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ActionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now, date := s.today()

	existing, err := qtx.FindByUserAndDate(ctx, userID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return ActionResponse{}, err
	}
	if err == nil && existing != nil {
		return ActionResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	status := StatusPresent
	if now.Hour() > lateHour || (now.Hour() == lateHour && now.Minute() > lateMinute) {
		status = StatusLate
	}

	row := &Attendance{
		ID:       uuid.New(),
		UserID:   uid,
		WorkDate: date,
		ClockIn:  now.UTC(),
		Status:   status,
	}

	if err := qtx.Create(ctx, row); err != nil {
		// unique index menangkap check-in paralel yang lolos cek di atas
		if isUniqueViolation(err) {
			return ActionResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		}
		return ActionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ActionResponse{}, err
	}

	logger.Info("checked in", zap.String("user_id", userID), zap.String("status", status))
	return ActionResponse{Message: MsgCheckedIn, Status: status, Attendance: s.mapToResponse(*row)}, nil
}

func (s *service) CheckOut(ctx context.Context, userID string) (ActionResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return ActionResponse{}, attendanceerrors.ErrInvalidUserID
	}
	logger := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ActionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now, date := s.today()

	row, err := qtx.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActionResponse{}, attendanceerrors.ErrNotCheckedIn
		}
		return ActionResponse{}, err
	}
	if row.ClockOut != nil {
		return ActionResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	out := now.UTC()
	row.ClockOut = &out

	if err := qtx.Update(ctx, row); err != nil {
		return ActionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ActionResponse{}, err
	}

	logger.Info("checked out", zap.String("user_id", userID))
	return ActionResponse{Message: MsgCheckedOut, Status: row.Status, Attendance: s.mapToResponse(*row)}, nil
}

func (s *service) History(ctx context.Context, userID string, q ListQuery) ([]RecordResponse, response.PaginationMeta, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, response.PaginationMeta{}, attendanceerrors.ErrInvalidUserID
	}
	page, limit, offset := q.normalize()

	rows, total, err := s.repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}
	return s.mapList(rows), response.NewPaginationMeta(total, page, limit), nil
}

func (s *service) AllUsers(ctx context.Context, q ListQuery) ([]RecordResponse, response.PaginationMeta, error) {
	page, limit, offset := q.normalize()

	rows, total, err := s.repo.ListAll(ctx, offset, limit)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}
	return s.mapList(rows), response.NewPaginationMeta(total, page, limit), nil
}

func (s *service) mapList(rows []Attendance) []RecordResponse {
	res := make([]RecordResponse, len(rows))
	for i, r := range rows {
		res[i] = s.mapToResponse(r)
	}
	return res
}

func (s *service) mapToResponse(a Attendance) RecordResponse {
	in := a.ClockIn.In(s.loc).Format(time.TimeOnly)
	resp := RecordResponse{
		ID:     a.ID.String(),
		UserID: a.UserID.String(),
		Date:   a.WorkDate.Format(time.DateOnly),
		TimeIn: &in,
		Status: a.Status,
	}
	if a.User != nil {
		resp.UserName = a.User.Name
	}
	if a.ClockOut != nil {
		v := a.ClockOut.In(s.loc).Format(time.TimeOnly)
		resp.TimeOut = &v
	}
	return resp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
