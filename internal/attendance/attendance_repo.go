package attendance

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"go-hrm/internal/apiclient"
	attendanceerrors "go-hrm/internal/attendance/errors"
	"go-hrm/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	pathToday    = "/attendance/get_today_attendance_status"
	pathCheckIn  = "/attendance/checkin"
	pathCheckOut = "/attendance/checkout"
	pathHistory  = "/attendance/get_attendance_list"
	pathAllUsers = "/attendance/get_all_user_attendance"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	TodayStatus(ctx context.Context) (*Record, error)
	CheckIn(ctx context.Context) (ActionResult, error)
	CheckOut(ctx context.Context) (ActionResult, error)
	History(ctx context.Context, params ListParams) ([]Entry, error)
	AllUsers(ctx context.Context, params ListParams) ([]Entry, error)
}

type repository struct {
	client *apiclient.Client
	logger *zap.Logger
}

func NewRepository(client *apiclient.Client, logger ...*zap.Logger) Repository {
	l := zap.L().Named("attendance.repository")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.repository")
	}
	return &repository{client: client, logger: l}
}

func (r *repository) TodayStatus(ctx context.Context) (*Record, error) {
	var wire todayWire
	if err := r.client.Get(ctx, pathToday, &wire); err != nil {
		r.logger.Warn("get today status failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		return nil, err
	}

	rec, err := wire.record()
	if err != nil {
		r.logger.Error("decode today status failed", zap.Error(err))
		return nil, attendanceerrors.ErrUnexpectedStatus
	}
	return rec, nil
}

func (r *repository) CheckIn(ctx context.Context) (ActionResult, error) {
	return r.mutate(ctx, pathCheckIn)
}

func (r *repository) CheckOut(ctx context.Context) (ActionResult, error) {
	return r.mutate(ctx, pathCheckOut)
}

func (r *repository) mutate(ctx context.Context, path string) (ActionResult, error) {
	key := uuid.NewString()
	var res ActionResult
	if err := r.client.Post(ctx, path, struct{}{}, &res, apiclient.WithIdempotencyKey(key)); err != nil {
		r.logger.Warn("attendance action failed",
			zap.String("path", path),
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
		return ActionResult{}, err
	}
	return res, nil
}

func (r *repository) History(ctx context.Context, params ListParams) ([]Entry, error) {
	return r.list(ctx, pathHistory, params)
}

func (r *repository) AllUsers(ctx context.Context, params ListParams) ([]Entry, error) {
	return r.list(ctx, pathAllUsers, params)
}

func (r *repository) list(ctx context.Context, path string, params ListParams) ([]Entry, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw json.RawMessage
	if err := r.client.Get(ctx, path, &raw); err != nil {
		r.logger.Warn("list attendance failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	entries, err := decodeEntries(raw)
	if err != nil {
		r.logger.Error("decode attendance list failed", zap.String("path", path), zap.Error(err))
		return nil, attendanceerrors.ErrUnexpectedStatus
	}
	return entries, nil
}
