package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	Update(ctx context.Context, a *Attendance) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]Attendance, int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]Attendance, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose statements run on tx.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true, Context: context.Background()})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func ownedBy(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Where("work_date = ?", date.Format("2006-01-02")).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]Attendance, int64, error) {
	return r.list(r.db.WithContext(ctx).Scopes(ownedBy(userID)), offset, limit)
}

func (r *repository) ListAll(ctx context.Context, offset, limit int) ([]Attendance, int64, error) {
	return r.list(r.db.WithContext(ctx), offset, limit)
}

func (r *repository) list(q *gorm.DB, offset, limit int) ([]Attendance, int64, error) {
	// Session supaya Count dan Find tidak saling menimpa statement
	q = q.Model(&Attendance{}).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Attendance
	err := q.Preload("User").
		Order("work_date DESC, clock_in DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
