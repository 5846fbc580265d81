package history

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"hostelpass/internal/pass"
	"hostelpass/internal/scope"
)

//go:generate mockgen -source=history_repo.go -destination=mock/history_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, kind pass.Kind, rec *Record) error
	FindAll(ctx context.Context, kind pass.Kind, filter scope.Filter) ([]Record, error)
	FindByStudent(ctx context.Context, kind pass.Kind, studentID string) ([]Record, error)
	FindByID(ctx context.Context, kind pass.Kind, id string) (*Record, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn binds the session to the external transaction when one is attached,
// so writes issued through WithTx actually run inside it.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Insert(ctx context.Context, kind pass.Kind, rec *Record) error {
	return r.conn(ctx).Table(tableFor(kind)).Create(rec).Error
}

func (r *repository) FindAll(ctx context.Context, kind pass.Kind, filter scope.Filter) ([]Record, error) {
	db := r.conn(ctx).Table(tableFor(kind))
	if !filter.All {
		db = db.Where("student_id IN ?", filter.StudentIDs)
	}

	var records []Record
	err := db.Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *repository) FindByStudent(ctx context.Context, kind pass.Kind, studentID string) ([]Record, error) {
	var records []Record
	err := r.conn(ctx).Table(tableFor(kind)).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindByID(ctx context.Context, kind pass.Kind, id string) (*Record, error) {
	var rec Record
	err := r.conn(ctx).Table(tableFor(kind)).
		First(&rec, "id = ?", id).Error
	return &rec, err
}
