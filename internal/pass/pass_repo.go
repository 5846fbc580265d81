package pass

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"hostelpass/internal/scope"
)

//go:generate mockgen -source=pass_repo.go -destination=mock/pass_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, kind Kind, p *Pass) error
	FindAll(ctx context.Context, kind Kind, filter scope.Filter) ([]Pass, error)
	FindByStatus(ctx context.Context, kind Kind, statuses []string, filter scope.Filter) ([]Pass, error)
	FindByID(ctx context.Context, kind Kind, id string) (*Pass, error)
	Update(ctx context.Context, kind Kind, p *Pass) error
	Delete(ctx context.Context, kind Kind, id string) error
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

func scoped(db *gorm.DB, filter scope.Filter) *gorm.DB {
	if filter.All {
		return db
	}
	return db.Where("student_id IN ?", filter.StudentIDs)
}

func (r *repository) Create(ctx context.Context, kind Kind, p *Pass) error {
	return r.conn(ctx).Table(kind.Table()).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context, kind Kind, filter scope.Filter) ([]Pass, error) {
	var passes []Pass
	err := scoped(r.conn(ctx).Table(kind.Table()), filter).
		Order("created_at DESC").
		Find(&passes).Error
	return passes, err
}

func (r *repository) FindByStatus(ctx context.Context, kind Kind, statuses []string, filter scope.Filter) ([]Pass, error) {
	var passes []Pass
	err := scoped(r.conn(ctx).Table(kind.Table()), filter).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&passes).Error
	return passes, err
}

func (r *repository) FindByID(ctx context.Context, kind Kind, id string) (*Pass, error) {
	var p Pass
	err := r.conn(ctx).Table(kind.Table()).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) Update(ctx context.Context, kind Kind, p *Pass) error {
	return r.conn(ctx).Table(kind.Table()).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, kind Kind, id string) error {
	return r.conn(ctx).Table(kind.Table()).
		Delete(&Pass{}, "id = ?", id).Error
}
