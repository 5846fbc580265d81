package admin

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=admin_repo.go -destination=mock/admin_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Admin) error
	FindAll(ctx context.Context) ([]Admin, error)
	FindByID(ctx context.Context, id string) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByReportsTo(ctx context.Context, id string) ([]Admin, error)
	Update(ctx context.Context, a *Admin) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, a *Admin) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Admin, error) {
	var admins []Admin
	err := r.conn(ctx).
		Order("role, name").
		Find(&admins).Error
	return admins, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Admin, error) {
	var a Admin
	err := r.conn(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := r.conn(ctx).First(&a, "email = ?", email).Error
	return &a, err
}

func (r *repository) FindByReportsTo(ctx context.Context, id string) ([]Admin, error) {
	var admins []Admin
	err := r.conn(ctx).
		Where("reports_to = ?", id).
		Order("name").
		Find(&admins).Error
	return admins, err
}

func (r *repository) Update(ctx context.Context, a *Admin) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Admin{}, "id = ?", id).Error
}
