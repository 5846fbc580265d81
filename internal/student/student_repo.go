package student

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=student_repo.go -destination=mock/student_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Student) error
	BulkCreate(ctx context.Context, students []Student) error
	FindAll(ctx context.Context) ([]Student, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Student, error)
	FindByID(ctx context.Context, id string) (*Student, error)
	FindByEmail(ctx context.Context, email string) (*Student, error)
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id string) error
	IDsByBlock(ctx context.Context, block string) ([]uuid.UUID, error)

	// ConsumeQuota is a conditional atomic decrement: it reports false when
	// the counter is already zero, so two concurrent creates can never drive
	// a quota negative.
	ConsumeQuota(ctx context.Context, id string, q Quota) (bool, error)
	// RestoreQuota adds one unit back, used when a pending request is deleted.
	RestoreQuota(ctx context.Context, id string, q Quota) error
	// ResetQuota sets the counter to value for every student in one bulk
	// update and returns the number of students affected.
	ResetQuota(ctx context.Context, q Quota, value int) (int64, error)
	// BulkUpgradeYear moves every student from one year tag to the next in a
	// single update and returns the number of students affected.
	BulkUpgradeYear(ctx context.Context, from, to string) (int64, error)
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

func (r *repository) Create(ctx context.Context, s *Student) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) BulkCreate(ctx context.Context, students []Student) error {
	return r.conn(ctx).Create(&students).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Student, error) {
	var students []Student
	err := r.conn(ctx).
		Order("hostel_block, room_no").
		Find(&students).Error
	return students, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Student, error) {
	var students []Student
	err := r.conn(ctx).
		Where("id IN ?", ids).
		Order("hostel_block, room_no").
		Find(&students).Error
	return students, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Student, error) {
	var s Student
	err := r.conn(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Student, error) {
	var s Student
	err := r.conn(ctx).First(&s, "email = ?", email).Error
	return &s, err
}

func (r *repository) Update(ctx context.Context, s *Student) error {
	return r.conn(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Student{}, "id = ?", id).Error
}

func (r *repository) IDsByBlock(ctx context.Context, block string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).
		Model(&Student{}).
		Where("hostel_block = ?", block).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) ConsumeQuota(ctx context.Context, id string, q Quota) (bool, error) {
	column := string(q)
	res := r.conn(ctx).Exec(
		"UPDATE students SET "+column+" = "+column+" - 1, updated_at = now() WHERE id = ? AND "+column+" > 0",
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) RestoreQuota(ctx context.Context, id string, q Quota) error {
	column := string(q)
	return r.conn(ctx).Exec(
		"UPDATE students SET "+column+" = "+column+" + 1, updated_at = now() WHERE id = ?",
		id,
	).Error
}

func (r *repository) ResetQuota(ctx context.Context, q Quota, value int) (int64, error) {
	column := string(q)
	res := r.conn(ctx).Exec(
		"UPDATE students SET "+column+" = ?, updated_at = now()",
		value,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) BulkUpgradeYear(ctx context.Context, from, to string) (int64, error) {
	res := r.conn(ctx).
		Model(&Student{}).
		Where("year = ?", from).
		Update("year", to)
	return res.RowsAffected, res.Error
}
