package student_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"hostelpass/internal/actor"
	"hostelpass/internal/config"
	"hostelpass/internal/scope"
	"hostelpass/internal/student"
	studenterrors "hostelpass/internal/student/errors"
)

type fakeRepository struct {
	createFn          func(ctx context.Context, s *student.Student) error
	bulkCreateFn      func(ctx context.Context, students []student.Student) error
	findAllFn         func(ctx context.Context) ([]student.Student, error)
	findByIDsFn       func(ctx context.Context, ids []uuid.UUID) ([]student.Student, error)
	findByIDFn        func(ctx context.Context, id string) (*student.Student, error)
	findByEmailFn     func(ctx context.Context, email string) (*student.Student, error)
	updateFn          func(ctx context.Context, s *student.Student) error
	deleteFn          func(ctx context.Context, id string) error
	idsByBlockFn      func(ctx context.Context, block string) ([]uuid.UUID, error)
	consumeQuotaFn    func(ctx context.Context, id string, q student.Quota) (bool, error)
	restoreQuotaFn    func(ctx context.Context, id string, q student.Quota) error
	resetQuotaFn      func(ctx context.Context, q student.Quota, value int) (int64, error)
	bulkUpgradeYearFn func(ctx context.Context, from, to string) (int64, error)
}

func (f *fakeRepository) WithTx(tx *sql.Tx) student.Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, s *student.Student) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeRepository) BulkCreate(ctx context.Context, students []student.Student) error {
	if f.bulkCreateFn != nil {
		return f.bulkCreateFn(ctx, students)
	}
	return nil
}

func (f *fakeRepository) FindAll(ctx context.Context) ([]student.Student, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]student.Student, error) {
	if f.findByIDsFn != nil {
		return f.findByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id string) (*student.Student, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByEmail(ctx context.Context, email string) (*student.Student, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, s *student.Student) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, s)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRepository) IDsByBlock(ctx context.Context, block string) ([]uuid.UUID, error) {
	if f.idsByBlockFn != nil {
		return f.idsByBlockFn(ctx, block)
	}
	return nil, nil
}

func (f *fakeRepository) ConsumeQuota(ctx context.Context, id string, q student.Quota) (bool, error) {
	if f.consumeQuotaFn != nil {
		return f.consumeQuotaFn(ctx, id, q)
	}
	return true, nil
}

func (f *fakeRepository) RestoreQuota(ctx context.Context, id string, q student.Quota) error {
	if f.restoreQuotaFn != nil {
		return f.restoreQuotaFn(ctx, id, q)
	}
	return nil
}

func (f *fakeRepository) ResetQuota(ctx context.Context, q student.Quota, value int) (int64, error) {
	if f.resetQuotaFn != nil {
		return f.resetQuotaFn(ctx, q, value)
	}
	return 0, nil
}

func (f *fakeRepository) BulkUpgradeYear(ctx context.Context, from, to string) (int64, error) {
	if f.bulkUpgradeYearFn != nil {
		return f.bulkUpgradeYearFn(ctx, from, to)
	}
	return 0, nil
}

type fakeScoper struct {
	resolveFn func(ctx context.Context, act actor.Context) (scope.Filter, error)
}

func (f *fakeScoper) Resolve(ctx context.Context, act actor.Context) (scope.Filter, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, act)
	}
	return scope.Filter{All: true}, nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeRepository
	scoper  *fakeScoper
	service student.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRepository{}
	scoper := &fakeScoper{}
	svc := student.NewService(db, repo, scoper, config.DefaultWorkflow())

	return &serviceDeps{db: db, sqlMock: sqlMock, repo: repo, scoper: scoper, service: svc}
}

func validCreateRequest() student.CreateStudentRequest {
	return student.CreateStudentRequest{
		Name:              "Ravi Kumar",
		PhoneNumber:       "9876543210",
		Year:              "E2",
		Branch:            "CSE",
		RoomNo:            "A-107",
		Address:           "Vijayawada",
		ParentName:        "Suresh Kumar",
		ParentPhoneNumber: "9876500000",
		Email:             "ravi@hostel.edu",
		HostelBlock:       "A",
		Password:          "str0ngpass",
	}
}

func TestStudentService_Create(t *testing.T) {
	ctx := context.Background()
	warden := actor.Admin(uuid.New(), config.RoleWarden, "")

	t.Run("success seeds quotas from config", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		var created *student.Student
		deps.repo.createFn = func(ctx context.Context, s *student.Student) error {
			created = s
			return nil
		}

		resp, err := deps.service.Create(ctx, warden, validCreateRequest())

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, config.DefaultOutingQuota, created.RemainingOutings)
		assert.Equal(t, config.DefaultLeaveQuota, created.RemainingLeaves)
		assert.Equal(t, "default.jpg", created.Image)
		assert.NotEqual(t, "str0ngpass", created.PasswordHash)
		assert.Equal(t, "Ravi Kumar", resp.Name)
	})

	t.Run("negative unknown year", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.Year = "E9"
		_, err := deps.service.Create(ctx, warden, req)
		assert.ErrorIs(t, err, studenterrors.ErrUnknownYear)
	})

	t.Run("negative duplicate email maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.createFn = func(ctx context.Context, s *student.Student) error {
			return gorm.ErrDuplicatedKey
		}

		_, err := deps.service.Create(ctx, warden, validCreateRequest())
		assert.ErrorIs(t, err, studenterrors.ErrEmailTaken)
	})
}

func TestStudentService_BulkCreate(t *testing.T) {
	ctx := context.Background()
	warden := actor.Admin(uuid.New(), config.RoleWarden, "")

	t.Run("success runs inside one transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		var got []student.Student
		deps.repo.bulkCreateFn = func(ctx context.Context, students []student.Student) error {
			got = students
			return nil
		}

		req := student.BulkCreateStudentsRequest{
			Students: []student.CreateStudentRequest{validCreateRequest(), validCreateRequest()},
		}
		resp, err := deps.service.BulkCreate(ctx, warden, req)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Len(t, got, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative empty payload", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.BulkCreate(ctx, warden, student.BulkCreateStudentsRequest{})
		assert.ErrorIs(t, err, studenterrors.ErrEmptyBulkPayload)
	})

	t.Run("negative one bad year fails the whole batch", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		bad := validCreateRequest()
		bad.Year = "E9"
		_, err := deps.service.BulkCreate(ctx, warden, student.BulkCreateStudentsRequest{
			Students: []student.CreateStudentRequest{validCreateRequest(), bad},
		})
		assert.ErrorIs(t, err, studenterrors.ErrUnknownYear)
	})
}

func TestStudentService_GetByID(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.New()

	t.Run("negative student cannot read another profile", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, actor.Student(studentID), uuid.NewString())
		assert.ErrorIs(t, err, studenterrors.ErrNotOwnProfile)
	})

	t.Run("negative caretaker blocked outside own block", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*student.Student, error) {
			return &student.Student{ID: studentID, HostelBlock: "B"}, nil
		}

		_, err := deps.service.GetByID(ctx, actor.Admin(uuid.New(), config.RoleCaretaker, "A"), studentID.String())
		assert.ErrorIs(t, err, studenterrors.ErrStudentOutsideBlock)
	})

	t.Run("success student reads own profile", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*student.Student, error) {
			return &student.Student{ID: studentID, Name: "Ravi Kumar", HostelBlock: "A"}, nil
		}

		resp, err := deps.service.GetByID(ctx, actor.Student(studentID), studentID.String())
		assert.NoError(t, err)
		assert.Equal(t, "Ravi Kumar", resp.Name)
	})
}

func TestStudentService_SelfUpdate(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.New()

	t.Run("success updates contact fields only", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*student.Student, error) {
			return &student.Student{ID: studentID, PhoneNumber: "9876543210", RoomNo: "A-107"}, nil
		}

		phone := "9999999999"
		resp, err := deps.service.SelfUpdate(ctx, actor.Student(studentID), studentID.String(), student.SelfUpdateRequest{
			PhoneNumber: &phone,
		})

		assert.NoError(t, err)
		assert.Equal(t, "9999999999", resp.PhoneNumber)
		assert.Equal(t, "A-107", resp.RoomNo)
	})

	t.Run("negative id mismatch", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.SelfUpdate(ctx, actor.Student(studentID), uuid.NewString(), student.SelfUpdateRequest{})
		assert.ErrorIs(t, err, studenterrors.ErrNotOwnProfile)
	})
}

func TestStudentService_YearUpgrade(t *testing.T) {
	ctx := context.Background()
	warden := actor.Admin(uuid.New(), config.RoleWarden, "")

	t.Run("success single upgrade follows the ladder", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, fid string) (*student.Student, error) {
			return &student.Student{ID: id, Year: "E2"}, nil
		}

		resp, err := deps.service.UpgradeYear(ctx, warden, id.String())
		assert.NoError(t, err)
		assert.Equal(t, "E3", resp.Year)
	})

	t.Run("negative final year has no successor", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, fid string) (*student.Student, error) {
			return &student.Student{ID: id, Year: "E4"}, nil
		}

		_, err := deps.service.UpgradeYear(ctx, warden, id.String())
		assert.ErrorIs(t, err, studenterrors.ErrYearNotUpgradable)
	})

	t.Run("success bulk upgrade reports count", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.bulkUpgradeYearFn = func(ctx context.Context, from, to string) (int64, error) {
			assert.Equal(t, "E1", from)
			assert.Equal(t, "E2", to)
			return 42, nil
		}

		resp, err := deps.service.BulkUpgradeYear(ctx, warden, "E1")
		assert.NoError(t, err)
		assert.Equal(t, int64(42), resp.Count)
	})
}

func TestStudentService_QuotaReset(t *testing.T) {
	ctx := context.Background()
	warden := actor.Admin(uuid.New(), config.RoleWarden, "")

	t.Run("outing reset uses configured quota", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.resetQuotaFn = func(ctx context.Context, q student.Quota, value int) (int64, error) {
			assert.Equal(t, student.QuotaOuting, q)
			assert.Equal(t, config.DefaultOutingQuota, value)
			return 120, nil
		}

		resp, err := deps.service.ResetOutingQuota(ctx, warden)
		assert.NoError(t, err)
		assert.Equal(t, int64(120), resp.Count)
	})

	t.Run("leave reset uses configured quota", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.resetQuotaFn = func(ctx context.Context, q student.Quota, value int) (int64, error) {
			assert.Equal(t, student.QuotaLeave, q)
			assert.Equal(t, config.DefaultLeaveQuota, value)
			return 120, nil
		}

		_, err := deps.service.ResetLeaveQuota(ctx, warden)
		assert.NoError(t, err)
	})
}

func TestStudentService_Delete(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.New()

	t.Run("negative caretaker cannot delete outside own block", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*student.Student, error) {
			return &student.Student{ID: studentID, HostelBlock: "B"}, nil
		}
		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = true
			return nil
		}

		err := deps.service.Delete(ctx, actor.Admin(uuid.New(), config.RoleCaretaker, "A"), studentID.String())
		assert.ErrorIs(t, err, studenterrors.ErrStudentOutsideBlock)
		assert.False(t, deleted)
	})

	t.Run("success caretaker deletes inside own block", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*student.Student, error) {
			return &student.Student{ID: studentID, HostelBlock: "A"}, nil
		}
		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = true
			return nil
		}

		err := deps.service.Delete(ctx, actor.Admin(uuid.New(), config.RoleCaretaker, "A"), studentID.String())
		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("negative unknown student", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*student.Student, error) {
			return nil, gorm.ErrRecordNotFound
		}

		err := deps.service.Delete(ctx, actor.Admin(uuid.New(), config.RoleWarden, ""), studentID.String())
		assert.ErrorIs(t, err, studenterrors.ErrStudentNotFound)
	})
}
