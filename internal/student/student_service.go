package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hostelpass/internal/actor"
	"hostelpass/internal/config"
	"hostelpass/internal/scope"
	studenterrors "hostelpass/internal/student/errors"
)

//go:generate mockgen -source=student_service.go -destination=mock/student_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, act actor.Context, req CreateStudentRequest) (StudentResponse, error)
	BulkCreate(ctx context.Context, act actor.Context, req BulkCreateStudentsRequest) ([]StudentResponse, error)
	GetAll(ctx context.Context, act actor.Context) ([]StudentResponse, error)
	GetByID(ctx context.Context, act actor.Context, id string) (StudentResponse, error)
	Update(ctx context.Context, act actor.Context, id string, req UpdateStudentRequest) (StudentResponse, error)
	SelfUpdate(ctx context.Context, act actor.Context, id string, req SelfUpdateRequest) (StudentResponse, error)
	Delete(ctx context.Context, act actor.Context, id string) error
	UpgradeYear(ctx context.Context, act actor.Context, id string) (StudentResponse, error)
	BulkUpgradeYear(ctx context.Context, act actor.Context, year string) (BulkResultResponse, error)
	ResetOutingQuota(ctx context.Context, act actor.Context) (BulkResultResponse, error)
	ResetLeaveQuota(ctx context.Context, act actor.Context) (BulkResultResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	scoper scope.Scoper
	cfg    config.Workflow
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, scoper scope.Scoper, cfg config.Workflow, logger ...*zap.Logger) Service {
	l := zap.L().Named("student.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("student.service")
	}
	return &service{db: db, repo: repo, scoper: scoper, cfg: cfg, logger: l}
}

func (s *service) Create(ctx context.Context, act actor.Context, req CreateStudentRequest) (StudentResponse, error) {
	s.logger.Debug("create student requested",
		zap.String("actor_id", act.ID.String()),
		zap.String("email", req.Email),
		zap.String("hostel_block", req.HostelBlock),
	)

	if !s.validYear(req.Year) {
		return StudentResponse{}, studenterrors.ErrUnknownYear
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return StudentResponse{}, err
	}

	st := &Student{
		ID:                uuid.New(),
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		Year:              req.Year,
		Branch:            req.Branch,
		RoomNo:            req.RoomNo,
		Address:           req.Address,
		ParentName:        req.ParentName,
		ParentPhoneNumber: req.ParentPhoneNumber,
		Email:             req.Email,
		HostelBlock:       req.HostelBlock,
		PasswordHash:      string(hash),
		RemainingOutings:  s.cfg.OutingQuota,
		RemainingLeaves:   s.cfg.LeaveQuota,
	}
	if req.Image != "" {
		st.Image = req.Image
	} else {
		st.Image = "default.jpg"
	}

	if err := s.repo.Create(ctx, st); err != nil {
		s.logger.Error("create student persist failed", zap.Error(err))
		return StudentResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create student success",
		zap.String("student_id", st.ID.String()),
		zap.String("hostel_block", st.HostelBlock),
	)
	return mapToResponse(*st), nil
}

func (s *service) BulkCreate(ctx context.Context, act actor.Context, req BulkCreateStudentsRequest) ([]StudentResponse, error) {
	if len(req.Students) == 0 {
		return nil, studenterrors.ErrEmptyBulkPayload
	}

	students := make([]Student, 0, len(req.Students))
	for _, in := range req.Students {
		if !s.validYear(in.Year) {
			return nil, studenterrors.ErrUnknownYear
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		st := Student{
			ID:                uuid.New(),
			Name:              in.Name,
			PhoneNumber:       in.PhoneNumber,
			Year:              in.Year,
			Branch:            in.Branch,
			RoomNo:            in.RoomNo,
			Address:           in.Address,
			Image:             "default.jpg",
			ParentName:        in.ParentName,
			ParentPhoneNumber: in.ParentPhoneNumber,
			Email:             in.Email,
			HostelBlock:       in.HostelBlock,
			PasswordHash:      string(hash),
			RemainingOutings:  s.cfg.OutingQuota,
			RemainingLeaves:   s.cfg.LeaveQuota,
		}
		if in.Image != "" {
			st.Image = in.Image
		}
		students = append(students, st)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("bulk create students begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.BulkCreate(ctx, students); err != nil {
		s.logger.Error("bulk create students persist failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("bulk create students success", zap.Int("count", len(students)))
	return mapToListResponse(students), nil
}

func (s *service) GetAll(ctx context.Context, act actor.Context) ([]StudentResponse, error) {
	filter, err := s.scoper.Resolve(ctx, act)
	if err != nil {
		return nil, err
	}

	var students []Student
	if filter.All {
		students, err = s.repo.FindAll(ctx)
	} else {
		students, err = s.repo.FindByIDs(ctx, filter.StudentIDs)
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(students), nil
}

func (s *service) GetByID(ctx context.Context, act actor.Context, id string) (StudentResponse, error) {
	if act.IsStudent() && act.ID.String() != id {
		return StudentResponse{}, studenterrors.ErrNotOwnProfile
	}

	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StudentResponse{}, studenterrors.ErrStudentNotFound
		}
		return StudentResponse{}, err
	}

	if act.IsAdmin() && act.Role == config.RoleCaretaker && st.HostelBlock != act.Block {
		return StudentResponse{}, studenterrors.ErrStudentOutsideBlock
	}

	return mapToResponse(*st), nil
}

func (s *service) Update(ctx context.Context, act actor.Context, id string, req UpdateStudentRequest) (StudentResponse, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StudentResponse{}, studenterrors.ErrStudentNotFound
		}
		return StudentResponse{}, err
	}

	if act.Role == config.RoleCaretaker && st.HostelBlock != act.Block {
		return StudentResponse{}, studenterrors.ErrStudentOutsideBlock
	}

	if req.Year != nil {
		if !s.validYear(*req.Year) {
			return StudentResponse{}, studenterrors.ErrUnknownYear
		}
		st.Year = *req.Year
	}
	applyString(&st.Name, req.Name)
	applyString(&st.PhoneNumber, req.PhoneNumber)
	applyString(&st.Branch, req.Branch)
	applyString(&st.RoomNo, req.RoomNo)
	applyString(&st.Address, req.Address)
	applyString(&st.ParentName, req.ParentName)
	applyString(&st.ParentPhoneNumber, req.ParentPhoneNumber)
	applyString(&st.HostelBlock, req.HostelBlock)
	applyString(&st.Image, req.Image)
	if req.RemainingOutings != nil {
		st.RemainingOutings = *req.RemainingOutings
	}
	if req.RemainingLeaves != nil {
		st.RemainingLeaves = *req.RemainingLeaves
	}

	if err := s.repo.Update(ctx, st); err != nil {
		s.logger.Error("update student persist failed", zap.String("student_id", id), zap.Error(err))
		return StudentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*st), nil
}

func (s *service) SelfUpdate(ctx context.Context, act actor.Context, id string, req SelfUpdateRequest) (StudentResponse, error) {
	if act.ID.String() != id {
		return StudentResponse{}, studenterrors.ErrNotOwnProfile
	}

	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StudentResponse{}, studenterrors.ErrStudentNotFound
		}
		return StudentResponse{}, err
	}

	applyString(&st.PhoneNumber, req.PhoneNumber)
	applyString(&st.RoomNo, req.RoomNo)
	applyString(&st.Address, req.Address)
	applyString(&st.ParentName, req.ParentName)
	applyString(&st.ParentPhoneNumber, req.ParentPhoneNumber)
	applyString(&st.Image, req.Image)

	if err := s.repo.Update(ctx, st); err != nil {
		s.logger.Error("self update student persist failed", zap.String("student_id", id), zap.Error(err))
		return StudentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*st), nil
}

func (s *service) Delete(ctx context.Context, act actor.Context, id string) error {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studenterrors.ErrStudentNotFound
		}
		return err
	}
	if act.Role == config.RoleCaretaker && st.HostelBlock != act.Block {
		return studenterrors.ErrStudentOutsideBlock
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) UpgradeYear(ctx context.Context, act actor.Context, id string) (StudentResponse, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StudentResponse{}, studenterrors.ErrStudentNotFound
		}
		return StudentResponse{}, err
	}

	next, ok := s.cfg.YearLadder[st.Year]
	if !ok {
		return StudentResponse{}, studenterrors.ErrYearNotUpgradable
	}

	st.Year = next
	if err := s.repo.Update(ctx, st); err != nil {
		return StudentResponse{}, err
	}

	s.logger.Info("upgrade student year success",
		zap.String("student_id", id),
		zap.String("year", next),
	)
	return mapToResponse(*st), nil
}

func (s *service) BulkUpgradeYear(ctx context.Context, act actor.Context, year string) (BulkResultResponse, error) {
	next, ok := s.cfg.YearLadder[year]
	if !ok {
		return BulkResultResponse{}, studenterrors.ErrYearNotUpgradable
	}

	count, err := s.repo.BulkUpgradeYear(ctx, year, next)
	if err != nil {
		s.logger.Error("bulk upgrade year failed", zap.String("year", year), zap.Error(err))
		return BulkResultResponse{}, err
	}

	s.logger.Info("bulk upgrade year success",
		zap.String("from", year),
		zap.String("to", next),
		zap.Int64("count", count),
	)
	return BulkResultResponse{
		Count:   count,
		Message: fmt.Sprintf("Upgraded %d students from %s to %s", count, year, next),
	}, nil
}

func (s *service) ResetOutingQuota(ctx context.Context, act actor.Context) (BulkResultResponse, error) {
	count, err := s.repo.ResetQuota(ctx, QuotaOuting, s.cfg.OutingQuota)
	if err != nil {
		s.logger.Error("reset outing quota failed", zap.Error(err))
		return BulkResultResponse{}, err
	}
	s.logger.Info("reset outing quota success", zap.Int64("count", count))
	return BulkResultResponse{
		Count:   count,
		Message: fmt.Sprintf("Reset outing quota for %d students", count),
	}, nil
}

func (s *service) ResetLeaveQuota(ctx context.Context, act actor.Context) (BulkResultResponse, error) {
	count, err := s.repo.ResetQuota(ctx, QuotaLeave, s.cfg.LeaveQuota)
	if err != nil {
		s.logger.Error("reset leave quota failed", zap.Error(err))
		return BulkResultResponse{}, err
	}
	s.logger.Info("reset leave quota success", zap.Int64("count", count))
	return BulkResultResponse{
		Count:   count,
		Message: fmt.Sprintf("Reset leave quota for %d students", count),
	}, nil
}

func (s *service) validYear(year string) bool {
	if _, ok := s.cfg.YearLadder[year]; ok {
		return true
	}
	for _, next := range s.cfg.YearLadder {
		if next == year {
			return true
		}
	}
	return false
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return studenterrors.ErrEmailTaken
	}
	return err
}

func mapToResponse(st Student) StudentResponse {
	return StudentResponse{
		ID:                st.ID.String(),
		Name:              st.Name,
		PhoneNumber:       st.PhoneNumber,
		Year:              st.Year,
		Branch:            st.Branch,
		RoomNo:            st.RoomNo,
		Address:           st.Address,
		Image:             st.Image,
		ParentName:        st.ParentName,
		ParentPhoneNumber: st.ParentPhoneNumber,
		Email:             st.Email,
		HostelBlock:       st.HostelBlock,
		RemainingOutings:  st.RemainingOutings,
		RemainingLeaves:   st.RemainingLeaves,
		CreatedAt:         st.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(students []Student) []StudentResponse {
	resp := make([]StudentResponse, len(students))
	for i, st := range students {
		resp[i] = mapToResponse(st)
	}
	return resp
}
