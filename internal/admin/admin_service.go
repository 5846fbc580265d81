package admin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hostelpass/internal/actor"
	adminerrors "hostelpass/internal/admin/errors"
	"hostelpass/internal/config"
	"hostelpass/internal/hierarchy"
)

//go:generate mockgen -source=admin_service.go -destination=mock/admin_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, act actor.Context, req CreateAdminRequest) (AdminResponse, error)
	GetAll(ctx context.Context, act actor.Context) ([]AdminResponse, error)
	GetByID(ctx context.Context, act actor.Context, id string) (AdminResponse, error)
	GetSubordinates(ctx context.Context, act actor.Context, id string) ([]AdminResponse, error)
	Update(ctx context.Context, act actor.Context, id string, req UpdateAdminRequest) (AdminResponse, error)
	Delete(ctx context.Context, act actor.Context, id string) error
}

type service struct {
	repo   Repository
	hier   *hierarchy.Hierarchy
	logger *zap.Logger
}

func NewService(repo Repository, hier *hierarchy.Hierarchy, logger ...*zap.Logger) Service {
	l := zap.L().Named("admin.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("admin.service")
	}
	return &service{repo: repo, hier: hier, logger: l}
}

func (s *service) Create(ctx context.Context, act actor.Context, req CreateAdminRequest) (AdminResponse, error) {
	role := config.Role(req.Role)
	if _, err := s.hier.LevelOf(role); err != nil {
		return AdminResponse{}, err
	}

	// Creating an admin is a mutation on that admin: the actor must strictly
	// outrank the role being assigned.
	if !s.hier.Outranks(act.Role, role) {
		return AdminResponse{}, adminerrors.ErrInsufficientRank
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AdminResponse{}, err
	}

	a := &Admin{
		ID:           uuid.New(),
		Name:         req.Name,
		Role:         role,
		Position:     req.Position,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		PasswordHash: string(hash),
		HostelBlock:  req.HostelBlock,
		Gender:       req.Gender,
	}
	if req.ReportsTo != nil {
		rid, err := uuid.Parse(*req.ReportsTo)
		if err != nil {
			return AdminResponse{}, adminerrors.ErrInvalidAdminID
		}
		a.ReportsTo = &rid
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create admin persist failed", zap.Error(err))
		return AdminResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create admin success",
		zap.String("admin_id", a.ID.String()),
		zap.String("role", string(a.Role)),
		zap.String("created_by", act.ID.String()),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, act actor.Context) ([]AdminResponse, error) {
	admins, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(admins), nil
}

func (s *service) GetByID(ctx context.Context, act actor.Context, id string) (AdminResponse, error) {
	a, err := s.findAdmin(ctx, id)
	if err != nil {
		return AdminResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) GetSubordinates(ctx context.Context, act actor.Context, id string) ([]AdminResponse, error) {
	if _, err := s.findAdmin(ctx, id); err != nil {
		return nil, err
	}

	admins, err := s.repo.FindByReportsTo(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(admins), nil
}

func (s *service) Update(ctx context.Context, act actor.Context, id string, req UpdateAdminRequest) (AdminResponse, error) {
	a, err := s.findAdmin(ctx, id)
	if err != nil {
		return AdminResponse{}, err
	}

	selfUpdate := act.ID == a.ID
	if !selfUpdate && !s.hier.Outranks(act.Role, a.Role) {
		return AdminResponse{}, adminerrors.ErrInsufficientRank
	}

	if req.Role != nil {
		newRole := config.Role(*req.Role)
		if _, err := s.hier.LevelOf(newRole); err != nil {
			return AdminResponse{}, err
		}
		if selfUpdate {
			// Self-update skips the rank check but must not escalate.
			if s.hier.Outranks(newRole, act.Role) {
				return AdminResponse{}, adminerrors.ErrCannotRaiseOwnRole
			}
		} else if !s.hier.Outranks(act.Role, newRole) {
			return AdminResponse{}, adminerrors.ErrInsufficientRank
		}
		a.Role = newRole
	}

	applyString(&a.Name, req.Name)
	applyString(&a.Position, req.Position)
	applyString(&a.PhoneNumber, req.PhoneNumber)
	applyString(&a.Email, req.Email)
	applyString(&a.HostelBlock, req.HostelBlock)
	applyString(&a.Gender, req.Gender)
	if req.ReportsTo != nil {
		rid, err := uuid.Parse(*req.ReportsTo)
		if err != nil {
			return AdminResponse{}, adminerrors.ErrInvalidAdminID
		}
		a.ReportsTo = &rid
	}

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("update admin persist failed", zap.String("admin_id", id), zap.Error(err))
		return AdminResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update admin success",
		zap.String("admin_id", id),
		zap.Bool("self_update", selfUpdate),
	)
	return mapToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, act actor.Context, id string) error {
	a, err := s.findAdmin(ctx, id)
	if err != nil {
		return err
	}

	if !s.hier.Outranks(act.Role, a.Role) {
		return adminerrors.ErrInsufficientRank
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete admin failed", zap.String("admin_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("delete admin success",
		zap.String("admin_id", id),
		zap.String("deleted_by", act.ID.String()),
	)
	return nil
}

func (s *service) findAdmin(ctx context.Context, id string) (*Admin, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, adminerrors.ErrInvalidAdminID
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, adminerrors.ErrAdminNotFound
		}
		return nil, err
	}
	return a, nil
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
		return adminerrors.ErrEmailTaken
	}
	return err
}

func mapToResponse(a Admin) AdminResponse {
	resp := AdminResponse{
		ID:          a.ID.String(),
		Name:        a.Name,
		Role:        string(a.Role),
		Position:    a.Position,
		PhoneNumber: a.PhoneNumber,
		Email:       a.Email,
		HostelBlock: a.HostelBlock,
		Gender:      a.Gender,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.ReportsTo != nil {
		v := a.ReportsTo.String()
		resp.ReportsTo = &v
	}
	return resp
}

func mapToListResponse(admins []Admin) []AdminResponse {
	resp := make([]AdminResponse, len(admins))
	for i, a := range admins {
		resp[i] = mapToResponse(a)
	}
	return resp
}
