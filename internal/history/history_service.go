package history

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostelpass/internal/actor"
	historyerrors "hostelpass/internal/history/errors"
	"hostelpass/internal/pass"
	"hostelpass/internal/scope"
)

//go:generate mockgen -source=history_service.go -destination=mock/history_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, act actor.Context, kind pass.Kind) ([]RecordResponse, error)
	GetByID(ctx context.Context, act actor.Context, kind pass.Kind, id string) (RecordResponse, error)
	GetByStudent(ctx context.Context, act actor.Context, kind pass.Kind, studentID string) ([]RecordResponse, error)
}

type service struct {
	repo   Repository
	scoper scope.Scoper
	logger *zap.Logger
}

func NewService(repo Repository, scoper scope.Scoper, logger ...*zap.Logger) Service {
	l := zap.L().Named("history.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("history.service")
	}
	return &service{repo: repo, scoper: scoper, logger: l}
}

func (s *service) GetAll(ctx context.Context, act actor.Context, kind pass.Kind) ([]RecordResponse, error) {
	filter, err := s.scoper.Resolve(ctx, act)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.FindAll(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(kind, records), nil
}

func (s *service) GetByID(ctx context.Context, act actor.Context, kind pass.Kind, id string) (RecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RecordResponse{}, historyerrors.ErrInvalidRecordID
	}

	rec, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, historyerrors.ErrRecordNotFound
		}
		return RecordResponse{}, err
	}

	filter, err := s.scoper.Resolve(ctx, act)
	if err != nil {
		return RecordResponse{}, err
	}
	if !filter.AllowsStudent(rec.StudentID) {
		return RecordResponse{}, historyerrors.ErrOutsideScope
	}

	return mapToResponse(kind, *rec), nil
}

func (s *service) GetByStudent(ctx context.Context, act actor.Context, kind pass.Kind, studentID string) ([]RecordResponse, error) {
	sid, err := uuid.Parse(studentID)
	if err != nil {
		return nil, historyerrors.ErrInvalidRecordID
	}

	filter, err := s.scoper.Resolve(ctx, act)
	if err != nil {
		return nil, err
	}
	if !filter.AllowsStudent(sid) {
		return nil, historyerrors.ErrOutsideScope
	}

	records, err := s.repo.FindByStudent(ctx, kind, studentID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(kind, records), nil
}
