package pass

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostelpass/internal/actor"
	"hostelpass/internal/config"
	"hostelpass/internal/events"
	"hostelpass/internal/hierarchy"
	"hostelpass/internal/messaging/kafka"
	passerrors "hostelpass/internal/pass/errors"
	"hostelpass/internal/scope"
	"hostelpass/internal/shared/contextutil"
	"hostelpass/internal/student"
)

// ArchiveRecord is the immutable snapshot handed to the archiver when a
// return is recorded.
type ArchiveRecord struct {
	Kind         Kind
	StudentID    uuid.UUID
	ScheduledOut time.Time
	ScheduledIn  time.Time
	ActualOut    time.Time
	ActualIn     time.Time
	Reason       string
	Destination  string
	Remarks      string
}

// Archiver persists history snapshots. Archival runs inside the same
// transaction as the return-recording mutation: if it fails, the whole
// operation fails.
type Archiver interface {
	ArchiveWithTx(ctx context.Context, tx *sql.Tx, rec ArchiveRecord) error
}

//go:generate mockgen -source=pass_service.go -destination=mock/pass_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, act actor.Context, kind Kind, in CreateInput) (PassResponse, error)
	GetAll(ctx context.Context, act actor.Context, kind Kind) ([]PassResponse, error)
	GetByID(ctx context.Context, act actor.Context, kind Kind, id string) (PassResponse, error)
	StudentUpdate(ctx context.Context, act actor.Context, kind Kind, id string, in StudentUpdateInput) (PassResponse, error)
	Decide(ctx context.Context, act actor.Context, kind Kind, id string, in DecideInput) (PassResponse, error)
	RecordDeparture(ctx context.Context, act actor.Context, kind Kind, id string) (PassResponse, error)
	RecordReturn(ctx context.Context, act actor.Context, kind Kind, id string) (PassResponse, error)
	Delete(ctx context.Context, act actor.Context, kind Kind, id string) error
	PendingQueue(ctx context.Context, act actor.Context, kind Kind) ([]PassResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	students student.Repository
	scoper   scope.Scoper
	hier     *hierarchy.Hierarchy
	archiver Archiver
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	students student.Repository,
	scoper scope.Scoper,
	hier *hierarchy.Hierarchy,
	archiver Archiver,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("pass.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("pass.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		students: students,
		scoper:   scoper,
		hier:     hier,
		archiver: archiver,
		outbox:   outbox,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, act actor.Context, kind Kind, in CreateInput) (PassResponse, error) {
	s.logger.Debug("create pass requested",
		zap.String("kind", string(kind)),
		zap.String("actor_id", act.ID.String()),
	)

	if !act.IsStudent() {
		return PassResponse{}, passerrors.ErrStudentActorRequired
	}

	out, in2, err := parseWindow(kind, in.OutAt, in.InAt)
	if err != nil {
		return PassResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create pass begin tx failed", zap.Error(err))
		return PassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	studentsTx := s.students.WithTx(tx)

	// Conditional decrement and insert share one transaction so a quota unit
	// is never consumed without a persisted request, and vice versa.
	consumed, err := studentsTx.ConsumeQuota(ctx, act.ID.String(), kind.Quota())
	if err != nil {
		s.logger.Error("create pass quota decrement failed", zap.Error(err))
		return PassResponse{}, err
	}
	if !consumed {
		return PassResponse{}, quotaExhausted(kind)
	}

	p := &Pass{
		ID:           uuid.New(),
		StudentID:    act.ID,
		ScheduledOut: out,
		ScheduledIn:  in2,
		Status:       StatusPending,
		PhoneNumber:  in.PhoneNumber,
		Reason:       in.Reason,
		Destination:  in.Destination,
	}

	if err := qtx.Create(ctx, kind, p); err != nil {
		s.logger.Error("create pass persist failed", zap.Error(err))
		return PassResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create pass commit failed", zap.Error(err))
		return PassResponse{}, err
	}
	s.logger.Info("create pass success",
		zap.String("pass_id", p.ID.String()),
		zap.String("kind", string(kind)),
		zap.String("student_id", act.ID.String()),
	)

	return mapToResponse(kind, *p), nil
}

func (s *service) GetAll(ctx context.Context, act actor.Context, kind Kind) ([]PassResponse, error) {
	filter, err := s.scoper.Resolve(ctx, act)
	if err != nil {
		return nil, err
	}

	passes, err := s.repo.FindAll(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(kind, passes), nil
}

func (s *service) GetByID(ctx context.Context, act actor.Context, kind Kind, id string) (PassResponse, error) {
	p, err := s.findPass(ctx, kind, id)
	if err != nil {
		return PassResponse{}, err
	}

	// Re-check scope after fetch so a guessed ID cannot cross the block or
	// ownership boundary.
	filter, err := s.scoper.Resolve(ctx, act)
	if err != nil {
		return PassResponse{}, err
	}
	if !filter.AllowsStudent(p.StudentID) {
		return PassResponse{}, passerrors.ErrNotOwner
	}

	return mapToResponse(kind, *p), nil
}

func (s *service) StudentUpdate(ctx context.Context, act actor.Context, kind Kind, id string, in StudentUpdateInput) (PassResponse, error) {
	if !act.IsStudent() {
		return PassResponse{}, passerrors.ErrStudentActorRequired
	}

	p, err := s.findPass(ctx, kind, id)
	if err != nil {
		return PassResponse{}, err
	}
	if p.StudentID != act.ID {
		return PassResponse{}, passerrors.ErrNotOwner
	}
	if p.Status != StatusPending {
		return PassResponse{}, passerrors.ErrNotPending
	}

	outStr := in.OutAt
	inStr := in.InAt
	if outStr != nil || inStr != nil {
		outVal := p.ScheduledOut.Format(kind.timeLayout())
		inVal := p.ScheduledIn.Format(kind.timeLayout())
		if outStr != nil {
			outVal = *outStr
		}
		if inStr != nil {
			inVal = *inStr
		}
		out, in2, err := parseWindow(kind, outVal, inVal)
		if err != nil {
			return PassResponse{}, err
		}
		p.ScheduledOut = out
		p.ScheduledIn = in2
	}
	if in.PhoneNumber != nil {
		p.PhoneNumber = *in.PhoneNumber
	}
	if in.Reason != nil {
		p.Reason = *in.Reason
	}
	if in.Destination != nil {
		p.Destination = *in.Destination
	}

	if err := s.repo.Update(ctx, kind, p); err != nil {
		s.logger.Error("student update pass persist failed", zap.String("pass_id", id), zap.Error(err))
		return PassResponse{}, err
	}
	return mapToResponse(kind, *p), nil
}

func (s *service) Decide(ctx context.Context, act actor.Context, kind Kind, id string, in DecideInput) (PassResponse, error) {
	s.logger.Debug("decide pass requested",
		zap.String("pass_id", id),
		zap.String("kind", string(kind)),
		zap.String("target_status", in.Status),
		zap.String("actor_id", act.ID.String()),
	)

	if !act.IsAdmin() {
		return PassResponse{}, passerrors.ErrAdminActorRequired
	}

	p, err := s.findPass(ctx, kind, id)
	if err != nil {
		return PassResponse{}, err
	}

	if err := s.checkBlockScope(ctx, act, p); err != nil {
		return PassResponse{}, err
	}

	// Terminal decisions stay terminal: only pending and forwarded requests
	// may be decided.
	if p.Status != StatusPending && p.Status != StatusForwarded {
		return PassResponse{}, passerrors.ErrAlreadyDecided
	}

	switch in.Status {
	case StatusAccepted:
		actorID := act.ID
		p.AcceptedBy = &actorID
		p.Remarks = in.Remarks
	case StatusRejected:
		if in.Remarks == "" {
			return PassResponse{}, passerrors.ErrRemarksRequired
		}
		p.AcceptedBy = nil
		p.Remarks = in.Remarks
	case StatusForwarded:
		if s.hier.IsHighest(act.Role) {
			return PassResponse{}, passerrors.ErrForwardAtHighestRole
		}
		p.AcceptedBy = nil
		p.Remarks = in.Remarks
	default:
		return PassResponse{}, passerrors.ErrUnknownStatus
	}
	p.Status = in.Status

	if err := s.repo.Update(ctx, kind, p); err != nil {
		s.logger.Error("decide pass persist failed",
			zap.String("pass_id", id),
			zap.String("target_status", in.Status),
			zap.Error(err),
		)
		return PassResponse{}, err
	}

	s.logger.Info("decide pass success",
		zap.String("pass_id", id),
		zap.String("status", p.Status),
		zap.String("decided_by", act.ID.String()),
	)
	return mapToResponse(kind, *p), nil
}

func (s *service) RecordDeparture(ctx context.Context, act actor.Context, kind Kind, id string) (PassResponse, error) {
	if !act.IsAdmin() {
		return PassResponse{}, passerrors.ErrAdminActorRequired
	}

	p, err := s.findPass(ctx, kind, id)
	if err != nil {
		return PassResponse{}, err
	}
	if p.Status != StatusAccepted {
		return PassResponse{}, passerrors.ErrNotAccepted
	}

	now := time.Now().UTC()
	p.ActualOut = &now

	if err := s.repo.Update(ctx, kind, p); err != nil {
		s.logger.Error("record departure persist failed", zap.String("pass_id", id), zap.Error(err))
		return PassResponse{}, err
	}

	s.logger.Info("record departure success", zap.String("pass_id", id), zap.String("kind", string(kind)))
	return mapToResponse(kind, *p), nil
}

func (s *service) RecordReturn(ctx context.Context, act actor.Context, kind Kind, id string) (PassResponse, error) {
	if !act.IsAdmin() {
		return PassResponse{}, passerrors.ErrAdminActorRequired
	}

	p, err := s.findPass(ctx, kind, id)
	if err != nil {
		return PassResponse{}, err
	}
	if p.ActualOut == nil {
		return PassResponse{}, passerrors.ErrDepartureNotRecorded
	}
	if p.ActualIn != nil {
		return PassResponse{}, passerrors.ErrAlreadyReturned
	}

	now := time.Now().UTC()
	p.ActualIn = &now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("record return begin tx failed", zap.Error(err))
		return PassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, kind, p); err != nil {
		s.logger.Error("record return persist failed", zap.String("pass_id", id), zap.Error(err))
		return PassResponse{}, err
	}

	rec := ArchiveRecord{
		Kind:         kind,
		StudentID:    p.StudentID,
		ScheduledOut: p.ScheduledOut,
		ScheduledIn:  p.ScheduledIn,
		ActualOut:    *p.ActualOut,
		ActualIn:     *p.ActualIn,
		Reason:       p.Reason,
		Destination:  p.Destination,
		Remarks:      p.Remarks,
	}
	if err := s.archiver.ArchiveWithTx(ctx, tx, rec); err != nil {
		s.logger.Error("record return archive failed", zap.String("pass_id", id), zap.Error(err))
		return PassResponse{}, err
	}

	if s.outbox != nil {
		rid := contextutil.GetRequestID(ctx)
		event := events.PassCompletedEvent{
			EventType:  "pass_completed",
			RequestID:  rid,
			Kind:       string(kind),
			PassID:     p.ID.String(),
			StudentID:  p.StudentID.String(),
			OccurredAt: now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return PassResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "pass",
			AggregateID:   p.ID.String(),
			EventType:     event.EventType,
			Topic:         events.PassCompletedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("record return outbox persist failed", zap.String("pass_id", id), zap.Error(err))
			return PassResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("record return commit failed", zap.String("pass_id", id), zap.Error(err))
		return PassResponse{}, err
	}

	s.logger.Info("record return success",
		zap.String("pass_id", id),
		zap.String("kind", string(kind)),
		zap.String("student_id", p.StudentID.String()),
	)
	return mapToResponse(kind, *p), nil
}

func (s *service) Delete(ctx context.Context, act actor.Context, kind Kind, id string) error {
	p, err := s.findPass(ctx, kind, id)
	if err != nil {
		return err
	}

	if act.IsStudent() {
		if p.StudentID != act.ID {
			return passerrors.ErrNotOwner
		}
		if p.Status != StatusPending {
			return passerrors.ErrNotPending
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)
		studentsTx := s.students.WithTx(tx)

		if err := qtx.Delete(ctx, kind, id); err != nil {
			s.logger.Error("delete pass failed", zap.String("pass_id", id), zap.Error(err))
			return err
		}
		// A deleted pending request hands its quota unit back.
		if err := studentsTx.RestoreQuota(ctx, act.ID.String(), kind.Quota()); err != nil {
			s.logger.Error("delete pass quota restore failed", zap.String("pass_id", id), zap.Error(err))
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}

		s.logger.Info("delete pass success",
			zap.String("pass_id", id),
			zap.String("kind", string(kind)),
			zap.String("student_id", act.ID.String()),
		)
		return nil
	}

	if err := s.checkBlockScope(ctx, act, p); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, kind, id); err != nil {
		s.logger.Error("delete pass failed", zap.String("pass_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("delete pass success",
		zap.String("pass_id", id),
		zap.String("kind", string(kind)),
		zap.String("deleted_by", act.ID.String()),
	)
	return nil
}

func (s *service) PendingQueue(ctx context.Context, act actor.Context, kind Kind) ([]PassResponse, error) {
	if !act.IsAdmin() {
		return nil, passerrors.ErrAdminActorRequired
	}

	// Caretakers review fresh requests from their block; higher roles also
	// pick up anything forwarded upward, across all blocks.
	statuses := []string{StatusPending, StatusForwarded}
	filter := scope.Filter{All: true}
	if act.Role == config.RoleCaretaker {
		statuses = []string{StatusPending}
		var err error
		filter, err = s.scoper.Resolve(ctx, act)
		if err != nil {
			return nil, err
		}
	}

	passes, err := s.repo.FindByStatus(ctx, kind, statuses, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(kind, passes), nil
}

func (s *service) findPass(ctx context.Context, kind Kind, id string) (*Pass, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, passerrors.ErrInvalidPassID
	}
	p, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, passerrors.ErrPassNotFound
		}
		return nil, err
	}
	return p, nil
}

// checkBlockScope rejects caretaker mutations on requests owned by students
// outside the caretaker's block.
func (s *service) checkBlockScope(ctx context.Context, act actor.Context, p *Pass) error {
	if act.Role != config.RoleCaretaker {
		return nil
	}
	filter, err := s.scoper.Resolve(ctx, act)
	if err != nil {
		return err
	}
	if !filter.AllowsStudent(p.StudentID) {
		return passerrors.ErrOutsideBlock
	}
	return nil
}

func quotaExhausted(kind Kind) error {
	if kind == KindOuting {
		return passerrors.ErrOutingQuotaExhausted
	}
	return passerrors.ErrLeaveQuotaExhausted
}

func parseWindow(kind Kind, outStr, inStr string) (time.Time, time.Time, error) {
	layout := kind.timeLayout()
	out, err := time.Parse(layout, outStr)
	if err != nil {
		return time.Time{}, time.Time{}, passerrors.ErrInvalidTimeFormat
	}
	in, err := time.Parse(layout, inStr)
	if err != nil {
		return time.Time{}, time.Time{}, passerrors.ErrInvalidTimeFormat
	}
	if in.Before(out) {
		return time.Time{}, time.Time{}, passerrors.ErrInvalidWindow
	}
	return out, in, nil
}

func mapToResponse(kind Kind, p Pass) PassResponse {
	layout := kind.timeLayout()
	resp := PassResponse{
		ID:           p.ID.String(),
		Kind:         string(kind),
		StudentID:    p.StudentID.String(),
		ScheduledOut: p.ScheduledOut.Format(layout),
		ScheduledIn:  p.ScheduledIn.Format(layout),
		Status:       p.Status,
		Remarks:      p.Remarks,
		PhoneNumber:  p.PhoneNumber,
		Destination:  p.Destination,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if kind == KindOuting {
		resp.Purpose = p.Reason
	} else {
		resp.Reason = p.Reason
	}
	if p.AcceptedBy != nil {
		v := p.AcceptedBy.String()
		resp.AcceptedBy = &v
	}
	if p.ActualOut != nil {
		v := p.ActualOut.UTC().Format(time.RFC3339)
		resp.ActualOut = &v
	}
	if p.ActualIn != nil {
		v := p.ActualIn.UTC().Format(time.RFC3339)
		resp.ActualIn = &v
	}
	return resp
}

func mapToListResponse(kind Kind, passes []Pass) []PassResponse {
	resp := make([]PassResponse, len(passes))
	for i, p := range passes {
		resp[i] = mapToResponse(kind, p)
	}
	return resp
}
