package scope

import (
	"context"

	"github.com/google/uuid"

	"hostelpass/internal/actor"
	"hostelpass/internal/config"
)

// StudentDirectory is the slice of the student store the scoper needs.
type StudentDirectory interface {
	IDsByBlock(ctx context.Context, block string) ([]uuid.UUID, error)
}

// Filter is the visibility restriction to apply to a collection query.
// Either All is true, or StudentIDs carries the owning-student allow set.
type Filter struct {
	All        bool
	StudentIDs []uuid.UUID
}

// AllowsStudent is the single-record re-check applied after fetch, guarding
// against ID guessing.
func (f Filter) AllowsStudent(id uuid.UUID) bool {
	if f.All {
		return true
	}
	for _, sid := range f.StudentIDs {
		if sid == id {
			return true
		}
	}
	return false
}

//go:generate mockgen -source=scope.go -destination=mock/scope_mock.go -package=mock
type Scoper interface {
	// Resolve computes what the actor may see: students see themselves,
	// caretakers see their block, higher roles see everything.
	Resolve(ctx context.Context, act actor.Context) (Filter, error)
}

type scoper struct {
	students StudentDirectory
}

func NewScoper(students StudentDirectory) Scoper {
	return &scoper{students: students}
}

func (s *scoper) Resolve(ctx context.Context, act actor.Context) (Filter, error) {
	if act.IsStudent() {
		return Filter{StudentIDs: []uuid.UUID{act.ID}}, nil
	}

	if act.Role == config.RoleCaretaker {
		ids, err := s.students.IDsByBlock(ctx, act.Block)
		if err != nil {
			return Filter{}, err
		}
		return Filter{StudentIDs: ids}, nil
	}

	return Filter{All: true}, nil
}
