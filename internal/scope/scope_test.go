package scope_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"hostelpass/internal/actor"
	"hostelpass/internal/config"
	"hostelpass/internal/scope"
)

type fakeStudentDirectory struct {
	idsByBlockFn func(ctx context.Context, block string) ([]uuid.UUID, error)
}

func (f *fakeStudentDirectory) IDsByBlock(ctx context.Context, block string) ([]uuid.UUID, error) {
	return f.idsByBlockFn(ctx, block)
}

func TestScoper_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("student sees only itself", func(t *testing.T) {
		s := scope.NewScoper(&fakeStudentDirectory{})

		id := uuid.New()
		filter, err := s.Resolve(ctx, actor.Student(id))

		assert.NoError(t, err)
		assert.False(t, filter.All)
		assert.Equal(t, []uuid.UUID{id}, filter.StudentIDs)
	})

	t.Run("caretaker sees own block", func(t *testing.T) {
		blockIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		dir := &fakeStudentDirectory{
			idsByBlockFn: func(ctx context.Context, block string) ([]uuid.UUID, error) {
				assert.Equal(t, "B", block)
				return blockIDs, nil
			},
		}
		s := scope.NewScoper(dir)

		filter, err := s.Resolve(ctx, actor.Admin(uuid.New(), config.RoleCaretaker, "B"))

		assert.NoError(t, err)
		assert.False(t, filter.All)
		assert.Equal(t, blockIDs, filter.StudentIDs)
	})

	t.Run("higher admin sees everything", func(t *testing.T) {
		s := scope.NewScoper(&fakeStudentDirectory{})

		filter, err := s.Resolve(ctx, actor.Admin(uuid.New(), config.RoleChiefWarden, ""))

		assert.NoError(t, err)
		assert.True(t, filter.All)
	})

	t.Run("directory failure propagates", func(t *testing.T) {
		dir := &fakeStudentDirectory{
			idsByBlockFn: func(ctx context.Context, block string) ([]uuid.UUID, error) {
				return nil, errors.New("db down")
			},
		}
		s := scope.NewScoper(dir)

		_, err := s.Resolve(ctx, actor.Admin(uuid.New(), config.RoleCaretaker, "A"))
		assert.Error(t, err)
	})
}

func TestFilter_AllowsStudent(t *testing.T) {
	id := uuid.New()

	t.Run("all filter allows anyone", func(t *testing.T) {
		assert.True(t, scope.Filter{All: true}.AllowsStudent(id))
	})

	t.Run("allow set is exact", func(t *testing.T) {
		f := scope.Filter{StudentIDs: []uuid.UUID{id}}
		assert.True(t, f.AllowsStudent(id))
		assert.False(t, f.AllowsStudent(uuid.New()))
	})

	t.Run("empty filter allows nobody", func(t *testing.T) {
		assert.False(t, scope.Filter{}.AllowsStudent(id))
	})
}
