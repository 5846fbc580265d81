package authz_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"hostelpass/internal/actor"
	"hostelpass/internal/authz"
	authzerrors "hostelpass/internal/authz/errors"
	"hostelpass/internal/config"
)

func newGate(t *testing.T) authz.Gate {
	t.Helper()
	gate, err := authz.NewGate(config.DefaultWorkflow().Roles)
	assert.NoError(t, err)
	return gate
}

func TestGate_Students(t *testing.T) {
	gate := newGate(t)
	st := actor.Student(uuid.New())

	t.Run("students manage their own requests", func(t *testing.T) {
		assert.NoError(t, gate.Authorize(st, authz.ResourcePasses, authz.ActionCreate))
		assert.NoError(t, gate.Authorize(st, authz.ResourcePasses, authz.ActionRead))
		assert.NoError(t, gate.Authorize(st, authz.ResourcePasses, authz.ActionUpdate))
		assert.NoError(t, gate.Authorize(st, authz.ResourcePasses, authz.ActionDelete))
		assert.NoError(t, gate.Authorize(st, authz.ResourceHistory, authz.ActionRead))
	})

	t.Run("students cannot decide or record", func(t *testing.T) {
		err := gate.Authorize(st, authz.ResourcePasses, authz.ActionDecide)
		assert.ErrorIs(t, err, authzerrors.ErrWrongActorKind)

		err = gate.Authorize(st, authz.ResourcePasses, authz.ActionRecord)
		assert.ErrorIs(t, err, authzerrors.ErrWrongActorKind)
	})

	t.Run("students cannot touch admin accounts", func(t *testing.T) {
		err := gate.Authorize(st, authz.ResourceAdmins, authz.ActionRead)
		assert.ErrorIs(t, err, authzerrors.ErrWrongActorKind)
	})
}

func TestGate_Admins(t *testing.T) {
	gate := newGate(t)

	t.Run("lowest role holds the request and student permissions", func(t *testing.T) {
		caretaker := actor.Admin(uuid.New(), config.RoleCaretaker, "A")

		assert.NoError(t, gate.Authorize(caretaker, authz.ResourcePasses, authz.ActionDecide))
		assert.NoError(t, gate.Authorize(caretaker, authz.ResourcePasses, authz.ActionRecord))
		assert.NoError(t, gate.Authorize(caretaker, authz.ResourceStudents, authz.ActionCreate))
		assert.NoError(t, gate.Authorize(caretaker, authz.ResourceStudents, authz.ActionReset))
		assert.NoError(t, gate.Authorize(caretaker, authz.ResourceAdmins, authz.ActionRead))
	})

	t.Run("admin accounts are managed from warden upward", func(t *testing.T) {
		caretaker := actor.Admin(uuid.New(), config.RoleCaretaker, "A")
		chiefwarden := actor.Admin(uuid.New(), config.RoleChiefWarden, "")

		for _, adm := range []actor.Context{caretaker, chiefwarden} {
			err := gate.Authorize(adm, authz.ResourceAdmins, authz.ActionCreate)
			assert.ErrorIs(t, err, authzerrors.ErrInsufficientRole, "role %s", adm.Role)

			err = gate.Authorize(adm, authz.ResourceAdmins, authz.ActionDelete)
			assert.ErrorIs(t, err, authzerrors.ErrInsufficientRole, "role %s", adm.Role)
		}

		for _, role := range []config.Role{config.RoleWarden, config.RoleADSW, config.RoleDSW} {
			adm := actor.Admin(uuid.New(), role, "")
			assert.NoError(t, gate.Authorize(adm, authz.ResourceAdmins, authz.ActionCreate),
				"role %s should be allowed to create admins", role)
			assert.NoError(t, gate.Authorize(adm, authz.ResourceAdmins, authz.ActionDelete),
				"role %s should be allowed to delete admins", role)
		}
	})

	t.Run("permissions inherit up the ladder", func(t *testing.T) {
		for _, role := range config.DefaultWorkflow().Roles {
			adm := actor.Admin(uuid.New(), role, "")
			assert.NoError(t, gate.Authorize(adm, authz.ResourcePasses, authz.ActionDecide),
				"role %s should be allowed to decide", role)
		}
	})

	t.Run("admins cannot create requests", func(t *testing.T) {
		dsw := actor.Admin(uuid.New(), config.RoleDSW, "")
		err := gate.Authorize(dsw, authz.ResourcePasses, authz.ActionCreate)
		assert.ErrorIs(t, err, authzerrors.ErrWrongActorKind)
	})
}

func TestGate_Anonymous(t *testing.T) {
	gate := newGate(t)

	err := gate.Authorize(actor.Context{}, authz.ResourcePasses, authz.ActionRead)
	assert.ErrorIs(t, err, authzerrors.ErrNotAuthenticated)
}
