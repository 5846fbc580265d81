package authz

import (
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"

	"hostelpass/internal/actor"
	authzerrors "hostelpass/internal/authz/errors"
	"hostelpass/internal/config"

	"github.com/google/uuid"
)

// Resources and actions known to the gate.
const (
	ResourcePasses   = "passes"
	ResourceHistory  = "history"
	ResourceStudents = "students"
	ResourceAdmins   = "admins"

	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionDecide = "decide"
	ActionRecord = "record"
	ActionReset  = "reset"
)

// subjectStudent is the casbin subject for student actors; admins use their
// role name as subject.
const subjectStudent = "student"

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

//go:generate mockgen -source=gate.go -destination=mock/gate_mock.go -package=mock
type Gate interface {
	// Authorize checks whether the actor may perform action on resource.
	// Denials come back as typed errors: ErrNotAuthenticated,
	// ErrWrongActorKind or ErrInsufficientRole.
	Authorize(act actor.Context, resource, action string) error
}

type gate struct {
	enforcer *casbin.Enforcer
	highest  config.Role
	mu       sync.Mutex
	logger   *zap.Logger
}

// NewGate builds the role-hierarchy policy from the configured role ladder.
// Granting a permission to a role grants it to every role above it, which is
// exactly the "minimum role" semantics of admin operations.
func NewGate(roles []config.Role, logger ...*zap.Logger) (Gate, error) {
	l := zap.L().Named("authz.gate")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authz.gate")
	}

	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	g := &gate{enforcer: e, logger: l}
	if len(roles) > 0 {
		g.highest = roles[len(roles)-1]
	}

	// Ladder inheritance: each role inherits the permissions of the role
	// directly below it.
	for i := 1; i < len(roles); i++ {
		if _, err := e.AddGroupingPolicy(string(roles[i]), string(roles[i-1])); err != nil {
			return nil, err
		}
	}

	if err := g.seedPolicies(roles); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *gate) seedPolicies(roles []config.Role) error {
	if len(roles) == 0 {
		return nil
	}
	lowest := string(roles[0])

	// Admin accounts are managed from warden upward; lower roles may only
	// look admins up.
	adminMgmt := lowest
	for _, r := range roles {
		if r == config.RoleWarden {
			adminMgmt = string(r)
			break
		}
	}

	policies := [][]string{
		// Students act on their own records; ownership is enforced again in
		// the services via the visibility scoper.
		{subjectStudent, ResourcePasses, ActionCreate},
		{subjectStudent, ResourcePasses, ActionRead},
		{subjectStudent, ResourcePasses, ActionUpdate},
		{subjectStudent, ResourcePasses, ActionDelete},
		{subjectStudent, ResourceHistory, ActionRead},
		{subjectStudent, ResourceStudents, ActionRead},
		{subjectStudent, ResourceStudents, ActionUpdate},

		// Admin operations: minimum role is the bottom of the ladder; the
		// strict-greater rule for admin-on-admin mutation lives in the admin
		// service because it compares two concrete roles.
		{lowest, ResourcePasses, ActionRead},
		{lowest, ResourcePasses, ActionDecide},
		{lowest, ResourcePasses, ActionRecord},
		{lowest, ResourcePasses, ActionDelete},
		{lowest, ResourceHistory, ActionRead},
		{lowest, ResourceStudents, ActionCreate},
		{lowest, ResourceStudents, ActionRead},
		{lowest, ResourceStudents, ActionUpdate},
		{lowest, ResourceStudents, ActionDelete},
		{lowest, ResourceStudents, ActionReset},
		{adminMgmt, ResourceAdmins, ActionCreate},
		{lowest, ResourceAdmins, ActionRead},
		{lowest, ResourceAdmins, ActionUpdate},
		{adminMgmt, ResourceAdmins, ActionDelete},
	}

	for _, p := range policies {
		if _, err := g.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	return nil
}

func (g *gate) Authorize(act actor.Context, resource, action string) error {
	if act.ID == uuid.Nil {
		return authzerrors.ErrNotAuthenticated
	}

	subject := subjectStudent
	if act.IsAdmin() {
		subject = string(act.Role)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	allowed, err := g.enforcer.Enforce(subject, resource, action)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	g.logger.Warn("authorization denied",
		zap.String("subject", subject),
		zap.String("kind", string(act.Kind)),
		zap.String("resource", resource),
		zap.String("action", action),
	)

	if act.IsStudent() {
		return authzerrors.ErrWrongActorKind
	}

	// An admin was denied. If not even the highest role may do this, the
	// operation belongs to the other actor kind.
	topAllowed, err := g.enforcer.Enforce(string(g.highest), resource, action)
	if err != nil {
		return err
	}
	if !topAllowed {
		return authzerrors.ErrWrongActorKind
	}
	return authzerrors.ErrInsufficientRole
}
