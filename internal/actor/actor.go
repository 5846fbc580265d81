package actor

import (
	"github.com/google/uuid"

	"hostelpass/internal/config"
)

// Kind distinguishes the two authenticated populations.
type Kind string

const (
	KindStudent Kind = "student"
	KindAdmin   Kind = "admin"
)

// Context identifies the authenticated caller of a core operation. It is
// resolved once by the auth middleware and passed explicitly into every
// service call; services never reach back into transport state.
type Context struct {
	ID   uuid.UUID
	Kind Kind
	// Role is set only for admins.
	Role config.Role
	// Block is the hostel block an admin is assigned to. Empty for students.
	Block string
}

func (c Context) IsStudent() bool {
	return c.Kind == KindStudent
}

func (c Context) IsAdmin() bool {
	return c.Kind == KindAdmin
}

// Student builds a student actor context.
func Student(id uuid.UUID) Context {
	return Context{ID: id, Kind: KindStudent}
}

// Admin builds an admin actor context.
func Admin(id uuid.UUID, role config.Role, block string) Context {
	return Context{ID: id, Kind: KindAdmin, Role: role, Block: block}
}
