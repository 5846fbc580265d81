package hierarchy

import (
	"net/http"

	"hostelpass/internal/config"
	"hostelpass/internal/shared/apperror"
)

var ErrUnknownRole = apperror.New(
	apperror.CodeInvalidInput,
	"unknown admin role",
	http.StatusBadRequest,
)

// Hierarchy is a total order over the configured admin roles. Levels start at
// 1 for the lowest role and are only ever compared relatively.
type Hierarchy struct {
	levels  map[config.Role]int
	highest config.Role
}

func New(roles []config.Role) *Hierarchy {
	levels := make(map[config.Role]int, len(roles))
	for i, r := range roles {
		levels[r] = i + 1
	}

	h := &Hierarchy{levels: levels}
	if len(roles) > 0 {
		h.highest = roles[len(roles)-1]
	}
	return h
}

// LevelOf returns the 1-based level of a role.
func (h *Hierarchy) LevelOf(role config.Role) (int, error) {
	level, ok := h.levels[role]
	if !ok {
		return 0, ErrUnknownRole
	}
	return level, nil
}

// Known reports whether role is part of the ladder.
func (h *Hierarchy) Known(role config.Role) bool {
	_, ok := h.levels[role]
	return ok
}

// Highest returns the top role of the ladder.
func (h *Hierarchy) Highest() config.Role {
	return h.highest
}

// IsHighest reports whether role sits at the top of the ladder.
func (h *Hierarchy) IsHighest(role config.Role) bool {
	return role == h.highest
}

// Outranks reports whether a is strictly above b. Unknown roles never outrank.
func (h *Hierarchy) Outranks(a, b config.Role) bool {
	la, oka := h.levels[a]
	lb, okb := h.levels[b]
	return oka && okb && la > lb
}

// AtLeast reports whether role is at or above min.
func (h *Hierarchy) AtLeast(role, min config.Role) bool {
	lr, okr := h.levels[role]
	lm, okm := h.levels[min]
	return okr && okm && lr >= lm
}
