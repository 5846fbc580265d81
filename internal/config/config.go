package config

import (
	"os"
	"strconv"
	"strings"
)

// Role is an administrator role identifier, e.g. "caretaker".
type Role string

const (
	RoleCaretaker   Role = "caretaker"
	RoleChiefWarden Role = "chiefwarden"
	RoleWarden      Role = "warden"
	RoleADSW        Role = "adsw"
	RoleDSW         Role = "dsw"
)

const (
	DefaultOutingQuota = 4
	DefaultLeaveQuota  = 10
)

// Workflow is the immutable configuration shared by the approval services.
// It replaces ambient global constants: every service that needs a quota, the
// role ladder or the year ladder holds its own copy of this value.
type Workflow struct {
	// OutingQuota is the number of outings a student may take per month.
	OutingQuota int
	// LeaveQuota is the number of leaves a student may take per semester.
	LeaveQuota int
	// Roles is the admin role ladder ordered from lowest to highest authority.
	Roles []Role
	// YearLadder maps an academic year tag to its successor. Years without a
	// mapping (the final year) cannot be upgraded.
	YearLadder map[string]string
}

// DefaultWorkflow returns the institutional defaults.
func DefaultWorkflow() Workflow {
	return Workflow{
		OutingQuota: DefaultOutingQuota,
		LeaveQuota:  DefaultLeaveQuota,
		Roles: []Role{
			RoleCaretaker,
			RoleChiefWarden,
			RoleWarden,
			RoleADSW,
			RoleDSW,
		},
		YearLadder: map[string]string{
			"E1": "E2",
			"E2": "E3",
			"E3": "E4",
		},
	}
}

// LoadWorkflow builds the workflow config from defaults with env overrides
// (OUTING_QUOTA, LEAVE_QUOTA, ROLES). ROLES is a comma-separated ladder
// ordered lowest to highest, e.g. "caretaker,warden,dsw". The year ladder has
// no env hook; institutions with a different year scheme change
// DefaultWorkflow.
func LoadWorkflow() Workflow {
	cfg := DefaultWorkflow()

	if v := os.Getenv("OUTING_QUOTA"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OutingQuota = n
		}
	}
	if v := os.Getenv("LEAVE_QUOTA"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LeaveQuota = n
		}
	}
	if v := os.Getenv("ROLES"); v != "" {
		var roles []Role
		for _, part := range strings.Split(v, ",") {
			if name := strings.TrimSpace(part); name != "" {
				roles = append(roles, Role(name))
			}
		}
		if len(roles) > 0 {
			cfg.Roles = roles
		}
	}

	return cfg
}
