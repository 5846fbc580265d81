package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hostelpass/internal/config"
)

func TestDefaultWorkflow(t *testing.T) {
	cfg := config.DefaultWorkflow()

	assert.Equal(t, 4, cfg.OutingQuota)
	assert.Equal(t, 10, cfg.LeaveQuota)
	assert.Equal(t, []config.Role{
		config.RoleCaretaker,
		config.RoleChiefWarden,
		config.RoleWarden,
		config.RoleADSW,
		config.RoleDSW,
	}, cfg.Roles)
	assert.Equal(t, "E2", cfg.YearLadder["E1"])
	_, hasFinal := cfg.YearLadder["E4"]
	assert.False(t, hasFinal)
}

func TestLoadWorkflow(t *testing.T) {
	t.Run("env overrides quotas", func(t *testing.T) {
		t.Setenv("OUTING_QUOTA", "6")
		t.Setenv("LEAVE_QUOTA", "12")

		cfg := config.LoadWorkflow()
		assert.Equal(t, 6, cfg.OutingQuota)
		assert.Equal(t, 12, cfg.LeaveQuota)
	})

	t.Run("env overrides the role ladder", func(t *testing.T) {
		t.Setenv("ROLES", "caretaker, warden ,dsw")

		cfg := config.LoadWorkflow()
		assert.Equal(t, []config.Role{
			config.RoleCaretaker,
			config.RoleWarden,
			config.RoleDSW,
		}, cfg.Roles)
	})

	t.Run("blank role ladder keeps the default", func(t *testing.T) {
		t.Setenv("ROLES", " , ,")

		cfg := config.LoadWorkflow()
		assert.Equal(t, config.DefaultWorkflow().Roles, cfg.Roles)
	})

	t.Run("garbage and non-positive values fall back to defaults", func(t *testing.T) {
		t.Setenv("OUTING_QUOTA", "zero")
		t.Setenv("LEAVE_QUOTA", "-3")

		cfg := config.LoadWorkflow()
		assert.Equal(t, config.DefaultOutingQuota, cfg.OutingQuota)
		assert.Equal(t, config.DefaultLeaveQuota, cfg.LeaveQuota)
	})
}
