package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	registry, err := NewRegistry("America/Los_Angeles", zap.NewNop())
	require.NoError(t, err)

	job := Job{Name: "weekly-digest", Spec: "0 0 5 * * 1,2,3", Run: func() {}}
	require.NoError(t, registry.Register(job))

	err = registry.Register(job)
	assert.ErrorContains(t, err, "already registered")
}

func TestRegistryRejectsBadSpec(t *testing.T) {
	registry, err := NewRegistry("America/Los_Angeles", zap.NewNop())
	require.NoError(t, err)

	err = registry.Register(Job{Name: "broken", Spec: "not a cron spec", Run: func() {}})
	assert.Error(t, err)
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	registry, err := NewRegistry("America/Los_Angeles", zap.NewNop())
	require.NoError(t, err)

	err = registry.Register(Job{Spec: "@hourly", Run: func() {}})
	assert.Error(t, err)
}

func TestNewRegistryBadTimezone(t *testing.T) {
	_, err := NewRegistry("Not/AZone", zap.NewNop())
	assert.Error(t, err)
}
