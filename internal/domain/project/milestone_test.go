package project

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

func makeMilestone(t *testing.T) *Milestone {
	t.Helper()
	m, err := NewMilestone(uuid.New(), uuid.New(), "Foundation pour",
		valueobject.NewMoneyUSDFromFloat(15000.00), time.Now().Add(30*24*time.Hour))
	require.NoError(t, err)
	return m
}

func TestNewMilestone(t *testing.T) {
	t.Run("creates pending milestone", func(t *testing.T) {
		m := makeMilestone(t)
		assert.Equal(t, MilestoneStatusPending, m.Status)
	})

	t.Run("rejects nil project id", func(t *testing.T) {
		_, err := NewMilestone(uuid.New(), uuid.Nil, "Framing",
			valueobject.NewMoneyUSDFromFloat(100), time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewMilestone(uuid.New(), uuid.New(), "Framing",
			valueobject.ZeroUSD(), time.Now())
		assert.Error(t, err)
	})
}

func TestMilestone_Complete(t *testing.T) {
	t.Run("pending milestone completes and emits event", func(t *testing.T) {
		m := makeMilestone(t)

		require.NoError(t, m.Complete())

		assert.Equal(t, MilestoneStatusCompleted, m.Status)
		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMilestoneCompleted, events[0].EventType())
	})

	t.Run("in-progress milestone completes", func(t *testing.T) {
		m := makeMilestone(t)
		require.NoError(t, m.Start())
		require.NoError(t, m.Complete())
		assert.Equal(t, MilestoneStatusCompleted, m.Status)
	})

	t.Run("completed milestone cannot complete again", func(t *testing.T) {
		m := makeMilestone(t)
		require.NoError(t, m.Complete())
		assert.Error(t, m.Complete())
	})
}

func TestMilestone_MarkInvoiced(t *testing.T) {
	m := makeMilestone(t)

	assert.Error(t, m.MarkInvoiced())

	require.NoError(t, m.Complete())
	require.NoError(t, m.MarkInvoiced())
	assert.Equal(t, MilestoneStatusInvoiced, m.Status)
}

func TestProject_Transitions(t *testing.T) {
	p, err := NewProject(uuid.New(), "Riverside Duplex", "Harbor Homes LLC", "12 River Rd")
	require.NoError(t, err)
	assert.Equal(t, ProjectStatusActive, p.Status)

	require.NoError(t, p.Complete())
	assert.Error(t, p.Complete())

	require.NoError(t, p.Archive())
	assert.Error(t, p.Archive())
}
