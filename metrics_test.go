package kariru_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kariru"
)

func TestMetricsFollowStoreActivity(t *testing.T) {
	s := kariru.NewStore(16)
	reg := prometheus.NewRegistry()
	m, err := kariru.AttachMetrics(s, reg)
	require.NoError(t, err)

	e1 := s.CreateEntity()
	e2 := kariru.Spawn1(s, Position{X: 1})
	assert.Equal(t, float64(2), testutil.ToFloat64(m.EntitiesLive))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.InsertsTotal), "spawned components count as inserts")

	kariru.SetComponent(s, e1, Velocity{VX: 1})
	assert.Equal(t, float64(2), testutil.ToFloat64(m.InsertsTotal))

	e3 := kariru.Spawn2(s, Position{X: 2}, Velocity{VX: 3})
	assert.Equal(t, float64(4), testutil.ToFloat64(m.InsertsTotal))

	_, ok := kariru.RemoveComponent[Velocity](s, e1)
	require.True(t, ok)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RemovesTotal))

	s.Despawn(e1)
	s.Despawn(e2)
	s.Despawn(e3)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.EntitiesLive))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.DespawnsTotal))
}

func TestMetricsCountConflicts(t *testing.T) {
	s := kariru.NewStore(16)
	reg := prometheus.NewRegistry()
	m, err := kariru.AttachMetrics(s, reg)
	require.NoError(t, err)

	e := kariru.Spawn1(s, Position{X: 1})
	mut, _ := s.Mut(e)
	ref, _ := kariru.Get[Position](mut)
	requireConflict(t, func() { kariru.GetMut[Position](mut) })
	requireConflict(t, func() { mut.Despawn() })
	ref.Release()

	lens := kariru.NewLens1[Position](s)
	view := lens.Query()
	requireConflict(t, func() { lens.Query() })
	view.Close()

	assert.Equal(t, float64(3), testutil.ToFloat64(m.ConflictsTotal))
}

func TestAttachMetricsTwiceFails(t *testing.T) {
	s := kariru.NewStore(16)
	reg := prometheus.NewRegistry()
	_, err := kariru.AttachMetrics(s, reg)
	require.NoError(t, err)
	_, err = kariru.AttachMetrics(s, reg)
	assert.Error(t, err)
}
