package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sysA struct{}
type sysB struct{}
type sysC struct{}
type setMovement struct{}
type setDamage struct{}

func newTestRegistry() *SystemRegistry { return NewSystemRegistry() }

func levelOf(plan *Plan, id SystemTypeId) int {
	for i, level := range plan.Levels {
		for _, s := range level {
			if s == id {
				return i
			}
		}
	}
	return -1
}

func TestPlanOrdersByExplicitBeforeAfter(t *testing.T) {
	reg := newTestRegistry()
	idA := AddSystem[sysA](reg, Update, func(*SystemContext) {})
	idB := AddSystem[sysB](reg, Update, func(*SystemContext) {}, After[sysA]())

	plan, err := reg.Plan(Update)
	require.NoError(t, err)
	require.Less(t, levelOf(plan, idA), levelOf(plan, idB))
}

func TestPlanParallelizesNonConflictingSystems(t *testing.T) {
	reg := newTestRegistry()
	idA := AddSystem[sysA](reg, Update, func(*SystemContext) {}, WithPolicy(ReadsComponent[posComponent](NewAccessPolicy())))
	idB := AddSystem[sysB](reg, Update, func(*SystemContext) {}, WithPolicy(ReadsComponent[posComponent](NewAccessPolicy())))

	plan, err := reg.Plan(Update)
	require.NoError(t, err)
	require.Equal(t, levelOf(plan, idA), levelOf(plan, idB))
	require.Len(t, plan.Levels, 1)
}

func TestPlanSeparatesConflictingSystemsDeterministically(t *testing.T) {
	reg := newTestRegistry()
	AddSystem[sysB](reg, Update, func(*SystemContext) {}, WithPolicy(WritesComponent[posComponent](NewAccessPolicy())))
	AddSystem[sysA](reg, Update, func(*SystemContext) {}, WithPolicy(WritesComponent[posComponent](NewAccessPolicy())))

	plan1, err := reg.Plan(Update)
	require.NoError(t, err)

	reg2 := newTestRegistry()
	AddSystem[sysA](reg2, Update, func(*SystemContext) {}, WithPolicy(WritesComponent[posComponent](NewAccessPolicy())))
	AddSystem[sysB](reg2, Update, func(*SystemContext) {}, WithPolicy(WritesComponent[posComponent](NewAccessPolicy())))
	plan2, err := reg2.Plan(Update)
	require.NoError(t, err)

	// Registration order shouldn't affect the resolved order: the
	// tie-break always runs sysA (alphabetically first) before sysB.
	require.Len(t, plan1.Levels, 2)
	require.Len(t, plan2.Levels, 2)
	require.Equal(t, SystemTypeOf[sysA](), plan1.Levels[0][0])
	require.Equal(t, SystemTypeOf[sysA](), plan2.Levels[0][0])
}

func TestPlanDetectsCycle(t *testing.T) {
	reg := newTestRegistry()
	AddSystem[sysA](reg, Update, func(*SystemContext) {}, Before[sysB]())
	AddSystem[sysB](reg, Update, func(*SystemContext) {}, Before[sysA]())

	_, err := reg.Plan(Update)
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.ErrorIs(t, err, ErrCycle)
}

func TestPlanSetMembershipLowersToCrossProductEdges(t *testing.T) {
	reg := newTestRegistry()
	idA := AddSystem[sysA](reg, Update, func(*SystemContext) {}, InSet[setMovement]())
	idB := AddSystem[sysB](reg, Update, func(*SystemContext) {}, InSet[setDamage]())
	ConfigureSet[setMovement](reg, Update, SetBefore[setDamage]())

	plan, err := reg.Plan(Update)
	require.NoError(t, err)
	require.Less(t, levelOf(plan, idA), levelOf(plan, idB))
}

func TestPlanUnknownSetIsConfigurationError(t *testing.T) {
	reg := newTestRegistry()
	AddSystem[sysA](reg, Update, func(*SystemContext) {}, InSet[setMovement]())
	ConfigureSet[setMovement](reg, Update, SetBefore[setDamage]()) // setDamage has no members

	_, err := reg.Plan(Update)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownSet)
}

func TestPlanExclusiveSystemRunsAlone(t *testing.T) {
	reg := newTestRegistry()
	idA := AddSystem[sysA](reg, Update, func(*SystemContext) {}, WithPolicy(NewAccessPolicy()))
	idB := AddSystem[sysB](reg, Update, func(*SystemContext) {}, WithPolicy(WithExclusive(NewAccessPolicy())))
	idC := AddSystem[sysC](reg, Update, func(*SystemContext) {}, WithPolicy(NewAccessPolicy()))

	plan, err := reg.Plan(Update)
	require.NoError(t, err)

	levelB := levelOf(plan, idB)
	require.Len(t, plan.Levels[levelB], 1)
	require.Equal(t, idB, plan.Levels[levelB][0])
	require.NotEqual(t, levelOf(plan, idA), levelB)
	require.NotEqual(t, levelOf(plan, idC), levelB)
}

func TestPlanIsMemoizedUntilMutation(t *testing.T) {
	reg := newTestRegistry()
	AddSystem[sysA](reg, Update, func(*SystemContext) {})
	plan1, err := reg.Plan(Update)
	require.NoError(t, err)

	plan2, err := reg.Plan(Update)
	require.NoError(t, err)
	require.Same(t, plan1, plan2)

	AddSystem[sysB](reg, Update, func(*SystemContext) {})
	plan3, err := reg.Plan(Update)
	require.NoError(t, err)
	require.NotSame(t, plan1, plan3)
}
