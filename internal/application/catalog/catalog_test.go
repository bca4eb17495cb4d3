package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ListOrderAndShape(t *testing.T) {
	c := New()

	scenarios := c.List()
	require.Len(t, scenarios, 5)

	ids := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"apt29", "ransomware", "phishing", "supply-chain", "insider-threat"}, ids)
}

func TestCatalog_PlansMatchStageCounts(t *testing.T) {
	c := New()

	for _, s := range c.List() {
		scenario, plans, err := c.Get(s.ID)
		require.NoError(t, err, s.ID)

		assert.GreaterOrEqual(t, scenario.StageCount, 1, s.ID)
		assert.Len(t, plans, scenario.StageCount, s.ID)

		for i, plan := range plans {
			assert.NotEmpty(t, plan.TacticID, "%s stage %d", s.ID, i)
			assert.NotEmpty(t, plan.TacticName, "%s stage %d", s.ID, i)
			assert.NotEmpty(t, plan.TechniqueIDs, "%s stage %d", s.ID, i)
		}
	}
}

func TestCatalog_GetUnknown(t *testing.T) {
	c := New()

	_, _, err := c.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}
