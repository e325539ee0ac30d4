package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabs_DefaultIsResults(t *testing.T) {
	tabs := NewTabs()
	assert.Equal(t, TabResults, tabs.Active())
	assert.True(t, tabs.IsActive(TabResults))
}

func TestTabs_ExactlyOneActive(t *testing.T) {
	tabs := NewTabs()

	for _, tab := range AllTabs() {
		require.NoError(t, tabs.Activate(tab))

		active := 0
		for _, other := range AllTabs() {
			if tabs.IsActive(other) {
				active++
			}
		}
		assert.Equal(t, 1, active)
		assert.Equal(t, tab, tabs.Active())
	}
}

func TestTabs_ActivateUnknown(t *testing.T) {
	tabs := NewTabs()
	require.NoError(t, tabs.Activate(TabMetrics))

	assert.Error(t, tabs.Activate(Tab("bogus")))
	assert.Equal(t, TabMetrics, tabs.Active())
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("explanations")
	require.NoError(t, err)
	assert.Equal(t, TabExplanations, tab)

	_, err = ParseTab("nope")
	assert.Error(t, err)
}

func TestAllTabs_ReturnsCopy(t *testing.T) {
	tabs := AllTabs()
	tabs[0] = "changed"
	assert.Equal(t, TabResults, AllTabs()[0])
}
