package report

import (
	"testing"

	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_EvictsOldest(t *testing.T) {
	cache := NewCache(2)

	first := cache.Put(&domain.Report{CompanyName: "a"})
	second := cache.Put(&domain.Report{CompanyName: "b"})
	third := cache.Put(&domain.Report{CompanyName: "c"})

	assert.Equal(t, 2, cache.Len())

	_, ok := cache.Get(first)
	assert.False(t, ok)

	r, ok := cache.Get(second)
	require.True(t, ok)
	assert.Equal(t, "b", r.CompanyName)

	r, ok = cache.Get(third)
	require.True(t, ok)
	assert.Equal(t, "c", r.CompanyName)
}

func TestNewCache_DefaultSize(t *testing.T) {
	cache := NewCache(0)
	assert.Equal(t, DefaultCacheSize, cache.size)
}

func TestResponseView(t *testing.T) {
	v := &responseView{}
	v.ShowError("stale")
	v.ShowProcessing()
	assert.True(t, v.spinner)
	assert.Empty(t, v.message)

	v.ShowSuccess("done")
	v.HideSpinner()
	resp := v.response()
	assert.False(t, v.spinner)
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, "done", resp.Message)
}
