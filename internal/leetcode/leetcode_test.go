package leetcode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawStatsDecodesNumbers(t *testing.T) {
	var stats RawStats
	err := json.Unmarshal([]byte(`{"easySolved": 10, "mediumSolved": 5, "hardSolved": 2, "acceptanceRate": 55.4}`), &stats)
	require.NoError(t, err)

	require.NotNil(t, stats.EasySolved)
	assert.Equal(t, 10.0, *stats.EasySolved)
	require.NotNil(t, stats.MediumSolved)
	assert.Equal(t, 5.0, *stats.MediumSolved)
	require.NotNil(t, stats.HardSolved)
	assert.Equal(t, 2.0, *stats.HardSolved)
	require.NotNil(t, stats.AcceptanceRate)
	assert.Equal(t, 55.4, *stats.AcceptanceRate)
}

func TestRawStatsTreatsWrongTypeAsAbsent(t *testing.T) {
	var stats RawStats
	err := json.Unmarshal([]byte(`{"easySolved": 5, "mediumSolved": "abc", "hardSolved": {}, "acceptanceRate": "50%"}`), &stats)
	require.NoError(t, err)

	require.NotNil(t, stats.EasySolved)
	assert.Equal(t, 5.0, *stats.EasySolved)
	assert.Nil(t, stats.MediumSolved)
	assert.Nil(t, stats.HardSolved)
	assert.Nil(t, stats.AcceptanceRate)
}

func TestRawStatsEasySolvedMissingOrNull(t *testing.T) {
	var stats RawStats
	require.NoError(t, json.Unmarshal([]byte(`{"status": "error"}`), &stats))
	assert.Nil(t, stats.EasySolved)

	stats = RawStats{}
	require.NoError(t, json.Unmarshal([]byte(`{"easySolved": null}`), &stats))
	assert.Nil(t, stats.EasySolved)
}

func TestRawStatsEasySolvedWrongTypeCoercesToZero(t *testing.T) {
	var stats RawStats
	require.NoError(t, json.Unmarshal([]byte(`{"easySolved": "abc"}`), &stats))

	// Present but unusable is not a failed lookup; it reads as 0.
	require.NotNil(t, stats.EasySolved)
	assert.Equal(t, 0.0, *stats.EasySolved)
}
