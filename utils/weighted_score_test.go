package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedScore(t *testing.T) {
	assert.Equal(t, 0, WeightedScore(0, 0, 0))
	assert.Equal(t, 2, WeightedScore(1, 0, 0))
	assert.Equal(t, 5, WeightedScore(0, 1, 0))
	assert.Equal(t, 8, WeightedScore(0, 0, 1))
	assert.Equal(t, 61, WeightedScore(10, 5, 2))
	assert.Equal(t, 150, WeightedScore(10, 10, 10))
}
