// Copyright (c) 2026 Danmu. All rights reserved.

package episodeid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/pkg/episodeid"
)

func TestCompute_MatchesSpecExample(t *testing.T) {
	id, err := episodeid.Compute(42, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(25_000042_020007), id)
}

func TestCompute_StableAcrossReimports(t *testing.T) {
	first, err := episodeid.Compute(1, 1, 1)
	require.NoError(t, err)

	second, err := episodeid.Compute(1, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_RejectsOverflowingSlots(t *testing.T) {
	_, err := episodeid.Compute(1_000_000, 1, 1)
	assert.Error(t, err)

	_, err = episodeid.Compute(1, 10_000, 1)
	assert.Error(t, err)

	_, err = episodeid.Compute(1, 1, 10_000)
	assert.Error(t, err)
}

func TestCompute_DistinctTriplesProduceDistinctIDs(t *testing.T) {
	a, err := episodeid.Compute(1, 1, 1)
	require.NoError(t, err)

	b, err := episodeid.Compute(1, 1, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
