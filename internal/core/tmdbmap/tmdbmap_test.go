// Copyright (c) 2026 Danmu. All rights reserved.

package tmdbmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/internal/core/tmdbmap"
)

func TestBuildMappings_ComputesCustomAndAbsoluteNumbers(t *testing.T) {
	groups := []tmdbmap.UpstreamGroup{
		{
			Order: 2,
			Episodes: []tmdbmap.UpstreamEpisode{
				{TMDBEpisodeID: 300, TMDBSeasonNumber: 2, TMDBEpisodeNumber: 1},
				{TMDBEpisodeID: 301, TMDBSeasonNumber: 2, TMDBEpisodeNumber: 2},
			},
		},
		{
			Order: 1,
			Episodes: []tmdbmap.UpstreamEpisode{
				{TMDBEpisodeID: 100, TMDBSeasonNumber: 1, TMDBEpisodeNumber: 1},
				{TMDBEpisodeID: 101, TMDBSeasonNumber: 1, TMDBEpisodeNumber: 2},
				{TMDBEpisodeID: 102, TMDBSeasonNumber: 1, TMDBEpisodeNumber: 3},
			},
		},
	}

	got := tmdbmap.BuildMappings(42, "group-1", groups)

	require.Len(t, got, 5)

	// The Order=1 group sorts first, so its episodes get custom_season=1
	// and the first three absolute numbers.
	assert.Equal(t, 1, got[0].CustomSeasonNumber)
	assert.Equal(t, 1, got[0].CustomEpisodeNumber)
	assert.Equal(t, 1, got[0].AbsoluteEpisodeNumber)
	assert.Equal(t, int64(100), got[0].TMDBEpisodeID)

	assert.Equal(t, 1, got[2].CustomSeasonNumber)
	assert.Equal(t, 3, got[2].CustomEpisodeNumber)
	assert.Equal(t, 3, got[2].AbsoluteEpisodeNumber)
	assert.Equal(t, int64(102), got[2].TMDBEpisodeID)

	// The Order=2 group sorts second, so custom_season=2, episode
	// indices reset to 1, but absolute numbers keep counting up.
	assert.Equal(t, 2, got[3].CustomSeasonNumber)
	assert.Equal(t, 1, got[3].CustomEpisodeNumber)
	assert.Equal(t, 4, got[3].AbsoluteEpisodeNumber)
	assert.Equal(t, int64(300), got[3].TMDBEpisodeID)

	assert.Equal(t, 2, got[4].CustomSeasonNumber)
	assert.Equal(t, 2, got[4].CustomEpisodeNumber)
	assert.Equal(t, 5, got[4].AbsoluteEpisodeNumber)

	for _, m := range got {
		assert.Equal(t, int64(42), m.TMDBTVID)
		assert.Equal(t, "group-1", m.TMDBEpisodeGroupID)
	}
}

func TestBuildMappings_EmptyGroupsYieldsNoMappings(t *testing.T) {
	got := tmdbmap.BuildMappings(1, "g", nil)
	assert.Empty(t, got)
}
