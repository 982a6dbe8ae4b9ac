// Copyright (c) 2026 Danmu. All rights reserved.

package schema

// TMDBEpisodeMappingTable represents 'core.tmdb_episode_mapping' (component M).
type TMDBEpisodeMappingTable struct {
	Table                string
	ID                   string
	TMDBTVID             string
	TMDBEpisodeGroupID   string
	TMDBEpisodeID        string
	TMDBSeasonNumber     string
	TMDBEpisodeNumber    string
	CustomSeasonNumber   string
	CustomEpisodeNumber  string
	AbsoluteEpisodeNumber string
}

var TMDBEpisodeMapping = TMDBEpisodeMappingTable{
	Table:                 "core.tmdb_episode_mapping",
	ID:                    "id",
	TMDBTVID:              "tmdb_tv_id",
	TMDBEpisodeGroupID:    "tmdb_episode_group_id",
	TMDBEpisodeID:         "tmdb_episode_id",
	TMDBSeasonNumber:      "tmdb_season_number",
	TMDBEpisodeNumber:     "tmdb_episode_number",
	CustomSeasonNumber:    "custom_season_number",
	CustomEpisodeNumber:   "custom_episode_number",
	AbsoluteEpisodeNumber: "absolute_episode_number",
}
