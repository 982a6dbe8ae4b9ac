// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package tmdbmap maintains the TMDB episode-group mapping table: the
"season-override" lookup that lets a TV id + episode-group id pair
resolve to custom season/episode numbers independent of TMDB's own
season/episode numbering.

Rebuilding a group is a delete-then-bulk-insert inside one transaction —
there is no incremental update; TMDB episode groups are edited rarely and
wholesale by curators, so partial merges would only add complexity for
no real benefit.
*/
package tmdbmap

// UpstreamEpisode is one episode entry as returned by the TMDB
// episode-group endpoint, scoped to a single group (custom season).
type UpstreamEpisode struct {
	TMDBEpisodeID     int64
	TMDBSeasonNumber  int
	TMDBEpisodeNumber int
}

// UpstreamGroup is one "season" within a TMDB episode group, in the
// upstream listing's order.
type UpstreamGroup struct {
	Order    int
	Episodes []UpstreamEpisode
}

// Mapping is a single materialized row of core.tmdb_episode_mapping.
type Mapping struct {
	TMDBTVID              int64
	TMDBEpisodeGroupID    string
	TMDBEpisodeID         int64
	TMDBSeasonNumber      int
	TMDBEpisodeNumber     int
	CustomSeasonNumber    int
	CustomEpisodeNumber   int
	AbsoluteEpisodeNumber int
}

// BuildMappings computes the full mapping row set for a TV id / group id
// pair from the group's upstream episode listing.
//
//   - custom_season_number is the group's 1-based rank after sorting
//     groups by Order ascending.
//   - custom_episode_number is the episode's 1-based index within its
//     custom season group.
//   - absolute_episode_number is the episode's rank across the whole
//     group (all custom seasons concatenated in sorted order) + 1.
func BuildMappings(tmdbTVID int64, groupID string, groups []UpstreamGroup) []Mapping {
	sorted := make([]UpstreamGroup, len(groups))
	copy(sorted, groups)
	sortGroupsByOrder(sorted)

	var out []Mapping
	absoluteIndex := 0
	for customSeason, group := range sorted {
		for episodeIndex, ep := range group.Episodes {
			absoluteIndex++
			out = append(out, Mapping{
				TMDBTVID:             tmdbTVID,
				TMDBEpisodeGroupID:    groupID,
				TMDBEpisodeID:         ep.TMDBEpisodeID,
				TMDBSeasonNumber:      ep.TMDBSeasonNumber,
				TMDBEpisodeNumber:     ep.TMDBEpisodeNumber,
				CustomSeasonNumber:    customSeason + 1,
				CustomEpisodeNumber:   episodeIndex + 1,
				AbsoluteEpisodeNumber: absoluteIndex,
			})
		}
	}
	return out
}

// sortGroupsByOrder sorts groups ascending by their upstream Order field.
func sortGroupsByOrder(groups []UpstreamGroup) {
	for i := 1; i < len(groups); i++ {
		for j := i; j > 0 && groups[j].Order < groups[j-1].Order; j-- {
			groups[j], groups[j-1] = groups[j-1], groups[j]
		}
	}
}
