// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package work defines the core domain entity for the local library: a
single anime title tracked at a specific season.

Core Responsibility:

  - Identity: a Work is keyed by (title, season); nothing downstream
    (sources, episodes, comments) exists without one.
  - Metadata: external ids (TMDB/IMDb/TVDB/Douban/Bangumi) attach 1:1 and
    follow a "write-if-empty" update rule once populated.
  - Aliases: alternate names used by the search alias filter, same
    write-if-empty rule as Metadata.

This package is the source of truth for library catalogue data; scrapers
and metadata providers feed it but never bypass it.
*/
package work

import "time"

// # Domain Enums

// Type classifies the kind of publication a Work represents.
type Type string

const (
	TypeTVSeries Type = "tv_series"
	TypeMovie    Type = "movie"
	TypeOVA      Type = "ova"
	TypeOther    Type = "other"
)

// IsValid reports whether t is a recognised [Type] value.
func (t Type) IsValid() bool {
	switch t {
	case TypeTVSeries, TypeMovie, TypeOVA, TypeOther:
		return true
	}
	return false
}

// # Core Entities

// Work is the central aggregate of the library domain: a single tracked
// anime title at a given season.
type Work struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Type            Type       `json:"type"`
	Season          int        `json:"season"`
	ImageURL        string     `json:"image_url,omitempty"`
	LocalImagePath  string     `json:"local_image_path,omitempty"`
	EpisodeCount    *int       `json:"episode_count,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Metadata is the 1:1 external-id record attached to a Work. Any subset of
// fields may be unset; once a field is non-empty, only an explicit user
// edit may change it (see [Repository.UpdateMetadataForce]).
type Metadata struct {
	WorkID             int64   `json:"work_id"`
	TMDBID             *int64  `json:"tmdb_id,omitempty"`
	TMDBEpisodeGroupID string  `json:"tmdb_episode_group_id,omitempty"`
	IMDBID             string  `json:"imdb_id,omitempty"`
	TVDBID             *int64  `json:"tvdb_id,omitempty"`
	DoubanID           *int64  `json:"douban_id,omitempty"`
	BangumiID          *int64  `json:"bangumi_id,omitempty"`
}

// Aliases is the 1:1 alternate-name record attached to a Work, consumed by
// the search pipeline's alias filter. Same write-if-empty rule as Metadata.
type Aliases struct {
	WorkID     int64  `json:"work_id"`
	NameEN     string `json:"name_en,omitempty"`
	NameJP     string `json:"name_jp,omitempty"`
	NameRomaji string `json:"name_romaji,omitempty"`
	AliasCN1   string `json:"alias_cn_1,omitempty"`
	AliasCN2   string `json:"alias_cn_2,omitempty"`
	AliasCN3   string `json:"alias_cn_3,omitempty"`
}

// AliasSet flattens [Aliases] into a slice of non-empty alternate names,
// used by the search pipeline's alias containment check.
func (a Aliases) AliasSet() []string {
	var out []string
	for _, name := range []string{a.NameEN, a.NameJP, a.NameRomaji, a.AliasCN1, a.AliasCN2, a.AliasCN3} {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// # Search & Filtering

// Filter holds the parameters for a filtered work list query, used by the
// admin library browser.
type Filter struct {
	Query   string `json:"q,omitempty"`
	Type    Type   `json:"type,omitempty"`
	Season  *int   `json:"season,omitempty"`
	Sort    string `json:"sort,omitempty"`
	SortDir string `json:"sort_dir,omitempty"`
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldType     = "type"
	FieldSeason   = "season"
	FieldImageURL = "image_url"
)
