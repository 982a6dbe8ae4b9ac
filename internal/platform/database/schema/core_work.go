// Copyright (c) 2026 Danmu. All rights reserved.

package schema

// WorkTable represents the 'core.work' table.
type WorkTable struct {
	Table           string
	ID              string
	Title           string
	Type            string
	Season          string
	ImageURL        string
	LocalImagePath  string
	EpisodeCount    string
	CreatedAt       string
}

var Work = WorkTable{
	Table:          "core.work",
	ID:             "id",
	Title:          "title",
	Type:           "type",
	Season:         "season",
	ImageURL:       "image_url",
	LocalImagePath: "local_image_path",
	EpisodeCount:   "episode_count",
	CreatedAt:      "created_at",
}

// MetadataTable represents the 'core.metadata' table (1:1 with work).
type MetadataTable struct {
	Table              string
	WorkID             string
	TMDBID             string
	TMDBEpisodeGroupID string
	IMDBID             string
	TVDBID             string
	DoubanID           string
	BangumiID          string
}

var Metadata = MetadataTable{
	Table:              "core.metadata",
	WorkID:             "work_id",
	TMDBID:             "tmdb_id",
	TMDBEpisodeGroupID: "tmdb_episode_group_id",
	IMDBID:             "imdb_id",
	TVDBID:             "tvdb_id",
	DoubanID:           "douban_id",
	BangumiID:          "bangumi_id",
}

// AliasesTable represents the 'core.aliases' table (1:1 with work).
type AliasesTable struct {
	Table      string
	WorkID     string
	NameEn     string
	NameJp     string
	NameRomaji string
	AliasCN1   string
	AliasCN2   string
	AliasCN3   string
}

var Aliases = AliasesTable{
	Table:      "core.aliases",
	WorkID:     "work_id",
	NameEn:     "name_en",
	NameJp:     "name_jp",
	NameRomaji: "name_romaji",
	AliasCN1:   "alias_cn_1",
	AliasCN2:   "alias_cn_2",
	AliasCN3:   "alias_cn_3",
}
