// Copyright (c) 2026 Danmu. All rights reserved.

package schema

// SourceTable represents the 'core.source' table — a binding of a Work to
// one upstream provider's media id.
type SourceTable struct {
	Table                      string
	ID                         string
	WorkID                     string
	ProviderName               string
	MediaID                    string
	IsFavorited                string
	IncrementalRefreshEnabled  string
	IncrementalRefreshFailures string
	CreatedAt                  string
}

var Source = SourceTable{
	Table:                      "core.source",
	ID:                         "id",
	WorkID:                     "work_id",
	ProviderName:               "provider_name",
	MediaID:                    "media_id",
	IsFavorited:                "is_favorited",
	IncrementalRefreshEnabled:  "incremental_refresh_enabled",
	IncrementalRefreshFailures: "incremental_refresh_failures",
	CreatedAt:                  "created_at",
}

// EpisodeTable represents the 'core.episode' table. Its id is application
// assigned via the deterministic formula (see pkg/episodeid), never identity.
type EpisodeTable struct {
	Table             string
	ID                string
	SourceID          string
	EpisodeIndex      string
	Title             string
	ProviderEpisodeID string
	SourceURL         string
	FetchedAt         string
	CommentCount      string
}

var Episode = EpisodeTable{
	Table:             "core.episode",
	ID:                "id",
	SourceID:          "source_id",
	EpisodeIndex:      "episode_index",
	Title:             "title",
	ProviderEpisodeID: "provider_episode_id",
	SourceURL:         "source_url",
	FetchedAt:         "fetched_at",
	CommentCount:      "comment_count",
}

// CommentTable represents the 'core.comment' table.
type CommentTable struct {
	Table     string
	ID        string
	EpisodeID string
	CID       string
	P         string
	M         string
	T         string
}

var Comment = CommentTable{
	Table:     "core.comment",
	ID:        "id",
	EpisodeID: "episode_id",
	CID:       "cid",
	P:         "p",
	M:         "m",
	T:         "t",
}
