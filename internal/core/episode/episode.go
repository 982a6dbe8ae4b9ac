// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package episode defines the Episode and Comment entities and the
transactional bulk-insert operations that back the import/refresh
pipeline.

Episode ids are never database-generated — see pkg/episodeid — so every
write path through this package that creates an Episode must first
resolve the Source's 1-based rank among its Work's Sources.
*/
package episode

import "time"

// Episode is a single numbered unit of a Source (an upstream listing).
type Episode struct {
	ID                int64     `json:"id"`
	SourceID          int64     `json:"source_id"`
	EpisodeIndex      int       `json:"episode_index"`
	Title             string    `json:"title"`
	ProviderEpisodeID string    `json:"provider_episode_id"`
	SourceURL         string    `json:"source_url,omitempty"`
	FetchedAt         time.Time `json:"fetched_at"`
	CommentCount      int       `json:"comment_count"`
}

// Comment is a single normalized danmaku row attached to an Episode.
type Comment struct {
	ID        int64   `json:"id"`
	EpisodeID int64   `json:"episode_id"`
	CID       string  `json:"cid"`
	P         string  `json:"p"`
	M         string  `json:"m"`
	T         float64 `json:"t"`
}

// # Field Identifiers

const (
	FieldID           = "id"
	FieldSourceID     = "source_id"
	FieldEpisodeIndex = "episode_index"
	FieldTitle        = "title"
)
