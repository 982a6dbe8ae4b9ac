// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package compatapi implements component J: the dandanplay-compatible HTTP
surface consumed by existing players. Every response shape in this file is
frozen to the exact JSON field names upstream clients already expect —
nothing here may be renamed, reordered into an envelope, or extended
without breaking a deployed player.
*/
package compatapi

// searchAnimeResponse is the frozen response shape for GET /api/v2/search/anime.
type searchAnimeResponse struct {
	HasMore bool            `json:"hasMore"`
	Animes  []searchAnimeDTO `json:"animes"`
}

type searchAnimeDTO struct {
	AnimeID    int64  `json:"animeId"`
	AnimeTitle string `json:"animeTitle"`
	Type       string `json:"type"`
	Rating     int    `json:"rating"`
	ImageURL   string `json:"imageUrl"`
}

// matchResponse is the frozen response shape for GET /api/v2/match.
type matchResponse struct {
	IsMatched bool       `json:"isMatched"`
	Matches   []matchDTO `json:"matches"`
}

type matchDTO struct {
	AnimeID      int64  `json:"animeId"`
	AnimeTitle   string `json:"animeTitle"`
	EpisodeID    int64  `json:"episodeId"`
	EpisodeTitle string `json:"episodeTitle"`
	Type         string `json:"type"`
	Shift        int    `json:"shift"`
}

// commentResponse is the frozen response shape for GET /api/v2/comment/{episodeId}.
type commentResponse struct {
	Count    int          `json:"count"`
	Comments []commentDTO `json:"comments"`
}

type commentDTO struct {
	CID int64  `json:"cid"`
	P   string `json:"p"`
	M   string `json:"m"`
}
