// Copyright (c) 2026 Danmu. All rights reserved.

package compatapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sorahq/danmu/internal/core/episode"
	"github.com/sorahq/danmu/internal/core/work"
	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
	"github.com/sorahq/danmu/internal/search"
)

// Handler implements the dandanplay-compatible HTTP surface.
type Handler struct {
	work    *work.Service
	episode *episode.Service
	matcher *search.Matcher
}

// NewHandler constructs a [Handler] with its service dependencies.
func NewHandler(workSvc *work.Service, episodeSvc *episode.Service, matcher *search.Matcher) *Handler {
	return &Handler{work: workSvc, episode: episodeSvc, matcher: matcher}
}

// Routes returns a [chi.Router] configured with the compatibility
// endpoints. It is mounted at /api/v2 by the composition root.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/search/anime", h.searchAnime)
	router.Get("/match", h.match)
	router.Get("/comment/{episodeId}", h.comment)
	return router
}

/*
GET /api/v2/search/anime?keyword=….

Searches the local library by title, trying a full-text strategy first and
falling back to a permissive LIKE search when it finds nothing. Response
shape is frozen bit-compat — see [searchAnimeResponse].
*/
func (h *Handler) searchAnime(writer http.ResponseWriter, request *http.Request) {
	keyword := request.URL.Query().Get("keyword")

	works, err := h.work.SearchFullText(request.Context(), keyword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if len(works) == 0 {
		works, err = h.work.SearchLike(request.Context(), keyword)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	animes := make([]searchAnimeDTO, len(works))
	for i, w := range works {
		animes[i] = searchAnimeDTO{
			AnimeID:    w.ID,
			AnimeTitle: w.Title,
			Type:       string(w.Type),
			Rating:     0,
			ImageURL:   w.ImageURL,
		}
	}

	respond.JSON(writer, http.StatusOK, searchAnimeResponse{HasMore: false, Animes: animes})
}

/*
GET /api/v2/match?title=…&season=…&episode=….

Resolves a title (plus optional season/episode hints) to zero or more
local episodes using the 3-strategy matching chain in internal/search.
Response shape is frozen bit-compat — see [matchResponse].
*/
func (h *Handler) match(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	title := query.Get("title")
	season := parseIntParam(query.Get("season"))
	episodeNumber := parseIntParam(query.Get("episode"))

	matches, err := h.matcher.Match(request.Context(), title, season, episodeNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	dtos := make([]matchDTO, len(matches))
	for i, m := range matches {
		dtos[i] = matchDTO{
			AnimeID:      m.AnimeID,
			AnimeTitle:   m.AnimeTitle,
			EpisodeID:    m.EpisodeID,
			EpisodeTitle: m.EpisodeTitle,
			Type:         m.Type,
			Shift:        m.Shift,
		}
	}

	respond.JSON(writer, http.StatusOK, matchResponse{IsMatched: len(dtos) > 0, Matches: dtos})
}

/*
GET /api/v2/comment/{episodeId}.

Returns every stored comment for an episode, packed into the frozen
"p" positional field. 404s if the episode row doesn't exist.
*/
func (h *Handler) comment(writer http.ResponseWriter, request *http.Request) {
	episodeID, err := strconv.ParseInt(requestutil.Param(request, "episodeId"), 10, 64)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("episodeId must be an integer"))
		return
	}

	if _, err := h.episode.Get(request.Context(), episodeID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := h.episode.ListComments(request.Context(), episodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	dtos := make([]commentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = commentDTO{CID: c.ID, P: c.P, M: c.M}
	}

	respond.JSON(writer, http.StatusOK, commentResponse{Count: len(dtos), Comments: dtos})
}

// parseIntParam parses an optional integer query parameter, returning nil
// when absent or malformed.
func parseIntParam(raw string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
