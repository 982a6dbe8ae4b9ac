// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package adminapi implements the admin/UI surface: shape-stable, enveloped
CRUD over the library, sources, background tasks, scheduled tasks,
scraper and metadata-source settings, UA rules, API tokens, cache, and
persisted config. Unlike internal/compatapi every response here uses the
platform's standard respond.OK/Paginated envelope.

Routes are protected by internal/platform/middleware.Authenticate +
RequireAuth, backed by internal/core/apitoken.Service.VerifyToken, and by
DenyBlacklistedUA, backed by internal/core/uarule.Service.IsDenied — both
wired in by the caller that mounts Routes(), not by this package.
*/
package adminapi

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/cache"
	"github.com/sorahq/danmu/internal/core/apitoken"
	"github.com/sorahq/danmu/internal/core/episode"
	"github.com/sorahq/danmu/internal/core/source"
	"github.com/sorahq/danmu/internal/core/uarule"
	"github.com/sorahq/danmu/internal/core/work"
	"github.com/sorahq/danmu/internal/metadata"
	"github.com/sorahq/danmu/internal/platform/runtimeconfig"
	"github.com/sorahq/danmu/internal/scheduler"
	"github.com/sorahq/danmu/internal/scraper"
	"github.com/sorahq/danmu/internal/search"
	"github.com/sorahq/danmu/internal/task"
)

// Handler implements the HTTP layer for every admin/UI resource. It
// spans many small domains the way a single "admin" router naturally
// does — one Handler, many files grouped by resource.
type Handler struct {
	works     *work.Service
	sources   *source.Service
	episodes  *episode.Service
	tasks     *task.Engine
	scheduled scheduler.Repository
	scheduler *scheduler.Scheduler
	scrapers  *scraper.Registry
	metadata  *metadata.Manager
	pipeline  *search.Pipeline
	uarules   *uarule.Service
	tokens    *apitoken.Service
	cache     *cache.Cache
	config    *runtimeconfig.Store
	pool      *pgxpool.Pool
	logger    *slog.Logger
}

// NewHandler constructs a new admin [Handler] with every domain
// dependency it fronts.
func NewHandler(
	works *work.Service,
	sources *source.Service,
	episodes *episode.Service,
	tasks *task.Engine,
	scheduled scheduler.Repository,
	sched *scheduler.Scheduler,
	scrapers *scraper.Registry,
	metadataMgr *metadata.Manager,
	pipeline *search.Pipeline,
	uarules *uarule.Service,
	tokens *apitoken.Service,
	cache *cache.Cache,
	config *runtimeconfig.Store,
	pool *pgxpool.Pool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		works: works, sources: sources, episodes: episodes, tasks: tasks,
		scheduled: scheduled, scheduler: sched, scrapers: scrapers, metadata: metadataMgr, pipeline: pipeline,
		uarules: uarules, tokens: tokens, cache: cache, config: config, pool: pool, logger: logger,
	}
}

// Routes returns a [chi.Router] configured with every admin endpoint.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/search", h.searchProviders)

	router.Route("/library", func(r chi.Router) {
		r.Get("/", h.listWorks)
		r.Post("/", h.createWorkFromCandidate)
		r.Get("/{id}", h.getWork)
		r.Delete("/{id}", h.deleteWork)
		r.Get("/{id}/metadata", h.getWorkMetadata)
		r.Put("/{id}/metadata", h.putWorkMetadata)
		r.Get("/{id}/aliases", h.getWorkAliases)
		r.Put("/{id}/aliases", h.putWorkAliases)
		r.Get("/{id}/sources", h.listSourcesForWork)
		r.Post("/{id}/sources", h.addSourceFromCandidate)
		r.Post("/reassociate", h.reassociateSources)
	})

	router.Route("/sources", func(r chi.Router) {
		r.Get("/{id}", h.getSource)
		r.Put("/{id}/favorite", h.setSourceFavorite)
		r.Post("/{id}/refresh", h.refreshSource)
		r.Delete("/{id}", h.deleteSource)
		r.Post("/bulk-delete", h.bulkDeleteSources)
		r.Get("/{id}/episodes", h.listEpisodes)
		r.Put("/{id}/episodes/reorder", h.reorderEpisodes)
	})

	router.Route("/episodes", func(r chi.Router) {
		r.Post("/{id}/refresh", h.refreshEpisode)
	})

	router.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.listTasks)
		r.Get("/{id}", h.getTask)
		r.Post("/{id}/pause", h.pauseTask)
		r.Post("/{id}/resume", h.resumeTask)
		r.Post("/{id}/abort", h.abortTask)
		r.Delete("/{id}", h.deleteTask)
	})

	router.Route("/scheduled-tasks", func(r chi.Router) {
		r.Get("/", h.listScheduledTasks)
		r.Post("/", h.createScheduledTask)
		r.Put("/{id}", h.updateScheduledTask)
		r.Delete("/{id}", h.deleteScheduledTask)
		r.Post("/{id}/run-now", h.runScheduledTaskNow)
	})

	router.Route("/scrapers", func(r chi.Router) {
		r.Get("/", h.listScraperSettings)
		r.Put("/{name}", h.updateScraperSetting)
		r.Post("/{name}/actions/{action}", h.runScraperAction)
	})

	router.Route("/metadata-sources", func(r chi.Router) {
		r.Get("/", h.listMetadataSettings)
		r.Put("/{name}", h.updateMetadataSetting)
	})

	router.Route("/ua-rules", func(r chi.Router) {
		r.Get("/", h.listUARules)
		r.Post("/", h.createUARule)
		r.Delete("/{id}", h.deleteUARule)
	})

	router.Route("/api-tokens", func(r chi.Router) {
		r.Get("/", h.listAPITokens)
		r.Post("/", h.createAPIToken)
		r.Put("/{id}/enabled", h.setAPITokenEnabled)
		r.Delete("/{id}", h.deleteAPIToken)
	})

	router.Route("/cache", func(r chi.Router) {
		r.Post("/clear", h.clearCache)
	})

	router.Route("/config", func(r chi.Router) {
		r.Get("/", h.getConfig)
		r.Put("/{key}", h.putConfig)
	})

	return router
}
