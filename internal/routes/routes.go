package routes

import (
	"github.com/fathima-sithara/video-service/internal/handlers"
	"github.com/fathima-sithara/video-service/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Options struct {
	Auth    fiber.Handler
	Limiter fiber.Handler
	Metrics *metrics.Metrics
	// MediaDir is served under /media when the local store is active.
	MediaDir string
}

func Register(app *fiber.App, h *handlers.Handler, opts Options) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}
	if opts.MediaDir != "" {
		app.Static("/media", opts.MediaDir)
	}

	videos := app.Group("/api/v1/videos")
	if opts.Auth != nil {
		videos.Use(opts.Auth)
	}
	if opts.Limiter != nil {
		videos.Use(opts.Limiter)
	}

	videos.Get("/", h.ListVideos)
	videos.Post("/", h.PublishVideo)
	videos.Patch("/toggle/publish/:videoId", h.TogglePublishStatus)
	videos.Get("/:videoId/playback", h.GetPlaybackURL)
	videos.Get("/:videoId", h.GetVideoByID)
	videos.Patch("/:videoId", h.UpdateVideo)
	videos.Delete("/:videoId", h.DeleteVideo)
}
