package handlers

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fathima-sithara/video-service/internal/middleware"
	service "github.com/fathima-sithara/video-service/internal/services"
	utils "github.com/fathima-sithara/video-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadLimits bounds multipart parts before they are written to disk.
type UploadLimits struct {
	TempDir       string
	MaxVideoBytes int64
	MaxImageBytes int64
}

type Handler struct {
	svc    *service.VideoService
	limits UploadLimits
	logger *zap.SugaredLogger
}

func NewHandler(svc *service.VideoService, limits UploadLimits, logger *zap.SugaredLogger) *Handler {
	if limits.TempDir == "" {
		limits.TempDir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{svc: svc, limits: limits, logger: logger}
}

// GET /api/v1/videos?query=&userId=&page=&limit=&sortBy=&sortType=
func (h *Handler) ListVideos(c *fiber.Ctx) error {
	env, err := h.svc.ListVideos(c.UserContext(), service.ListVideosInput{
		Query:    c.Query("query"),
		UserID:   c.Query("userId"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
	})
	if err != nil {
		return utils.RenderError(c, err)
	}
	return utils.JSONSuccess(c, env)
}

// POST /api/v1/videos (multipart: title, description, videoFile, thumbnail)
func (h *Handler) PublishVideo(c *fiber.Ctx) error {
	files, cleanup, err := h.saveUploads(c)
	defer cleanup()
	if err != nil {
		return utils.RenderError(c, err)
	}
	env, err := h.svc.PublishVideo(c.UserContext(), authContext(c), service.PublishVideoInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Files:       files,
	})
	if err != nil {
		return utils.RenderError(c, err)
	}
	return utils.JSONSuccess(c, env)
}

// GET /api/v1/videos/:videoId
func (h *Handler) GetVideoByID(c *fiber.Ctx) error {
	env, err := h.svc.GetVideoByID(c.UserContext(), c.Params("videoId"))
	if err != nil {
		return utils.RenderError(c, err)
	}
	return utils.JSONSuccess(c, env)
}

// PATCH /api/v1/videos/:videoId (multipart, every field optional)
func (h *Handler) UpdateVideo(c *fiber.Ctx) error {
	files, cleanup, err := h.saveUploads(c)
	defer cleanup()
	if err != nil {
		return utils.RenderError(c, err)
	}
	env, err := h.svc.UpdateVideo(c.UserContext(), authContext(c), c.Params("videoId"), service.UpdateVideoInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Files:       files,
	})
	if err != nil {
		return utils.RenderError(c, err)
	}
	return utils.JSONSuccess(c, env)
}

// DELETE /api/v1/videos/:videoId
func (h *Handler) DeleteVideo(c *fiber.Ctx) error {
	env, err := h.svc.DeleteVideo(c.UserContext(), authContext(c), c.Params("videoId"))
	if err != nil {
		return utils.RenderError(c, err)
	}
	return utils.JSONSuccess(c, env)
}

// PATCH /api/v1/videos/toggle/publish/:videoId
func (h *Handler) TogglePublishStatus(c *fiber.Ctx) error {
	env, err := h.svc.TogglePublishStatus(c.UserContext(), authContext(c), c.Params("videoId"))
	if err != nil {
		return utils.RenderError(c, err)
	}
	return utils.JSONSuccess(c, env)
}

// GET /api/v1/videos/:videoId/playback
func (h *Handler) GetPlaybackURL(c *fiber.Ctx) error {
	env, err := h.svc.GetPlaybackURL(c.UserContext(), c.Params("videoId"))
	if err != nil {
		return utils.RenderError(c, err)
	}
	return utils.JSONSuccess(c, env)
}

func authContext(c *fiber.Ctx) service.AuthContext {
	var ac service.AuthContext
	if raw, ok := c.Locals(middleware.UserIDKey).(string); ok {
		ac.UserID, _ = utils.ParseID(raw)
	}
	return ac
}

// queryInt returns 0 for absent or malformed values so the service defaults apply.
func queryInt(c *fiber.Ctx, key string) int64 {
	n, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// saveUploads writes the optional videoFile and thumbnail parts to temp files.
// The returned cleanup removes whatever was written and is always safe to call.
func (h *Handler) saveUploads(c *fiber.Ctx) (service.UploadedFiles, func(), error) {
	var files service.UploadedFiles
	var written []string
	cleanup := func() {
		for _, p := range written {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				h.logger.Warnw("temp upload not removed", "path", p, "err", err)
			}
		}
	}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return files, cleanup, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return files, cleanup, utils.NewValidationError("malformed multipart form")
	}

	save := func(field, typePrefix string, maxBytes int64) (string, error) {
		fh := firstFile(form, field)
		if fh == nil {
			return "", nil
		}
		if err := utils.ValidateFileHeader(fh, typePrefix, maxBytes); err != nil {
			return "", utils.NewValidationError(field + ": " + err.Error())
		}
		dst := filepath.Join(h.limits.TempDir, uuid.NewString()+filepath.Ext(fh.Filename))
		if err := c.SaveFile(fh, dst); err != nil {
			return "", utils.NewUploadError("failed to store "+field, err)
		}
		written = append(written, dst)
		return dst, nil
	}

	if files.VideoFilePath, err = save("videoFile", "video/", h.limits.MaxVideoBytes); err != nil {
		return files, cleanup, err
	}
	if files.ThumbnailPath, err = save("thumbnail", "image/", h.limits.MaxImageBytes); err != nil {
		return files, cleanup, err
	}
	return files, cleanup, nil
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if fhs := form.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}
