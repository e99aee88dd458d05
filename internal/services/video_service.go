package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fathima-sithara/video-service/internal/events"
	"github.com/fathima-sithara/video-service/internal/models"
	"github.com/fathima-sithara/video-service/internal/repository"
	"github.com/fathima-sithara/video-service/internal/storage"
	utils "github.com/fathima-sithara/video-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type VideoRepository interface {
	Count(ctx context.Context, f models.VideoFilter) (int64, error)
	Find(ctx context.Context, f models.VideoFilter, o models.ListOptions) ([]*models.Video, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	FindByIDWithOwner(ctx context.Context, id primitive.ObjectID) (*models.VideoWithOwner, error)
	Create(ctx context.Context, v *models.Video) error
	Save(ctx context.Context, v *models.Video) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MediaStore interface {
	Upload(ctx context.Context, localPath string, kind storage.Kind) (*storage.UploadResult, error)
	Delete(ctx context.Context, publicID string, kind storage.Kind) error
	PlaybackURL(ctx context.Context, publicID string, ttl time.Duration) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.VideoEvent) error
}

// AuthContext identifies the authenticated caller.
type AuthContext struct {
	UserID primitive.ObjectID
}

// UploadedFiles holds local paths of files received with a request.
// Empty paths mean "not supplied".
type UploadedFiles struct {
	VideoFilePath string
	ThumbnailPath string
}

type ListVideosInput struct {
	Query    string
	UserID   string
	Page     int64
	Limit    int64
	SortBy   string
	SortType string
}

type PublishVideoInput struct {
	Title       string
	Description string
	Files       UploadedFiles
}

// UpdateVideoInput fields are optional; empty values leave the record as is.
type UpdateVideoInput struct {
	Title       string
	Description string
	Files       UploadedFiles
}

type Options struct {
	CallTimeout   time.Duration
	UploadTimeout time.Duration
	PlaybackTTL   time.Duration
	MaxLimit      int64
}

type VideoService struct {
	repo   VideoRepository
	store  MediaStore
	events EventPublisher
	logger *zap.SugaredLogger
	opts   Options
}

func NewVideoService(repo VideoRepository, store MediaStore, pub EventPublisher, logger *zap.SugaredLogger, opts Options) *VideoService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.PlaybackTTL <= 0 {
		opts.PlaybackTTL = 10 * time.Minute
	}
	return &VideoService{repo: repo, store: store, events: pub, logger: logger, opts: opts}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (s *VideoService) ListVideos(ctx context.Context, in ListVideosInput) (*utils.Envelope[*models.VideoPage], error) {
	page, limit := in.Page, in.Limit
	if page < 1 {
		page = models.DefaultPage
	}
	if limit < 1 {
		limit = models.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}
	sortBy := in.SortBy
	if !models.SortableFields[sortBy] {
		sortBy = models.DefaultSortBy
	}

	filter := models.VideoFilter{Query: strings.TrimSpace(in.Query)}
	if owner, ok := utils.ParseID(in.UserID); ok {
		filter.Owner = owner
	}

	cctx, cancel := withTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	total, err := s.repo.Count(cctx, filter)
	if err != nil {
		return nil, s.persistenceErr("count videos", err)
	}
	videos, err := s.repo.Find(cctx, filter, models.ListOptions{
		SortBy:   sortBy,
		SortDesc: in.SortType != models.SortAsc,
		Skip:     (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, s.persistenceErr("find videos", err)
	}

	return utils.NewEnvelope(http.StatusOK, &models.VideoPage{
		Videos: videos,
		Pagination: models.Pagination{
			TotalVideos: total,
			TotalPages:  (total + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		},
	}, "Videos fetched successfully"), nil
}

func (s *VideoService) PublishVideo(ctx context.Context, auth AuthContext, in PublishVideoInput) (*utils.Envelope[*models.Video], error) {
	title, desc := strings.TrimSpace(in.Title), strings.TrimSpace(in.Description)
	switch {
	case title == "" || desc == "":
		return nil, utils.NewValidationError("title and description are required")
	case in.Files.VideoFilePath == "":
		return nil, utils.NewValidationError("video file is required")
	case in.Files.ThumbnailPath == "":
		return nil, utils.NewValidationError("thumbnail is required")
	}
	if auth.UserID.IsZero() {
		return nil, utils.NewForbiddenError("authenticated user required")
	}

	video, err := s.upload(ctx, in.Files.VideoFilePath, storage.KindVideo)
	if err != nil {
		return nil, err
	}
	thumb, err := s.upload(ctx, in.Files.ThumbnailPath, storage.KindImage)
	if err != nil {
		s.logger.Warnw("orphaned media object", "publicId", video.PublicID, "reason", "thumbnail upload failed")
		return nil, err
	}

	v := &models.Video{
		VideoFile:         video.URL,
		VideoFilePublicID: video.PublicID,
		Thumbnail:         thumb.URL,
		ThumbnailPublicID: thumb.PublicID,
		Title:             title,
		Description:       desc,
		Duration:          video.Duration,
		Owner:             auth.UserID,
	}
	cctx, cancel := withTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	if err := s.repo.Create(cctx, v); err != nil {
		s.logger.Warnw("orphaned media objects", "video", video.PublicID, "thumbnail", thumb.PublicID, "reason", "create failed")
		return nil, s.persistenceErr("create video", err)
	}

	s.emit(ctx, events.VideoPublished, v)
	return utils.NewEnvelope(http.StatusCreated, v, "Video published successfully"), nil
}

func (s *VideoService) GetVideoByID(ctx context.Context, id string) (*utils.Envelope[*models.VideoWithOwner], error) {
	oid, ok := utils.ParseID(id)
	if !ok {
		return nil, utils.NewInvalidIDError("invalid video id")
	}
	cctx, cancel := withTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	v, err := s.repo.FindByIDWithOwner(cctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("video not found")
		}
		return nil, s.persistenceErr("find video", err)
	}
	return utils.NewEnvelope(http.StatusOK, v, "Video fetched successfully"), nil
}

func (s *VideoService) UpdateVideo(ctx context.Context, auth AuthContext, id string, in UpdateVideoInput) (*utils.Envelope[*models.Video], error) {
	v, err := s.loadOwned(ctx, id, auth)
	if err != nil {
		return nil, err
	}

	var newThumb string
	if in.Files.ThumbnailPath != "" {
		thumb, err := s.upload(ctx, in.Files.ThumbnailPath, storage.KindImage)
		if err != nil {
			return nil, err
		}
		newThumb = thumb.PublicID
		if v.ThumbnailPublicID != "" {
			s.logger.Warnw("replaced media object left in store", "publicId", v.ThumbnailPublicID, "video", v.ID.Hex())
		}
		v.Thumbnail, v.ThumbnailPublicID = thumb.URL, thumb.PublicID
	}
	if in.Files.VideoFilePath != "" {
		video, err := s.upload(ctx, in.Files.VideoFilePath, storage.KindVideo)
		if err != nil {
			if newThumb != "" {
				s.logger.Warnw("orphaned media object", "publicId", newThumb, "reason", "video upload failed")
			}
			return nil, err
		}
		if v.VideoFilePublicID != "" {
			s.logger.Warnw("replaced media object left in store", "publicId", v.VideoFilePublicID, "video", v.ID.Hex())
		}
		v.VideoFile, v.VideoFilePublicID, v.Duration = video.URL, video.PublicID, video.Duration
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		v.Title = t
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		v.Description = d
	}

	if err := s.save(ctx, v); err != nil {
		return nil, err
	}
	s.emit(ctx, events.VideoUpdated, v)
	return utils.NewEnvelope(http.StatusOK, v, "Video updated successfully"), nil
}

// DeleteVideo removes the remote video, then the remote thumbnail, then the
// record. A failed remote delete stops before the record is touched.
func (s *VideoService) DeleteVideo(ctx context.Context, auth AuthContext, id string) (*utils.Envelope[struct{}], error) {
	v, err := s.loadOwned(ctx, id, auth)
	if err != nil {
		return nil, err
	}

	cctx, cancel := withTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	if v.VideoFilePublicID != "" {
		if err := s.store.Delete(cctx, v.VideoFilePublicID, storage.KindVideo); err != nil {
			return nil, utils.NewUploadError("failed to delete video file", err)
		}
	}
	if v.ThumbnailPublicID != "" {
		if err := s.store.Delete(cctx, v.ThumbnailPublicID, storage.KindImage); err != nil {
			return nil, utils.NewUploadError("failed to delete thumbnail", err)
		}
	}
	if err := s.repo.Delete(cctx, v.ID); err != nil {
		return nil, s.persistenceErr("delete video", err)
	}

	s.emit(ctx, events.VideoDeleted, v)
	return utils.NewEnvelope(http.StatusOK, struct{}{}, "Video deleted successfully"), nil
}

func (s *VideoService) TogglePublishStatus(ctx context.Context, auth AuthContext, id string) (*utils.Envelope[*models.PublishStatus], error) {
	v, err := s.loadOwned(ctx, id, auth)
	if err != nil {
		return nil, err
	}
	v.IsPublished = !v.IsPublished
	if err := s.save(ctx, v); err != nil {
		return nil, err
	}
	s.emit(ctx, events.VideoPublishToggled, v)
	return utils.NewEnvelope(http.StatusOK, &models.PublishStatus{ID: v.ID, IsPublished: v.IsPublished}, "Publish status toggled successfully"), nil
}

func (s *VideoService) GetPlaybackURL(ctx context.Context, id string) (*utils.Envelope[*models.PlaybackURL], error) {
	oid, ok := utils.ParseID(id)
	if !ok {
		return nil, utils.NewInvalidIDError("invalid video id")
	}
	cctx, cancel := withTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	v, err := s.repo.FindByID(cctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("video not found")
		}
		return nil, s.persistenceErr("find video", err)
	}
	if v.VideoFilePublicID == "" {
		return nil, utils.NewNotFoundError("video file not found")
	}
	url, err := s.store.PlaybackURL(cctx, v.VideoFilePublicID, s.opts.PlaybackTTL)
	if err != nil {
		return nil, utils.NewUploadError("failed to sign playback url", err)
	}
	return utils.NewEnvelope(http.StatusOK, &models.PlaybackURL{
		URL:       url,
		ExpiresIn: int64(s.opts.PlaybackTTL / time.Second),
	}, "Playback url generated"), nil
}

// loadOwned fetches a video for mutation by its owner.
func (s *VideoService) loadOwned(ctx context.Context, id string, auth AuthContext) (*models.Video, error) {
	oid, ok := utils.ParseID(id)
	if !ok {
		return nil, utils.NewInvalidIDError("invalid video id")
	}
	cctx, cancel := withTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	v, err := s.repo.FindByID(cctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("video not found")
		}
		return nil, s.persistenceErr("find video", err)
	}
	if v.Owner != auth.UserID {
		return nil, utils.NewForbiddenError("only the owner can modify this video")
	}
	return v, nil
}

func (s *VideoService) save(ctx context.Context, v *models.Video) error {
	cctx, cancel := withTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	if err := s.repo.Save(cctx, v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewNotFoundError("video not found")
		}
		return s.persistenceErr("save video", err)
	}
	return nil
}

// upload stores one file and classifies failures: rejected content is a
// validation error, anything else an upload error.
func (s *VideoService) upload(ctx context.Context, path string, kind storage.Kind) (*storage.UploadResult, error) {
	uctx, cancel := withTimeout(ctx, s.opts.UploadTimeout)
	defer cancel()
	res, err := s.store.Upload(uctx, path, kind)
	if err == nil {
		return res, nil
	}
	name := "video"
	if kind == storage.KindImage {
		name = "thumbnail"
	}
	if errors.Is(err, storage.ErrInvalidMedia) {
		return nil, utils.NewValidationError(name + " is not a valid media file")
	}
	s.logger.Errorw("media upload failed", "kind", kind, "err", err)
	return nil, utils.NewUploadError(name+" upload failed", err)
}

func (s *VideoService) persistenceErr(op string, err error) error {
	s.logger.Errorw("database operation failed", "op", op, "err", err)
	return utils.NewPersistenceError(op+" failed", err)
}

func (s *VideoService) emit(ctx context.Context, typ string, v *models.Video) {
	if s.events == nil {
		return
	}
	ectx, cancel := withTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	err := s.events.Publish(ectx, events.VideoEvent{
		Type:        typ,
		VideoID:     v.ID.Hex(),
		OwnerID:     v.Owner.Hex(),
		Title:       v.Title,
		IsPublished: v.IsPublished,
	})
	if err != nil {
		s.logger.Warnw("video event publish failed", "type", typ, "video", v.ID.Hex(), "err", err)
	}
}
