package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fathima-sithara/video-service/internal/events"
	"github.com/fathima-sithara/video-service/internal/models"
	"github.com/fathima-sithara/video-service/internal/repository"
	"github.com/fathima-sithara/video-service/internal/storage"
	utils "github.com/fathima-sithara/video-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Upload(ctx context.Context, localPath string, kind storage.Kind) (*storage.UploadResult, error) {
	args := m.Called(ctx, localPath, kind)
	res, _ := args.Get(0).(*storage.UploadResult)
	return res, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, publicID string, kind storage.Kind) error {
	args := m.Called(ctx, publicID, kind)
	return args.Error(0)
}

func (m *mockStore) PlaybackURL(ctx context.Context, publicID string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, publicID, ttl)
	return args.String(0), args.Error(1)
}

type capturePublisher struct {
	events    []events.VideoEvent
	deadlines []bool
	err       error
}

func (c *capturePublisher) Publish(ctx context.Context, ev events.VideoEvent) error {
	_, ok := ctx.Deadline()
	c.events = append(c.events, ev)
	c.deadlines = append(c.deadlines, ok)
	return c.err
}

type failingRepo struct {
	*repository.InMemoryVideoRepo
	err error
}

func (f *failingRepo) Count(context.Context, models.VideoFilter) (int64, error) { return 0, f.err }
func (f *failingRepo) Create(context.Context, *models.Video) error               { return f.err }

type fixture struct {
	svc   *VideoService
	repo  *repository.InMemoryVideoRepo
	store *mockStore
	pub   *capturePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewInMemoryVideoRepo()
	store := &mockStore{}
	pub := &capturePublisher{}
	svc := NewVideoService(repo, store, pub, nil, Options{CallTimeout: time.Second, UploadTimeout: time.Second, MaxLimit: 50})
	t.Cleanup(func() { store.AssertExpectations(t) })
	return &fixture{svc: svc, repo: repo, store: store, pub: pub}
}

func (f *fixture) seed(t *testing.T, owner primitive.ObjectID, title string, views int64) *models.Video {
	t.Helper()
	v := &models.Video{
		Title:             title,
		Description:       "desc",
		VideoFile:         "https://cdn/videos/" + title,
		VideoFilePublicID: "videos/" + title,
		Thumbnail:         "https://cdn/thumbnails/" + title,
		ThumbnailPublicID: "thumbnails/" + title,
		Views:             views,
		Owner:             owner,
	}
	require.NoError(t, f.repo.Create(context.Background(), v))
	return v
}

func TestListVideos_PaginationMath(t *testing.T) {
	f := newFixture(t)
	owner := primitive.NewObjectID()
	for i := 0; i < 23; i++ {
		f.seed(t, owner, fmt.Sprintf("video-%02d", i), int64(i))
	}

	tests := []struct {
		name      string
		in        ListVideosInput
		wantPages int64
		wantLen   int
		wantLimit int64
		wantPage  int64
	}{
		{"defaults", ListVideosInput{}, 3, 10, 10, 1},
		{"last partial page", ListVideosInput{Page: 3, Limit: 10}, 3, 3, 10, 3},
		{"exact division", ListVideosInput{Page: 1, Limit: 23}, 1, 23, 23, 1},
		{"past the end", ListVideosInput{Page: 9, Limit: 5}, 5, 0, 5, 9},
		{"limit capped", ListVideosInput{Limit: 1000}, 1, 23, 50, 1},
		{"negative values fall back", ListVideosInput{Page: -2, Limit: -1}, 3, 10, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := f.svc.ListVideos(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, 200, env.StatusCode)
			p := env.Data.Pagination
			assert.Equal(t, int64(23), p.TotalVideos)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantPage, p.CurrentPage)
			assert.Len(t, env.Data.Videos, tt.wantLen)
			assert.LessOrEqual(t, int64(len(env.Data.Videos)), p.Limit)
		})
	}
}

func TestListVideos_QueryIsCaseInsensitiveSubstring(t *testing.T) {
	f := newFixture(t)
	owner := primitive.NewObjectID()
	f.seed(t, owner, "Cats 101", 1)
	f.seed(t, owner, "CATastrophe", 2)
	f.seed(t, owner, "Dogs", 3)

	env, err := f.svc.ListVideos(context.Background(), ListVideosInput{Query: "cat"})
	require.NoError(t, err)
	titles := []string{}
	for _, v := range env.Data.Videos {
		titles = append(titles, v.Title)
	}
	assert.ElementsMatch(t, []string{"Cats 101", "CATastrophe"}, titles)
	assert.Equal(t, int64(2), env.Data.Pagination.TotalVideos)
}

func TestListVideos_SortAndOwnerFilter(t *testing.T) {
	f := newFixture(t)
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
	f.seed(t, alice, "a", 5)
	f.seed(t, alice, "b", 50)
	f.seed(t, bob, "c", 500)

	env, err := f.svc.ListVideos(context.Background(), ListVideosInput{})
	require.NoError(t, err)
	require.Len(t, env.Data.Videos, 3)
	assert.Equal(t, "c", env.Data.Videos[0].Title, "default is views desc")

	env, err = f.svc.ListVideos(context.Background(), ListVideosInput{UserID: alice.Hex(), SortType: "asc"})
	require.NoError(t, err)
	require.Len(t, env.Data.Videos, 2)
	assert.Equal(t, "a", env.Data.Videos[0].Title)

	env, err = f.svc.ListVideos(context.Background(), ListVideosInput{UserID: "not-an-id"})
	require.NoError(t, err)
	assert.Len(t, env.Data.Videos, 3, "invalid userId is ignored")

	env, err = f.svc.ListVideos(context.Background(), ListVideosInput{SortBy: "$where", SortType: "asc"})
	require.NoError(t, err)
	assert.Equal(t, "a", env.Data.Videos[0].Title, "unknown sort field falls back to views")
}

func TestListVideos_PersistenceError(t *testing.T) {
	repo := &failingRepo{InMemoryVideoRepo: repository.NewInMemoryVideoRepo(), err: errors.New("connection reset")}
	svc := NewVideoService(repo, &mockStore{}, nil, nil, Options{})

	_, err := svc.ListVideos(context.Background(), ListVideosInput{})
	assert.ErrorIs(t, err, utils.ErrPersistence)
}

func TestPublishVideo_Validation(t *testing.T) {
	caller := AuthContext{UserID: primitive.NewObjectID()}
	files := UploadedFiles{VideoFilePath: "/tmp/v.mp4", ThumbnailPath: "/tmp/t.png"}
	tests := []struct {
		name string
		in   PublishVideoInput
	}{
		{"empty title", PublishVideoInput{Description: "d", Files: files}},
		{"blank title", PublishVideoInput{Title: "   ", Description: "d", Files: files}},
		{"empty description", PublishVideoInput{Title: "t", Files: files}},
		{"missing video", PublishVideoInput{Title: "t", Description: "d", Files: UploadedFiles{ThumbnailPath: "/tmp/t.png"}}},
		{"missing thumbnail", PublishVideoInput{Title: "t", Description: "d", Files: UploadedFiles{VideoFilePath: "/tmp/v.mp4"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.PublishVideo(context.Background(), caller, tt.in)
			assert.ErrorIs(t, err, utils.ErrValidation)
			f.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPublishVideo_Success(t *testing.T) {
	f := newFixture(t)
	caller := AuthContext{UserID: primitive.NewObjectID()}
	uploadVideo := f.store.On("Upload", mock.Anything, "/tmp/v.mp4", storage.KindVideo).
		Return(&storage.UploadResult{URL: "https://cdn/videos/1.mp4", PublicID: "videos/1.mp4"}, nil).Once()
	f.store.On("Upload", mock.Anything, "/tmp/t.png", storage.KindImage).
		Return(&storage.UploadResult{URL: "https://cdn/thumbnails/1.jpg", PublicID: "thumbnails/1.jpg"}, nil).Once().
		NotBefore(uploadVideo)

	env, err := f.svc.PublishVideo(context.Background(), caller, PublishVideoInput{
		Title:       " My cat ",
		Description: "a cat video",
		Files:       UploadedFiles{VideoFilePath: "/tmp/v.mp4", ThumbnailPath: "/tmp/t.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, 201, env.StatusCode)
	assert.True(t, env.Success)

	v := env.Data
	assert.Equal(t, "My cat", v.Title)
	assert.Equal(t, caller.UserID, v.Owner)
	assert.Zero(t, v.Duration, "duration defaults to 0 when the store omits it")
	assert.False(t, v.IsPublished)
	assert.Equal(t, "videos/1.mp4", v.VideoFilePublicID)

	stored, err := f.repo.FindByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/thumbnails/1.jpg", stored.Thumbnail)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.VideoPublished, f.pub.events[0].Type)
}

func TestPublishVideo_UploadFailureCreatesNothing(t *testing.T) {
	caller := AuthContext{UserID: primitive.NewObjectID()}
	in := PublishVideoInput{Title: "t", Description: "d", Files: UploadedFiles{VideoFilePath: "v.mp4", ThumbnailPath: "t.png"}}

	t.Run("video upload fails", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Upload", mock.Anything, "v.mp4", storage.KindVideo).Return(nil, errors.New("s3 down")).Once()

		_, err := f.svc.PublishVideo(context.Background(), caller, in)
		assert.ErrorIs(t, err, utils.ErrUpload)
		n, _ := f.repo.Count(context.Background(), models.VideoFilter{})
		assert.Zero(t, n)
	})

	t.Run("thumbnail upload fails", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Upload", mock.Anything, "v.mp4", storage.KindVideo).
			Return(&storage.UploadResult{URL: "u", PublicID: "videos/x.mp4", Duration: 3}, nil).Once()
		f.store.On("Upload", mock.Anything, "t.png", storage.KindImage).Return(nil, errors.New("bad image")).Once()

		_, err := f.svc.PublishVideo(context.Background(), caller, in)
		assert.ErrorIs(t, err, utils.ErrUpload)
		n, _ := f.repo.Count(context.Background(), models.VideoFilter{})
		assert.Zero(t, n)
		assert.Empty(t, f.pub.events)
	})
}

func TestPublishVideo_PersistenceFailure(t *testing.T) {
	store := &mockStore{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(&storage.UploadResult{URL: "u", PublicID: "p"}, nil).Twice()
	repo := &failingRepo{InMemoryVideoRepo: repository.NewInMemoryVideoRepo(), err: errors.New("write concern")}
	svc := NewVideoService(repo, store, nil, nil, Options{})

	_, err := svc.PublishVideo(context.Background(), AuthContext{UserID: primitive.NewObjectID()}, PublishVideoInput{
		Title: "t", Description: "d", Files: UploadedFiles{VideoFilePath: "v", ThumbnailPath: "t"},
	})
	assert.ErrorIs(t, err, utils.ErrPersistence)
	store.AssertExpectations(t)
}

func TestGetVideoByID(t *testing.T) {
	f := newFixture(t)
	owner := primitive.NewObjectID()
	f.repo.AddUser(models.OwnerSummary{ID: owner, FullName: "Jane Doe", Username: "jane", Avatar: "a.png"})
	v := f.seed(t, owner, "Cats 101", 1)

	_, err := f.svc.GetVideoByID(context.Background(), "123")
	assert.ErrorIs(t, err, utils.ErrInvalidID)

	_, err = f.svc.GetVideoByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, utils.ErrNotFound)

	env, err := f.svc.GetVideoByID(context.Background(), v.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Cats 101", env.Data.Title)
	require.NotNil(t, env.Data.Owner)
	assert.Equal(t, "jane", env.Data.Owner.Username)
	assert.Equal(t, "Jane Doe", env.Data.Owner.FullName)
	assert.Equal(t, "a.png", env.Data.Owner.Avatar)
}

func TestMutations_RequireOwner(t *testing.T) {
	f := newFixture(t)
	owner := primitive.NewObjectID()
	v := f.seed(t, owner, "mine", 1)
	stranger := AuthContext{UserID: primitive.NewObjectID()}
	ctx := context.Background()

	_, err := f.svc.UpdateVideo(ctx, stranger, v.ID.Hex(), UpdateVideoInput{Title: "hijacked"})
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = f.svc.DeleteVideo(ctx, stranger, v.ID.Hex())
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = f.svc.TogglePublishStatus(ctx, stranger, v.ID.Hex())
	assert.ErrorIs(t, err, utils.ErrForbidden)

	got, err := f.repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
	assert.False(t, got.IsPublished)
	f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestMutations_IDErrors(t *testing.T) {
	f := newFixture(t)
	caller := AuthContext{UserID: primitive.NewObjectID()}
	ctx := context.Background()
	missing := primitive.NewObjectID().Hex()

	_, err := f.svc.UpdateVideo(ctx, caller, "bad", UpdateVideoInput{})
	assert.ErrorIs(t, err, utils.ErrInvalidID)
	_, err = f.svc.UpdateVideo(ctx, caller, missing, UpdateVideoInput{})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.svc.DeleteVideo(ctx, caller, "bad")
	assert.ErrorIs(t, err, utils.ErrInvalidID)
	_, err = f.svc.DeleteVideo(ctx, caller, missing)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.svc.TogglePublishStatus(ctx, caller, "bad")
	assert.ErrorIs(t, err, utils.ErrInvalidID)
	_, err = f.svc.TogglePublishStatus(ctx, caller, missing)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdateVideo(t *testing.T) {
	ctx := context.Background()
	owner := AuthContext{UserID: primitive.NewObjectID()}

	t.Run("text fields only", func(t *testing.T) {
		f := newFixture(t)
		v := f.seed(t, owner.UserID, "old", 1)

		env, err := f.svc.UpdateVideo(ctx, owner, v.ID.Hex(), UpdateVideoInput{Title: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", env.Data.Title)
		assert.Equal(t, "desc", env.Data.Description, "empty description keeps the old one")
		assert.Equal(t, v.VideoFile, env.Data.VideoFile)
		require.Len(t, f.pub.events, 1)
		assert.Equal(t, events.VideoUpdated, f.pub.events[0].Type)
	})

	t.Run("replace media", func(t *testing.T) {
		f := newFixture(t)
		v := f.seed(t, owner.UserID, "clip", 1)
		f.store.On("Upload", mock.Anything, "new.png", storage.KindImage).
			Return(&storage.UploadResult{URL: "https://cdn/thumbnails/new.jpg", PublicID: "thumbnails/new.jpg"}, nil).Once()
		f.store.On("Upload", mock.Anything, "new.mp4", storage.KindVideo).
			Return(&storage.UploadResult{URL: "https://cdn/videos/new.mp4", PublicID: "videos/new.mp4", Duration: 42.5}, nil).Once()

		env, err := f.svc.UpdateVideo(ctx, owner, v.ID.Hex(), UpdateVideoInput{
			Files: UploadedFiles{VideoFilePath: "new.mp4", ThumbnailPath: "new.png"},
		})
		require.NoError(t, err)
		assert.Equal(t, "thumbnails/new.jpg", env.Data.ThumbnailPublicID)
		assert.Equal(t, "videos/new.mp4", env.Data.VideoFilePublicID)
		assert.Equal(t, 42.5, env.Data.Duration)
		assert.Equal(t, owner.UserID, env.Data.Owner)

		stored, err := f.repo.FindByID(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/videos/new.mp4", stored.VideoFile)
		f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("thumbnail upload failure leaves record untouched", func(t *testing.T) {
		f := newFixture(t)
		v := f.seed(t, owner.UserID, "clip", 1)
		f.store.On("Upload", mock.Anything, "new.png", storage.KindImage).Return(nil, errors.New("timeout")).Once()

		_, err := f.svc.UpdateVideo(ctx, owner, v.ID.Hex(), UpdateVideoInput{Title: "changed", Files: UploadedFiles{ThumbnailPath: "new.png"}})
		assert.ErrorIs(t, err, utils.ErrUpload)

		stored, err := f.repo.FindByID(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "clip", stored.Title)
		assert.Equal(t, v.ThumbnailPublicID, stored.ThumbnailPublicID)
	})
}

func TestDeleteVideo(t *testing.T) {
	ctx := context.Background()
	owner := AuthContext{UserID: primitive.NewObjectID()}

	t.Run("removes remote objects then record", func(t *testing.T) {
		f := newFixture(t)
		v := f.seed(t, owner.UserID, "clip", 1)
		delVideo := f.store.On("Delete", mock.Anything, "videos/clip", storage.KindVideo).Return(nil).Once()
		f.store.On("Delete", mock.Anything, "thumbnails/clip", storage.KindImage).Return(nil).Once().NotBefore(delVideo)

		env, err := f.svc.DeleteVideo(ctx, owner, v.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, 200, env.StatusCode)

		_, err = f.svc.GetVideoByID(ctx, v.ID.Hex())
		assert.ErrorIs(t, err, utils.ErrNotFound)
		require.Len(t, f.pub.events, 1)
		assert.Equal(t, events.VideoDeleted, f.pub.events[0].Type)
	})

	t.Run("skips absent keys", func(t *testing.T) {
		f := newFixture(t)
		v := &models.Video{Title: "legacy", VideoFile: "u", Thumbnail: "t", Owner: owner.UserID}
		require.NoError(t, f.repo.Create(ctx, v))

		_, err := f.svc.DeleteVideo(ctx, owner, v.ID.Hex())
		require.NoError(t, err)
		f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("remote failure keeps record", func(t *testing.T) {
		f := newFixture(t)
		v := f.seed(t, owner.UserID, "clip", 1)
		f.store.On("Delete", mock.Anything, "videos/clip", storage.KindVideo).Return(nil).Once()
		f.store.On("Delete", mock.Anything, "thumbnails/clip", storage.KindImage).Return(errors.New("403 from host")).Once()

		_, err := f.svc.DeleteVideo(ctx, owner, v.ID.Hex())
		assert.ErrorIs(t, err, utils.ErrUpload)

		_, err = f.repo.FindByID(ctx, v.ID)
		assert.NoError(t, err)
		assert.Empty(t, f.pub.events)
	})
}

func TestTogglePublishStatus_TwiceRestores(t *testing.T) {
	f := newFixture(t)
	owner := AuthContext{UserID: primitive.NewObjectID()}
	v := f.seed(t, owner.UserID, "clip", 1)
	ctx := context.Background()

	env, err := f.svc.TogglePublishStatus(ctx, owner, v.ID.Hex())
	require.NoError(t, err)
	assert.True(t, env.Data.IsPublished)
	assert.Equal(t, v.ID, env.Data.ID)

	env, err = f.svc.TogglePublishStatus(ctx, owner, v.ID.Hex())
	require.NoError(t, err)
	assert.False(t, env.Data.IsPublished)

	stored, err := f.repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPublished)
	assert.Len(t, f.pub.events, 2)
}

func TestEventFailureIsNotSurfaced(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker unavailable")
	owner := AuthContext{UserID: primitive.NewObjectID()}
	v := f.seed(t, owner.UserID, "clip", 1)

	_, err := f.svc.TogglePublishStatus(context.Background(), owner, v.ID.Hex())
	assert.NoError(t, err)
}

func TestGetPlaybackURL(t *testing.T) {
	f := newFixture(t)
	v := f.seed(t, primitive.NewObjectID(), "clip", 1)
	f.store.On("PlaybackURL", mock.Anything, "videos/clip", 10*time.Minute).Return("https://signed/clip", nil).Once()

	env, err := f.svc.GetPlaybackURL(context.Background(), v.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "https://signed/clip", env.Data.URL)
	assert.Equal(t, int64(600), env.Data.ExpiresIn)

	_, err = f.svc.GetPlaybackURL(context.Background(), "zzz")
	assert.ErrorIs(t, err, utils.ErrInvalidID)
}

func TestPublishVideo_InvalidMediaIsValidation(t *testing.T) {
	f := newFixture(t)
	f.store.On("Upload", mock.Anything, "v.mp4", storage.KindVideo).
		Return(&storage.UploadResult{URL: "u", PublicID: "videos/x.mp4"}, nil).Once()
	f.store.On("Upload", mock.Anything, "t.png", storage.KindImage).
		Return(nil, fmt.Errorf("decode thumbnail: %w", storage.ErrInvalidMedia)).Once()

	_, err := f.svc.PublishVideo(context.Background(), AuthContext{UserID: primitive.NewObjectID()}, PublishVideoInput{
		Title: "t", Description: "d", Files: UploadedFiles{VideoFilePath: "v.mp4", ThumbnailPath: "t.png"},
	})
	require.ErrorIs(t, err, utils.ErrValidation)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestUpdateVideo_LogsOrphanedThumbnail(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := repository.NewInMemoryVideoRepo()
	store := &mockStore{}
	svc := NewVideoService(repo, store, nil, zap.New(core).Sugar(), Options{})
	owner := AuthContext{UserID: primitive.NewObjectID()}
	v := &models.Video{Title: "clip", Description: "d", Owner: owner.UserID}
	require.NoError(t, repo.Create(context.Background(), v))

	store.On("Upload", mock.Anything, "new.png", storage.KindImage).
		Return(&storage.UploadResult{URL: "u", PublicID: "thumbnails/new.jpg"}, nil).Once()
	store.On("Upload", mock.Anything, "new.mp4", storage.KindVideo).Return(nil, errors.New("s3 down")).Once()

	_, err := svc.UpdateVideo(context.Background(), owner, v.ID.Hex(), UpdateVideoInput{
		Files: UploadedFiles{VideoFilePath: "new.mp4", ThumbnailPath: "new.png"},
	})
	require.ErrorIs(t, err, utils.ErrUpload)
	store.AssertExpectations(t)

	orphaned := logs.FilterMessage("orphaned media object").All()
	require.Len(t, orphaned, 1)
	assert.Equal(t, "thumbnails/new.jpg", orphaned[0].ContextMap()["publicId"])
}

func TestGetPlaybackURL_NoVideoFile(t *testing.T) {
	f := newFixture(t)
	v := &models.Video{Title: "legacy", Owner: primitive.NewObjectID()}
	require.NoError(t, f.repo.Create(context.Background(), v))

	_, err := f.svc.GetPlaybackURL(context.Background(), v.ID.Hex())
	assert.ErrorIs(t, err, utils.ErrNotFound)
	f.store.AssertNotCalled(t, "PlaybackURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestEventsPublishUnderCallTimeout(t *testing.T) {
	f := newFixture(t)
	owner := AuthContext{UserID: primitive.NewObjectID()}
	v := f.seed(t, owner.UserID, "clip", 1)

	_, err := f.svc.TogglePublishStatus(context.Background(), owner, v.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, []bool{true}, f.pub.deadlines)
}
