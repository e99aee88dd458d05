package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type S3Options struct {
	Region        string
	Bucket        string
	Endpoint      string // custom endpoint (MinIO, R2); path-style addressing is used when set
	PublicBaseURL string // CDN or bucket website origin; overrides the derived URL
	PublicRead    bool
}

type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	presign  *s3.PresignClient
	opts     S3Options
	prober   DurationProber
	logger   *zap.SugaredLogger
}

func NewS3Store(ctx context.Context, opts S3Options, prober DurationProber, logger *zap.SugaredLogger) (*S3Store, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		presign:  s3.NewPresignClient(client),
		opts:     opts,
		prober:   prober,
		logger:   logger,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error) {
	key := newKey(localPath, kind)
	res := &UploadResult{PublicID: key}

	var body io.Reader
	switch kind {
	case KindImage:
		data, err := normalizeThumbnail(localPath)
		if err != nil {
			return nil, fmt.Errorf("decode thumbnail: %w", err)
		}
		body = bytes.NewReader(data)
	default:
		f, err := os.Open(localPath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", localPath, err)
		}
		defer f.Close()
		body = f
		if s.prober != nil {
			d, err := s.prober.Duration(ctx, localPath)
			if err != nil {
				s.logger.Warnw("duration probe failed", "path", localPath, "err", err)
			}
			res.Duration = d
		}
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentTypeFor(key, kind)),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload %s: %w", key, err)
	}
	res.URL = s.objectURL(key)
	return res, nil
}

// Delete removes an object. S3 reports success for keys that do not exist.
func (s *S3Store) Delete(ctx context.Context, publicID string, _ Kind) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", publicID, err)
	}
	return nil
}

// PlaybackURL returns the public URL when the bucket is public-read,
// a presigned GET otherwise.
func (s *S3Store) PlaybackURL(ctx context.Context, publicID string, ttl time.Duration) (string, error) {
	if s.opts.PublicRead {
		return s.objectURL(publicID), nil
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(publicID),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", publicID, err)
	}
	return req.URL, nil
}

func (s *S3Store) objectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	switch {
	case s.opts.PublicBaseURL != "":
		return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + escaped
	case s.opts.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.opts.Endpoint, "/"), s.opts.Bucket, escaped)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, escaped)
	}
}
