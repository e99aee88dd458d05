package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerStore fails fast while the wrapped store keeps erroring.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

type BreakerOptions struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func NewBreakerStore(next Store, opts BreakerOptions, logger *zap.SugaredLogger) *BreakerStore {
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	st := gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= opts.FailureThreshold
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warnw("media store breaker state change", "name", name, "from", from.String(), "to", to.String())
			}
		},
	}
	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

// countsAsHealthy keeps caller-caused errors (bad content, abandoned
// requests) from tripping the breaker for everyone else.
func countsAsHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, ErrInvalidMedia) ||
		errors.Is(err, context.Canceled)
}

func (b *BreakerStore) Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Upload(ctx, localPath, kind)
	})
	if err != nil {
		return nil, err
	}
	return out.(*UploadResult), nil
}

func (b *BreakerStore) Delete(ctx context.Context, publicID string, kind Kind) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, publicID, kind)
	})
	return err
}

func (b *BreakerStore) PlaybackURL(ctx context.Context, publicID string, ttl time.Duration) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.PlaybackURL(ctx, publicID, ttl)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
